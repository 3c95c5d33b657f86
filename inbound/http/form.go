package http

import (
	"context"
	"eventdesk/common"
	"eventdesk/common/constant"
	"eventdesk/common/contract"
	"eventdesk/common/otel"
	"eventdesk/core/dialog"
	"eventdesk/core/form"
	"eventdesk/model"
	"eventdesk/outbound/backend"
	"eventdesk/outbound/query"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type FormHttp struct {
	Backend   *backend.Client
	Store     *query.Store
	Publisher contract.Publisher
	Validate  *validator.Validate
}

func RegisterFormHttp(
	mux *http.ServeMux,
	client *backend.Client,
	store *query.Store,
	publisher contract.Publisher,
	validate *validator.Validate,
) *FormHttp {
	in := &FormHttp{
		Backend:   client,
		Store:     store,
		Publisher: publisher,
		Validate:  validate,
	}

	mux.HandleFunc("GET /api/form-fields/palette", in.palette)
	mux.HandleFunc("GET /api/forms", in.list)
	mux.HandleFunc("POST /api/forms", in.create)
	mux.HandleFunc("GET /api/forms/{id}", in.get)
	mux.HandleFunc("PUT /api/forms/{id}", in.update)
	mux.HandleFunc("DELETE /api/forms/{id}", in.delete)
	mux.HandleFunc("POST /api/forms/{id}/preview", in.preview)
	mux.HandleFunc("POST /api/forms/{id}/fields", in.createField)
	mux.HandleFunc("POST /api/forms/{id}/fields/reorder", in.reorderFields)
	mux.HandleFunc("PUT /api/forms/{id}/fields/{field_id}", in.updateField)
	mux.HandleFunc("DELETE /api/forms/{id}/fields/{field_id}", in.deleteField)

	return in
}

func (in FormHttp) palette(w http.ResponseWriter, r *http.Request) {
	items, err := form.Palette()
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load field palette", slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, items)
}

func (in FormHttp) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "FormHttp.list")
	defer span.End()

	values := r.URL.Query()
	q := model.FormQuery{
		ListQuery: listQuery(r),
		EventID:   queryID(values, "event_id"),
		Status:    values.Get("status"),
	}

	key := query.NewKey(constant.QueryForms, listParams(q.ListQuery, "event_id", q.EventID.String(), "status", q.Status))
	result, err := query.Fetch(ctx, in.Store, key, func(ctx context.Context) (model.Page[model.Form], error) {
		return in.Backend.ListForms(ctx, q)
	})
	if err != nil {
		fail(ctx, span, w, "failed to list forms", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, result)
}

// loadForm returns the form with its fields in display order.
func (in FormHttp) loadForm(ctx context.Context, id model.ID) (model.Form, error) {
	f, err := in.Backend.GetForm(ctx, id)
	if err != nil {
		return model.Form{}, err
	}
	f.Fields = form.Ordered(f.Fields)
	return f, nil
}

func (in FormHttp) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "FormHttp.get")
	defer span.End()

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	f, err := in.loadForm(ctx, id)
	if err != nil {
		fail(ctx, span, w, "failed to get form", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, f)
}

func (in FormHttp) create(w http.ResponseWriter, r *http.Request) {
	var req model.FormRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "FormHttp.create")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "create form receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	if req.Status == "" {
		req.Status = model.FormStatusDraft
	}

	created, err := dialog.Run(ctx, req, validatorFor[model.FormRequest](in.Validate), in.Backend.CreateForm)
	if err != nil {
		fail(ctx, span, w, "failed to create form", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityForm,
		Action:   constant.AuditActionCreate,
		EntityID: created.ID,
		Payload:  req,
	}, constant.QueryForms)

	writeJSONResponse(w, http.StatusCreated, created)
}

func (in FormHttp) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.FormRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "FormHttp.update")
	defer span.End()

	updated, err := dialog.Run(ctx, req, validatorFor[model.FormRequest](in.Validate),
		func(ctx context.Context, req model.FormRequest) (model.Form, error) {
			return in.Backend.UpdateForm(ctx, id, req)
		})
	if err != nil {
		fail(ctx, span, w, "failed to update form", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityForm,
		Action:   constant.AuditActionUpdate,
		EntityID: id,
		Payload:  req,
	}, constant.QueryForms)

	writeJSONResponse(w, http.StatusOK, updated)
}

func (in FormHttp) delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "FormHttp.delete")
	defer span.End()

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	_, err = dialog.Run(ctx, id, nil, func(ctx context.Context, id model.ID) (struct{}, error) {
		return struct{}{}, in.Backend.DeleteForm(ctx, id)
	})
	if err != nil {
		fail(ctx, span, w, "failed to delete form", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityForm,
		Action:   constant.AuditActionDelete,
		EntityID: id,
	}, constant.QueryForms, constant.QuerySubmissions, constant.QueryBadgeMappings)

	w.WriteHeader(http.StatusNoContent)
}

func (in FormHttp) preview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.FormPreviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "FormHttp.preview")
	defer span.End()

	f, err := in.loadForm(ctx, id)
	if err != nil {
		fail(ctx, span, w, "failed to get form for preview", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, form.Preview(f, req.Values))
}

// saveField runs the field editor rules against the current fields of the
// form before the single upstream write.
func (in FormHttp) saveField(
	ctx context.Context,
	formID, fieldID model.ID,
	req model.FormFieldRequest,
	save func(context.Context, model.FormFieldRequest) (model.FormField, error),
) (model.FormField, error) {
	current, err := in.loadForm(ctx, formID)
	if err != nil {
		return model.FormField{}, err
	}

	req = form.NormalizeField(req, current.Fields, fieldID)

	validate := validatorFor(in.Validate, func(req model.FormFieldRequest) error {
		return form.ValidateField(req, current.Fields, fieldID)
	})

	return dialog.Run(ctx, req, validate, save)
}

func (in FormHttp) createField(w http.ResponseWriter, r *http.Request) {
	formID, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.FormFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "FormHttp.createField")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "create form field receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	created, err := in.saveField(ctx, formID, 0, req, func(ctx context.Context, req model.FormFieldRequest) (model.FormField, error) {
		return in.Backend.CreateField(ctx, formID, req)
	})
	if err != nil {
		fail(ctx, span, w, "failed to create form field", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityFormField,
		Action:   constant.AuditActionCreate,
		EntityID: created.ID,
		Payload:  created,
	}, constant.QueryForms, constant.QueryBadgeMappings)

	writeJSONResponse(w, http.StatusCreated, created)
}

func (in FormHttp) updateField(w http.ResponseWriter, r *http.Request) {
	formID, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	fieldID, err := pathID(r, "field_id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.FormFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "FormHttp.updateField")
	defer span.End()

	updated, err := in.saveField(ctx, formID, fieldID, req, func(ctx context.Context, req model.FormFieldRequest) (model.FormField, error) {
		return in.Backend.UpdateField(ctx, formID, fieldID, req)
	})
	if err != nil {
		fail(ctx, span, w, "failed to update form field", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityFormField,
		Action:   constant.AuditActionUpdate,
		EntityID: fieldID,
		Payload:  updated,
	}, constant.QueryForms, constant.QueryBadgeMappings)

	writeJSONResponse(w, http.StatusOK, updated)
}

func (in FormHttp) deleteField(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "FormHttp.deleteField")
	defer span.End()

	formID, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	fieldID, err := pathID(r, "field_id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	_, err = dialog.Run(ctx, fieldID, nil, func(ctx context.Context, fieldID model.ID) (struct{}, error) {
		return struct{}{}, in.Backend.DeleteField(ctx, formID, fieldID)
	})
	if err != nil {
		fail(ctx, span, w, "failed to delete form field", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityFormField,
		Action:   constant.AuditActionDelete,
		EntityID: fieldID,
	}, constant.QueryForms, constant.QueryBadgeMappings)

	w.WriteHeader(http.StatusNoContent)
}

func (in FormHttp) reorderFields(w http.ResponseWriter, r *http.Request) {
	formID, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.ReorderFieldsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "FormHttp.reorderFields")
	defer span.End()

	current, err := in.loadForm(ctx, formID)
	if err != nil {
		fail(ctx, span, w, "failed to get form for reorder", err)
		return
	}

	var reordered []model.FormField
	validate := validatorFor(in.Validate, func(req model.ReorderFieldsRequest) error {
		fields, err := form.Reorder(current.Fields, req.FieldIDs)
		reordered = fields
		return err
	})

	_, err = dialog.Run(ctx, req, validate, func(ctx context.Context, req model.ReorderFieldsRequest) (struct{}, error) {
		return struct{}{}, in.Backend.ReorderFields(ctx, formID, req.FieldIDs)
	})
	if err != nil {
		fail(ctx, span, w, "failed to reorder form fields", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityForm,
		Action:   constant.AuditActionReorder,
		EntityID: formID,
		Payload:  req,
	}, constant.QueryForms)

	writeJSONResponse(w, http.StatusOK, reordered)
}
