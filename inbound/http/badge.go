package http

import (
	"context"
	"eventdesk/common"
	"eventdesk/common/constant"
	"eventdesk/common/contract"
	"eventdesk/common/otel"
	"eventdesk/core/badge"
	"eventdesk/core/dialog"
	"eventdesk/core/form"
	"eventdesk/model"
	"eventdesk/outbound/backend"
	"eventdesk/outbound/query"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type BadgeHttp struct {
	Backend   *backend.Client
	Store     *query.Store
	Publisher contract.Publisher
	Validate  *validator.Validate
}

func RegisterBadgeHttp(
	mux *http.ServeMux,
	client *backend.Client,
	store *query.Store,
	publisher contract.Publisher,
	validate *validator.Validate,
) *BadgeHttp {
	in := &BadgeHttp{
		Backend:   client,
		Store:     store,
		Publisher: publisher,
		Validate:  validate,
	}

	mux.HandleFunc("GET /api/badge-placeholders", in.placeholders)
	mux.HandleFunc("POST /api/badges/transform", in.transform)
	mux.HandleFunc("GET /api/forms/{id}/badge-mappings", in.mappings)
	mux.HandleFunc("PUT /api/forms/{id}/badge-mappings", in.saveMappings)
	mux.HandleFunc("GET /api/forms/{id}/submissions/{submission_id}/badge", in.render)

	return in
}

func (in BadgeHttp) placeholders(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "BadgeHttp.placeholders")
	defer span.End()

	result, err := query.Fetch(ctx, in.Store, query.NewKey(constant.QueryBadgePlaceholders, nil), in.Backend.ListBadgePlaceholders)
	if err != nil {
		fail(ctx, span, w, "failed to list badge placeholders", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, result)
}

// currentMappings returns the saved mappings, or one default token per field
// when the form has none yet.
func (in BadgeHttp) currentMappings(ctx context.Context, formID model.ID) (model.Form, []model.BadgeFieldMapping, error) {
	f, err := in.Backend.GetForm(ctx, formID)
	if err != nil {
		return model.Form{}, nil, err
	}
	f.Fields = form.Ordered(f.Fields)

	key := query.NewKey(constant.QueryBadgeMappings, cacheParams("form_id", formID.String()))
	mappings, err := query.Fetch(ctx, in.Store, key, func(ctx context.Context) ([]model.BadgeFieldMapping, error) {
		return in.Backend.ListBadgeMappings(ctx, formID)
	})
	if err != nil {
		return model.Form{}, nil, err
	}

	if len(mappings) == 0 {
		return f, form.DefaultMappings(f.Fields), nil
	}
	return f, form.NormalizeMappings(f.Fields, mappings), nil
}

func (in BadgeHttp) mappings(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "BadgeHttp.mappings")
	defer span.End()

	formID, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	_, mappings, err := in.currentMappings(ctx, formID)
	if err != nil {
		fail(ctx, span, w, "failed to list badge mappings", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, mappings)
}

func (in BadgeHttp) saveMappings(w http.ResponseWriter, r *http.Request) {
	formID, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.BadgeMappingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "BadgeHttp.saveMappings")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "save badge mappings receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	f, err := in.Backend.GetForm(ctx, formID)
	if err != nil {
		fail(ctx, span, w, "failed to get form for badge mappings", err)
		return
	}

	req.Mappings = form.NormalizeMappings(f.Fields, req.Mappings)
	validate := validatorFor(in.Validate, func(req model.BadgeMappingRequest) error {
		return form.ValidateMappings(f.Fields, req.Mappings)
	})

	saved, err := dialog.Run(ctx, req, validate, func(ctx context.Context, req model.BadgeMappingRequest) ([]model.BadgeFieldMapping, error) {
		return in.Backend.SaveBadgeMappings(ctx, formID, req.Mappings)
	})
	if err != nil {
		fail(ctx, span, w, "failed to save badge mappings", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityBadgeMapping,
		Action:   constant.AuditActionUpdate,
		EntityID: formID,
		Payload:  req.Mappings,
	}, constant.QueryBadgeMappings)

	writeJSONResponse(w, http.StatusOK, saved)
}

func (in BadgeHttp) render(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "BadgeHttp.render")
	defer span.End()

	formID, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	submissionID, err := pathID(r, "submission_id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	_, mappings, err := in.currentMappings(ctx, formID)
	if err != nil {
		fail(ctx, span, w, "failed to load badge mappings", err)
		return
	}

	submission, err := in.Backend.GetSubmission(ctx, formID, submissionID)
	if err != nil {
		fail(ctx, span, w, "failed to get submission for badge", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.BadgePreviewResponse{
		SubmissionID: submission.ID,
		Values:       form.RenderBadge(mappings, submission),
	})
}

func (in BadgeHttp) transform(w http.ResponseWriter, r *http.Request) {
	var req model.BadgeTransformRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	if err := validateStruct(in.Validate, req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, badge.Apply(req.Canvas, req.Element, req.Patch))
}
