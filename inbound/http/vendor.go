package http

import (
	"context"
	"eventdesk/common"
	"eventdesk/common/constant"
	"eventdesk/common/contract"
	"eventdesk/common/otel"
	"eventdesk/core/dialog"
	"eventdesk/core/vendor"
	"eventdesk/model"
	"eventdesk/outbound/backend"
	"eventdesk/outbound/query"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type VendorHttp struct {
	Backend   *backend.Client
	Store     *query.Store
	Publisher contract.Publisher
	Validate  *validator.Validate
}

func RegisterVendorHttp(
	mux *http.ServeMux,
	client *backend.Client,
	store *query.Store,
	publisher contract.Publisher,
	validate *validator.Validate,
) *VendorHttp {
	in := &VendorHttp{
		Backend:   client,
		Store:     store,
		Publisher: publisher,
		Validate:  validate,
	}

	mux.HandleFunc("GET /api/vendors", in.list)
	mux.HandleFunc("POST /api/vendors", in.create)
	mux.HandleFunc("GET /api/vendors/{id}", in.get)
	mux.HandleFunc("PUT /api/vendors/{id}", in.update)
	mux.HandleFunc("PATCH /api/vendors/{id}/status", in.updateStatus)
	mux.HandleFunc("DELETE /api/vendors/{id}", in.delete)
	mux.HandleFunc("GET /api/vendors/{id}/quotations", in.quotations)
	mux.HandleFunc("POST /api/quotations/{id}/approve", in.approveQuotation)
	mux.HandleFunc("POST /api/quotations/{id}/reject", in.rejectQuotation)

	return in
}

func fetchVendors(ctx context.Context, store *query.Store, client *backend.Client) ([]model.Vendor, error) {
	return query.Fetch(ctx, store, query.NewKey(constant.QueryVendors, nil), func(ctx context.Context) ([]model.Vendor, error) {
		return client.ListAllVendors(ctx, model.VendorQuery{})
	})
}

func (in VendorHttp) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "VendorHttp.list")
	defer span.End()

	q := listQuery(r)

	all, err := fetchVendors(ctx, in.Store, in.Backend)
	if err != nil {
		fail(ctx, span, w, "failed to list vendors", err)
		return
	}

	filtered := vendor.Filter(all, vendor.Criteria{Status: r.URL.Query().Get("status"), Search: q.Search})
	page, pagination := paginate(filtered, q)

	writeJSONResponse(w, http.StatusOK, model.VendorListResponse{
		Vendors:       page,
		CountByStatus: vendor.CountByStatus(all),
		Pagination:    pagination,
	})
}

func (in VendorHttp) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "VendorHttp.get")
	defer span.End()

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	item, err := in.Backend.GetVendor(ctx, id)
	if err != nil {
		fail(ctx, span, w, "failed to get vendor", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, item)
}

func (in VendorHttp) create(w http.ResponseWriter, r *http.Request) {
	var req model.VendorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "VendorHttp.create")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "create vendor receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	created, err := dialog.Run(ctx, vendor.NormalizeRequest(req), validatorFor[model.VendorRequest](in.Validate), in.Backend.CreateVendor)
	if err != nil {
		fail(ctx, span, w, "failed to create vendor", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityVendor,
		Action:   constant.AuditActionCreate,
		EntityID: created.ID,
		Payload:  created,
	}, constant.QueryVendors)

	writeJSONResponse(w, http.StatusCreated, created)
}

func (in VendorHttp) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.VendorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "VendorHttp.update")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "update vendor receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	updated, err := dialog.Run(ctx, vendor.NormalizeRequest(req), validatorFor[model.VendorRequest](in.Validate),
		func(ctx context.Context, req model.VendorRequest) (model.Vendor, error) {
			return in.Backend.UpdateVendor(ctx, id, req)
		})
	if err != nil {
		fail(ctx, span, w, "failed to update vendor", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityVendor,
		Action:   constant.AuditActionUpdate,
		EntityID: id,
		Payload:  updated,
	}, constant.QueryVendors)

	writeJSONResponse(w, http.StatusOK, updated)
}

func (in VendorHttp) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.VendorStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "VendorHttp.updateStatus")
	defer span.End()

	updated, err := dialog.Run(ctx, req, validatorFor[model.VendorStatusRequest](in.Validate),
		func(ctx context.Context, req model.VendorStatusRequest) (model.Vendor, error) {
			return in.Backend.UpdateVendorStatus(ctx, id, req)
		})
	if err != nil {
		fail(ctx, span, w, "failed to update vendor status", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityVendor,
		Action:   constant.AuditActionStatus,
		EntityID: id,
		Payload:  req,
	}, constant.QueryVendors)

	writeJSONResponse(w, http.StatusOK, updated)
}

func (in VendorHttp) delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "VendorHttp.delete")
	defer span.End()

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	_, err = dialog.Run(ctx, id, nil, func(ctx context.Context, id model.ID) (struct{}, error) {
		return struct{}{}, in.Backend.DeleteVendor(ctx, id)
	})
	if err != nil {
		fail(ctx, span, w, "failed to delete vendor", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityVendor,
		Action:   constant.AuditActionDelete,
		EntityID: id,
	}, constant.QueryVendors, constant.QueryQuotations, constant.QueryPayments)

	w.WriteHeader(http.StatusNoContent)
}

func (in VendorHttp) quotations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "VendorHttp.quotations")
	defer span.End()

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	q := listQuery(r)
	key := query.NewKey(constant.QueryQuotations, listParams(q, "vendor_id", id.String()))
	result, err := query.Fetch(ctx, in.Store, key, func(ctx context.Context) (model.Page[model.Quotation], error) {
		return in.Backend.ListQuotations(ctx, id, q)
	})
	if err != nil {
		fail(ctx, span, w, "failed to list quotations", err)
		return
	}

	quotations := make([]model.Quotation, len(result.Data))
	for i, quotation := range result.Data {
		quotation.Amount = model.Number(vendor.QuotationTotal(quotation))
		quotations[i] = quotation
	}

	writeJSONResponse(w, http.StatusOK, model.QuotationListResponse{Quotations: quotations, Pagination: result.Pagination})
}

func (in VendorHttp) approveQuotation(w http.ResponseWriter, r *http.Request) {
	in.decideQuotation(w, r, constant.AuditActionApprove, in.Backend.ApproveQuotation)
}

func (in VendorHttp) rejectQuotation(w http.ResponseWriter, r *http.Request) {
	in.decideQuotation(w, r, constant.AuditActionReject, in.Backend.RejectQuotation)
}

func (in VendorHttp) decideQuotation(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	decide func(context.Context, model.ID, model.QuotationDecisionRequest) (model.Quotation, error),
) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.QuotationDecisionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeErrorResponse(w, err)
			return
		}
	}

	ctx, span := otel.Tracer.Start(r.Context(), "VendorHttp.decideQuotation")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "quotation decision receive request", slog.String("action", action), slog.String("quotation_id", id.String()), traceIdAttr)

	decided, err := dialog.Run(ctx, req, validatorFor[model.QuotationDecisionRequest](in.Validate),
		func(ctx context.Context, req model.QuotationDecisionRequest) (model.Quotation, error) {
			current, err := in.Backend.GetQuotation(ctx, id)
			if err != nil {
				return model.Quotation{}, err
			}
			if err := vendor.CanDecide(current); err != nil {
				return model.Quotation{}, err
			}
			return decide(ctx, id, req)
		})
	if err != nil {
		fail(ctx, span, w, "failed to decide quotation", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityQuotation,
		Action:   action,
		EntityID: id,
		Payload:  req,
	}, constant.QueryQuotations, constant.QueryPayments)

	decided.Amount = model.Number(vendor.QuotationTotal(decided))
	writeJSONResponse(w, http.StatusOK, decided)
}
