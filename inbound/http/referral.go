package http

import (
	"context"
	"eventdesk/common"
	"eventdesk/common/constant"
	"eventdesk/common/contract"
	"eventdesk/common/otel"
	"eventdesk/common/vars"
	"eventdesk/core/dialog"
	"eventdesk/core/referral"
	"eventdesk/model"
	"eventdesk/outbound/backend"
	"eventdesk/outbound/query"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"golang.org/x/text/message"
)

type ReferralHttp struct {
	Backend   *backend.Client
	Store     *query.Store
	Publisher contract.Publisher
	Validate  *validator.Validate
	Printer   *message.Printer

	TimeNow func() time.Time

	baseURL string
}

func RegisterReferralHttp(
	mux *http.ServeMux,
	cfg *viper.Viper,
	client *backend.Client,
	store *query.Store,
	publisher contract.Publisher,
	validate *validator.Validate,
	printer *message.Printer,
) *ReferralHttp {
	in := &ReferralHttp{
		Backend:   client,
		Store:     store,
		Publisher: publisher,
		Validate:  validate,
		Printer:   printer,
		TimeNow:   time.Now,

		baseURL: cfg.GetString("referral.base_url"),
	}

	mux.HandleFunc("GET /api/vendor-referrals", in.list)
	mux.HandleFunc("GET /api/vendor-referrals/statistics", in.statistics)
	mux.HandleFunc("POST /api/vendor-referrals", in.create)
	mux.HandleFunc("POST /api/vendor-referrals/commission-preview", in.commissionPreview)
	mux.HandleFunc("GET /api/vendor-referrals/{id}", in.get)
	mux.HandleFunc("PUT /api/vendor-referrals/{id}", in.update)
	mux.HandleFunc("DELETE /api/vendor-referrals/{id}", in.delete)
	mux.HandleFunc("GET /api/vendor-referrals/{id}/analytics", in.analytics)
	mux.HandleFunc("GET /api/vendor-referrals/{id}/share-links", in.shareLinks)
	mux.HandleFunc("POST /api/vendor-referrals/{id}/share", in.share)

	return in
}

func fetchReferrals(ctx context.Context, store *query.Store, client *backend.Client, vendorID, eventID model.ID) ([]model.VendorReferral, error) {
	key := query.NewKey(constant.QueryVendorReferrals, cacheParams("vendor_id", vendorID.String(), "event_id", eventID.String()))
	return query.Fetch(ctx, store, key, func(ctx context.Context) ([]model.VendorReferral, error) {
		return client.ListAllVendorReferrals(ctx, model.VendorReferralQuery{VendorID: vendorID, EventID: eventID})
	})
}

func (in ReferralHttp) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "ReferralHttp.list")
	defer span.End()

	values := r.URL.Query()
	q := listQuery(r)

	all, err := fetchReferrals(ctx, in.Store, in.Backend, queryID(values, "vendor_id"), queryID(values, "event_id"))
	if err != nil {
		fail(ctx, span, w, "failed to list vendor referrals", err)
		return
	}

	filtered := referral.Filter(all, referral.Criteria{
		Status:   values.Get("status"),
		Campaign: values.Get("campaign"),
		Search:   q.Search,
	})
	filtered = referral.WithUsability(filtered, in.TimeNow())

	statistics := referral.Summarize(all)
	if top := statistics.TopPerformingCampaign; top != nil {
		top.CanBeUsed = referral.CanBeUsed(*top, in.TimeNow())
	}

	page, pagination := paginate(filtered, q)

	writeJSONResponse(w, http.StatusOK, model.VendorReferralListResponse{
		Referrals:  page,
		Statistics: statistics,
		Campaigns:  referral.CampaignNames(all),
		Pagination: pagination,
	})
}

// statistics serves the snapshot kept by the stats cron and falls back to a
// live computation before its first run.
func (in ReferralHttp) statistics(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "ReferralHttp.statistics")
	defer span.End()

	if snapshot := vars.GetReferralSnapshot(); snapshot != nil {
		writeJSONResponse(w, http.StatusOK, snapshot)
		return
	}

	all, err := fetchReferrals(ctx, in.Store, in.Backend, 0, 0)
	if err != nil {
		fail(ctx, span, w, "failed to compute referral statistics", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, vars.ReferralSnapshot{
		Statistics:  referral.Summarize(all),
		Campaigns:   referral.CampaignNames(all),
		RefreshedAt: in.TimeNow(),
	})
}

func (in ReferralHttp) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "ReferralHttp.get")
	defer span.End()

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	item, err := in.Backend.GetVendorReferral(ctx, id)
	if err != nil {
		fail(ctx, span, w, "failed to get vendor referral", err)
		return
	}

	item.CanBeUsed = referral.CanBeUsed(item, in.TimeNow())
	writeJSONResponse(w, http.StatusOK, item)
}

func (in ReferralHttp) validateRequest() func(model.VendorReferralRequest) error {
	return validatorFor(in.Validate, referral.ValidateRequest)
}

func (in ReferralHttp) create(w http.ResponseWriter, r *http.Request) {
	var req model.VendorReferralRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "ReferralHttp.create")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "create vendor referral receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	req = referral.NormalizeRequest(req)

	created, err := dialog.Run(ctx, req, in.validateRequest(), func(ctx context.Context, req model.VendorReferralRequest) (model.VendorReferral, error) {
		code := req.ReferralCode
		if code == "" {
			code = referral.GenerateCode(req.CampaignName)
		}
		link := referral.BuildLink(in.baseURL, req.EventID, code)

		return in.Backend.CreateVendorReferral(ctx, referral.BuildPayload(req, code, link))
	})
	if err != nil {
		fail(ctx, span, w, "failed to create vendor referral", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityReferral,
		Action:   constant.AuditActionCreate,
		EntityID: created.ID,
		Payload:  created,
	}, constant.QueryVendorReferrals, constant.QueryReferralAnalytics)

	created.CanBeUsed = referral.CanBeUsed(created, in.TimeNow())
	writeJSONResponse(w, http.StatusCreated, created)
}

func (in ReferralHttp) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.VendorReferralRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "ReferralHttp.update")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "update vendor referral receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	req = referral.NormalizeRequest(req)

	updated, err := dialog.Run(ctx, req, in.validateRequest(), func(ctx context.Context, req model.VendorReferralRequest) (model.VendorReferral, error) {
		code := req.ReferralCode
		if code == "" {
			current, err := in.Backend.GetVendorReferral(ctx, id)
			if err != nil {
				return model.VendorReferral{}, err
			}
			code = current.ReferralCode
		}
		link := referral.BuildLink(in.baseURL, req.EventID, code)

		return in.Backend.UpdateVendorReferral(ctx, id, referral.BuildPayload(req, code, link))
	})
	if err != nil {
		fail(ctx, span, w, "failed to update vendor referral", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityReferral,
		Action:   constant.AuditActionUpdate,
		EntityID: id,
		Payload:  updated,
	}, constant.QueryVendorReferrals, constant.QueryReferralAnalytics)

	updated.CanBeUsed = referral.CanBeUsed(updated, in.TimeNow())
	writeJSONResponse(w, http.StatusOK, updated)
}

func (in ReferralHttp) delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "ReferralHttp.delete")
	defer span.End()

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	_, err = dialog.Run(ctx, id, nil, func(ctx context.Context, id model.ID) (struct{}, error) {
		current, err := in.Backend.GetVendorReferral(ctx, id)
		if err != nil {
			return struct{}{}, err
		}
		if err := referral.CheckDeletable(current); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, in.Backend.DeleteVendorReferral(ctx, id)
	})
	if err != nil {
		fail(ctx, span, w, "failed to delete vendor referral", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityReferral,
		Action:   constant.AuditActionDelete,
		EntityID: id,
	}, constant.QueryVendorReferrals, constant.QueryReferralAnalytics)

	w.WriteHeader(http.StatusNoContent)
}

func (in ReferralHttp) analytics(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "ReferralHttp.analytics")
	defer span.End()

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	key := query.NewKey(constant.QueryReferralAnalytics, cacheParams("id", id.String()))
	result, err := query.Fetch(ctx, in.Store, key, func(ctx context.Context) (model.ReferralAnalytics, error) {
		return in.Backend.GetReferralAnalytics(ctx, id)
	})
	if err != nil {
		fail(ctx, span, w, "failed to get referral analytics", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, result)
}

func (in ReferralHttp) shareLinks(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "ReferralHttp.shareLinks")
	defer span.End()

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	item, err := in.Backend.GetVendorReferral(ctx, id)
	if err != nil {
		fail(ctx, span, w, "failed to get vendor referral", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, referral.ShareLinks(in.linkOf(item), item.ReferralCode, eventName(item)))
}

type shareEmailResponse struct {
	Queued int      `json:"queued"`
	Failed []string `json:"failed"`
}

func (in ReferralHttp) share(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.ShareEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	if err := validateStruct(in.Validate, req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "ReferralHttp.share")
	defer span.End()

	item, err := in.Backend.GetVendorReferral(ctx, id)
	if err != nil {
		fail(ctx, span, w, "failed to get vendor referral", err)
		return
	}

	inviter := "Our partner"
	if item.Vendor != nil && item.Vendor.Name != "" {
		inviter = item.Vendor.Name
	}

	note := ""
	if msg := strings.TrimSpace(req.Message); msg != "" {
		note = "\n" + msg + "\n"
	}

	subject := fmt.Sprintf(constant.EmailReferralShareSubject, eventName(item))
	body := fmt.Sprintf(constant.EmailReferralShareTemplate, inviter, eventName(item), in.linkOf(item), item.ReferralCode, note)

	queued, failed := queueEmail(ctx, in.Publisher, req.Recipients, subject, body)
	if queued > 0 {
		afterMutation(ctx, in.Store, in.Publisher, mutation{
			Entity:   constant.AuditEntityReferral,
			Action:   constant.AuditActionShare,
			EntityID: id,
			Payload:  map[string]any{"queued": queued},
		})
	}

	writeJSONResponse(w, http.StatusAccepted, shareEmailResponse{Queued: queued, Failed: failed})
}

func (in ReferralHttp) commissionPreview(w http.ResponseWriter, r *http.Request) {
	var req model.CommissionPreviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	validate := validatorFor(in.Validate, func(req model.CommissionPreviewRequest) error {
		return referral.ValidateCommission(req.CommissionType, req.CommissionRate, req.CommissionAmount)
	})
	if err := validate(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "ReferralHttp.commissionPreview")
	defer span.End()

	event, err := in.Backend.GetEvent(ctx, req.EventID)
	if err != nil {
		fail(ctx, span, w, "failed to get event for commission preview", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, referral.Preview(event, req, in.Printer))
}

func (in ReferralHttp) linkOf(item model.VendorReferral) string {
	if item.ReferralLink != "" {
		return item.ReferralLink
	}
	return referral.BuildLink(in.baseURL, item.EventID, item.ReferralCode)
}

func eventName(item model.VendorReferral) string {
	if item.Event != nil && item.Event.Name != "" {
		return item.Event.Name
	}
	return "our event"
}
