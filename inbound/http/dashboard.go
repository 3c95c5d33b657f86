package http

import (
	"context"
	"eventdesk/common/constant"
	"eventdesk/common/otel"
	"eventdesk/common/vars"
	"eventdesk/core/payment"
	"eventdesk/core/referral"
	"eventdesk/core/vendor"
	"eventdesk/model"
	"eventdesk/outbound/backend"
	"eventdesk/outbound/query"
	"net/http"

	"golang.org/x/sync/errgroup"
)

type DashboardHttp struct {
	Backend *backend.Client
	Store   *query.Store
}

func RegisterDashboardHttp(mux *http.ServeMux, client *backend.Client, store *query.Store) *DashboardHttp {
	in := &DashboardHttp{Backend: client, Store: store}

	mux.HandleFunc("GET /api/dashboard", in.summary)

	return in
}

// summary fans out to every list the landing page needs. Any failing card
// fails the whole response.
func (in DashboardHttp) summary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "DashboardHttp.summary")
	defer span.End()

	var response model.DashboardResponse
	single := model.ListQuery{Page: 1, PerPage: 1}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vendors, err := fetchVendors(gctx, in.Store, in.Backend)
		if err != nil {
			return err
		}
		response.Vendors = vendor.CountByStatus(vendors)
		return nil
	})
	g.Go(func() error {
		payments, err := fetchPayments(gctx, in.Store, in.Backend, 0)
		if err != nil {
			return err
		}
		response.Payments = payment.Summarize(payments)
		return nil
	})
	g.Go(func() error {
		if snapshot := vars.GetReferralSnapshot(); snapshot != nil {
			response.Referrals = snapshot.Statistics
			return nil
		}
		referrals, err := fetchReferrals(gctx, in.Store, in.Backend, 0, 0)
		if err != nil {
			return err
		}
		response.Referrals = referral.Summarize(referrals)
		return nil
	})
	g.Go(func() error {
		forms, err := query.Fetch(gctx, in.Store, query.NewKey(constant.QueryForms, listParams(single)), func(ctx context.Context) (model.Page[model.Form], error) {
			return in.Backend.ListForms(ctx, model.FormQuery{ListQuery: single})
		})
		if err != nil {
			return err
		}
		response.Forms = forms.Pagination.Total
		return nil
	})
	g.Go(func() error {
		events, err := query.Fetch(gctx, in.Store, query.NewKey(constant.QueryEvents, listParams(single)), func(ctx context.Context) (model.Page[model.Event], error) {
			return in.Backend.ListEvents(ctx, single)
		})
		if err != nil {
			return err
		}
		response.Events = events.Pagination.Total
		return nil
	})

	if err := g.Wait(); err != nil {
		fail(ctx, span, w, "failed to build dashboard", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, response)
}
