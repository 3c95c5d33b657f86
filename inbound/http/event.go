package http

import (
	"context"
	"eventdesk/common/constant"
	"eventdesk/common/otel"
	"eventdesk/model"
	"eventdesk/outbound/backend"
	"eventdesk/outbound/query"
	"net/http"
)

type EventHttp struct {
	Backend *backend.Client
	Store   *query.Store
}

func RegisterEventHttp(mux *http.ServeMux, client *backend.Client, store *query.Store) *EventHttp {
	in := &EventHttp{Backend: client, Store: store}

	mux.HandleFunc("GET /api/events", in.list)
	mux.HandleFunc("GET /api/events/{id}", in.get)

	return in
}

func (in EventHttp) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "EventHttp.list")
	defer span.End()

	q := listQuery(r)
	result, err := query.Fetch(ctx, in.Store, query.NewKey(constant.QueryEvents, listParams(q)), func(ctx context.Context) (model.Page[model.Event], error) {
		return in.Backend.ListEvents(ctx, q)
	})
	if err != nil {
		fail(ctx, span, w, "failed to list events", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, result)
}

func (in EventHttp) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "EventHttp.get")
	defer span.End()

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	event, err := in.Backend.GetEvent(ctx, id)
	if err != nil {
		fail(ctx, span, w, "failed to get event", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, event)
}
