package http

import (
	"encoding/json"
	"eventdesk/common/otel"
	"eventdesk/model"
	"eventdesk/outbound/sqlgen"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

type AuditHttp struct {
	Querier *sqlgen.Queries
}

func RegisterAuditHttp(mux *http.ServeMux, querier *sqlgen.Queries) *AuditHttp {
	in := &AuditHttp{Querier: querier}

	mux.HandleFunc("GET /api/audit-logs", in.list)

	return in
}

func (in AuditHttp) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "AuditHttp.list")
	defer span.End()

	values := r.URL.Query()
	q := listQuery(r)
	entity, entityID := values.Get("entity"), values.Get("entity_id")

	var (
		logs  []sqlgen.AuditLog
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		logs, err = in.Querier.ListAuditLogs(gctx, sqlgen.ListAuditLogsParams{
			Entity:   entity,
			EntityID: entityID,
			Limit:    int32(q.PerPage),
			Offset:   int32((q.Page - 1) * q.PerPage),
		})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = in.Querier.CountAuditLogs(gctx, sqlgen.CountAuditLogsParams{Entity: entity, EntityID: entityID})
		return err
	})
	if err := g.Wait(); err != nil {
		fail(ctx, span, w, "failed to list audit logs", err)
		return
	}

	response := model.ListAuditLogsResponse{
		AuditLogs: make([]model.AuditLogResponse, 0, len(logs)),
		Pagination: model.Pagination{
			CurrentPage: q.Page,
			PerPage:     q.PerPage,
			Total:       int(total),
			LastPage:    max(1, (int(total)+q.PerPage-1)/q.PerPage),
		},
	}
	for _, l := range logs {
		item := model.AuditLogResponse{
			ID:       l.ID,
			Action:   l.Action,
			Entity:   l.Entity,
			EntityID: l.EntityID,
			Actor:    l.Actor,
		}
		if len(l.Payload) > 0 {
			item.Payload = json.RawMessage(l.Payload)
		}
		if l.CreatedAt.Valid {
			item.CreatedAt = l.CreatedAt.Time.UTC().Format(time.RFC3339)
		}
		response.AuditLogs = append(response.AuditLogs, item)
	}

	writeJSONResponse(w, http.StatusOK, response)
}
