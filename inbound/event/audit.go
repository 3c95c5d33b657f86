package event

import (
	"context"
	"encoding/json"
	"eventdesk/common"
	"eventdesk/common/constant"
	"eventdesk/common/otel"
	"eventdesk/model"
	"eventdesk/outbound/sqlgen"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type AuditEvent struct {
	Querier *sqlgen.Queries
	Timeout time.Duration
	TimeNow func() time.Time
}

// DecodeAuditHandler turns one queue message into an audit row. ok is false
// for messages that can never be stored; they are acked and dropped.
func (in AuditEvent) DecodeAuditHandler(ctx context.Context, msg []byte) (sqlgen.InsertAuditLogsParams, bool) {
	var req model.AuditEventMessage
	if err := json.Unmarshal(msg, &req); err != nil {
		slog.WarnContext(ctx, "audit event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return sqlgen.InsertAuditLogsParams{}, false
	}

	if strings.TrimSpace(req.ID) == "" || req.Action == "" || req.Entity == "" {
		slog.WarnContext(ctx, "audit event missing identity", slog.Any(constant.LogFieldPayload, string(msg)))
		return sqlgen.InsertAuditLogsParams{}, false
	}

	occurredAt, ok := model.ParseTime(req.OccurredAt)
	if !ok {
		occurredAt = in.now()
	}

	payload := []byte(req.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	actor := req.Actor
	if actor == "" {
		actor = "system"
	}

	return sqlgen.InsertAuditLogsParams{
		ID:        req.ID,
		Action:    req.Action,
		Entity:    req.Entity,
		EntityID:  req.EntityID,
		Actor:     actor,
		Payload:   payload,
		CreatedAt: pgtype.Timestamptz{Time: occurredAt, Valid: true},
	}, true
}

// BulkInsertHandler stores a batch with one COPY. Redelivered messages make
// COPY fail on the primary key, so a failed COPY is retried row by row with
// ON CONFLICT DO NOTHING.
func (in AuditEvent) BulkInsertHandler(ctx context.Context, rows []sqlgen.InsertAuditLogsParams) error {
	if len(rows) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	ctx, span := otel.Tracer.Start(ctx, "AuditEvent.BulkInsertHandler")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	slog.DebugContext(ctx, "bulk insert audit logs receive request", slog.Int("batch_size", len(rows)), traceIdAttr)

	inserted, err := in.Querier.InsertAuditLogs(ctx, rows)
	if err == nil {
		slog.InfoContext(ctx, "bulk insert audit logs success", slog.Int64("inserted", inserted), traceIdAttr)
		return nil
	}

	slog.WarnContext(ctx, "bulk insert audit logs failed, inserting one by one", traceIdAttr, slog.Any(constant.LogFieldErr, err))

	for _, row := range rows {
		err := in.Querier.InsertAuditLog(ctx, sqlgen.InsertAuditLogParams(row))
		if err != nil {
			common.UtilSpanError(span, err)
			slog.ErrorContext(ctx, "failed to insert audit log", traceIdAttr, slog.String("id", row.ID), slog.Any(constant.LogFieldErr, err))
			return fmt.Errorf("insert audit log %s: %w", row.ID, err)
		}
	}

	slog.InfoContext(ctx, "insert audit logs success", slog.Int("inserted", len(rows)), traceIdAttr)
	return nil
}

func (in AuditEvent) now() time.Time {
	if in.TimeNow != nil {
		return in.TimeNow()
	}
	return time.Now()
}
