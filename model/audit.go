package model

import "encoding/json"

type AuditEventMessage struct {
	ID         string          `json:"id"`
	Action     string          `json:"action"`
	Entity     string          `json:"entity"`
	EntityID   string          `json:"entity_id"`
	Actor      string          `json:"actor"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt string          `json:"occurred_at"`
}

type AuditLogResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	Entity    string          `json:"entity"`
	EntityID  string          `json:"entity_id"`
	Actor     string          `json:"actor"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt string          `json:"created_at"`
}

type ListAuditLogsResponse struct {
	AuditLogs  []AuditLogResponse `json:"audit_logs"`
	Pagination Pagination         `json:"pagination"`
}
