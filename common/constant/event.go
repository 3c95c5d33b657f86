package constant

const (
	QueueStreamName = "eventdesk_queue_stream"
)

const (
	AllWildcard   = "events.>"
	AuditWildcard = "events.audit.>"
	EmailWildcard = "events.email.>"

	SubjectRecordAudit = "events.audit.record"
	SubjectSendEmail   = "events.email.send"
)
