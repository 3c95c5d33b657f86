package constant

const (
	// AverageTicketPrice is the ETB price assumed when estimating commissions
	// before any ticket is sold.
	AverageTicketPrice = 1000

	DefaultCurrency = "ETB"
	DefaultLocale   = "en-ET"

	QRCodeURLTemplate = "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=%s"

	ReferralCodeSuffixLength = 6
	ReferralCodePrefixLength = 8
)

const (
	AuditEntityVendor       = "vendor"
	AuditEntityReferral     = "vendor_referral"
	AuditEntityPayment      = "payment"
	AuditEntityQuotation    = "quotation"
	AuditEntityForm         = "form"
	AuditEntityFormField    = "form_field"
	AuditEntityBadgeMapping = "badge_mapping"

	AuditActionCreate   = "create"
	AuditActionUpdate   = "update"
	AuditActionDelete   = "delete"
	AuditActionStatus   = "status_change"
	AuditActionApprove  = "approve"
	AuditActionReject   = "reject"
	AuditActionMarkPaid = "mark_paid"
	AuditActionCancel   = "cancel"
	AuditActionReorder  = "reorder"
	AuditActionShare    = "share"
	AuditActionRemind   = "remind"
)
