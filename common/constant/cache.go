package constant

import "time"

const (
	QueryGenerationKey = "query:%s:generation"
	QueryEntryKey      = "query:%s:%d:%s"
)

const (
	QueryDefaultTTL    = 5 * time.Minute
	QueryFlightTimeout = 30 * time.Second
)

// Query names double as invalidation keys: a mutation invalidates every
// cached list stored under the names it affects.
const (
	QueryEvents            = "events"
	QueryVendors           = "vendors"
	QueryVendorReferrals   = "vendor-referrals"
	QueryReferralAnalytics = "referral-analytics"
	QueryPayments          = "payments"
	QueryPaymentStatistics = "payment-statistics"
	QueryQuotations        = "quotations"
	QueryForms             = "forms"
	QuerySubmissions       = "form-submissions"
	QueryBadgePlaceholders = "badge-placeholders"
	QueryBadgeMappings     = "badge-mappings"
)
