package model

type CommissionType string

const (
	CommissionTypePercentage CommissionType = "percentage"
	CommissionTypeFixed      CommissionType = "fixed"
)

type ReferralStatus string

const (
	ReferralStatusActive   ReferralStatus = "active"
	ReferralStatusInactive ReferralStatus = "inactive"
	ReferralStatusExpired  ReferralStatus = "expired"
)

type VendorReferral struct {
	ID                 ID             `json:"id"`
	VendorID           ID             `json:"vendor_id"`
	EventID            ID             `json:"event_id"`
	CampaignName       string         `json:"campaign_name"`
	Description        string         `json:"description,omitempty"`
	ReferralCode       string         `json:"referral_code"`
	ReferralLink       string         `json:"referral_link"`
	CommissionType     CommissionType `json:"commission_type"`
	CommissionRate     *Number        `json:"commission_rate,omitempty"`
	CommissionAmount   *Number        `json:"commission_amount,omitempty"`
	MaxUses            *int           `json:"max_uses,omitempty"`
	CurrentUses        int            `json:"current_uses"`
	ExpiresAt          string         `json:"expires_at,omitempty"`
	Status             ReferralStatus `json:"status"`
	TotalClicks        int            `json:"total_clicks"`
	TotalRegistrations int            `json:"total_registrations"`
	TotalPurchases     int            `json:"total_purchases"`
	ConversionRate     *Number        `json:"conversion_rate,omitempty"`
	CommissionEarned   Number         `json:"commission_earned"`
	CanBeUsed          bool           `json:"can_be_used"`
	Vendor             *VendorSummary `json:"vendor,omitempty"`
	Event              *EventSummary  `json:"event,omitempty"`
	CreatedAt          string         `json:"created_at,omitempty"`
}

type VendorReferralQuery struct {
	ListQuery
	VendorID ID     `json:"vendor_id,omitempty"`
	EventID  ID     `json:"event_id,omitempty"`
	Status   string `json:"status,omitempty"`
	Campaign string `json:"campaign,omitempty"`
}

type VendorReferralRequest struct {
	VendorID         ID             `json:"vendor_id,omitempty"`
	EventID          ID             `json:"event_id" validate:"required"`
	CampaignName     string         `json:"campaign_name" validate:"required,max=255"`
	Description      string         `json:"description,omitempty" validate:"max=1000"`
	ReferralCode     string         `json:"referral_code,omitempty" validate:"omitempty,min=4,max=32,referral_code"`
	CommissionType   CommissionType `json:"commission_type" validate:"required,oneof=percentage fixed"`
	CommissionRate   *float64       `json:"commission_rate,omitempty" validate:"omitempty,gt=0,lte=100"`
	CommissionAmount *float64       `json:"commission_amount,omitempty" validate:"omitempty,gt=0"`
	MaxUses          *int           `json:"max_uses,omitempty" validate:"omitempty,gte=1"`
	ExpiresAt        string         `json:"expires_at,omitempty"`
	Status           ReferralStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// VendorReferralPayload is what the upstream API receives. Only the
// commission field matching CommissionType is populated.
type VendorReferralPayload struct {
	VendorID         ID             `json:"vendor_id,omitempty"`
	EventID          ID             `json:"event_id"`
	CampaignName     string         `json:"campaign_name"`
	Description      string         `json:"description,omitempty"`
	ReferralCode     string         `json:"referral_code"`
	ReferralLink     string         `json:"referral_link"`
	CommissionType   CommissionType `json:"commission_type"`
	CommissionRate   *float64       `json:"commission_rate,omitempty"`
	CommissionAmount *float64       `json:"commission_amount,omitempty"`
	MaxUses          *int           `json:"max_uses,omitempty"`
	ExpiresAt        string         `json:"expires_at,omitempty"`
	Status           ReferralStatus `json:"status"`
}

type ReferralDailyStat struct {
	Date          string `json:"date"`
	Clicks        int    `json:"clicks"`
	Registrations int    `json:"registrations"`
	Purchases     int    `json:"purchases"`
	Commission    Number `json:"commission"`
}

type ReferralSourceStat struct {
	Source string `json:"source"`
	Clicks int    `json:"clicks"`
}

type ReferralAnalytics struct {
	ReferralID         ID                   `json:"referral_id"`
	TotalClicks        int                  `json:"total_clicks"`
	TotalRegistrations int                  `json:"total_registrations"`
	TotalPurchases     int                  `json:"total_purchases"`
	ConversionRate     Number               `json:"conversion_rate"`
	CommissionEarned   Number               `json:"commission_earned"`
	Daily              []ReferralDailyStat  `json:"daily"`
	Sources            []ReferralSourceStat `json:"sources,omitempty"`
}

type CommissionPreviewRequest struct {
	EventID          ID             `json:"event_id" validate:"required"`
	CommissionType   CommissionType `json:"commission_type" validate:"required,oneof=percentage fixed"`
	CommissionRate   *float64       `json:"commission_rate,omitempty" validate:"omitempty,gt=0,lte=100"`
	CommissionAmount *float64       `json:"commission_amount,omitempty" validate:"omitempty,gt=0"`
}

type CommissionPreviewResponse struct {
	EventID            ID      `json:"event_id"`
	MaxGuests          int     `json:"max_guests"`
	AverageTicketPrice float64 `json:"average_ticket_price"`
	Estimate           float64 `json:"estimate"`
	EstimateFormatted  string  `json:"estimate_formatted"`
}

type ShareLinks struct {
	ReferralLink string `json:"referral_link"`
	QRCodeURL    string `json:"qr_code_url"`
	Facebook     string `json:"facebook"`
	Twitter      string `json:"twitter"`
	WhatsApp     string `json:"whatsapp"`
	LinkedIn     string `json:"linkedin"`
	Telegram     string `json:"telegram"`
	SMS          string `json:"sms"`
	Email        string `json:"email"`
}

type ShareEmailRequest struct {
	Recipients []string `json:"recipients" validate:"required,min=1,max=50,dive,required,email"`
	Message    string   `json:"message,omitempty" validate:"max=2000"`
}

type ReferralStatistics struct {
	TotalCampaigns        int             `json:"total_campaigns"`
	ActiveCampaigns       int             `json:"active_campaigns"`
	TotalClicks           int             `json:"total_clicks"`
	TotalConversions      int             `json:"total_conversions"`
	TotalCommission       float64         `json:"total_commission"`
	AverageConversionRate float64         `json:"average_conversion_rate"`
	TopPerformingCampaign *VendorReferral `json:"top_performing_campaign"`
}

type VendorReferralListResponse struct {
	Referrals  []VendorReferral   `json:"referrals"`
	Statistics ReferralStatistics `json:"statistics"`
	Campaigns  []string           `json:"campaigns"`
	Pagination Pagination         `json:"pagination"`
}
