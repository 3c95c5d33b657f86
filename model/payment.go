package model

type PaymentType string

const (
	PaymentTypeQuotationPayment   PaymentType = "quotation_payment"
	PaymentTypeReferralCommission PaymentType = "referral_commission"
	PaymentTypeBonus              PaymentType = "bonus"
	PaymentTypePenalty            PaymentType = "penalty"
)

type PaymentMethod string

const (
	PaymentMethodBankTransfer  PaymentMethod = "bank_transfer"
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodCheck         PaymentMethod = "check"
	PaymentMethodDigitalWallet PaymentMethod = "digital_wallet"
	PaymentMethodOther         PaymentMethod = "other"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

type Payment struct {
	ID              ID             `json:"id"`
	VendorID        ID             `json:"vendor_id"`
	EventID         ID             `json:"event_id,omitempty"`
	QuotationID     ID             `json:"quotation_id,omitempty"`
	Amount          Number         `json:"amount"`
	Currency        string         `json:"currency"`
	PaymentType     PaymentType    `json:"payment_type"`
	PaymentMethod   PaymentMethod  `json:"payment_method"`
	Status          PaymentStatus  `json:"status"`
	DueDate         string         `json:"due_date,omitempty"`
	PaidAt          string         `json:"paid_at,omitempty"`
	ReferenceNumber string         `json:"reference_number,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	ReferralCount   int            `json:"referral_count,omitempty"`
	CommissionRate  *Number        `json:"commission_rate,omitempty"`
	ReferralLinks   StringList     `json:"referral_links,omitempty"`
	Vendor          *VendorSummary `json:"vendor,omitempty"`
	Event           *EventSummary  `json:"event,omitempty"`
	CreatedAt       string         `json:"created_at,omitempty"`
}

type PaymentQuery struct {
	ListQuery
	VendorID    ID     `json:"vendor_id,omitempty"`
	EventID     ID     `json:"event_id,omitempty"`
	Status      string `json:"status,omitempty"`
	PaymentType string `json:"payment_type,omitempty"`
}

type PaymentRequest struct {
	VendorID        ID            `json:"vendor_id" validate:"required"`
	EventID         ID            `json:"event_id,omitempty"`
	QuotationID     ID            `json:"quotation_id,omitempty"`
	Amount          float64       `json:"amount" validate:"required,gt=0"`
	Currency        string        `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
	PaymentType     PaymentType   `json:"payment_type" validate:"required,oneof=quotation_payment referral_commission bonus penalty"`
	PaymentMethod   PaymentMethod `json:"payment_method" validate:"required,oneof=bank_transfer cash check digital_wallet other"`
	Status          PaymentStatus `json:"status,omitempty" validate:"omitempty,oneof=pending paid overdue cancelled"`
	DueDate         string        `json:"due_date,omitempty"`
	ReferenceNumber string        `json:"reference_number,omitempty" validate:"max=100"`
	Notes           string        `json:"notes,omitempty" validate:"max=2000"`
	ReferralCount   int           `json:"referral_count,omitempty" validate:"gte=0"`
	CommissionRate  *float64      `json:"commission_rate,omitempty" validate:"omitempty,gt=0,lte=100"`
	ReferralLinks   []string      `json:"referral_links,omitempty" validate:"dive,url"`
}

type MarkPaidRequest struct {
	PaidAt          string `json:"paid_at,omitempty"`
	ReferenceNumber string `json:"reference_number,omitempty" validate:"max=100"`
	Notes           string `json:"notes,omitempty" validate:"max=2000"`
}

// PaymentStatistics is the upstream /payments/statistics document.
type PaymentStatistics struct {
	TotalPayments   int    `json:"total_payments"`
	TotalAmount     Number `json:"total_amount"`
	PaidAmount      Number `json:"paid_amount"`
	PendingAmount   Number `json:"pending_amount"`
	OverdueAmount   Number `json:"overdue_amount"`
	TotalCommission Number `json:"total_commission"`
}

type PaymentSummary struct {
	TotalPayments   int                   `json:"total_payments"`
	TotalAmount     float64               `json:"total_amount"`
	PaidAmount      float64               `json:"paid_amount"`
	PendingAmount   float64               `json:"pending_amount"`
	OverdueAmount   float64               `json:"overdue_amount"`
	TotalCommission float64               `json:"total_commission"`
	CountByStatus   map[PaymentStatus]int `json:"count_by_status"`
}

type PaymentListResponse struct {
	Payments   []Payment      `json:"payments"`
	Summary    PaymentSummary `json:"summary"`
	Pagination Pagination     `json:"pagination"`
}
