package model

type VendorStatus string

const (
	VendorStatusActive          VendorStatus = "active"
	VendorStatusPendingApproval VendorStatus = "pending_approval"
	VendorStatusSuspended       VendorStatus = "suspended"
	VendorStatusInactive        VendorStatus = "inactive"
)

type Vendor struct {
	ID               ID           `json:"id"`
	Name             string       `json:"name"`
	ContactPerson    string       `json:"contact_person"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	Address          string       `json:"address,omitempty"`
	ServicesProvided StringList   `json:"services_provided"`
	Status           VendorStatus `json:"status"`
	PaymentTerms     string       `json:"payment_terms,omitempty"`
	BankName         string       `json:"bank_name,omitempty"`
	BankAccount      string       `json:"bank_account,omitempty"`
	TaxID            string       `json:"tax_id,omitempty"`
	Rating           Number       `json:"rating,omitempty"`
	Notes            string       `json:"notes,omitempty"`
	CreatedAt        string       `json:"created_at,omitempty"`
	UpdatedAt        string       `json:"updated_at,omitempty"`
}

type VendorQuery struct {
	ListQuery
	Status string `json:"status,omitempty"`
}

type VendorRequest struct {
	Name             string       `json:"name" validate:"required,max=255"`
	ContactPerson    string       `json:"contact_person" validate:"required,max=255"`
	Email            string       `json:"email" validate:"required,email"`
	Phone            string       `json:"phone" validate:"required,min=7,max=20"`
	Address          string       `json:"address,omitempty" validate:"max=500"`
	ServicesProvided []string     `json:"services_provided" validate:"dive,required,max=100"`
	Status           VendorStatus `json:"status,omitempty" validate:"omitempty,oneof=active pending_approval suspended inactive"`
	PaymentTerms     string       `json:"payment_terms,omitempty" validate:"max=255"`
	BankName         string       `json:"bank_name,omitempty" validate:"max=255"`
	BankAccount      string       `json:"bank_account,omitempty" validate:"max=64"`
	TaxID            string       `json:"tax_id,omitempty" validate:"max=64"`
	Notes            string       `json:"notes,omitempty" validate:"max=2000"`
}

type VendorStatusRequest struct {
	Status VendorStatus `json:"status" validate:"required,oneof=active pending_approval suspended inactive"`
	Reason string       `json:"reason,omitempty" validate:"max=500"`
}

type QuotationStatus string

const (
	QuotationStatusPending  QuotationStatus = "pending"
	QuotationStatusApproved QuotationStatus = "approved"
	QuotationStatusRejected QuotationStatus = "rejected"
)

type Deliverable struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Amount      Number `json:"amount" validate:"gte=0"`
	Priority    int    `json:"priority" validate:"gte=1,lte=3"`
}

type Quotation struct {
	ID           ID              `json:"id"`
	VendorID     ID              `json:"vendor_id"`
	EventID      ID              `json:"event_id"`
	Amount       Number          `json:"amount"`
	Status       QuotationStatus `json:"status"`
	Deliverables []Deliverable   `json:"deliverables"`
	Notes        string          `json:"notes,omitempty"`
	Event        *EventSummary   `json:"event,omitempty"`
	CreatedAt    string          `json:"created_at,omitempty"`
}

type QuotationDecisionRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=1000"`
}

type VendorListResponse struct {
	Vendors       []Vendor             `json:"vendors"`
	CountByStatus map[VendorStatus]int `json:"count_by_status"`
	Pagination    Pagination           `json:"pagination"`
}

type QuotationListResponse struct {
	Quotations []Quotation `json:"quotations"`
	Pagination Pagination  `json:"pagination"`
}
