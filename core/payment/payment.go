package payment

import (
	"eventdesk/common/errs"
	"eventdesk/model"
	"strconv"
	"strings"
)

type Criteria struct {
	Status      string
	PaymentType string
	VendorID    model.ID
	Search      string
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}

func Filter(payments []model.Payment, c Criteria) []model.Payment {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]model.Payment, 0, len(payments))
	for _, p := range payments {
		if !isAll(c.Status) && string(p.Status) != c.Status {
			continue
		}
		if !isAll(c.PaymentType) && string(p.PaymentType) != c.PaymentType {
			continue
		}
		if c.VendorID != 0 && p.VendorID != c.VendorID {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p model.Payment, search string) bool {
	candidates := []string{p.ReferenceNumber, p.Notes, strconv.FormatInt(int64(p.ID), 10)}
	if p.Vendor != nil {
		candidates = append(candidates, p.Vendor.Name)
	}
	if p.Event != nil {
		candidates = append(candidates, p.Event.Name)
	}

	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate), search) {
			return true
		}
	}
	return false
}

// Summarize totals the unfiltered payment list for the dashboard cards.
// Cancelled payments count by status but add to no amount.
func Summarize(payments []model.Payment) model.PaymentSummary {
	summary := model.PaymentSummary{
		TotalPayments: len(payments),
		CountByStatus: map[model.PaymentStatus]int{
			model.PaymentStatusPending:   0,
			model.PaymentStatusPaid:      0,
			model.PaymentStatusOverdue:   0,
			model.PaymentStatusCancelled: 0,
		},
	}

	for _, p := range payments {
		summary.CountByStatus[p.Status]++

		amount := p.Amount.Float()
		switch p.Status {
		case model.PaymentStatusPaid:
			summary.PaidAmount += amount
		case model.PaymentStatusPending:
			summary.PendingAmount += amount
		case model.PaymentStatusOverdue:
			summary.OverdueAmount += amount
		case model.PaymentStatusCancelled:
			continue
		}

		summary.TotalAmount += amount
		if p.PaymentType == model.PaymentTypeReferralCommission {
			summary.TotalCommission += amount
		}
	}

	return summary
}

// ValidateRequest checks the rules the struct tags cannot express.
func ValidateRequest(req model.PaymentRequest) error {
	fields := map[string]string{}

	status := req.Status
	if status == "" {
		status = model.PaymentStatusPending
	}
	if status == model.PaymentStatusPending && strings.TrimSpace(req.DueDate) == "" {
		fields["due_date"] = "required"
	}
	if req.DueDate != "" {
		if _, ok := model.ParseTime(req.DueDate); !ok {
			fields["due_date"] = "datetime"
		}
	}

	if req.PaymentType == model.PaymentTypeReferralCommission {
		if req.CommissionRate == nil {
			fields["commission_rate"] = "required"
		}
		if req.ReferralCount <= 0 {
			fields["referral_count"] = "required"
		}
	}

	if req.PaymentType == model.PaymentTypeQuotationPayment && req.QuotationID == 0 {
		fields["quotation_id"] = "required"
	}

	if len(fields) > 0 {
		return errs.Validation(fields)
	}
	return nil
}

// CanMarkPaid and CanCancel guard the state changes offered on a payment.
func CanMarkPaid(p model.Payment) error {
	switch p.Status {
	case model.PaymentStatusPending, model.PaymentStatusOverdue:
		return nil
	}
	return errs.Conflict("Only pending or overdue payments can be marked as paid")
}

func CanCancel(p model.Payment) error {
	switch p.Status {
	case model.PaymentStatusPending, model.PaymentStatusOverdue:
		return nil
	}
	return errs.Conflict("Only pending or overdue payments can be cancelled")
}
