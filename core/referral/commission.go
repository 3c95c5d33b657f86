package referral

import (
	"eventdesk/common"
	"eventdesk/common/constant"
	"eventdesk/common/errs"
	"eventdesk/model"
	"strings"

	"golang.org/x/text/message"
)

// ValidateCommission checks the fields that depend on commission_type.
func ValidateCommission(commissionType model.CommissionType, rate, amount *float64) error {
	fields := map[string]string{}

	switch commissionType {
	case model.CommissionTypePercentage:
		if rate == nil || *rate <= 0 {
			fields["commission_rate"] = "required"
		}
	case model.CommissionTypeFixed:
		if amount == nil || *amount <= 0 {
			fields["commission_amount"] = "required"
		}
	}

	if len(fields) > 0 {
		return errs.Validation(fields)
	}
	return nil
}

// NormalizeRequest trims and uppercases the referral code so lowercase input
// passes the referral_code check.
func NormalizeRequest(req model.VendorReferralRequest) model.VendorReferralRequest {
	req.ReferralCode = strings.ToUpper(strings.TrimSpace(req.ReferralCode))
	return req
}

func ValidateRequest(req model.VendorReferralRequest) error {
	if err := ValidateCommission(req.CommissionType, req.CommissionRate, req.CommissionAmount); err != nil {
		return err
	}

	if req.ExpiresAt != "" {
		if _, ok := model.ParseTime(req.ExpiresAt); !ok {
			return errs.Validation(map[string]string{"expires_at": "datetime"})
		}
	}

	return nil
}

// BuildPayload turns a campaign request into the upstream payload. Only the
// commission field matching the commission type is sent.
func BuildPayload(req model.VendorReferralRequest, code, link string) model.VendorReferralPayload {
	status := req.Status
	if status == "" {
		status = model.ReferralStatusActive
	}

	payload := model.VendorReferralPayload{
		VendorID:       req.VendorID,
		EventID:        req.EventID,
		CampaignName:   strings.TrimSpace(req.CampaignName),
		Description:    strings.TrimSpace(req.Description),
		ReferralCode:   code,
		ReferralLink:   link,
		CommissionType: req.CommissionType,
		MaxUses:        req.MaxUses,
		ExpiresAt:      req.ExpiresAt,
		Status:         status,
	}

	switch req.CommissionType {
	case model.CommissionTypeFixed:
		payload.CommissionAmount = copyFloat(req.CommissionAmount)
	case model.CommissionTypePercentage:
		payload.CommissionRate = copyFloat(req.CommissionRate)
	}

	return payload
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// EstimateCommission projects the commission for a fully booked event.
// Percentage commissions assume constant.AverageTicketPrice per guest.
func EstimateCommission(maxGuests int, commissionType model.CommissionType, rate, amount *float64) float64 {
	switch commissionType {
	case model.CommissionTypePercentage:
		if rate == nil {
			return 0
		}
		return float64(maxGuests) * constant.AverageTicketPrice * *rate / 100
	case model.CommissionTypeFixed:
		if amount == nil {
			return 0
		}
		return float64(maxGuests) * *amount
	}
	return 0
}

func Preview(event model.Event, req model.CommissionPreviewRequest, printer *message.Printer) model.CommissionPreviewResponse {
	estimate := EstimateCommission(event.MaxGuests, req.CommissionType, req.CommissionRate, req.CommissionAmount)

	return model.CommissionPreviewResponse{
		EventID:            event.ID,
		MaxGuests:          event.MaxGuests,
		AverageTicketPrice: constant.AverageTicketPrice,
		Estimate:           estimate,
		EstimateFormatted:  common.FormatCurrency(printer, constant.DefaultCurrency, estimate),
	}
}
