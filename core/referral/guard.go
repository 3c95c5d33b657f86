package referral

import (
	"eventdesk/common/errs"
	"eventdesk/model"
	"time"
)

// CanBeUsed reports whether a referral still accepts registrations.
func CanBeUsed(r model.VendorReferral, now time.Time) bool {
	if r.Status != model.ReferralStatusActive {
		return false
	}
	if r.MaxUses != nil && r.CurrentUses >= *r.MaxUses {
		return false
	}
	if r.ExpiresAt != "" {
		if expiresAt, ok := model.ParseTime(r.ExpiresAt); ok && !now.Before(expiresAt) {
			return false
		}
	}
	return true
}

// WithUsability recomputes CanBeUsed for every referral.
func WithUsability(referrals []model.VendorReferral, now time.Time) []model.VendorReferral {
	for i := range referrals {
		referrals[i].CanBeUsed = CanBeUsed(referrals[i], now)
	}
	return referrals
}

// CheckDeletable blocks deleting a referral that has already been clicked.
func CheckDeletable(r model.VendorReferral) error {
	if r.TotalClicks > 0 {
		return errs.Conflict("Referral has recorded clicks and cannot be deleted")
	}
	return nil
}
