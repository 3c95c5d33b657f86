package referral

import (
	"eventdesk/model"
	"strings"
)

// Criteria are the campaign list filters. An empty value or "all" matches
// every campaign.
type Criteria struct {
	Status   string
	Campaign string
	Search   string
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}

// Filter returns the referrals matching every criterion, in input order.
func Filter(referrals []model.VendorReferral, c Criteria) []model.VendorReferral {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]model.VendorReferral, 0, len(referrals))
	for _, r := range referrals {
		if !isAll(c.Status) && string(r.Status) != c.Status {
			continue
		}
		if !isAll(c.Campaign) && r.CampaignName != c.Campaign {
			continue
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(r model.VendorReferral, search string) bool {
	candidates := []string{r.CampaignName, r.ReferralCode, r.Description}
	if r.Event != nil {
		candidates = append(candidates, r.Event.Name)
	}

	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate), search) {
			return true
		}
	}
	return false
}

// CampaignNames lists the distinct campaign names in first-seen order.
func CampaignNames(referrals []model.VendorReferral) []string {
	seen := make(map[string]struct{}, len(referrals))
	names := make([]string, 0, len(referrals))
	for _, r := range referrals {
		if r.CampaignName == "" {
			continue
		}
		if _, ok := seen[r.CampaignName]; ok {
			continue
		}
		seen[r.CampaignName] = struct{}{}
		names = append(names, r.CampaignName)
	}
	return names
}

// Summarize reduces the full, unfiltered referral list into the dashboard
// totals. The top campaign is the first one with the highest conversion
// rate; a missing rate counts as zero.
func Summarize(referrals []model.VendorReferral) model.ReferralStatistics {
	stats := model.ReferralStatistics{TotalCampaigns: len(referrals)}

	topRate := 0.0
	for i := range referrals {
		r := &referrals[i]

		if r.Status == model.ReferralStatusActive {
			stats.ActiveCampaigns++
		}
		stats.TotalClicks += r.TotalClicks
		stats.TotalConversions += r.TotalRegistrations
		stats.TotalCommission += r.CommissionEarned.Float()

		rate := 0.0
		if r.ConversionRate != nil {
			rate = r.ConversionRate.Float()
		}
		if stats.TopPerformingCampaign == nil || rate > topRate {
			top := *r
			stats.TopPerformingCampaign = &top
			topRate = rate
		}
	}

	if stats.TotalClicks > 0 {
		stats.AverageConversionRate = float64(stats.TotalConversions) / float64(stats.TotalClicks) * 100
	}

	return stats
}
