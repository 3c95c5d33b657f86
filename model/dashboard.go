package model

// DashboardResponse is the landing page of the back office, one card per
// area.
type DashboardResponse struct {
	Vendors   map[VendorStatus]int `json:"vendors"`
	Payments  PaymentSummary       `json:"payments"`
	Referrals ReferralStatistics   `json:"referrals"`
	Forms     int                  `json:"forms"`
	Events    int                  `json:"events"`
}
