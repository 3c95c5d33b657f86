package backend

import (
	"context"
	"eventdesk/model"
	"fmt"
	"net/http"
)

func (c *Client) ListVendorReferrals(ctx context.Context, q model.VendorReferralQuery) (model.Page[model.VendorReferral], error) {
	values := listValues(q.ListQuery)
	setID(values, "vendor_id", q.VendorID)
	setID(values, "event_id", q.EventID)

	return getList[model.VendorReferral](ctx, c, "/vendor-referrals", values)
}

// ListAllVendorReferrals walks every page of the referral list.
func (c *Client) ListAllVendorReferrals(ctx context.Context, q model.VendorReferralQuery) ([]model.VendorReferral, error) {
	return walkPages(q.PerPage, func(page, perPage int) (model.Page[model.VendorReferral], error) {
		q.Page, q.PerPage = page, perPage
		return c.ListVendorReferrals(ctx, q)
	})
}

func (c *Client) GetVendorReferral(ctx context.Context, id model.ID) (model.VendorReferral, error) {
	return getItem[model.VendorReferral](ctx, c, fmt.Sprintf("/vendor-referrals/%d", id), nil)
}

func (c *Client) CreateVendorReferral(ctx context.Context, payload model.VendorReferralPayload) (model.VendorReferral, error) {
	return sendItem[model.VendorReferral](ctx, c, http.MethodPost, "/vendor-referrals", nil, payload)
}

func (c *Client) UpdateVendorReferral(ctx context.Context, id model.ID, payload model.VendorReferralPayload) (model.VendorReferral, error) {
	return sendItem[model.VendorReferral](ctx, c, http.MethodPut, fmt.Sprintf("/vendor-referrals/%d", id), nil, payload)
}

func (c *Client) DeleteVendorReferral(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/vendor-referrals/%d", id), nil, nil, nil)
}

func (c *Client) GetReferralAnalytics(ctx context.Context, id model.ID) (model.ReferralAnalytics, error) {
	return getItem[model.ReferralAnalytics](ctx, c, fmt.Sprintf("/vendor-referrals/%d/analytics", id), nil)
}
