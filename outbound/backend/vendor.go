package backend

import (
	"context"
	"eventdesk/model"
	"fmt"
	"net/http"
)

func (c *Client) ListVendors(ctx context.Context, q model.VendorQuery) (model.Page[model.Vendor], error) {
	values := listValues(q.ListQuery)
	setString(values, "status", q.Status)

	return getList[model.Vendor](ctx, c, "/vendors", values)
}

// ListAllVendors walks every page of the vendor list.
func (c *Client) ListAllVendors(ctx context.Context, q model.VendorQuery) ([]model.Vendor, error) {
	return walkPages(q.PerPage, func(page, perPage int) (model.Page[model.Vendor], error) {
		q.Page, q.PerPage = page, perPage
		return c.ListVendors(ctx, q)
	})
}

func (c *Client) GetVendor(ctx context.Context, id model.ID) (model.Vendor, error) {
	return getItem[model.Vendor](ctx, c, fmt.Sprintf("/vendors/%d", id), nil)
}

func (c *Client) CreateVendor(ctx context.Context, req model.VendorRequest) (model.Vendor, error) {
	return sendItem[model.Vendor](ctx, c, http.MethodPost, "/vendors", nil, req)
}

func (c *Client) UpdateVendor(ctx context.Context, id model.ID, req model.VendorRequest) (model.Vendor, error) {
	return sendItem[model.Vendor](ctx, c, http.MethodPut, fmt.Sprintf("/vendors/%d", id), nil, req)
}

func (c *Client) UpdateVendorStatus(ctx context.Context, id model.ID, req model.VendorStatusRequest) (model.Vendor, error) {
	return sendItem[model.Vendor](ctx, c, http.MethodPatch, fmt.Sprintf("/vendors/%d/status", id), nil, req)
}

func (c *Client) DeleteVendor(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/vendors/%d", id), nil, nil, nil)
}
