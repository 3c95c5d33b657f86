package backend

import (
	"context"
	"eventdesk/model"
	"fmt"
	"net/http"
)

func (c *Client) ListPayments(ctx context.Context, q model.PaymentQuery) (model.Page[model.Payment], error) {
	values := listValues(q.ListQuery)
	setID(values, "vendor_id", q.VendorID)
	setID(values, "event_id", q.EventID)
	setString(values, "status", q.Status)
	setString(values, "payment_type", q.PaymentType)

	return getList[model.Payment](ctx, c, "/payments", values)
}

// ListAllPayments walks every page of the payment list.
func (c *Client) ListAllPayments(ctx context.Context, q model.PaymentQuery) ([]model.Payment, error) {
	return walkPages(q.PerPage, func(page, perPage int) (model.Page[model.Payment], error) {
		q.Page, q.PerPage = page, perPage
		return c.ListPayments(ctx, q)
	})
}

func (c *Client) GetPayment(ctx context.Context, id model.ID) (model.Payment, error) {
	return getItem[model.Payment](ctx, c, fmt.Sprintf("/payments/%d", id), nil)
}

func (c *Client) CreatePayment(ctx context.Context, req model.PaymentRequest) (model.Payment, error) {
	return sendItem[model.Payment](ctx, c, http.MethodPost, "/payments", nil, req)
}

func (c *Client) MarkPaymentPaid(ctx context.Context, id model.ID, req model.MarkPaidRequest) (model.Payment, error) {
	return sendItem[model.Payment](ctx, c, http.MethodPost, fmt.Sprintf("/payments/%d/mark-paid", id), nil, req)
}

func (c *Client) CancelPayment(ctx context.Context, id model.ID) (model.Payment, error) {
	return sendItem[model.Payment](ctx, c, http.MethodPost, fmt.Sprintf("/payments/%d/cancel", id), nil, struct{}{})
}

func (c *Client) PaymentStatistics(ctx context.Context) (model.PaymentStatistics, error) {
	return getItem[model.PaymentStatistics](ctx, c, "/payments/statistics", nil)
}
