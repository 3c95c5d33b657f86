package backend

import (
	"context"
	"eventdesk/model"
	"fmt"
	"net/http"
)

func (c *Client) ListQuotations(ctx context.Context, vendorID model.ID, q model.ListQuery) (model.Page[model.Quotation], error) {
	return getList[model.Quotation](ctx, c, fmt.Sprintf("/vendors/%d/quotations", vendorID), listValues(q))
}

func (c *Client) GetQuotation(ctx context.Context, id model.ID) (model.Quotation, error) {
	return getItem[model.Quotation](ctx, c, fmt.Sprintf("/quotations/%d", id), nil)
}

func (c *Client) ApproveQuotation(ctx context.Context, id model.ID, req model.QuotationDecisionRequest) (model.Quotation, error) {
	return sendItem[model.Quotation](ctx, c, http.MethodPost, fmt.Sprintf("/quotations/%d/approve", id), nil, req)
}

func (c *Client) RejectQuotation(ctx context.Context, id model.ID, req model.QuotationDecisionRequest) (model.Quotation, error) {
	return sendItem[model.Quotation](ctx, c, http.MethodPost, fmt.Sprintf("/quotations/%d/reject", id), nil, req)
}
