package backend

import (
	"context"
	"eventdesk/model"
	"fmt"
	"net/http"
)

func (c *Client) ListForms(ctx context.Context, q model.FormQuery) (model.Page[model.Form], error) {
	values := listValues(q.ListQuery)
	setID(values, "event_id", q.EventID)
	setString(values, "status", q.Status)

	return getList[model.Form](ctx, c, "/forms", values)
}

func (c *Client) GetForm(ctx context.Context, id model.ID) (model.Form, error) {
	return getItem[model.Form](ctx, c, fmt.Sprintf("/forms/%d", id), nil)
}

func (c *Client) CreateForm(ctx context.Context, req model.FormRequest) (model.Form, error) {
	return sendItem[model.Form](ctx, c, http.MethodPost, "/forms", nil, req)
}

func (c *Client) UpdateForm(ctx context.Context, id model.ID, req model.FormRequest) (model.Form, error) {
	return sendItem[model.Form](ctx, c, http.MethodPut, fmt.Sprintf("/forms/%d", id), nil, req)
}

func (c *Client) DeleteForm(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/forms/%d", id), nil, nil, nil)
}

func (c *Client) CreateField(ctx context.Context, formID model.ID, req model.FormFieldRequest) (model.FormField, error) {
	return sendItem[model.FormField](ctx, c, http.MethodPost, fmt.Sprintf("/forms/%d/fields", formID), nil, req)
}

func (c *Client) UpdateField(ctx context.Context, formID, fieldID model.ID, req model.FormFieldRequest) (model.FormField, error) {
	return sendItem[model.FormField](ctx, c, http.MethodPut, fmt.Sprintf("/forms/%d/fields/%d", formID, fieldID), nil, req)
}

func (c *Client) DeleteField(ctx context.Context, formID, fieldID model.ID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/forms/%d/fields/%d", formID, fieldID), nil, nil, nil)
}

func (c *Client) ReorderFields(ctx context.Context, formID model.ID, fieldIDs []model.ID) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/forms/%d/fields/reorder", formID), nil, model.ReorderFieldsRequest{FieldIDs: fieldIDs}, nil)
}
