package backend

import (
	"context"
	"eventdesk/model"
	"fmt"
	"net/http"
)

func (c *Client) ListBadgePlaceholders(ctx context.Context) ([]model.BadgePlaceholder, error) {
	page, err := getList[model.BadgePlaceholder](ctx, c, "/badge-placeholders", nil)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

func (c *Client) ListBadgeMappings(ctx context.Context, formID model.ID) ([]model.BadgeFieldMapping, error) {
	page, err := getList[model.BadgeFieldMapping](ctx, c, fmt.Sprintf("/forms/%d/badge-mappings", formID), nil)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

func (c *Client) SaveBadgeMappings(ctx context.Context, formID model.ID, mappings []model.BadgeFieldMapping) ([]model.BadgeFieldMapping, error) {
	page, err := sendList[model.BadgeFieldMapping](ctx, c, http.MethodPut, fmt.Sprintf("/forms/%d/badge-mappings", formID), nil, model.BadgeMappingRequest{Mappings: mappings})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}
