package backend

import (
	"context"
	"eventdesk/model"
	"fmt"
)

func (c *Client) ListEvents(ctx context.Context, q model.ListQuery) (model.Page[model.Event], error) {
	return getList[model.Event](ctx, c, "/events", listValues(q))
}

func (c *Client) GetEvent(ctx context.Context, id model.ID) (model.Event, error) {
	return getItem[model.Event](ctx, c, fmt.Sprintf("/events/%d", id), nil)
}
