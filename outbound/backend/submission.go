package backend

import (
	"context"
	"eventdesk/model"
	"fmt"
)

func (c *Client) ListSubmissions(ctx context.Context, formID model.ID, q model.SubmissionQuery) (model.Page[model.FormSubmission], error) {
	values := listValues(q.ListQuery)
	setString(values, "status", q.Status)
	setString(values, "participant_type", q.ParticipantType)

	return getList[model.FormSubmission](ctx, c, fmt.Sprintf("/forms/%d/submissions", formID), values)
}

func (c *Client) GetSubmission(ctx context.Context, formID, id model.ID) (model.FormSubmission, error) {
	return getItem[model.FormSubmission](ctx, c, fmt.Sprintf("/forms/%d/submissions/%d", formID, id), nil)
}

// ListAllSubmissions walks every page of a form's submissions.
func (c *Client) ListAllSubmissions(ctx context.Context, formID model.ID, q model.SubmissionQuery) ([]model.FormSubmission, error) {
	return walkPages(q.PerPage, func(page, perPage int) (model.Page[model.FormSubmission], error) {
		q.Page, q.PerPage = page, perPage
		return c.ListSubmissions(ctx, formID, q)
	})
}
