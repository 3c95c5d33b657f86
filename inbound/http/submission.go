package http

import (
	"context"
	"eventdesk/common/constant"
	"eventdesk/common/otel"
	"eventdesk/core/export"
	"eventdesk/core/form"
	"eventdesk/model"
	"eventdesk/outbound/backend"
	"eventdesk/outbound/query"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

type SubmissionHttp struct {
	Backend *backend.Client
	Store   *query.Store

	TimeNow func() time.Time
}

func RegisterSubmissionHttp(mux *http.ServeMux, client *backend.Client, store *query.Store) *SubmissionHttp {
	in := &SubmissionHttp{
		Backend: client,
		Store:   store,
		TimeNow: time.Now,
	}

	mux.HandleFunc("GET /api/forms/{id}/submissions", in.list)
	mux.HandleFunc("GET /api/forms/{id}/submissions/export", in.export)
	mux.HandleFunc("GET /api/forms/{id}/submissions/{submission_id}", in.get)
	mux.HandleFunc("GET /api/forms/{id}/analytics", in.analytics)

	return in
}

func submissionQuery(r *http.Request) model.SubmissionQuery {
	values := r.URL.Query()
	return model.SubmissionQuery{
		ListQuery:       listQuery(r),
		Status:          values.Get("status"),
		ParticipantType: values.Get("participant_type"),
	}
}

func (in SubmissionHttp) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "SubmissionHttp.list")
	defer span.End()

	formID, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	q := submissionQuery(r)
	key := query.NewKey(constant.QuerySubmissions, listParams(q.ListQuery,
		"form_id", formID.String(),
		"status", q.Status,
		"participant_type", q.ParticipantType,
	))

	result, err := query.Fetch(ctx, in.Store, key, func(ctx context.Context) (model.Page[model.FormSubmission], error) {
		return in.Backend.ListSubmissions(ctx, formID, q)
	})
	if err != nil {
		fail(ctx, span, w, "failed to list submissions", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, result)
}

func (in SubmissionHttp) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "SubmissionHttp.get")
	defer span.End()

	formID, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	submissionID, err := pathID(r, "submission_id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	item, err := in.Backend.GetSubmission(ctx, formID, submissionID)
	if err != nil {
		fail(ctx, span, w, "failed to get submission", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, item)
}

func (in SubmissionHttp) export(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "SubmissionHttp.export")
	defer span.End()

	formID, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	q := submissionQuery(r)
	q.Page, q.PerPage = 0, 0

	submissions, err := in.Backend.ListAllSubmissions(ctx, formID, q)
	if err != nil {
		fail(ctx, span, w, "failed to list submissions for export", err)
		return
	}

	filename := export.FileName(fmt.Sprintf("form-%s-submissions", formID), in.TimeNow())
	err = writeCSV(w, filename, func(out io.Writer) error {
		return export.WriteSubmissions(out, submissions)
	})
	if err != nil {
		fail(ctx, span, w, "failed to export submissions", err)
		return
	}
}

func (in SubmissionHttp) analytics(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "SubmissionHttp.analytics")
	defer span.End()

	formID, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var (
		f           model.Form
		submissions []model.FormSubmission
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		f, err = in.Backend.GetForm(gctx, formID)
		return err
	})
	g.Go(func() error {
		var err error
		submissions, err = in.Backend.ListAllSubmissions(gctx, formID, model.SubmissionQuery{})
		return err
	})
	if err := g.Wait(); err != nil {
		fail(ctx, span, w, "failed to load form analytics", err)
		return
	}

	f.Fields = form.Ordered(f.Fields)
	writeJSONResponse(w, http.StatusOK, form.Analyze(f, submissions))
}
