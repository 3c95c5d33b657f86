package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"eventdesk/common"
	"eventdesk/common/auth"
	"eventdesk/common/constant"
	"eventdesk/common/contract"
	"eventdesk/common/errs"
	"eventdesk/model"
	"eventdesk/outbound/query"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeErrorResponse(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")

	var message string
	var data any

	var httpErr *errs.HttpError
	var validationErr validator.ValidationErrors
	switch {
	case errors.As(err, &httpErr):
		message = httpErr.Message
		data = httpErr.Data
		w.WriteHeader(httpErr.Code)
	case errors.As(err, &validationErr):
		message = "Validation failed"
		w.WriteHeader(http.StatusBadRequest)

		validationErrors := make(map[string]string)
		for _, fieldErr := range validationErr {
			validationErrors[fieldErr.Field()] = fieldErr.Tag()
		}

		data = validationErrors
	case errors.Is(err, context.DeadlineExceeded):
		message = "Upstream timeout"
		w.WriteHeader(http.StatusGatewayTimeout)
	default:
		message = "Internal Server Error"
		w.WriteHeader(500)
	}

	errorResponse := model.ErrorResponse{Error: message, Data: data}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// fail records err on the span, logs it and writes the error response.
// Client errors are logged at debug level.
func fail(ctx context.Context, span trace.Span, w http.ResponseWriter, msg string, err error) {
	common.UtilSpanError(span, err)

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	var httpErr *errs.HttpError
	if errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError {
		slog.DebugContext(ctx, msg, traceIdAttr, slog.Any(constant.LogFieldErr, err))
	} else {
		slog.ErrorContext(ctx, msg, traceIdAttr, slog.Any(constant.LogFieldErr, err))
	}

	writeErrorResponse(w, err)
}

// writeCSV buffers the whole document so a failing writer still produces a
// JSON error instead of a truncated download.
func writeCSV(w http.ResponseWriter, filename string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(buf.Bytes())
	return err
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"}
	}
	return nil
}

func pathID(r *http.Request, name string) (model.ID, error) {
	id, err := model.ParseID(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid " + strings.ReplaceAll(name, "_", " ")}
	}
	return id, nil
}

func queryID(values url.Values, name string) model.ID {
	id, err := model.ParseID(values.Get(name))
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func listQuery(r *http.Request) model.ListQuery {
	values := r.URL.Query()

	page, _ := strconv.Atoi(values.Get("page"))
	if page < 1 {
		page = 1
	}

	perPage, _ := strconv.Atoi(values.Get("per_page"))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return model.ListQuery{Page: page, PerPage: perPage, Search: strings.TrimSpace(values.Get("search"))}
}

// validateStruct reports validator failures as a field scoped 422.
func validateStruct(validate *validator.Validate, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErr validator.ValidationErrors
	if !errors.As(err, &validationErr) {
		return err
	}

	return errs.Validation(errs.FieldErrors(validationErr))
}

func validatorFor[T any](validate *validator.Validate, extra ...func(T) error) func(T) error {
	return func(v T) error {
		if err := validateStruct(validate, v); err != nil {
			return err
		}
		for _, check := range extra {
			if err := check(v); err != nil {
				return err
			}
		}
		return nil
	}
}

type mutation struct {
	Entity   string
	Action   string
	EntityID model.ID
	Payload  any
}

// afterMutation drops the cached lists a successful mutation affects and
// records it in the audit trail. Neither step fails the request.
func afterMutation(ctx context.Context, store *query.Store, publisher contract.Publisher, m mutation, names ...string) {
	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	if err := store.Invalidate(ctx, names...); err != nil {
		slog.WarnContext(ctx, "failed to invalidate queries after mutation", traceIdAttr, slog.Any(constant.LogFieldErr, err))
	}

	if publisher == nil {
		return
	}

	var payload json.RawMessage
	if m.Payload != nil {
		data, err := json.Marshal(m.Payload)
		if err == nil {
			payload = data
		}
	}

	err := common.PublishMessage(ctx, publisher, constant.SubjectRecordAudit, model.AuditEventMessage{
		ID:         ulid.Make().String(),
		Action:     m.Action,
		Entity:     m.Entity,
		EntityID:   m.EntityID.String(),
		Actor:      auth.Actor(ctx),
		Payload:    payload,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to publish audit event", traceIdAttr,
			slog.String("entity", m.Entity), slog.String("action", m.Action), slog.Any(constant.LogFieldErr, err))
	}
}

// queueEmail publishes one email per recipient and returns how many were
// queued and which recipients failed.
func queueEmail(ctx context.Context, publisher contract.Publisher, recipients []string, subject, body string) (int, []string) {
	queued := 0
	failed := []string{}
	for _, to := range recipients {
		err := common.PublishMessage(ctx, publisher, constant.SubjectSendEmail, model.SendEmailEventMessage{
			To:      to,
			Subject: subject,
			Body:    body,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to queue email", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
			failed = append(failed, to)
			continue
		}
		queued++
	}
	return queued, failed
}

func cacheParams(values ...string) url.Values {
	params := url.Values{}
	for i := 0; i+1 < len(values); i += 2 {
		if values[i+1] != "" && values[i+1] != "0" {
			params.Set(values[i], values[i+1])
		}
	}
	return params
}

func listParams(q model.ListQuery, values ...string) url.Values {
	return cacheParams(append([]string{
		"page", strconv.Itoa(q.Page),
		"per_page", strconv.Itoa(q.PerPage),
		"search", q.Search,
	}, values...)...)
}

// paginate slices an already filtered list for the requested page.
func paginate[T any](items []T, q model.ListQuery) ([]T, model.Pagination) {
	perPage := q.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	lastPage := (len(items) + perPage - 1) / perPage
	if lastPage == 0 {
		lastPage = 1
	}

	pagination := model.Pagination{CurrentPage: page, PerPage: perPage, Total: len(items), LastPage: lastPage}

	if page > lastPage {
		return []T{}, pagination
	}
	start := (page - 1) * perPage
	end := min(start+perPage, len(items))

	return items[start:end], pagination
}
