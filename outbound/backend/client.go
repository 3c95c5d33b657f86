package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"eventdesk/common"
	"eventdesk/common/constant"
	"eventdesk/common/errs"
	"eventdesk/common/otel"
	"eventdesk/model"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxResponseSize = 10 << 20

	// maxPages bounds walkPages against an upstream that never reports a
	// last page.
	maxPages       = 200
	defaultPerPage = 100
)

var errUnexpectedShape = errors.New("unexpected response shape")

// Client talks to the upstream event-management REST API. Every list it
// returns is normalized into model.Page whatever envelope upstream used.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	NewIdempotencyKey func() string
}

func NewClient(cfg *viper.Viper) *Client {
	return &Client{
		BaseURL:           strings.TrimRight(cfg.GetString("backend.base_url"), "/"),
		Token:             cfg.GetString("backend.token"),
		HTTP:              &http.Client{Timeout: cfg.GetDuration("backend.timeout")},
		NewIdempotencyKey: uuid.NewString,
	}
}

type upstreamError struct {
	Message string         `json:"message"`
	Error   string         `json:"error"`
	Errors  map[string]any `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	ctx, span := otel.Tracer.Start(ctx, "backend "+method+" "+routeName(path), trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)

	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if method != http.MethodGet && c.NewIdempotencyKey != nil {
		req.Header.Set("Idempotency-Key", c.NewIdempotencyKey())
	}

	upstreamAttr := slog.String(constant.LogFieldUpstream, method+" "+path)
	start := time.Now()

	resp, err := c.HTTP.Do(req)
	if err != nil {
		common.UtilSpanError(span, err)
		if ctx.Err() != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctx.Err())
		}

		slog.ErrorContext(ctx, "upstream request failed", upstreamAttr, common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		return &errs.HttpError{Code: http.StatusBadGateway, Message: errs.DefaultMessage}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		common.UtilSpanError(span, err)
		slog.ErrorContext(ctx, "failed to read upstream response", upstreamAttr, slog.Any(constant.LogFieldErr, err))
		return &errs.HttpError{Code: http.StatusBadGateway, Message: errs.DefaultMessage}
	}

	slog.DebugContext(ctx, "upstream response", upstreamAttr,
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		httpErr := decodeError(resp.StatusCode, raw)
		common.UtilSpanError(span, httpErr)
		if resp.StatusCode >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "upstream server error", upstreamAttr, slog.Int("status", resp.StatusCode), slog.String(constant.LogFieldResponse, string(raw)))
		}
		return httpErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if target, ok := out.(*json.RawMessage); ok {
		*target = append((*target)[:0], raw...)
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		common.UtilSpanError(span, err)
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	return nil
}

// decodeError maps an upstream failure. 4xx keeps the upstream status, its
// message and its per-field errors; 5xx becomes 502 with the upstream message
// or the default one.
func decodeError(status int, raw []byte) *errs.HttpError {
	var body upstreamError
	_ = json.Unmarshal(raw, &body)

	message := body.Message
	if message == "" {
		message = body.Error
	}

	if status >= http.StatusInternalServerError {
		if message == "" {
			message = errs.DefaultMessage
		}
		return &errs.HttpError{Code: http.StatusBadGateway, Message: message}
	}

	httpErr := &errs.HttpError{Code: status, Message: message}
	if fields := flattenFieldErrors(body.Errors); len(fields) > 0 {
		httpErr.Data = fields
		if httpErr.Message == "" {
			httpErr.Message = "Validation failed"
		}
	}
	if httpErr.Message == "" {
		httpErr.Message = http.StatusText(status)
	}

	return httpErr
}

// flattenFieldErrors keeps the first message of each field. Upstream sends
// either "field": "msg" or "field": ["msg", ...].
func flattenFieldErrors(in map[string]any) map[string]string {
	if len(in) == 0 {
		return nil
	}

	out := make(map[string]string, len(in))
	for field, v := range in {
		switch t := v.(type) {
		case string:
			out[field] = t
		case []any:
			if len(t) > 0 {
				out[field] = fmt.Sprint(t[0])
			}
		default:
			out[field] = fmt.Sprint(t)
		}
	}
	return out
}

func routeName(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if _, err := strconv.ParseInt(part, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func getList[T any](ctx context.Context, c *Client, path string, query url.Values) (model.Page[T], error) {
	return sendList[T](ctx, c, http.MethodGet, path, query, nil)
}

func sendList[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (model.Page[T], error) {
	var raw json.RawMessage
	if err := c.do(ctx, method, path, query, body, &raw); err != nil {
		return model.Page[T]{}, err
	}

	page, err := decodePage[T](raw)
	if err != nil {
		return model.Page[T]{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return page, nil
}

func getItem[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	return sendItem[T](ctx, c, http.MethodGet, path, query, nil)
}

func sendItem[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var item T
	var raw json.RawMessage
	if err := c.do(ctx, method, path, query, body, &raw); err != nil {
		return item, err
	}

	if err := decodeItem(raw, &item); err != nil {
		return item, fmt.Errorf("decode %s: %w", path, err)
	}
	return item, nil
}

// walkPages collects every item of a paginated list, one request per page.
func walkPages[T any](perPage int, fetch func(page, perPage int) (model.Page[T], error)) ([]T, error) {
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	var all []T
	for page := 1; page <= maxPages; page++ {
		result, err := fetch(page, perPage)
		if err != nil {
			return nil, err
		}

		all = append(all, result.Data...)
		if len(result.Data) == 0 || page >= result.Pagination.LastPage {
			break
		}
	}

	return all, nil
}

type pageEnvelope struct {
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Meta       *model.Pagination `json:"meta"`
}

// decodePage accepts a bare array, {"data": [...]} and
// {"data": {"data": [...], ...pagination}}.
func decodePage[T any](raw []byte) (model.Page[T], error) {
	items, pagination, err := decodeItems[T](raw)
	if err != nil {
		return model.Page[T]{}, err
	}

	if items == nil {
		items = []T{}
	}

	if pagination == nil {
		pagination = &model.Pagination{CurrentPage: 1, PerPage: len(items), Total: len(items), LastPage: 1}
	}
	if pagination.LastPage == 0 && pagination.PerPage > 0 {
		pagination.LastPage = (pagination.Total + pagination.PerPage - 1) / pagination.PerPage
	}
	if pagination.LastPage == 0 {
		pagination.LastPage = 1
	}

	return model.Page[T]{Data: items, Pagination: *pagination}, nil
}

func decodeItems[T any](raw []byte) ([]T, *model.Pagination, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil, nil
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, nil, err
		}
		return items, nil, nil
	}

	if raw[0] != '{' {
		return nil, nil, errUnexpectedShape
	}

	var env pageEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, nil, err
	}
	if env.Data == nil {
		return nil, nil, errUnexpectedShape
	}

	items, inner, err := decodeItems[T](env.Data)
	if err != nil {
		return nil, nil, err
	}

	if inner != nil {
		return items, inner, nil
	}
	if env.Pagination != nil {
		return items, env.Pagination, nil
	}
	if env.Meta != nil {
		return items, env.Meta, nil
	}

	var flat model.Pagination
	if err := json.Unmarshal(raw, &flat); err == nil && (flat.Total > 0 || flat.CurrentPage > 0) {
		return items, &flat, nil
	}

	return items, nil, nil
}

// decodeItem unwraps a {"data": {...}} envelope when the object is not an
// entity itself.
func decodeItem(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return err
		}

		if data, ok := fields["data"]; ok {
			if _, isEntity := fields["id"]; !isEntity {
				return decodeItem(data, out)
			}
		}
	}

	return json.Unmarshal(raw, out)
}

func listValues(q model.ListQuery) url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	return values
}

func setID(values url.Values, key string, id model.ID) {
	if id != 0 {
		values.Set(key, id.String())
	}
}

func setString(values url.Values, key, value string) {
	if value != "" && value != "all" {
		values.Set(key, value)
	}
}
