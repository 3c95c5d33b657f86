package http

import (
	"context"
	"encoding/json"
	"errors"
	"eventdesk/common"
	"eventdesk/common/errs"
	"eventdesk/model"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSONResponse(t *testing.T) {
	tests := []struct {
		name           string
		statusCode     int
		data           interface{}
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success with data",
			statusCode:     http.StatusOK,
			data:           map[string]interface{}{"key": "value"},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"key":"value"}`,
		},
		{
			name:           "success with nil data",
			statusCode:     http.StatusCreated,
			data:           nil,
			expectedStatus: http.StatusCreated,
			expectedBody:   "",
		},
		{
			name:           "success with empty struct",
			statusCode:     http.StatusAccepted,
			data:           struct{}{},
			expectedStatus: http.StatusAccepted,
			expectedBody:   `{}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			writeJSONResponse(w, tc.statusCode, tc.data)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			body := strings.TrimSpace(w.Body.String())
			assert.Equal(t, tc.expectedBody, body)
		})
	}
}

func TestWriteErrorResponse(t *testing.T) {
	validate := validator.New()

	type testStruct struct {
		Name  string `validate:"required"`
		Email string `validate:"email"`
	}

	invalidStruct := testStruct{Name: "", Email: "invalid"}
	validationErr := validate.Struct(invalidStruct)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
		checkFields    func(t *testing.T, body map[string]interface{})
	}{
		{
			name:           "nil error",
			err:            nil,
			expectedStatus: http.StatusOK,
			expectedBody:   "",
		},
		{
			name:           "http error",
			err:            &errs.HttpError{Code: http.StatusNotFound, Message: "Not Found"},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Not Found"}`,
		},
		{
			name:           "validation error",
			err:            validationErr,
			expectedStatus: http.StatusBadRequest,
			checkFields: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "Validation failed", body["error"])
				data, ok := body["data"].(map[string]interface{})
				require.True(t, ok)
				assert.Contains(t, data, "Name")
				assert.Contains(t, data, "Email")
			},
		},
		{
			name:           "wrapped http error",
			err:            fmt.Errorf("get vendor: %w", &errs.HttpError{Code: http.StatusBadGateway, Message: "Something went wrong"}),
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"Something went wrong"}`,
		},
		{
			name:           "field scoped http error",
			err:            errs.Validation(map[string]string{"email": "email"}),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"error":"Validation failed","data":{"email":"email"}}`,
		},
		{
			name:           "deadline exceeded",
			err:            fmt.Errorf("GET /vendors: %w", context.DeadlineExceeded),
			expectedStatus: http.StatusGatewayTimeout,
			expectedBody:   `{"error":"Upstream timeout"}`,
		},
		{
			name:           "generic error",
			err:            errors.New("something went wrong"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Internal Server Error"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			writeErrorResponse(w, tc.err)

			if tc.err == nil {
				assert.Empty(t, w.Body.String())
				return
			}

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			if tc.expectedBody != "" {
				body := strings.TrimSpace(w.Body.String())
				assert.Equal(t, tc.expectedBody, body)
			}

			if tc.checkFields != nil {
				var responseBody map[string]interface{}
				err := json.Unmarshal(w.Body.Bytes(), &responseBody)
				require.NoError(t, err)
				tc.checkFields(t, responseBody)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	validate := common.NewValidator()

	err := validateStruct(validate, model.VendorStatusRequest{Status: "gone"})
	require.Error(t, err)

	var httpErr *errs.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Code)
	assert.Equal(t, map[string]string{"status": "oneof"}, httpErr.Data)

	assert.NoError(t, validateStruct(validate, model.VendorStatusRequest{Status: model.VendorStatusActive}))
}

func TestListQuery(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		expected model.ListQuery
	}{
		{name: "defaults", target: "/api/vendors", expected: model.ListQuery{Page: 1, PerPage: defaultPerPage}},
		{name: "explicit", target: "/api/vendors?page=3&per_page=20&search=%20cater%20", expected: model.ListQuery{Page: 3, PerPage: 20, Search: "cater"}},
		{name: "clamped", target: "/api/vendors?page=-1&per_page=1000", expected: model.ListQuery{Page: 1, PerPage: maxPerPage}},
		{name: "garbage", target: "/api/vendors?page=x&per_page=y", expected: model.ListQuery{Page: 1, PerPage: defaultPerPage}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, listQuery(httptest.NewRequest(http.MethodGet, tc.target, nil)))
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, pagination := paginate(items, model.ListQuery{Page: 2, PerPage: 2})
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, model.Pagination{CurrentPage: 2, PerPage: 2, Total: 5, LastPage: 3}, pagination)

	page, pagination = paginate(items, model.ListQuery{Page: 3, PerPage: 2})
	assert.Equal(t, []int{5}, page)
	assert.Equal(t, 3, pagination.LastPage)

	page, _ = paginate(items, model.ListQuery{Page: 9, PerPage: 2})
	assert.Empty(t, page)

	page, pagination = paginate(items, model.ListQuery{Page: 922337203685477580, PerPage: 20})
	assert.Empty(t, page)
	assert.Equal(t, model.Pagination{CurrentPage: 922337203685477580, PerPage: 20, Total: 5, LastPage: 1}, pagination)

	page, pagination = paginate([]int{}, model.ListQuery{})
	assert.Empty(t, page)
	assert.Equal(t, model.Pagination{CurrentPage: 1, PerPage: defaultPerPage, Total: 0, LastPage: 1}, pagination)
}

func TestPathID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/vendors/12", nil)
	req.SetPathValue("id", "12")
	id, err := pathID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, model.ID(12), id)

	req.SetPathValue("id", "abc")
	_, err = pathID(req, "id")
	assert.Equal(t, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid id"}, err)

	req.SetPathValue("field_id", "0")
	_, err = pathID(req, "field_id")
	assert.Equal(t, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid field id"}, err)
}

func TestWriteCSV(t *testing.T) {
	w := httptest.NewRecorder()
	err := writeCSV(w, "payments-2025-06-01.csv", func(out io.Writer) error {
		_, err := io.WriteString(out, "id\n1\n")
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="payments-2025-06-01.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "id\n1\n", w.Body.String())

	w = httptest.NewRecorder()
	err = writeCSV(w, "x.csv", func(io.Writer) error { return errors.New("boom") })
	assert.EqualError(t, err, "boom")
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}
