package errs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// DefaultMessage is shown when neither eventdesk nor the upstream API has a
// better explanation.
const DefaultMessage = "Something went wrong"

type HttpError struct {
	Code    int
	Message string
	Data    any
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("code %d: %s, data: %v", e.Code, e.Message, e.Data)
}

var (
	ErrNotFound = &HttpError{Code: http.StatusNotFound, Message: "Not found"}
)

func Validation(fields map[string]string) *HttpError {
	return &HttpError{Code: http.StatusUnprocessableEntity, Message: "Validation failed", Data: fields}
}

func BadRequest(message string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message}
}

func Conflict(message string) *HttpError {
	return &HttpError{Code: http.StatusConflict, Message: message}
}

// FieldErrors returns the per-field messages carried by err, or nil when err
// is not field scoped.
func FieldErrors(err error) map[string]string {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		fields := make(map[string]string, len(validationErr))
		for _, fieldErr := range validationErr {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
		return fields
	}

	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		switch data := httpErr.Data.(type) {
		case map[string]string:
			if len(data) > 0 {
				return data
			}
		case map[string]any:
			fields := make(map[string]string, len(data))
			for k, v := range data {
				fields[k] = fmt.Sprint(v)
			}
			if len(fields) > 0 {
				return fields
			}
		}
	}

	return nil
}

// Message returns a human readable message for err, falling back to
// DefaultMessage.
func Message(err error) string {
	var httpErr *HttpError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return DefaultMessage
}
