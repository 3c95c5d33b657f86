package common

import (
	"context"
	"encoding/json"
	"eventdesk/common/constant"
	"eventdesk/common/contract"
	"eventdesk/common/otel"
	"eventdesk/model"
	"log/slog"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	referralCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]*$`)
	fieldKeyPattern     = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

func ExtractTraceIDFromCtx(ctx context.Context) slog.Attr {
	span := trace.SpanFromContext(ctx)
	traceId := ""

	if span != nil && span.SpanContext().HasTraceID() {
		traceId = span.SpanContext().TraceID().String()
	} else {
		traceId = ulid.Make().String()
	}

	return slog.Any(constant.LogFieldTraceId, traceId)
}

func UtilSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}

	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}

func PublishMessage(ctx context.Context, publisher contract.Publisher, subject string, body any) error {
	ctx, span := otel.Tracer.Start(ctx, "publishMessage")
	defer span.End()

	traceIdAttr := ExtractTraceIDFromCtx(ctx)

	data, err := json.Marshal(body)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		UtilSpanError(span, err)
		return err
	}

	_, err = publisher.Publish(ctx, subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		UtilSpanError(span, err)
		return err
	}

	return nil
}

// NewValidator returns a validator that reports fields by their json name and
// knows the eventdesk specific tags.
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	_ = validate.RegisterValidation("referral_code", func(fl validator.FieldLevel) bool {
		return referralCodePattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("field_key", func(fl validator.FieldLevel) bool {
		return fieldKeyPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("field_type", func(fl validator.FieldLevel) bool {
		return model.FieldType(fl.Field().String()).Valid()
	})

	return validate
}

func NewCurrencyPrinter(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// FormatCurrency renders amount with zero fraction digits, e.g. "ETB 50,000".
func FormatCurrency(printer *message.Printer, currency string, amount float64) string {
	if currency == "" {
		currency = constant.DefaultCurrency
	}
	return printer.Sprintf("%s %d", currency, int64(math.Round(amount)))
}
