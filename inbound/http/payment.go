package http

import (
	"context"
	"eventdesk/common"
	"eventdesk/common/constant"
	"eventdesk/common/contract"
	"eventdesk/common/errs"
	"eventdesk/common/otel"
	"eventdesk/core/dialog"
	"eventdesk/core/export"
	"eventdesk/core/payment"
	"eventdesk/model"
	"eventdesk/outbound/backend"
	"eventdesk/outbound/query"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/message"
)

type PaymentHttp struct {
	Backend   *backend.Client
	Store     *query.Store
	Publisher contract.Publisher
	Validate  *validator.Validate
	Printer   *message.Printer

	TimeNow func() time.Time
}

func RegisterPaymentHttp(
	mux *http.ServeMux,
	client *backend.Client,
	store *query.Store,
	publisher contract.Publisher,
	validate *validator.Validate,
	printer *message.Printer,
) *PaymentHttp {
	in := &PaymentHttp{
		Backend:   client,
		Store:     store,
		Publisher: publisher,
		Validate:  validate,
		Printer:   printer,
		TimeNow:   time.Now,
	}

	mux.HandleFunc("GET /api/payments", in.list)
	mux.HandleFunc("GET /api/payments/statistics", in.statistics)
	mux.HandleFunc("GET /api/payments/export", in.export)
	mux.HandleFunc("POST /api/payments", in.create)
	mux.HandleFunc("GET /api/payments/{id}", in.get)
	mux.HandleFunc("POST /api/payments/{id}/mark-paid", in.markPaid)
	mux.HandleFunc("POST /api/payments/{id}/cancel", in.cancel)
	mux.HandleFunc("POST /api/payments/{id}/remind", in.remind)

	return in
}

func fetchPayments(ctx context.Context, store *query.Store, client *backend.Client, eventID model.ID) ([]model.Payment, error) {
	key := query.NewKey(constant.QueryPayments, cacheParams("event_id", eventID.String()))
	return query.Fetch(ctx, store, key, func(ctx context.Context) ([]model.Payment, error) {
		return client.ListAllPayments(ctx, model.PaymentQuery{EventID: eventID})
	})
}

func criteriaOf(r *http.Request) payment.Criteria {
	values := r.URL.Query()
	return payment.Criteria{
		Status:      values.Get("status"),
		PaymentType: values.Get("payment_type"),
		VendorID:    queryID(values, "vendor_id"),
		Search:      strings.TrimSpace(values.Get("search")),
	}
}

func (in PaymentHttp) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "PaymentHttp.list")
	defer span.End()

	all, err := fetchPayments(ctx, in.Store, in.Backend, queryID(r.URL.Query(), "event_id"))
	if err != nil {
		fail(ctx, span, w, "failed to list payments", err)
		return
	}

	filtered := payment.Filter(all, criteriaOf(r))
	page, pagination := paginate(filtered, listQuery(r))

	writeJSONResponse(w, http.StatusOK, model.PaymentListResponse{
		Payments:   page,
		Summary:    payment.Summarize(all),
		Pagination: pagination,
	})
}

func (in PaymentHttp) statistics(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "PaymentHttp.statistics")
	defer span.End()

	result, err := query.Fetch(ctx, in.Store, query.NewKey(constant.QueryPaymentStatistics, nil), in.Backend.PaymentStatistics)
	if err != nil {
		fail(ctx, span, w, "failed to get payment statistics", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, result)
}

func (in PaymentHttp) export(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "PaymentHttp.export")
	defer span.End()

	all, err := fetchPayments(ctx, in.Store, in.Backend, queryID(r.URL.Query(), "event_id"))
	if err != nil {
		fail(ctx, span, w, "failed to list payments for export", err)
		return
	}

	filtered := payment.Filter(all, criteriaOf(r))
	err = writeCSV(w, export.FileName("payments", in.TimeNow()), func(out io.Writer) error {
		return export.WritePayments(out, filtered)
	})
	if err != nil {
		fail(ctx, span, w, "failed to export payments", err)
		return
	}
}

func (in PaymentHttp) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "PaymentHttp.get")
	defer span.End()

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	item, err := in.Backend.GetPayment(ctx, id)
	if err != nil {
		fail(ctx, span, w, "failed to get payment", err)
		return
	}

	writeJSONResponse(w, http.StatusOK, item)
}

func (in PaymentHttp) create(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "PaymentHttp.create")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "create payment receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	if req.Currency == "" {
		req.Currency = constant.DefaultCurrency
	}

	created, err := dialog.Run(ctx, req, validatorFor(in.Validate, payment.ValidateRequest), in.Backend.CreatePayment)
	if err != nil {
		fail(ctx, span, w, "failed to create payment", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityPayment,
		Action:   constant.AuditActionCreate,
		EntityID: created.ID,
		Payload:  created,
	}, constant.QueryPayments, constant.QueryPaymentStatistics)

	writeJSONResponse(w, http.StatusCreated, created)
}

func validateMarkPaid(req model.MarkPaidRequest) error {
	if req.PaidAt == "" {
		return nil
	}
	if _, ok := model.ParseTime(req.PaidAt); !ok {
		return errs.Validation(map[string]string{"paid_at": "datetime"})
	}
	return nil
}

func (in PaymentHttp) markPaid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.MarkPaidRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeErrorResponse(w, err)
			return
		}
	}

	ctx, span := otel.Tracer.Start(r.Context(), "PaymentHttp.markPaid")
	defer span.End()

	if req.PaidAt == "" {
		req.PaidAt = in.TimeNow().UTC().Format(time.RFC3339)
	}

	paid, err := dialog.Run(ctx, req, validatorFor(in.Validate, validateMarkPaid),
		func(ctx context.Context, req model.MarkPaidRequest) (model.Payment, error) {
			current, err := in.Backend.GetPayment(ctx, id)
			if err != nil {
				return model.Payment{}, err
			}
			if err := payment.CanMarkPaid(current); err != nil {
				return model.Payment{}, err
			}
			return in.Backend.MarkPaymentPaid(ctx, id, req)
		})
	if err != nil {
		fail(ctx, span, w, "failed to mark payment as paid", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityPayment,
		Action:   constant.AuditActionMarkPaid,
		EntityID: id,
		Payload:  req,
	}, constant.QueryPayments, constant.QueryPaymentStatistics)

	writeJSONResponse(w, http.StatusOK, paid)
}

func (in PaymentHttp) cancel(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "PaymentHttp.cancel")
	defer span.End()

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	cancelled, err := dialog.Run(ctx, id, nil, func(ctx context.Context, id model.ID) (model.Payment, error) {
		current, err := in.Backend.GetPayment(ctx, id)
		if err != nil {
			return model.Payment{}, err
		}
		if err := payment.CanCancel(current); err != nil {
			return model.Payment{}, err
		}
		return in.Backend.CancelPayment(ctx, id)
	})
	if err != nil {
		fail(ctx, span, w, "failed to cancel payment", err)
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityPayment,
		Action:   constant.AuditActionCancel,
		EntityID: id,
	}, constant.QueryPayments, constant.QueryPaymentStatistics)

	writeJSONResponse(w, http.StatusOK, cancelled)
}

// remind queues a reminder email to the vendor of a payment.
func (in PaymentHttp) remind(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "PaymentHttp.remind")
	defer span.End()

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	item, err := in.Backend.GetPayment(ctx, id)
	if err != nil {
		fail(ctx, span, w, "failed to get payment", err)
		return
	}

	vendorName, vendorEmail := "", ""
	if item.Vendor != nil {
		vendorName, vendorEmail = item.Vendor.Name, item.Vendor.Email
	}
	if vendorEmail == "" {
		v, err := in.Backend.GetVendor(ctx, item.VendorID)
		if err != nil {
			fail(ctx, span, w, "failed to get payment vendor", err)
			return
		}
		vendorName, vendorEmail = v.Name, v.Email
	}
	if vendorEmail == "" {
		writeErrorResponse(w, errs.Conflict("Vendor has no email address"))
		return
	}

	currency := item.Currency
	if currency == "" {
		currency = constant.DefaultCurrency
	}
	dueDate := item.DueDate
	if dueDate == "" {
		dueDate = "-"
	}
	reference := item.ReferenceNumber
	if reference == "" {
		reference = "#" + item.ID.String()
	}

	subject := fmt.Sprintf(constant.EmailPaymentReminderSubject, "reminder", reference)
	body := fmt.Sprintf(constant.EmailPaymentReminderTemplate,
		vendorName,
		item.ID.String(),
		strings.ReplaceAll(string(item.PaymentType), "_", " "),
		common.FormatCurrency(in.Printer, currency, item.Amount.Float()),
		item.Status,
		dueDate,
	)

	queued, failed := queueEmail(ctx, in.Publisher, []string{vendorEmail}, subject, body)
	if queued == 0 {
		fail(ctx, span, w, "failed to queue payment reminder", &errs.HttpError{Code: http.StatusBadGateway, Message: "Reminder could not be queued"})
		return
	}

	afterMutation(ctx, in.Store, in.Publisher, mutation{
		Entity:   constant.AuditEntityPayment,
		Action:   constant.AuditActionRemind,
		EntityID: id,
		Payload:  map[string]any{"to": vendorEmail},
	})

	writeJSONResponse(w, http.StatusAccepted, shareEmailResponse{Queued: queued, Failed: failed})
}
