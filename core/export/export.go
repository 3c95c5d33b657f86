package export

import (
	"encoding/csv"
	"eventdesk/core/form"
	"eventdesk/model"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"
)

var submissionColumns = []string{"id", "status", "participant_type", "created_at"}

var paymentColumns = []string{
	"id", "reference_number", "vendor", "event", "payment_type", "payment_method",
	"status", "amount", "currency", "due_date", "paid_at", "notes",
}

// SubmissionKeys is the sorted union of submission_data keys.
func SubmissionKeys(submissions []model.FormSubmission) []string {
	seen := map[string]struct{}{}
	for _, s := range submissions {
		for k := range s.SubmissionData {
			seen[k] = struct{}{}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteSubmissions writes one row per submission in input order. The output
// only depends on the input, so exporting the same set twice is byte-identical.
func WriteSubmissions(w io.Writer, submissions []model.FormSubmission) error {
	keys := SubmissionKeys(submissions)

	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, submissionColumns...), keys...)); err != nil {
		return fmt.Errorf("write submissions header: %w", err)
	}

	row := make([]string, len(submissionColumns)+len(keys))
	for _, s := range submissions {
		row[0] = s.ID.String()
		row[1] = string(s.Status)
		row[2] = s.ParticipantType
		row[3] = s.CreatedAt
		for i, k := range keys {
			row[len(submissionColumns)+i] = form.Stringify(s.SubmissionData[k])
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write submission %s: %w", s.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush submissions: %w", err)
	}
	return nil
}

func WritePayments(w io.Writer, payments []model.Payment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(paymentColumns); err != nil {
		return fmt.Errorf("write payments header: %w", err)
	}

	for _, p := range payments {
		vendor, event := "", ""
		if p.Vendor != nil {
			vendor = p.Vendor.Name
		}
		if p.Event != nil {
			event = p.Event.Name
		}

		currency := p.Currency
		if currency == "" {
			currency = "ETB"
		}

		row := []string{
			p.ID.String(),
			p.ReferenceNumber,
			vendor,
			event,
			string(p.PaymentType),
			string(p.PaymentMethod),
			string(p.Status),
			strconv.FormatFloat(p.Amount.Float(), 'f', 2, 64),
			currency,
			p.DueDate,
			p.PaidAt,
			p.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write payment %s: %w", p.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush payments: %w", err)
	}
	return nil
}

// FileName builds the attachment name, e.g. "form-12-submissions-2025-06-01.csv".
func FileName(subject string, now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", subject, now.Format(time.DateOnly))
}
