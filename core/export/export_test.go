package export

import (
	"bytes"
	"eventdesk/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSubmissions() []model.FormSubmission {
	return []model.FormSubmission{
		{ID: 1, Status: model.SubmissionStatusCompleted, ParticipantType: "guest", CreatedAt: "2025-06-01T09:00:00Z",
			SubmissionData: model.SubmissionData{"name": "Abebe", "topics": []any{"music", "food"}, "guests": 2.0}},
		{ID: 2, Status: model.SubmissionStatusPending, CreatedAt: "2025-06-02T09:00:00Z",
			SubmissionData: model.SubmissionData{"email": "hana@example.com", "name": "Hana, \"H\""}},
	}
}

func TestWriteSubmissions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSubmissions(&buf, sampleSubmissions()))

	expected := "id,status,participant_type,created_at,email,guests,name,topics\n" +
		"1,completed,guest,2025-06-01T09:00:00Z,,2,Abebe,\"music,food\"\n" +
		"2,pending,,2025-06-02T09:00:00Z,hana@example.com,,\"Hana, \"\"H\"\"\",\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteSubmissionsIsDeterministic(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, WriteSubmissions(&first, sampleSubmissions()))
	require.NoError(t, WriteSubmissions(&second, sampleSubmissions()))

	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestWriteSubmissionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSubmissions(&buf, nil))
	assert.Equal(t, "id,status,participant_type,created_at\n", buf.String())
}

func TestWritePayments(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePayments(&buf, []model.Payment{
		{ID: 4, ReferenceNumber: "TRX-9", Amount: 1250.5, PaymentType: model.PaymentTypeBonus,
			PaymentMethod: model.PaymentMethodCash, Status: model.PaymentStatusPaid, PaidAt: "2025-06-03",
			Vendor: &model.VendorSummary{Name: "Acme"}},
	}))

	expected := "id,reference_number,vendor,event,payment_type,payment_method,status,amount,currency,due_date,paid_at,notes\n" +
		"4,TRX-9,Acme,,bonus,cash,paid,1250.50,ETB,,2025-06-03,\n"
	assert.Equal(t, expected, buf.String())
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "form-12-submissions-2025-06-01.csv", FileName("form-12-submissions", now))
}
