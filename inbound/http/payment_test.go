package http

import (
	"encoding/csv"
	"encoding/json"
	"eventdesk/common"
	"eventdesk/common/constant"
	jetsteamMock "eventdesk/common/jetstream/mocks"
	"eventdesk/model"
	"eventdesk/outbound/query"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const paymentListBody = `{"data":[
	{"id":1,"vendor_id":4,"amount":"1000","currency":"ETB","payment_type":"quotation_payment","payment_method":"cash","status":"paid","reference_number":"PAY-1","vendor":{"id":4,"name":"Blue Nile Catering"}},
	{"id":2,"vendor_id":4,"amount":500,"payment_type":"referral_commission","payment_method":"bank_transfer","status":"pending","due_date":"2025-06-10"},
	{"id":3,"vendor_id":5,"amount":250,"payment_type":"bonus","payment_method":"cash","status":"overdue"},
	{"id":4,"vendor_id":5,"amount":9999,"payment_type":"penalty","payment_method":"cash","status":"cancelled","notes":"void, duplicate"}
]}`

type PaymentHttpTestSuite struct {
	suite.Suite

	upstream  *fakeUpstream
	Publisher *jetsteamMock.MockPublisher
	handler   *PaymentHttp
}

func (s *PaymentHttpTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())

	s.upstream = newFakeUpstream()
	s.Publisher = jetsteamMock.NewMockPublisher(ctrl)

	s.handler = RegisterPaymentHttp(
		http.NewServeMux(),
		s.upstream.client(),
		query.NewStore(nil, 0),
		s.Publisher,
		common.NewValidator(),
		common.NewCurrencyPrinter(constant.DefaultLocale),
	)
	s.handler.TimeNow = func() time.Time { return time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC) }

	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func (s *PaymentHttpTestSuite) TearDownTest() {
	s.upstream.close()
}

func TestPaymentHttpTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentHttpTestSuite))
}

func (s *PaymentHttpTestSuite) TestList() {
	s.upstream.respond("GET /payments", http.StatusOK, paymentListBody)

	req := httptest.NewRequest(http.MethodGet, "/api/payments?vendor_id=5", nil)
	w := httptest.NewRecorder()

	s.handler.list(w, req)

	s.Require().Equal(http.StatusOK, w.Code)

	var resp model.PaymentListResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))

	s.Require().Len(resp.Payments, 2)
	s.Equal(model.ID(3), resp.Payments[0].ID)
	s.Equal(model.ID(4), resp.Payments[1].ID)

	s.Equal(4, resp.Summary.TotalPayments)
	s.InDelta(1750.0, resp.Summary.TotalAmount, 0.001)
	s.InDelta(1000.0, resp.Summary.PaidAmount, 0.001)
	s.InDelta(500.0, resp.Summary.PendingAmount, 0.001)
	s.InDelta(250.0, resp.Summary.OverdueAmount, 0.001)
	s.InDelta(500.0, resp.Summary.TotalCommission, 0.001)
	s.Equal(1, resp.Summary.CountByStatus[model.PaymentStatusCancelled])
}

func (s *PaymentHttpTestSuite) TestExport() {
	s.upstream.respond("GET /payments", http.StatusOK, paymentListBody)

	req := httptest.NewRequest(http.MethodGet, "/api/payments/export?status=cancelled", nil)
	w := httptest.NewRecorder()

	s.handler.export(w, req)

	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	s.Equal(`attachment; filename="payments-2025-06-01.csv"`, w.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal([]string{
		"id", "reference_number", "vendor", "event", "payment_type", "payment_method",
		"status", "amount", "currency", "due_date", "paid_at", "notes",
	}, records[0])
	s.Equal([]string{"4", "", "", "", "penalty", "cash", "cancelled", "9999.00", "ETB", "", "", "void, duplicate"}, records[1])
}

func (s *PaymentHttpTestSuite) TestCreate() {
	tests := []struct {
		name           string
		reqBody        string
		setupMock      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "pending payment without due date",
			reqBody:        `{"vendor_id":4,"amount":100,"payment_type":"bonus","payment_method":"cash"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"error":"Validation failed","data":{"due_date":"required"}}`,
		},
		{
			name:           "struct rules run first",
			reqBody:        `{"vendor_id":4,"amount":-1,"payment_type":"gift","payment_method":"cash"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"error":"Validation failed","data":{"amount":"gt","payment_type":"oneof"}}`,
		},
		{
			name:    "success",
			reqBody: `{"vendor_id":4,"amount":100,"payment_type":"bonus","payment_method":"cash","due_date":"2025-06-30"}`,
			setupMock: func() {
				s.upstream.respond("POST /payments", http.StatusCreated, `{"data":{"id":11,"amount":100,"currency":"ETB","status":"pending"}}`)
				s.Publisher.EXPECT().Publish(gomock.Any(), constant.SubjectRecordAudit, gomock.Any()).Return(nil, nil)
			},
			expectedStatus: http.StatusCreated,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.upstream.reset()
			tc.setupMock()

			req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(tc.reqBody))
			w := httptest.NewRecorder()

			s.handler.create(w, req)

			s.Equal(tc.expectedStatus, w.Code)
			if tc.expectedBody != "" {
				s.JSONEq(tc.expectedBody, w.Body.String())
			}
		})
	}

	s.Contains(s.upstream.lastBody("POST /payments"), `"currency":"ETB"`)
}

func (s *PaymentHttpTestSuite) TestMarkPaid() {
	tests := []struct {
		name           string
		current        string
		reqBody        string
		setupMock      func()
		expectedStatus int
		expectedRoutes []string
	}{
		{
			name:           "invalid paid_at",
			current:        `{"data":{"id":2,"status":"pending"}}`,
			reqBody:        `{"paid_at":"yesterday"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedRoutes: []string{},
		},
		{
			name:           "cancelled payment",
			current:        `{"data":{"id":2,"status":"cancelled"}}`,
			setupMock:      func() {},
			expectedStatus: http.StatusConflict,
			expectedRoutes: []string{"GET /payments/2"},
		},
		{
			name:    "defaults paid_at to now",
			current: `{"data":{"id":2,"status":"overdue"}}`,
			setupMock: func() {
				s.upstream.respond("POST /payments/2/mark-paid", http.StatusOK, `{"data":{"id":2,"status":"paid"}}`)
				s.Publisher.EXPECT().Publish(gomock.Any(), constant.SubjectRecordAudit, gomock.Any()).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedRoutes: []string{"GET /payments/2", "POST /payments/2/mark-paid"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.upstream.reset()
			s.upstream.respond("GET /payments/2", http.StatusOK, tc.current)
			tc.setupMock()

			req := httptest.NewRequest(http.MethodPost, "/api/payments/2/mark-paid", strings.NewReader(tc.reqBody))
			req.SetPathValue("id", "2")
			w := httptest.NewRecorder()

			s.handler.markPaid(w, req)

			s.Equal(tc.expectedStatus, w.Code)
			s.Equal(tc.expectedRoutes, s.upstream.routesCalled())
		})
	}

	s.Contains(s.upstream.lastBody("POST /payments/2/mark-paid"), `"paid_at":"2025-06-01T08:30:00Z"`)
}

func (s *PaymentHttpTestSuite) TestRemind() {
	tests := []struct {
		name           string
		payment        string
		setupMock      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "vendor email from upstream vendor",
			payment: `{"data":{"id":2,"vendor_id":4,"amount":12500,"payment_type":"referral_commission","status":"overdue","due_date":"2025-05-30","reference_number":"PAY-2"}}`,
			setupMock: func() {
				s.upstream.respond("GET /vendors/4", http.StatusOK, `{"data":{"id":4,"name":"Blue Nile Catering","email":"hana@bluenile.et"}}`)
				gomock.InOrder(
					s.Publisher.EXPECT().Publish(gomock.Any(), constant.SubjectSendEmail, emailTo{
						to:      "hana@bluenile.et",
						subject: "Payment reminder: PAY-2",
						contains: []string{
							"Dear Blue Nile Catering,",
							"Type: referral commission",
							"Amount: ETB 12,500",
							"Due Date: 2025-05-30",
						},
					}).Return(nil, nil),
					s.Publisher.EXPECT().Publish(gomock.Any(), constant.SubjectRecordAudit, gomock.Any()).Return(nil, nil),
				)
			},
			expectedStatus: http.StatusAccepted,
			expectedBody:   `{"queued":1,"failed":[]}`,
		},
		{
			name:    "vendor without email",
			payment: `{"data":{"id":2,"vendor_id":4,"amount":100,"status":"pending","vendor":{"id":4,"name":"Blue Nile Catering"}}}`,
			setupMock: func() {
				s.upstream.respond("GET /vendors/4", http.StatusOK, `{"data":{"id":4,"name":"Blue Nile Catering"}}`)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"error":"Vendor has no email address"}`,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.upstream.reset()
			s.upstream.respond("GET /payments/2", http.StatusOK, tc.payment)
			tc.setupMock()

			req := httptest.NewRequest(http.MethodPost, "/api/payments/2/remind", nil)
			req.SetPathValue("id", "2")
			w := httptest.NewRecorder()

			s.handler.remind(w, req)

			s.Equal(tc.expectedStatus, w.Code)
			s.JSONEq(tc.expectedBody, w.Body.String())
		})
	}
}
