package http

import (
	"encoding/json"
	"eventdesk/model"
	"eventdesk/outbound/query"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const submissionListBody = `{"data":[
	{"id":1,"form_id":9,"status":"completed","participant_type":"guest","created_at":"2025-06-01T09:00:00Z","submission_data":{"attending":"yes","guests":2}},
	{"id":2,"form_id":9,"status":"pending","created_at":"2025-06-02 10:00:00","submission_data":{"attending":"no","email":"hana@example.com"}}
],"pagination":{"current_page":1,"per_page":100,"total":2,"last_page":1}}`

type SubmissionHttpTestSuite struct {
	suite.Suite

	upstream *fakeUpstream
	handler  *SubmissionHttp
}

func (s *SubmissionHttpTestSuite) SetupTest() {
	s.upstream = newFakeUpstream()
	s.handler = RegisterSubmissionHttp(http.NewServeMux(), s.upstream.client(), query.NewStore(nil, 0))
	s.handler.TimeNow = func() time.Time { return time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC) }

	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func (s *SubmissionHttpTestSuite) TearDownTest() {
	s.upstream.close()
}

func TestSubmissionHttpTestSuite(t *testing.T) {
	suite.Run(t, new(SubmissionHttpTestSuite))
}

func (s *SubmissionHttpTestSuite) TestExport() {
	s.upstream.respond("GET /forms/9/submissions", http.StatusOK, submissionListBody)

	req := httptest.NewRequest(http.MethodGet, "/api/forms/9/submissions/export", nil)
	req.SetPathValue("id", "9")
	w := httptest.NewRecorder()

	s.handler.export(w, req)

	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(`attachment; filename="form-9-submissions-2025-06-03.csv"`, w.Header().Get("Content-Disposition"))
	s.Equal("id,status,participant_type,created_at,attending,email,guests\n"+
		"1,completed,guest,2025-06-01T09:00:00Z,yes,,2\n"+
		"2,pending,,2025-06-02 10:00:00,no,hana@example.com,\n", w.Body.String())
}

func (s *SubmissionHttpTestSuite) TestExportUpstreamFailure() {
	s.upstream.respond("GET /forms/9/submissions", http.StatusNotFound, `{"message":"Form not found"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/forms/9/submissions/export", nil)
	req.SetPathValue("id", "9")
	w := httptest.NewRecorder()

	s.handler.export(w, req)

	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("application/json", w.Header().Get("Content-Type"))
	s.JSONEq(`{"error":"Form not found"}`, w.Body.String())
}

func (s *SubmissionHttpTestSuite) TestAnalytics() {
	s.upstream.respond("GET /forms/9", http.StatusOK, formBody)
	s.upstream.respond("GET /forms/9/submissions", http.StatusOK, submissionListBody)

	req := httptest.NewRequest(http.MethodGet, "/api/forms/9/analytics", nil)
	req.SetPathValue("id", "9")
	w := httptest.NewRecorder()

	s.handler.analytics(w, req)

	s.Require().Equal(http.StatusOK, w.Code)

	var resp model.FormAnalytics
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))

	s.Equal(model.ID(9), resp.FormID)
	s.Equal(2, resp.TotalSubmissions)
	s.Equal(map[model.SubmissionStatus]int{model.SubmissionStatusCompleted: 1, model.SubmissionStatusPending: 1}, resp.ByStatus)
	s.Equal(map[string]int{"guest": 1, "unspecified": 1}, resp.ByParticipantType)
	s.InDelta(50.0, resp.CompletionRate, 0.001)
	s.InDelta(2.0, resp.AverageFieldsPerResponse, 0.001)
	s.Equal("2025-06-02T10:00:00Z", resp.LatestSubmissionAt)

	s.Require().Len(resp.Fields, 3)
	s.Equal("attending", resp.Fields[0].FieldKey)
	s.Equal(2, resp.Fields[0].Responses)
}

func (s *SubmissionHttpTestSuite) TestGetInvalidSubmissionID() {
	req := httptest.NewRequest(http.MethodGet, "/api/forms/9/submissions/x", nil)
	req.SetPathValue("id", "9")
	req.SetPathValue("submission_id", "x")
	w := httptest.NewRecorder()

	s.handler.get(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"error":"Invalid submission id"}`, w.Body.String())
}
