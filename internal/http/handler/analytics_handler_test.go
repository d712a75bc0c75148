package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/config"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/http/handler"
	"github.com/straye-as/crm-analytics/internal/http/middleware"
	"github.com/straye-as/crm-analytics/internal/service"
	"github.com/straye-as/crm-analytics/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	server    http.Handler
	companyID uuid.UUID
	teamID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	d := &testutil.Dataset{}
	tn := testutil.TenantA
	f := &fixture{teamID: uuid.New()}

	f.companyID = d.AddCompany(tn, "Acme AS", "Construction", testutil.Date(2022, 1, 1))
	alice := d.AddUser(tn, &f.teamID, "Alice")
	bob := d.AddUser(tn, nil, "Bob")

	open := d.AddOpportunity(tn, f.companyID, alice, domain.StageProposal, 30000, 50, testutil.Date(2026, 2, 1))
	d.Opportunity(open).ExpectedCloseDate = testutil.TimePtr(testutil.Date(2026, 7, 10))
	won := d.AddOpportunity(tn, f.companyID, alice, domain.StageClosedWon, 50000, 100, testutil.Date(2026, 1, 5))
	d.Opportunity(won).ActualCloseDate = testutil.TimePtr(testutil.Date(2026, 3, 1))
	d.AddOpportunity(tn, f.companyID, bob, domain.StageClosedLost, 20000, 0, testutil.Date(2026, 3, 10))

	d.AddActivity(tn, f.companyID, alice, domain.ActivityTypeCall, "Intro call", testutil.Date(2026, 5, 2))
	d.AddActivity(tn, f.companyID, bob, domain.ActivityTypeMeeting, "Workshop", testutil.Date(2026, 6, 1))
	d.AddNote(tn, f.companyID, alice, "Wants a follow-up", testutil.Date(2026, 6, 2))

	store := testutil.NewMemoryStore(d)
	cfg := config.DefaultAnalyticsConfig()
	logger := zap.NewNop()
	pipeline := handler.NewPipelineAnalyticsHandler(
		service.NewPipelineAnalyticsService(store, cfg, logger).WithClock(testutil.Clock(now)), logger)
	customers := handler.NewCustomerAnalyticsHandler(
		service.NewCustomerAnalyticsService(store, cfg, logger).WithClock(testutil.Clock(now)), logger)

	r := chi.NewRouter()
	r.Use(middleware.NewTenantFilter(logger).Filter)
	r.Get("/pipeline", pipeline.GetPipelineMetrics)
	r.Get("/funnel", pipeline.GetFunnelAnalysis)
	r.Get("/forecast", pipeline.GetSalesForecast)
	r.Get("/team", pipeline.GetTeamPerformance)
	r.Get("/proposals", pipeline.GetProposalAnalytics)
	r.Get("/customers/{id}/360", customers.GetCustomer360)
	r.Get("/customers/{id}/revenue", customers.GetRevenueAnalytics)
	r.Get("/customers/{id}/risk", customers.GetRiskAssessment)
	r.Get("/customers/{id}/health", customers.GetHealthScore)
	r.Get("/customers/{id}/segments", customers.GetSegments)
	r.Get("/customers/{id}/interactions", customers.GetInteractionHistory)
	r.Get("/customers/{id}/timeline", customers.GetEngagementTimeline)
	f.server = r
	return f
}

func (f *fixture) get(t *testing.T, target string, tenantID *uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if tenantID != nil {
		req.Header.Set(middleware.TenantHeader, tenantID.String())
	}
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (f *fixture) customerPath(suffix string) string {
	return "/customers/" + f.companyID.String() + suffix
}

func TestPipelineAnalyticsHandler_GetPipelineMetrics(t *testing.T) {
	f := newFixture(t)

	t.Run("unfiltered", func(t *testing.T) {
		w := f.get(t, "/pipeline", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body domain.PipelineMetricsDTO
		decode(t, w, &body)
		assert.Equal(t, int64(3), body.Summary.TotalOpportunities)
		assert.Equal(t, int64(1), body.Summary.WonCount)
		assert.Equal(t, int64(1), body.Summary.LostCount)
	})

	t.Run("filtered by team", func(t *testing.T) {
		w := f.get(t, "/pipeline?teamId="+f.teamID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body domain.PipelineMetricsDTO
		decode(t, w, &body)
		assert.Equal(t, int64(2), body.Summary.TotalOpportunities)
	})

	t.Run("to date covers the whole day", func(t *testing.T) {
		w := f.get(t, "/pipeline?from=2026-01-05&to=2026-02-01", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body domain.PipelineMetricsDTO
		decode(t, w, &body)
		assert.Equal(t, int64(2), body.Summary.TotalOpportunities)
	})

	t.Run("other tenant sees nothing", func(t *testing.T) {
		w := f.get(t, "/pipeline", &testutil.TenantB)
		require.Equal(t, http.StatusOK, w.Code)

		var body domain.PipelineMetricsDTO
		decode(t, w, &body)
		assert.Zero(t, body.Summary.TotalOpportunities)
	})
}

func TestPipelineAnalyticsHandler_ValidationErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		target string
		field  string
	}{
		{"malformed team id", "/pipeline?teamId=not-a-uuid", "teamId"},
		{"malformed from date", "/funnel?from=2026-13-01", "from"},
		{"non numeric amount", "/team?minAmount=lots", "minAmount"},
		{"unknown proposal status", "/proposals?status=WON", "status"},
		{"malformed template id", "/proposals?templateId=abc", "templateId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.get(t, tt.target, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var apiErr domain.APIError
			decode(t, w, &apiErr)
			assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
			assert.Contains(t, apiErr.Errors, tt.field)
		})
	}
}

func TestPipelineAnalyticsHandler_InvertedRange(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/pipeline?from=2026-06-01&to=2026-01-01", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPipelineAnalyticsHandler_GetSalesForecast(t *testing.T) {
	f := newFixture(t)

	t.Run("defaults to three months", func(t *testing.T) {
		w := f.get(t, "/forecast", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body domain.SalesForecastDTO
		decode(t, w, &body)
		assert.Equal(t, 3, body.Months)
		assert.Equal(t, int64(1), body.Totals.OpportunityCount)
	})

	for _, months := range []string{"0", "13", "abc", "-1"} {
		t.Run("rejects months="+months, func(t *testing.T) {
			w := f.get(t, "/forecast?months="+months, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestPipelineAnalyticsHandler_OtherEndpoints(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{"/funnel", "/team", "/proposals", "/proposals?status=ACCEPTED"} {
		t.Run(target, func(t *testing.T) {
			w := f.get(t, target, nil)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		})
	}
}

func TestCustomerAnalyticsHandler_Endpoints(t *testing.T) {
	f := newFixture(t)

	for _, suffix := range []string{"/360", "/revenue", "/risk", "/health", "/segments", "/interactions", "/timeline"} {
		t.Run(suffix, func(t *testing.T) {
			w := f.get(t, f.customerPath(suffix), &testutil.TenantA)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		})
	}
}

func TestCustomerAnalyticsHandler_Errors(t *testing.T) {
	f := newFixture(t)

	t.Run("malformed id", func(t *testing.T) {
		w := f.get(t, "/customers/acme/360", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown company", func(t *testing.T) {
		w := f.get(t, "/customers/"+uuid.NewString()+"/health", nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		var apiErr domain.APIError
		decode(t, w, &apiErr)
		assert.Equal(t, domain.ErrorTypeNotFound, apiErr.Type)
	})

	t.Run("company of another tenant", func(t *testing.T) {
		w := f.get(t, f.customerPath("/360"), &testutil.TenantB)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("timeline window too large", func(t *testing.T) {
		w := f.get(t, f.customerPath("/timeline?days=1000"), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("interaction limit not a number", func(t *testing.T) {
		w := f.get(t, f.customerPath("/interactions?limit=ten"), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("interaction limit overflows", func(t *testing.T) {
		w := f.get(t, f.customerPath("/interactions?limit=99999999999999999999"), nil)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var apiErr domain.APIError
		decode(t, w, &apiErr)
		assert.Contains(t, apiErr.Detail, "limit")
	})

	t.Run("interaction type unknown", func(t *testing.T) {
		w := f.get(t, f.customerPath("/interactions?type=FAX"), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCustomerAnalyticsHandler_GetSegments(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, f.customerPath("/segments"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var segments []domain.CustomerSegmentDTO
	decode(t, w, &segments)
	assert.NotEmpty(t, segments)
}

func TestCustomerAnalyticsHandler_GetInteractionHistory(t *testing.T) {
	f := newFixture(t)

	t.Run("merged newest first", func(t *testing.T) {
		w := f.get(t, f.customerPath("/interactions"), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body domain.InteractionHistoryDTO
		decode(t, w, &body)
		require.Len(t, body.Items, 3)
		assert.Equal(t, "Wants a follow-up", body.Items[0].Summary)
	})

	t.Run("filtered by type", func(t *testing.T) {
		w := f.get(t, f.customerPath("/interactions?type=CALL"), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body domain.InteractionHistoryDTO
		decode(t, w, &body)
		require.Len(t, body.Items, 1)
		assert.Equal(t, "CALL", body.Items[0].Type)
	})

	t.Run("limit", func(t *testing.T) {
		w := f.get(t, f.customerPath("/interactions?limit=2"), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body domain.InteractionHistoryDTO
		decode(t, w, &body)
		assert.Len(t, body.Items, 2)
	})
}

func TestCustomerAnalyticsHandler_GetEngagementTimeline(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, f.customerPath("/timeline?days=30"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body domain.EngagementTimelineDTO
	decode(t, w, &body)
	assert.Equal(t, 30, body.Days)
	assert.Equal(t, f.companyID.String(), body.CompanyID)
}
