package handler

import (
	"net/http"

	"github.com/straye-as/crm-analytics/internal/mapper"
	"github.com/straye-as/crm-analytics/internal/service"
	"go.uber.org/zap"
)

const defaultForecastMonths = 3

type PipelineAnalyticsHandler struct {
	pipelineService *service.PipelineAnalyticsService
	logger          *zap.Logger
}

func NewPipelineAnalyticsHandler(pipelineService *service.PipelineAnalyticsService, logger *zap.Logger) *PipelineAnalyticsHandler {
	return &PipelineAnalyticsHandler{
		pipelineService: pipelineService,
		logger:          logger,
	}
}

// parseFilter validates the shared filter parameters, answering 400 on failure
func (h *PipelineAnalyticsHandler) parseFilter(w http.ResponseWriter, r *http.Request) (filterQuery, bool) {
	q := newFilterQuery(r.URL.Query())
	if err := validate.Struct(q); err != nil {
		respondValidationError(w, err)
		return q, false
	}
	return q, true
}

// @Summary Pipeline metrics
// @Description Summary totals, stage distribution and stage velocity for the filtered opportunities
// @Tags Pipeline Analytics
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID"
// @Param teamId query string false "Filter by team ID"
// @Param accountManagerId query string false "Filter by account manager ID"
// @Param companyId query string false "Filter by company ID"
// @Param from query string false "Created on or after date (YYYY-MM-DD)"
// @Param to query string false "Created on or before date (YYYY-MM-DD)"
// @Param minAmount query number false "Minimum deal value"
// @Param maxAmount query number false "Maximum deal value"
// @Success 200 {object} domain.PipelineMetricsDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /analytics/pipeline [get]
func (h *PipelineAnalyticsHandler) GetPipelineMetrics(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	metrics, err := h.pipelineService.GetPipelineMetrics(r.Context(), q.toFilter())
	if err != nil {
		handleServiceError(w, h.logger, err, "compute pipeline metrics")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToPipelineMetricsDTO(metrics))
}

// @Summary Funnel analysis
// @Description Stage-to-stage conversion, drop-off and bottlenecks for the filtered opportunities
// @Tags Pipeline Analytics
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID"
// @Param teamId query string false "Filter by team ID"
// @Param accountManagerId query string false "Filter by account manager ID"
// @Param companyId query string false "Filter by company ID"
// @Param from query string false "Created on or after date (YYYY-MM-DD)"
// @Param to query string false "Created on or before date (YYYY-MM-DD)"
// @Param minAmount query number false "Minimum deal value"
// @Param maxAmount query number false "Maximum deal value"
// @Success 200 {object} domain.FunnelAnalysisDTO
// @Failure 400 {object} domain.APIError
// @Router /analytics/funnel [get]
func (h *PipelineAnalyticsHandler) GetFunnelAnalysis(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	funnel, err := h.pipelineService.GetFunnelAnalysis(r.Context(), q.toFilter())
	if err != nil {
		handleServiceError(w, h.logger, err, "compute funnel analysis")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToFunnelAnalysisDTO(funnel))
}

// @Summary Sales forecast
// @Description Monthly pipeline, weighted, best and worst case values for open opportunities closing within the window
// @Tags Pipeline Analytics
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID"
// @Param months query int false "Forecast window in months" default(3)
// @Param teamId query string false "Filter by team ID"
// @Param accountManagerId query string false "Filter by account manager ID"
// @Param companyId query string false "Filter by company ID"
// @Success 200 {object} domain.SalesForecastDTO
// @Failure 400 {object} domain.APIError
// @Router /analytics/forecast [get]
func (h *PipelineAnalyticsHandler) GetSalesForecast(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	months, ok := parseWindow(w, r.URL.Query(), "months", defaultForecastMonths)
	if !ok {
		return
	}

	forecast, err := h.pipelineService.GetSalesForecast(r.Context(), months, q.toFilter())
	if err != nil {
		handleServiceError(w, h.logger, err, "compute sales forecast")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToSalesForecastDTO(forecast))
}

// @Summary Team performance
// @Description Per account manager deal counts, won and open value, win rate and average deal size
// @Tags Pipeline Analytics
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID"
// @Param teamId query string false "Filter by team ID"
// @Param from query string false "Created on or after date (YYYY-MM-DD)"
// @Param to query string false "Created on or before date (YYYY-MM-DD)"
// @Success 200 {object} domain.TeamPerformanceDTO
// @Failure 400 {object} domain.APIError
// @Router /analytics/team [get]
func (h *PipelineAnalyticsHandler) GetTeamPerformance(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	performance, err := h.pipelineService.GetTeamPerformance(r.Context(), q.toFilter())
	if err != nil {
		handleServiceError(w, h.logger, err, "compute team performance")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToTeamPerformanceDTO(performance))
}

// @Summary Proposal analytics
// @Description Proposal counts by status and template with acceptance rate, average discount and approval time
// @Tags Pipeline Analytics
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID"
// @Param teamId query string false "Filter by team ID"
// @Param accountManagerId query string false "Filter by account manager ID"
// @Param companyId query string false "Filter by company ID"
// @Param templateId query string false "Filter by proposal template ID"
// @Param status query string false "Filter by status (DRAFT, PENDING_APPROVAL, APPROVED, SENT, ACCEPTED, REJECTED, EXPIRED)"
// @Success 200 {object} domain.ProposalAnalyticsDTO
// @Failure 400 {object} domain.APIError
// @Router /analytics/proposals [get]
func (h *PipelineAnalyticsHandler) GetProposalAnalytics(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q := proposalQuery{
		filterQuery: newFilterQuery(values),
		TemplateID:  values.Get("templateId"),
		Status:      values.Get("status"),
	}
	if err := validate.Struct(q); err != nil {
		respondValidationError(w, err)
		return
	}

	analytics, err := h.pipelineService.GetProposalAnalytics(r.Context(), q.toFilter())
	if err != nil {
		handleServiceError(w, h.logger, err, "compute proposal analytics")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToProposalAnalyticsDTO(analytics))
}
