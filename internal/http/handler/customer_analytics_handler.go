package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/mapper"
	"github.com/straye-as/crm-analytics/internal/service"
	"go.uber.org/zap"
)

const defaultTimelineDays = 90

type CustomerAnalyticsHandler struct {
	customerService *service.CustomerAnalyticsService
	logger          *zap.Logger
}

func NewCustomerAnalyticsHandler(customerService *service.CustomerAnalyticsService, logger *zap.Logger) *CustomerAnalyticsHandler {
	return &CustomerAnalyticsHandler{
		customerService: customerService,
		logger:          logger,
	}
}

func (h *CustomerAnalyticsHandler) companyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	return parseIDParam(w, chi.URLParam(r, "id"), "customer")
}

// @Summary Customer 360 view
// @Description Company profile, activity summary, financials, relationships and health in one response
// @Tags Customer Analytics
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID"
// @Param id path string true "Company ID"
// @Success 200 {object} domain.Customer360DTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /analytics/customers/{id}/360 [get]
func (h *CustomerAnalyticsHandler) GetCustomer360(w http.ResponseWriter, r *http.Request) {
	id, ok := h.companyID(w, r)
	if !ok {
		return
	}

	view, err := h.customerService.GetCustomer360View(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "build customer 360 view")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToCustomer360DTO(view))
}

// @Summary Customer revenue analytics
// @Description Won revenue, open pipeline, win and conversion rates and the last twelve months of won revenue
// @Tags Customer Analytics
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID"
// @Param id path string true "Company ID"
// @Success 200 {object} domain.RevenueAnalyticsDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /analytics/customers/{id}/revenue [get]
func (h *CustomerAnalyticsHandler) GetRevenueAnalytics(w http.ResponseWriter, r *http.Request) {
	id, ok := h.companyID(w, r)
	if !ok {
		return
	}

	revenue, err := h.customerService.GetRevenueAnalytics(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "compute revenue analytics")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToRevenueAnalyticsDTO(revenue))
}

// @Summary Customer risk assessment
// @Description Churn risk level with contributing factors and recommendations
// @Tags Customer Analytics
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID"
// @Param id path string true "Company ID"
// @Success 200 {object} domain.RiskAssessmentDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /analytics/customers/{id}/risk [get]
func (h *CustomerAnalyticsHandler) GetRiskAssessment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.companyID(w, r)
	if !ok {
		return
	}

	risk, err := h.customerService.GetRiskAssessment(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "assess customer risk")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToRiskAssessmentDTO(risk))
}

// @Summary Customer health score
// @Description Weighted health score with per-factor breakdown
// @Tags Customer Analytics
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID"
// @Param id path string true "Company ID"
// @Success 200 {object} domain.HealthScoreDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /analytics/customers/{id}/health [get]
func (h *CustomerAnalyticsHandler) GetHealthScore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.companyID(w, r)
	if !ok {
		return
	}

	health, err := h.customerService.GetHealthScore(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "compute health score")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToHealthScoreDTO(health))
}

// @Summary Customer segments
// @Description Value, size, industry, engagement and lifecycle segments
// @Tags Customer Analytics
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID"
// @Param id path string true "Company ID"
// @Success 200 {array} domain.CustomerSegmentDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /analytics/customers/{id}/segments [get]
func (h *CustomerAnalyticsHandler) GetSegments(w http.ResponseWriter, r *http.Request) {
	id, ok := h.companyID(w, r)
	if !ok {
		return
	}

	segments, err := h.customerService.GetSegments(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "classify customer segments")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToCustomerSegmentDTOs(segments))
}

// @Summary Customer interaction history
// @Description Activities and notes merged newest first
// @Tags Customer Analytics
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID"
// @Param id path string true "Company ID"
// @Param from query string false "On or after date (YYYY-MM-DD)"
// @Param to query string false "On or before date (YYYY-MM-DD)"
// @Param type query string false "Filter by type (CALL, EMAIL, MEETING, NOTE)"
// @Param userId query string false "Filter by user ID"
// @Param limit query int false "Maximum number of items" default(50)
// @Success 200 {object} domain.InteractionHistoryDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /analytics/customers/{id}/interactions [get]
func (h *CustomerAnalyticsHandler) GetInteractionHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.companyID(w, r)
	if !ok {
		return
	}

	values := r.URL.Query()
	q := interactionQuery{
		From:   values.Get("from"),
		To:     values.Get("to"),
		Type:   values.Get("type"),
		UserID: values.Get("userId"),
		Limit:  values.Get("limit"),
	}
	if err := validate.Struct(q); err != nil {
		respondValidationError(w, err)
		return
	}
	limit, ok := parseWindow(w, values, "limit", 0)
	if !ok {
		return
	}

	history, err := h.customerService.GetInteractionHistory(r.Context(), id, q.toFilter(limit))
	if err != nil {
		handleServiceError(w, h.logger, err, "load interaction history")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToInteractionHistoryDTO(history))
}

// @Summary Customer engagement timeline
// @Description Activities of the trailing window grouped by month, newest first
// @Tags Customer Analytics
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID"
// @Param id path string true "Company ID"
// @Param days query int false "Trailing window in days" default(90)
// @Success 200 {object} domain.EngagementTimelineDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /analytics/customers/{id}/timeline [get]
func (h *CustomerAnalyticsHandler) GetEngagementTimeline(w http.ResponseWriter, r *http.Request) {
	id, ok := h.companyID(w, r)
	if !ok {
		return
	}
	days, ok := parseWindow(w, r.URL.Query(), "days", defaultTimelineDays)
	if !ok {
		return
	}

	timeline, err := h.customerService.GetEngagementTimeline(r.Context(), id, days)
	if err != nil {
		handleServiceError(w, h.logger, err, "build engagement timeline")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToEngagementTimelineDTO(timeline))
}
