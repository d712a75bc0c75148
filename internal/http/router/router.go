package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/crm-analytics/internal/config"
	"github.com/straye-as/crm-analytics/internal/database"
	"github.com/straye-as/crm-analytics/internal/http/handler"
	"github.com/straye-as/crm-analytics/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/straye-as/crm-analytics/docs" // Import generated swagger docs
)

type Router struct {
	cfg                      *config.Config
	logger                   *zap.Logger
	db                       *gorm.DB
	tenantFilter             *middleware.TenantFilter
	rateLimiter              *middleware.RateLimiter
	pipelineAnalyticsHandler *handler.PipelineAnalyticsHandler
	customerAnalyticsHandler *handler.CustomerAnalyticsHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	tenantFilter *middleware.TenantFilter,
	rateLimiter *middleware.RateLimiter,
	pipelineAnalyticsHandler *handler.PipelineAnalyticsHandler,
	customerAnalyticsHandler *handler.CustomerAnalyticsHandler,
) *Router {
	return &Router{
		cfg:                      cfg,
		logger:                   logger,
		db:                       db,
		tenantFilter:             tenantFilter,
		rateLimiter:              rateLimiter,
		pipelineAnalyticsHandler: pipelineAnalyticsHandler,
		customerAnalyticsHandler: customerAnalyticsHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check with pool stats
	r.Get("/health/db", rt.databaseHealth)

	// Readiness check over every dependency
	r.Get("/health/ready", rt.readiness)

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Use(rt.tenantFilter.Filter)

		r.Get("/pipeline", rt.pipelineAnalyticsHandler.GetPipelineMetrics)
		r.Get("/funnel", rt.pipelineAnalyticsHandler.GetFunnelAnalysis)
		r.Get("/forecast", rt.pipelineAnalyticsHandler.GetSalesForecast)
		r.Get("/team", rt.pipelineAnalyticsHandler.GetTeamPerformance)
		r.Get("/proposals", rt.pipelineAnalyticsHandler.GetProposalAnalytics)

		r.Route("/customers/{id}", func(r chi.Router) {
			r.Get("/360", rt.customerAnalyticsHandler.GetCustomer360)
			r.Get("/revenue", rt.customerAnalyticsHandler.GetRevenueAnalytics)
			r.Get("/risk", rt.customerAnalyticsHandler.GetRiskAssessment)
			r.Get("/health", rt.customerAnalyticsHandler.GetHealthScore)
			r.Get("/segments", rt.customerAnalyticsHandler.GetSegments)
			r.Get("/interactions", rt.customerAnalyticsHandler.GetInteractionHistory)
			r.Get("/timeline", rt.customerAnalyticsHandler.GetEngagementTimeline)
		})
	})

	return r
}

func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(rt.db)
	if err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats": map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			"max_idle_closed":      stats.MaxIdleClosed,
			"max_lifetime_closed":  stats.MaxLifetimeClosed,
		},
	})
}

func (rt *Router) readiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{})
	allHealthy := true

	if err := database.HealthCheck(rt.db); err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		checks["database"] = map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
		allHealthy = false
	} else {
		checks["database"] = map[string]interface{}{
			"status": "healthy",
		}
	}

	if allHealthy {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"checks": checks,
		})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
		"status": "unhealthy",
		"checks": checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
