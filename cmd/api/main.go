package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/straye-as/crm-analytics/docs"
	"github.com/straye-as/crm-analytics/internal/config"
	"github.com/straye-as/crm-analytics/internal/database"
	"github.com/straye-as/crm-analytics/internal/http/handler"
	"github.com/straye-as/crm-analytics/internal/http/middleware"
	"github.com/straye-as/crm-analytics/internal/http/router"
	"github.com/straye-as/crm-analytics/internal/jobs"
	"github.com/straye-as/crm-analytics/internal/logger"
	"github.com/straye-as/crm-analytics/internal/repository"
	"github.com/straye-as/crm-analytics/internal/service"
	"github.com/straye-as/crm-analytics/internal/storage"
	"go.uber.org/zap"
)

// @title Straye CRM Analytics API
// @version 1.0
// @description Read-only pipeline and customer analytics over the Straye CRM
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@straye.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "straye-crm-analytics-staging.norwayeast.azurecontainerapps.io"
	case "production":
		docs.SwaggerInfo.Host = "analytics.straye.no"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	store := repository.NewStore(db)

	pipelineService := service.NewPipelineAnalyticsService(store, cfg.Analytics, log)
	customerService := service.NewCustomerAnalyticsService(store, cfg.Analytics, log)

	tenantFilter := middleware.NewTenantFilter(log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		tenantFilter,
		rateLimiter,
		handler.NewPipelineAnalyticsHandler(pipelineService, log),
		handler.NewCustomerAnalyticsHandler(customerService, log),
	)

	var scheduler *jobs.Scheduler
	if cfg.Reports.Enabled {
		scheduler, err = startScheduler(cfg, log, store, pipelineService, customerService)
		if err != nil {
			return err
		}
	} else {
		log.Info("Scheduled reports disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      http.TimeoutHandler(rt.Setup(), cfg.Server.RequestTimeoutDuration(), `{"type":"internal_error","title":"Service Unavailable","status":503,"detail":"Request timed out"}`),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

// startScheduler registers the report export and health refresh jobs and starts them
func startScheduler(
	cfg *config.Config,
	log *zap.Logger,
	store *repository.Store,
	pipelineService *service.PipelineAnalyticsService,
	customerService *service.CustomerAnalyticsService,
) (*jobs.Scheduler, error) {
	tenants, err := jobs.ParseTenantIDs(cfg.Reports.TenantIDs)
	if err != nil {
		return nil, fmt.Errorf("invalid reports config: %w", err)
	}

	reportStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	reportService := service.NewReportService(pipelineService, reportStorage, log)
	healthService := service.NewHealthRefreshService(customerService, store, log)

	scheduler := jobs.NewScheduler(log)
	if err := jobs.RegisterReportExportJob(
		scheduler,
		reportService,
		tenants,
		cfg.Reports.ForecastMonths,
		log,
		cfg.Reports.ExportCron,
		cfg.Reports.TimeoutDuration(),
	); err != nil {
		return nil, err
	}
	if err := jobs.RegisterHealthRefreshJob(
		scheduler,
		healthService,
		tenants,
		log,
		cfg.Reports.HealthRefreshCron,
		cfg.Reports.TimeoutDuration(),
	); err != nil {
		return nil, err
	}

	scheduler.Start()
	log.Info("Scheduler started",
		zap.Strings("jobs", scheduler.GetJobNames()),
		zap.Int("tenants", len(tenants)),
		zap.Duration("timeout", cfg.Reports.TimeoutDuration()),
	)
	return scheduler, nil
}
