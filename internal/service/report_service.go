package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/export"
	"github.com/straye-as/crm-analytics/internal/mapper"
	"github.com/straye-as/crm-analytics/internal/storage"
	"github.com/straye-as/crm-analytics/internal/tenant"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReportService renders pipeline analytics into workbooks and archives them
type ReportService struct {
	pipeline *PipelineAnalyticsService
	storage  storage.Storage
	logger   *zap.Logger
	now      func() time.Time
}

func NewReportService(pipeline *PipelineAnalyticsService, store storage.Storage, logger *zap.Logger) *ReportService {
	return &ReportService{
		pipeline: pipeline,
		storage:  store,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for report timestamps and keys
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// ReportKey is the storage key of the pipeline workbook of a tenant for a day.
// An empty tenant means the unscoped report.
func ReportKey(tenantID string, day time.Time) string {
	if tenantID == "" {
		tenantID = "all"
	}
	return path.Join("reports", tenantID, day.UTC().Format("2006-01-02"), "pipeline.xlsx")
}

// BuildPipelineReport runs the pipeline queries for the tenant in ctx
func (s *ReportService) BuildPipelineReport(ctx context.Context, months int, f *domain.OpportunityFilter) (*export.PipelineReport, error) {
	report := &export.PipelineReport{
		GeneratedAt: s.now().UTC(),
		Tenant:      tenant.String(ctx),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		metrics, err := s.pipeline.GetPipelineMetrics(gctx, f)
		if err != nil {
			return err
		}
		report.Metrics = mapper.ToPipelineMetricsDTO(metrics)
		return nil
	})
	g.Go(func() error {
		funnel, err := s.pipeline.GetFunnelAnalysis(gctx, f)
		if err != nil {
			return err
		}
		report.Funnel = mapper.ToFunnelAnalysisDTO(funnel)
		return nil
	})
	g.Go(func() error {
		forecast, err := s.pipeline.GetSalesForecast(gctx, months, f)
		if err != nil {
			return err
		}
		report.Forecast = mapper.ToSalesForecastDTO(forecast)
		return nil
	})
	g.Go(func() error {
		team, err := s.pipeline.GetTeamPerformance(gctx, f)
		if err != nil {
			return err
		}
		report.Team = mapper.ToTeamPerformanceDTO(team)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// WritePipelineReport builds the report and writes it to w as a workbook
func (s *ReportService) WritePipelineReport(ctx context.Context, w io.Writer, months int, f *domain.OpportunityFilter) error {
	report, err := s.BuildPipelineReport(ctx, months, f)
	if err != nil {
		return err
	}
	if err := export.WritePipelineWorkbook(w, report); err != nil {
		return fmt.Errorf("failed to render pipeline report: %w", err)
	}
	return nil
}

// ArchivePipelineReport stores today's unfiltered pipeline workbook for the
// tenant in ctx and returns its key. A rerun on the same day replaces it.
func (s *ReportService) ArchivePipelineReport(ctx context.Context, months int) (string, error) {
	var buf bytes.Buffer
	if err := s.WritePipelineReport(ctx, &buf, months, nil); err != nil {
		return "", err
	}

	key := ReportKey(tenant.String(ctx), s.now())
	size, err := s.storage.Upload(ctx, key, export.ContentType, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to archive pipeline report: %w", err)
	}

	s.logger.Info("Pipeline report archived",
		zap.String("key", key),
		zap.Int64("size", size),
		zap.String("tenant_id", tenant.String(ctx)),
	)
	return key, nil
}
