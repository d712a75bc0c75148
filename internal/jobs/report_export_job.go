package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/tenant"
	"go.uber.org/zap"
)

// ReportExportJobName is the name of the pipeline report export job
const ReportExportJobName = "pipeline_report_export"

// PipelineReportArchiver defines the interface for archiving pipeline reports.
// This interface allows the job to call the service without importing the service package directly.
type PipelineReportArchiver interface {
	// ArchivePipelineReport stores the pipeline workbook of the tenant in ctx and returns its key.
	ArchivePipelineReport(ctx context.Context, months int) (string, error)
}

// ReportExportJob archives a pipeline workbook for every configured tenant,
// or a single unscoped workbook when no tenants are configured.
type ReportExportJob struct {
	archiver PipelineReportArchiver
	tenants  []uuid.UUID
	months   int
	logger   *zap.Logger
	timeout  time.Duration
}

// NewReportExportJob creates a new report export job.
// The timeout bounds one full run across all tenants.
func NewReportExportJob(archiver PipelineReportArchiver, tenants []uuid.UUID, months int, logger *zap.Logger, timeout time.Duration) *ReportExportJob {
	return &ReportExportJob{
		archiver: archiver,
		tenants:  tenants,
		months:   months,
		logger:   logger,
		timeout:  timeout,
	}
}

// Run executes the export. This is called by the scheduler according to the cron expression.
func (j *ReportExportJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	j.RunOnce(ctx)
}

// RunOnce exports once per tenant. A failing tenant does not stop the others.
func (j *ReportExportJob) RunOnce(ctx context.Context) (exported int, failed int) {
	start := time.Now()
	j.logger.Info("starting pipeline report export",
		zap.Int("tenants", len(j.tenants)))

	for _, scoped := range tenantScopes(ctx, j.tenants) {
		key, err := j.archiver.ArchivePipelineReport(scoped, j.months)
		if err != nil {
			failed++
			j.logger.Error("pipeline report export failed",
				zap.String("tenant_id", tenant.String(scoped)),
				zap.Error(err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		exported++
		j.logger.Debug("pipeline report exported",
			zap.String("tenant_id", tenant.String(scoped)),
			zap.String("key", key))
	}

	j.logger.Info("pipeline report export completed",
		zap.Int("exported", exported),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)))
	return exported, failed
}

// tenantScopes returns one context per tenant, or ctx itself when tenants is empty
func tenantScopes(ctx context.Context, tenants []uuid.UUID) []context.Context {
	if len(tenants) == 0 {
		return []context.Context{ctx}
	}
	scopes := make([]context.Context, 0, len(tenants))
	for _, id := range tenants {
		scopes = append(scopes, tenant.WithTenantID(ctx, id))
	}
	return scopes
}

// ParseTenantIDs parses configured tenant ids, rejecting malformed and nil ids.
func ParseTenantIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("invalid tenant id %q: %w", r, err)
		}
		if id == uuid.Nil {
			return nil, fmt.Errorf("invalid tenant id %q: nil uuid", r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RegisterReportExportJob registers the report export job with the scheduler.
// The cronExpr should be a valid cron expression (e.g., "0 2 * * *" for 02:00 every day).
func RegisterReportExportJob(scheduler *Scheduler, archiver PipelineReportArchiver, tenants []uuid.UUID, months int, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewReportExportJob(archiver, tenants, months, logger, timeout)
	return scheduler.AddJob(ReportExportJobName, cronExpr, job.Run)
}
