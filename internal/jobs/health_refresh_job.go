package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/tenant"
	"go.uber.org/zap"
)

// HealthRefreshJobName is the name of the company health refresh job
const HealthRefreshJobName = "company_health_refresh"

// HealthRefresher recomputes stored company health for the tenant in ctx.
type HealthRefresher interface {
	RefreshAll(ctx context.Context) (refreshed int, failed int, err error)
}

// HealthRefreshJob recomputes the stored health score and churn risk of
// every company, per configured tenant or across all data.
type HealthRefreshJob struct {
	refresher HealthRefresher
	tenants   []uuid.UUID
	logger    *zap.Logger
	timeout   time.Duration
}

func NewHealthRefreshJob(refresher HealthRefresher, tenants []uuid.UUID, logger *zap.Logger, timeout time.Duration) *HealthRefreshJob {
	return &HealthRefreshJob{
		refresher: refresher,
		tenants:   tenants,
		logger:    logger,
		timeout:   timeout,
	}
}

// Run executes the refresh. This is called by the scheduler according to the cron expression.
func (j *HealthRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	j.RunOnce(ctx)
}

// RunOnce refreshes each tenant in turn and returns the summed counts.
func (j *HealthRefreshJob) RunOnce(ctx context.Context) (refreshed int, failed int) {
	start := time.Now()

	for _, scoped := range tenantScopes(ctx, j.tenants) {
		ok, bad, err := j.refresher.RefreshAll(scoped)
		refreshed += ok
		failed += bad
		if err != nil {
			j.logger.Error("company health refresh failed",
				zap.String("tenant_id", tenant.String(scoped)),
				zap.Error(err))
			if ctx.Err() != nil {
				break
			}
		}
	}

	j.logger.Info("company health refresh completed",
		zap.Int("refreshed", refreshed),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)))
	return refreshed, failed
}

// RegisterHealthRefreshJob registers the health refresh job with the scheduler.
func RegisterHealthRefreshJob(scheduler *Scheduler, refresher HealthRefresher, tenants []uuid.UUID, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewHealthRefreshJob(refresher, tenants, logger, timeout)
	return scheduler.AddJob(HealthRefreshJobName, cronExpr, job.Run)
}
