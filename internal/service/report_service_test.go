package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/straye-as/crm-analytics/internal/config"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/export"
	"github.com/straye-as/crm-analytics/internal/service"
	"github.com/straye-as/crm-analytics/internal/storage"
	"github.com/straye-as/crm-analytics/internal/tenant"
	"github.com/straye-as/crm-analytics/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newReportService(t *testing.T) (*service.ReportService, *storage.LocalStorage) {
	fx := newPipelineFixture()
	pipeline := newPipelineService(testutil.NewMemoryStore(fx.data), config.DefaultAnalyticsConfig())
	ls, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return service.NewReportService(pipeline, ls, zap.NewNop()).WithClock(testutil.Clock(pipelineNow)), ls
}

func TestReportKey(t *testing.T) {
	day := testutil.Date(2026, 6, 15)
	assert.Equal(t, "reports/all/2026-06-15/pipeline.xlsx", service.ReportKey("", day))
	assert.Equal(t, "reports/"+testutil.TenantA.String()+"/2026-06-15/pipeline.xlsx",
		service.ReportKey(testutil.TenantA.String(), day))
}

func TestReportService_BuildPipelineReport(t *testing.T) {
	svc, _ := newReportService(t)
	ctx := tenant.WithTenantID(context.Background(), testutil.TenantA)

	report, err := svc.BuildPipelineReport(ctx, 6, nil)

	require.NoError(t, err)
	assert.Equal(t, pipelineNow, report.GeneratedAt)
	assert.Equal(t, testutil.TenantA.String(), report.Tenant)
	assert.Equal(t, int64(6), report.Metrics.Summary.TotalOpportunities)
	assert.Equal(t, 6, report.Forecast.Months)
	assert.NotEmpty(t, report.Funnel.Stages)
	assert.Len(t, report.Team.Members, 2)
}

func TestReportService_BuildPipelineReport_InvalidMonths(t *testing.T) {
	svc, _ := newReportService(t)

	report, err := svc.BuildPipelineReport(context.Background(), 0, nil)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, domain.ErrInvalidRange))
}

func TestReportService_WritePipelineReport(t *testing.T) {
	svc, _ := newReportService(t)

	var buf bytes.Buffer
	require.NoError(t, svc.WritePipelineReport(context.Background(), &buf, 3, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), export.SheetForecast)
}

func TestReportService_ArchivePipelineReport(t *testing.T) {
	svc, ls := newReportService(t)

	t.Run("scoped to tenant", func(t *testing.T) {
		ctx := tenant.WithTenantID(context.Background(), testutil.TenantA)
		key, err := svc.ArchivePipelineReport(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, service.ReportKey(testutil.TenantA.String(), pipelineNow), key)

		rc, err := ls.Download(ctx, key)
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()
		tenantCell, err := f.GetCellValue(export.SheetSummary, "B3")
		require.NoError(t, err)
		assert.Equal(t, testutil.TenantA.String(), tenantCell)
		total, err := f.GetCellValue(export.SheetSummary, "B4")
		require.NoError(t, err)
		assert.Equal(t, "6", total)
	})

	t.Run("other tenant sees nothing", func(t *testing.T) {
		ctx := tenant.WithTenantID(context.Background(), testutil.TenantB)
		key, err := svc.ArchivePipelineReport(ctx, 3)
		require.NoError(t, err)

		rc, err := ls.Download(ctx, key)
		require.NoError(t, err)
		defer rc.Close()
		f, err := excelize.OpenReader(rc)
		require.NoError(t, err)
		defer f.Close()
		total, err := f.GetCellValue(export.SheetSummary, "B4")
		require.NoError(t, err)
		assert.Equal(t, "0", total)
	})

	t.Run("invalid window stores nothing", func(t *testing.T) {
		key, err := svc.ArchivePipelineReport(context.Background(), 99)
		require.Error(t, err)
		assert.Empty(t, key)

		_, err = ls.Download(context.Background(), service.ReportKey("", pipelineNow))
		var notFound *domain.NotFoundError
		assert.True(t, errors.As(err, &notFound))
	})
}
