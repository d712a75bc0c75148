package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() *export.PipelineReport {
	return &export.PipelineReport{
		GeneratedAt: time.Date(2026, 6, 15, 2, 0, 0, 0, time.UTC),
		Metrics: domain.PipelineMetricsDTO{
			Summary: domain.PipelineSummaryDTO{TotalOpportunities: 4, TotalValue: 300000, WinRate: 66.67},
			StageDistribution: []domain.StageDistributionDTO{
				{Stage: "PROPOSAL", Count: 1, Value: 100000, Percentage: 33.33},
				{Stage: "CLOSED_WON", Count: 2, Value: 200000, Percentage: 66.67},
			},
			Velocity: []domain.StageVelocityDTO{{Stage: "PROPOSAL", AverageDays: 12.5, Transitions: 2}},
		},
		Funnel: domain.FunnelAnalysisDTO{
			Stages: []domain.FunnelStageDTO{
				{Stage: "QUALIFYING", Count: 4, CurrentCount: 1, ConversionToNext: 75, DropOff: 1},
				{Stage: "NEEDS_ANALYSIS", Count: 3, CurrentCount: 2, ConversionToNext: 33.33, DropOff: 2},
			},
			Bottlenecks:       []domain.BottleneckDTO{{FromStage: "NEEDS_ANALYSIS", ToStage: "PROPOSAL", ConversionRate: 33.33}},
			OverallConversion: 25,
		},
		Forecast: domain.SalesForecastDTO{
			Months:  2,
			Periods: []domain.ForecastPeriodDTO{{Month: "2026-06", OpportunityCount: 1, PipelineValue: 150000, WeightedValue: 105000}},
			Totals:  domain.ForecastTotalsDTO{OpportunityCount: 1, PipelineValue: 150000, WeightedValue: 105000},
		},
		Team: domain.TeamPerformanceDTO{
			Members: []domain.TeamMemberPerformanceDTO{
				{AccountManagerID: "a1", Name: "Alice", TotalOpportunities: 3, WinRate: 50},
				{AccountManagerID: "b2", TotalOpportunities: 1},
			},
		},
	}
}

func readWorkbook(t *testing.T, data []byte) *excelize.File {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWritePipelineWorkbook_Sheets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WritePipelineWorkbook(&buf, sampleReport()))

	f := readWorkbook(t, buf.Bytes())
	assert.Equal(t,
		[]string{export.SheetSummary, export.SheetStages, export.SheetFunnel, export.SheetForecast, export.SheetTeam},
		f.GetSheetList())
}

func TestWritePipelineWorkbook_Content(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WritePipelineWorkbook(&buf, sampleReport()))
	f := readWorkbook(t, buf.Bytes())

	t.Run("summary", func(t *testing.T) {
		rows, err := f.GetRows(export.SheetSummary)
		require.NoError(t, err)
		assert.Equal(t, []string{"Metric", "Value"}, rows[0])
		assert.Equal(t, []string{"Generated At", "2026-06-15T02:00:00Z"}, rows[1])
		assert.Equal(t, []string{"Tenant", "all"}, rows[2])
		assert.Equal(t, []string{"Total Opportunities", "4"}, rows[3])
	})

	t.Run("stages join velocity", func(t *testing.T) {
		rows, err := f.GetRows(export.SheetStages)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"PROPOSAL", "1", "100000", "33.33", "12.5", "2"}, rows[1])
		assert.Equal(t, []string{"CLOSED_WON", "2", "200000", "66.67", "0", "0"}, rows[2])
	})

	t.Run("funnel flags bottlenecks", func(t *testing.T) {
		rows, err := f.GetRows(export.SheetFunnel)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "QUALIFYING", rows[1][0])
		require.Len(t, rows[2], 6)
		assert.Equal(t, "yes", rows[2][5])
	})

	t.Run("forecast totals row", func(t *testing.T) {
		rows, err := f.GetRows(export.SheetForecast)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "2026-06", rows[1][0])
		assert.Equal(t, []string{"Total", "1", "150000", "105000", "0", "0"}, rows[2])
	})

	t.Run("team falls back to id", func(t *testing.T) {
		rows, err := f.GetRows(export.SheetTeam)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Alice", rows[1][0])
		assert.Equal(t, "b2", rows[2][0])
	})
}

func TestWritePipelineWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WritePipelineWorkbook(&buf, &export.PipelineReport{Tenant: "tenant-1"}))
	f := readWorkbook(t, buf.Bytes())

	rows, err := f.GetRows(export.SheetStages)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")

	tenant, err := f.GetCellValue(export.SheetSummary, "B3")
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", tenant)
}
