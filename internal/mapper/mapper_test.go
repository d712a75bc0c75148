package mapper_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRounding(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64) float64
		in   float64
		want float64
	}{
		{"money half up", mapper.Money, 10.005, 10.01},
		{"money negative", mapper.Money, -2.345, -2.35},
		{"money whole", mapper.Money, 175000, 175000},
		{"percent two thirds", mapper.Percent, 2.0 / 3.0, 66.67},
		{"percent one third", mapper.Percent, 1.0 / 3.0, 33.33},
		{"percent zero", mapper.Percent, 0, 0},
		{"percent full", mapper.Percent, 1, 100},
		{"days", mapper.Days, 14.96, 15},
		{"days fraction", mapper.Days, 3.14159, 3.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestToPipelineMetricsDTO(t *testing.T) {
	metrics := &domain.PipelineMetrics{
		Summary: domain.PipelineSummary{
			TotalOpportunities:    3,
			TotalValue:            300.004,
			WeightedValue:         123.456,
			ConversionRate:        1.0 / 3.0,
			WinRate:               0.5,
			AverageSalesCycleDays: 42.25,
		},
		StageDistribution: []domain.StageBucket{
			{Stage: domain.StageQualifying, Count: 1, Value: 100, Share: 1.0 / 3.0},
			{Stage: domain.StageProposal, Count: 1, Value: 100, Share: 1.0 / 3.0},
			{Stage: domain.StageClosedWon, Count: 1, Value: 100, Share: 1.0 / 3.0},
		},
	}

	dto := mapper.ToPipelineMetricsDTO(metrics)

	assert.Equal(t, 300.0, dto.Summary.TotalValue)
	assert.Equal(t, 123.46, dto.Summary.WeightedValue)
	assert.Equal(t, 33.33, dto.Summary.ConversionRate)
	assert.Equal(t, 50.0, dto.Summary.WinRate)
	assert.Equal(t, 42.3, dto.Summary.AverageSalesCycleDays)

	var sum float64
	for _, s := range dto.StageDistribution {
		sum += s.Percentage
	}
	assert.InDelta(t, 100, sum, 0.05, "percentages sum to 100 within rounding")

	assert.NotNil(t, dto.Velocity)
	assert.Empty(t, dto.Velocity)
}

func TestToDTOs_EmptySlicesSerialiseAsArrays(t *testing.T) {
	cases := map[string]interface{}{
		"pipeline":    mapper.ToPipelineMetricsDTO(&domain.PipelineMetrics{}),
		"funnel":      mapper.ToFunnelAnalysisDTO(&domain.FunnelAnalysis{}),
		"forecast":    mapper.ToSalesForecastDTO(&domain.SalesForecast{}),
		"team":        mapper.ToTeamPerformanceDTO(&domain.TeamPerformance{}),
		"proposals":   mapper.ToProposalAnalyticsDTO(&domain.ProposalAnalytics{}),
		"health":      mapper.ToHealthScoreDTO(&domain.HealthScore{}),
		"revenue":     mapper.ToRevenueAnalyticsDTO(&domain.RevenueAnalytics{}),
		"risk":        mapper.ToRiskAssessmentDTO(&domain.RiskAssessment{}),
		"history":     mapper.ToInteractionHistoryDTO(&domain.InteractionHistory{}),
		"timeline":    mapper.ToEngagementTimelineDTO(&domain.EngagementTimeline{}),
		"customer360": mapper.ToCustomer360DTO(&domain.Customer360View{}),
	}

	for name, dto := range cases {
		t.Run(name, func(t *testing.T) {
			body, err := json.Marshal(dto)
			require.NoError(t, err)
			assert.NotContains(t, string(body), "null")
		})
	}
}

func TestToFunnelAnalysisDTO(t *testing.T) {
	funnel := &domain.FunnelAnalysis{
		Stages: []domain.FunnelStage{
			{Stage: domain.StageQualifying, Count: 4, CurrentCount: 1, ConversionToNext: 0.75, DropOff: 1},
			{Stage: domain.StageNeedsAnalysis, Count: 3, CurrentCount: 2, ConversionToNext: 1.0 / 3.0, DropOff: 2},
		},
		Bottlenecks: []domain.Bottleneck{
			{FromStage: domain.StageNeedsAnalysis, ToStage: domain.StageProposal, ConversionRate: 1.0 / 3.0},
		},
		OverallConversion: 0.25,
		Threshold:         0.5,
	}

	dto := mapper.ToFunnelAnalysisDTO(funnel)

	require.Len(t, dto.Stages, 2)
	assert.Equal(t, 75.0, dto.Stages[0].ConversionToNext)
	assert.Equal(t, 33.33, dto.Stages[1].ConversionToNext)
	require.Len(t, dto.Bottlenecks, 1)
	assert.Equal(t, "NEEDS_ANALYSIS", dto.Bottlenecks[0].FromStage)
	assert.Equal(t, "PROPOSAL", dto.Bottlenecks[0].ToStage)
	assert.Equal(t, 25.0, dto.OverallConversion)
	assert.Equal(t, 50.0, dto.Threshold)
}

func TestToCustomer360DTO_Timestamps(t *testing.T) {
	oslo := time.FixedZone("CET", 3600)
	last := time.Date(2026, 6, 10, 9, 30, 0, 0, oslo)
	id := uuid.New()
	view := &domain.Customer360View{
		Company: domain.Company{BaseModel: domain.BaseModel{ID: id, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}, Name: "Acme"},
		Summary: domain.CustomerSummary{
			LastInteractionAt: &last,
			NextScheduledAction: &domain.ScheduledAction{
				ActivityID: id,
				Type:       domain.ActivityTypeCall,
				StartTime:  time.Date(2026, 6, 20, 14, 0, 0, 0, time.UTC),
			},
		},
		Health: domain.HealthScore{
			Score:   68.754,
			Status:  domain.HealthStatusAtRisk,
			Factors: []domain.HealthFactor{{Name: "engagement", Score: 50, Weight: 0.25}},
		},
	}

	dto := mapper.ToCustomer360DTO(view)

	assert.Equal(t, "2024-03-01T00:00:00Z", dto.Company.CreatedAt)
	require.NotNil(t, dto.Summary.LastInteractionAt)
	assert.Equal(t, "2026-06-10T08:30:00Z", *dto.Summary.LastInteractionAt)
	require.NotNil(t, dto.Summary.NextScheduledAction)
	assert.Equal(t, "CALL", dto.Summary.NextScheduledAction.Type)
	assert.Equal(t, 68.75, dto.Health.Score)
	assert.Equal(t, 12.5, dto.Health.Factors[0].WeightedScore)
}

func TestToInteractionHistoryDTO(t *testing.T) {
	contact := uuid.New()
	history := &domain.InteractionHistory{
		CompanyID: uuid.New(),
		Items: []domain.Interaction{
			{ID: uuid.New(), Kind: domain.InteractionKindActivity, Type: domain.ActivityTypeMeeting, ContactID: &contact, Summary: "QBR",
				OccurredAt: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)},
			{ID: uuid.New(), Kind: domain.InteractionKindNote, Type: domain.ActivityTypeNote, Summary: "Follow up",
				OccurredAt: time.Date(2026, 5, 30, 0, 0, 0, 0, time.UTC)},
		},
	}

	dto := mapper.ToInteractionHistoryDTO(history)

	require.Len(t, dto.Items, 2)
	require.NotNil(t, dto.Items[0].ContactID)
	assert.Equal(t, contact.String(), *dto.Items[0].ContactID)
	assert.Equal(t, "2026-06-01T10:00:00Z", dto.Items[0].OccurredAt)
	assert.Nil(t, dto.Items[1].ContactID)
	assert.Equal(t, "NOTE", dto.Items[1].Kind)
}
