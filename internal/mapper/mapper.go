package mapper

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/straye-as/crm-analytics/internal/domain"
)

const (
	timestampLayout = "2006-01-02T15:04:05Z"
	dateLayout      = "2006-01-02"
)

var hundred = decimal.NewFromInt(100)

// Money rounds a currency amount to two decimals, half away from zero
func Money(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Percent converts a ratio in [0,1] to a percentage rounded to two decimals
func Percent(ratio float64) float64 {
	f, _ := decimal.NewFromFloat(ratio).Mul(hundred).Round(2).Float64()
	return f
}

// Days rounds a day count to one decimal
func Days(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ToPipelineMetricsDTO converts PipelineMetrics to PipelineMetricsDTO
func ToPipelineMetricsDTO(m *domain.PipelineMetrics) domain.PipelineMetricsDTO {
	s := m.Summary
	dto := domain.PipelineMetricsDTO{
		Summary: domain.PipelineSummaryDTO{
			TotalOpportunities:    s.TotalOpportunities,
			TotalValue:            Money(s.TotalValue),
			OpenOpportunities:     s.OpenOpportunities,
			OpenValue:             Money(s.OpenValue),
			WeightedValue:         Money(s.WeightedValue),
			WonCount:              s.WonCount,
			WonValue:              Money(s.WonValue),
			LostCount:             s.LostCount,
			AverageDealSize:       Money(s.AverageDealSize),
			ConversionRate:        Percent(s.ConversionRate),
			WinRate:               Percent(s.WinRate),
			AverageSalesCycleDays: Days(s.AverageSalesCycleDays),
		},
		StageDistribution: make([]domain.StageDistributionDTO, 0, len(m.StageDistribution)),
		Velocity:          make([]domain.StageVelocityDTO, 0, len(m.Velocity)),
	}
	for _, b := range m.StageDistribution {
		dto.StageDistribution = append(dto.StageDistribution, domain.StageDistributionDTO{
			Stage:      string(b.Stage),
			Count:      b.Count,
			Value:      Money(b.Value),
			Percentage: Percent(b.Share),
		})
	}
	for _, v := range m.Velocity {
		dto.Velocity = append(dto.Velocity, domain.StageVelocityDTO{
			Stage:       string(v.Stage),
			AverageDays: Days(v.AverageDays),
			Transitions: v.Transitions,
		})
	}
	return dto
}

// ToFunnelAnalysisDTO converts FunnelAnalysis to FunnelAnalysisDTO
func ToFunnelAnalysisDTO(f *domain.FunnelAnalysis) domain.FunnelAnalysisDTO {
	dto := domain.FunnelAnalysisDTO{
		Stages:            make([]domain.FunnelStageDTO, 0, len(f.Stages)),
		Bottlenecks:       make([]domain.BottleneckDTO, 0, len(f.Bottlenecks)),
		OverallConversion: Percent(f.OverallConversion),
		Threshold:         Percent(f.Threshold),
	}
	for _, s := range f.Stages {
		dto.Stages = append(dto.Stages, domain.FunnelStageDTO{
			Stage:            string(s.Stage),
			Count:            s.Count,
			CurrentCount:     s.CurrentCount,
			ConversionToNext: Percent(s.ConversionToNext),
			DropOff:          s.DropOff,
		})
	}
	for _, b := range f.Bottlenecks {
		dto.Bottlenecks = append(dto.Bottlenecks, domain.BottleneckDTO{
			FromStage:      string(b.FromStage),
			ToStage:        string(b.ToStage),
			ConversionRate: Percent(b.ConversionRate),
		})
	}
	return dto
}

// ToSalesForecastDTO converts SalesForecast to SalesForecastDTO
func ToSalesForecastDTO(f *domain.SalesForecast) domain.SalesForecastDTO {
	dto := domain.SalesForecastDTO{
		Months:  f.Months,
		From:    f.From.UTC().Format(dateLayout),
		To:      f.To.UTC().Format(dateLayout),
		Periods: make([]domain.ForecastPeriodDTO, 0, len(f.Periods)),
		Totals:  toForecastTotalsDTO(f.Totals),
	}
	for _, p := range f.Periods {
		t := toForecastTotalsDTO(p.ForecastTotals)
		dto.Periods = append(dto.Periods, domain.ForecastPeriodDTO{
			Month:            p.Month,
			OpportunityCount: t.OpportunityCount,
			PipelineValue:    t.PipelineValue,
			WeightedValue:    t.WeightedValue,
			BestCase:         t.BestCase,
			WorstCase:        t.WorstCase,
		})
	}
	return dto
}

func toForecastTotalsDTO(t domain.ForecastTotals) domain.ForecastTotalsDTO {
	return domain.ForecastTotalsDTO{
		OpportunityCount: t.OpportunityCount,
		PipelineValue:    Money(t.PipelineValue),
		WeightedValue:    Money(t.WeightedValue),
		BestCase:         Money(t.BestCase),
		WorstCase:        Money(t.WorstCase),
	}
}

// ToTeamPerformanceDTO converts TeamPerformance to TeamPerformanceDTO
func ToTeamPerformanceDTO(p *domain.TeamPerformance) domain.TeamPerformanceDTO {
	dto := domain.TeamPerformanceDTO{Members: make([]domain.TeamMemberPerformanceDTO, 0, len(p.Members))}
	for _, m := range p.Members {
		dto.Members = append(dto.Members, domain.TeamMemberPerformanceDTO{
			AccountManagerID:   m.AccountManagerID.String(),
			Name:               m.Name,
			TotalOpportunities: m.TotalOpportunities,
			TotalValue:         Money(m.TotalValue),
			WonCount:           m.WonCount,
			WonValue:           Money(m.WonValue),
			LostCount:          m.LostCount,
			OpenValue:          Money(m.OpenValue),
			WeightedValue:      Money(m.WeightedValue),
			WinRate:            Percent(m.WinRate),
			AverageDealSize:    Money(m.AverageDealSize),
		})
	}
	return dto
}

// ToProposalAnalyticsDTO converts ProposalAnalytics to ProposalAnalyticsDTO
func ToProposalAnalyticsDTO(a *domain.ProposalAnalytics) domain.ProposalAnalyticsDTO {
	dto := domain.ProposalAnalyticsDTO{
		TotalProposals:         a.TotalProposals,
		ByStatus:               make([]domain.ProposalStatusDTO, 0, len(a.ByStatus)),
		ByTemplate:             make([]domain.ProposalTemplateDTO, 0, len(a.ByTemplate)),
		AcceptanceRate:         Percent(a.AcceptanceRate),
		AverageDiscountPercent: Money(a.AverageDiscountPercent),
		AverageApprovalHours:   Days(a.AverageApprovalHours),
	}
	for _, s := range a.ByStatus {
		dto.ByStatus = append(dto.ByStatus, domain.ProposalStatusDTO{
			Status:     string(s.Status),
			Count:      s.Count,
			TotalValue: Money(s.TotalValue),
		})
	}
	for _, t := range a.ByTemplate {
		dto.ByTemplate = append(dto.ByTemplate, domain.ProposalTemplateDTO{
			TemplateID:     t.TemplateKey,
			Count:          t.Count,
			Accepted:       t.Accepted,
			AcceptanceRate: Percent(t.AcceptanceRate),
		})
	}
	return dto
}

// ToCustomerSegmentDTOs converts segments, never returning nil
func ToCustomerSegmentDTOs(segments []domain.CustomerSegment) []domain.CustomerSegmentDTO {
	dtos := make([]domain.CustomerSegmentDTO, 0, len(segments))
	for _, s := range segments {
		dtos = append(dtos, domain.CustomerSegmentDTO{Type: string(s.Type), Value: s.Value})
	}
	return dtos
}

// ToHealthScoreDTO converts HealthScore to HealthScoreDTO
func ToHealthScoreDTO(h *domain.HealthScore) domain.HealthScoreDTO {
	dto := domain.HealthScoreDTO{
		Score:   Money(h.Score),
		Status:  string(h.Status),
		Factors: make([]domain.HealthFactorDTO, 0, len(h.Factors)),
	}
	for _, f := range h.Factors {
		dto.Factors = append(dto.Factors, domain.HealthFactorDTO{
			Name:          f.Name,
			Score:         Money(f.Score),
			Weight:        f.Weight,
			WeightedScore: Money(f.Score * f.Weight),
		})
	}
	return dto
}

// ToCompanySummaryDTO converts Company to CompanySummaryDTO
func ToCompanySummaryDTO(c *domain.Company) domain.CompanySummaryDTO {
	return domain.CompanySummaryDTO{
		ID:            c.ID.String(),
		Name:          c.Name,
		Industry:      c.Industry,
		EmployeeCount: c.EmployeeCount,
		CreatedAt:     formatTime(c.CreatedAt),
	}
}

// ToContactDTO converts Contact to ContactDTO
func ToContactDTO(c *domain.Contact) domain.ContactDTO {
	return domain.ContactDTO{
		ID:              c.ID.String(),
		Name:            c.Name,
		Title:           c.Title,
		Email:           c.Email,
		IsDecisionMaker: c.IsDecisionMaker,
	}
}

func toContactDTOs(contacts []domain.Contact) []domain.ContactDTO {
	dtos := make([]domain.ContactDTO, 0, len(contacts))
	for i := range contacts {
		dtos = append(dtos, ToContactDTO(&contacts[i]))
	}
	return dtos
}

// ToCustomer360DTO converts Customer360View to Customer360DTO
func ToCustomer360DTO(v *domain.Customer360View) domain.Customer360DTO {
	summary := domain.CustomerSummaryDTO{
		TotalOpportunities:  v.Summary.TotalOpportunities,
		ActiveOpportunities: v.Summary.ActiveOpportunities,
		WonOpportunities:    v.Summary.WonOpportunities,
		Contacts:            v.Summary.Contacts,
	}
	if v.Summary.LastInteractionAt != nil {
		last := formatTime(*v.Summary.LastInteractionAt)
		summary.LastInteractionAt = &last
	}
	if next := v.Summary.NextScheduledAction; next != nil {
		summary.NextScheduledAction = &domain.ScheduledActionDTO{
			ActivityID: next.ActivityID.String(),
			Type:       string(next.Type),
			Subject:    next.Subject,
			StartTime:  formatTime(next.StartTime),
		}
	}

	branches := make([]domain.BranchDTO, 0, len(v.Relationships.Branches))
	for _, b := range v.Relationships.Branches {
		branches = append(branches, domain.BranchDTO{ID: b.ID.String(), Name: b.Name, City: b.City})
	}

	return domain.Customer360DTO{
		Company:  ToCompanySummaryDTO(&v.Company),
		Segments: ToCustomerSegmentDTOs(v.Segments),
		Health:   ToHealthScoreDTO(&v.Health),
		Summary:  summary,
		Financials: domain.CustomerFinancialsDTO{
			TotalRevenue:     Money(v.Financials.TotalRevenue),
			PipelineValue:    Money(v.Financials.PipelineValue),
			WeightedPipeline: Money(v.Financials.WeightedPipeline),
			AverageDealSize:  Money(v.Financials.AverageDealSize),
		},
		Relationships: domain.CustomerRelationshipsDTO{
			Branches:       branches,
			Contacts:       toContactDTOs(v.Relationships.Contacts),
			DecisionMakers: toContactDTOs(v.Relationships.DecisionMakers),
		},
	}
}

// ToRevenueAnalyticsDTO converts RevenueAnalytics to RevenueAnalyticsDTO
func ToRevenueAnalyticsDTO(r *domain.RevenueAnalytics) domain.RevenueAnalyticsDTO {
	dto := domain.RevenueAnalyticsDTO{
		TotalRevenue:     Money(r.TotalRevenue),
		PipelineValue:    Money(r.PipelineValue),
		WeightedPipeline: Money(r.WeightedPipeline),
		AverageDealSize:  Money(r.AverageDealSize),
		WonCount:         r.WonCount,
		LostCount:        r.LostCount,
		OpenCount:        r.OpenCount,
		WinRate:          Percent(r.WinRate),
		ConversionRate:   Percent(r.ConversionRate),
		MonthlyRevenue:   make([]domain.MonthlyRevenueDTO, 0, len(r.MonthlyRevenue)),
	}
	for _, m := range r.MonthlyRevenue {
		dto.MonthlyRevenue = append(dto.MonthlyRevenue, domain.MonthlyRevenueDTO{
			Month:   m.Month,
			Revenue: Money(m.Revenue),
			Deals:   m.Deals,
		})
	}
	return dto
}

// ToRiskAssessmentDTO converts RiskAssessment to RiskAssessmentDTO
func ToRiskAssessmentDTO(r *domain.RiskAssessment) domain.RiskAssessmentDTO {
	dto := domain.RiskAssessmentDTO{
		OverallRisk:           string(r.OverallRisk),
		DaysSinceLastActivity: r.DaysSinceLastActivity,
		Factors:               make([]domain.RiskFactorDTO, 0, len(r.Factors)),
		Recommendations:       make([]string, 0, len(r.Recommendations)),
	}
	for _, f := range r.Factors {
		dto.Factors = append(dto.Factors, domain.RiskFactorDTO{
			Name:        f.Name,
			Severity:    string(f.Severity),
			Description: f.Description,
		})
	}
	dto.Recommendations = append(dto.Recommendations, r.Recommendations...)
	return dto
}

// ToInteractionHistoryDTO converts InteractionHistory to InteractionHistoryDTO
func ToInteractionHistoryDTO(h *domain.InteractionHistory) domain.InteractionHistoryDTO {
	dto := domain.InteractionHistoryDTO{
		CompanyID: h.CompanyID.String(),
		Items:     make([]domain.InteractionDTO, 0, len(h.Items)),
	}
	for _, item := range h.Items {
		i := domain.InteractionDTO{
			ID:         item.ID.String(),
			Kind:       string(item.Kind),
			Type:       string(item.Type),
			UserID:     item.UserID.String(),
			Summary:    item.Summary,
			OccurredAt: formatTime(item.OccurredAt),
		}
		if item.ContactID != nil {
			contactID := item.ContactID.String()
			i.ContactID = &contactID
		}
		dto.Items = append(dto.Items, i)
	}
	return dto
}

// ToEngagementTimelineDTO converts EngagementTimeline to EngagementTimelineDTO
func ToEngagementTimelineDTO(t *domain.EngagementTimeline) domain.EngagementTimelineDTO {
	dto := domain.EngagementTimelineDTO{
		CompanyID: t.CompanyID.String(),
		Days:      t.Days,
		Months:    make([]domain.TimelineMonthDTO, 0, len(t.Months)),
	}
	for _, m := range t.Months {
		month := domain.TimelineMonthDTO{
			Month:      m.Month,
			Activities: make([]domain.TimelineActivityDTO, 0, len(m.Activities)),
		}
		for _, a := range m.Activities {
			month.Activities = append(month.Activities, domain.TimelineActivityDTO{
				ID:        a.ID.String(),
				Type:      string(a.Type),
				Subject:   a.Subject,
				UserID:    a.UserID.String(),
				StartTime: formatTime(a.StartTime),
			})
		}
		dto.Months = append(dto.Months, month)
	}
	return dto
}
