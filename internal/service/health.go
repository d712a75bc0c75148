package service

import (
	"time"

	"github.com/straye-as/crm-analytics/internal/config"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/metrics"
)

// Health factor names
const (
	FactorEngagement     = "engagement"
	FactorRevenueGrowth  = "revenueGrowth"
	FactorProjectSuccess = "projectSuccess"
	FactorPaymentHistory = "paymentHistory"
	FactorSupport        = "support"
)

const (
	healthyMinScore = 70
	atRiskMinScore  = 40

	neutralScore = 50
	maxScore     = 100

	escalatedTicketPenalty = 20
	ticketPenalty          = 5
)

// HealthInputs are the records a health score is computed from
type HealthInputs struct {
	Activities    []domain.Activity
	Opportunities []domain.Opportunity
	Projects      []domain.Project
	Invoices      []domain.Invoice
	Tickets       []domain.SupportTicket
}

// ComputeHealthScore weighs the five health factors into a 0..100 score
func ComputeHealthScore(in HealthInputs, now time.Time, cfg config.AnalyticsConfig) domain.HealthScore {
	w := cfg.HealthWeights
	factors := []domain.HealthFactor{
		{Name: FactorEngagement, Score: engagementScore(in.Activities, now, cfg), Weight: w.Engagement},
		{Name: FactorRevenueGrowth, Score: revenueGrowthScore(in.Opportunities, now), Weight: w.RevenueGrowth},
		{Name: FactorProjectSuccess, Score: projectSuccessScore(in.Projects), Weight: w.ProjectSuccess},
		{Name: FactorPaymentHistory, Score: paymentHistoryScore(in.Invoices, now), Weight: w.PaymentHistory},
		{Name: FactorSupport, Score: supportScore(in.Tickets), Weight: w.Support},
	}

	var score float64
	for _, f := range factors {
		score += f.Score * f.Weight
	}
	score = metrics.Clamp(score, 0, maxScore)

	return domain.HealthScore{
		Score:   score,
		Status:  healthStatus(score),
		Factors: factors,
	}
}

func healthStatus(score float64) domain.HealthStatus {
	switch {
	case score >= healthyMinScore:
		return domain.HealthStatusHealthy
	case score >= atRiskMinScore:
		return domain.HealthStatusAtRisk
	default:
		return domain.HealthStatusCritical
	}
}

// engagementScore measures recent activity against the engagement target
func engagementScore(activities []domain.Activity, now time.Time, cfg config.AnalyticsConfig) float64 {
	since := now.AddDate(0, 0, -cfg.EngagementWindowDays)
	var recent int
	for _, a := range activities {
		if !a.StartTime.Before(since) && !a.StartTime.After(now) {
			recent++
		}
	}
	return metrics.Clamp(metrics.Ratio(float64(recent), float64(cfg.EngagementTarget)), 0, 1) * maxScore
}

// revenueGrowthScore compares won revenue of the trailing year with the year before
func revenueGrowthScore(opportunities []domain.Opportunity, now time.Time) float64 {
	yearAgo := now.AddDate(-1, 0, 0)
	twoYearsAgo := now.AddDate(-2, 0, 0)

	var recent, prior float64
	for i := range opportunities {
		o := &opportunities[i]
		if o.Stage != domain.StageClosedWon || o.ActualCloseDate == nil {
			continue
		}
		closed := *o.ActualCloseDate
		switch {
		case closed.After(now):
		case closed.After(yearAgo):
			recent += o.Amount
		case closed.After(twoYearsAgo):
			prior += o.Amount
		}
	}

	if prior == 0 {
		if recent == 0 {
			return neutralScore
		}
		return maxScore
	}
	growth := (recent - prior) / prior
	return metrics.Clamp(neutralScore+neutralScore*growth, 0, maxScore)
}

func projectSuccessScore(projects []domain.Project) float64 {
	var completed, cancelled int
	for _, p := range projects {
		switch p.Status {
		case domain.ProjectStatusCompleted:
			completed++
		case domain.ProjectStatusCancelled:
			cancelled++
		}
	}
	if completed+cancelled == 0 {
		return neutralScore
	}
	return float64(completed) / float64(completed+cancelled) * maxScore
}

func paymentHistoryScore(invoices []domain.Invoice, now time.Time) float64 {
	var due, onTime int
	for i := range invoices {
		inv := &invoices[i]
		if inv.DueDate.After(now) {
			continue
		}
		due++
		if inv.PaidOnTime() {
			onTime++
		}
	}
	if due == 0 {
		return maxScore
	}
	return float64(onTime) / float64(due) * maxScore
}

func supportScore(tickets []domain.SupportTicket) float64 {
	penalty := 0
	for i := range tickets {
		t := &tickets[i]
		if t.Status != domain.TicketStatusOpen {
			continue
		}
		if t.IsEscalated() {
			penalty += escalatedTicketPenalty
		} else {
			penalty += ticketPenalty
		}
	}
	return metrics.Clamp(float64(maxScore-penalty), 0, maxScore)
}
