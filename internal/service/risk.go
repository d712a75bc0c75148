package service

import (
	"fmt"
	"time"

	"github.com/straye-as/crm-analytics/internal/config"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/metrics"
)

// Risk factor names
const (
	RiskNoRecentEngagement    = "No Recent Engagement"
	RiskLowEngagement         = "Low Engagement"
	RiskRecentLostDeals       = "Recent Lost Deals"
	RiskNoActiveOpportunities = "No active opportunities"
)

// riskRecommendations maps each risk factor to its fixed recommendation
var riskRecommendations = map[string]string{
	RiskNoRecentEngagement:    "Schedule an executive check-in to re-establish contact",
	RiskLowEngagement:         "Increase touchpoints with regular calls or meetings",
	RiskRecentLostDeals:       "Run a loss review and address the objections raised",
	RiskNoActiveOpportunities: "Identify upsell or cross-sell opportunities",
}

// AssessRisk applies the churn risk rules in order: inactivity, recent
// losses, then missing open pipeline. lastActivity is nil for a company
// that was never contacted.
func AssessRisk(lastActivity *time.Time, opportunities []domain.Opportunity, now time.Time, cfg config.AnalyticsConfig) domain.RiskAssessment {
	result := domain.RiskAssessment{
		OverallRisk:     domain.RiskLow,
		Factors:         []domain.RiskFactor{},
		Recommendations: []string{},
	}

	if lastActivity == nil {
		addRiskFactor(&result, RiskNoRecentEngagement, domain.RiskHigh, "No recorded activity with this customer")
	} else {
		days := metrics.DaysBetween(*lastActivity, now)
		result.DaysSinceLastActivity = &days
		switch {
		case days > cfg.RiskHighInactivityDays:
			addRiskFactor(&result, RiskNoRecentEngagement, domain.RiskHigh, fmt.Sprintf("No activity in the last %d days", days))
		case days > cfg.RiskMediumInactivityDays:
			addRiskFactor(&result, RiskLowEngagement, domain.RiskMedium, fmt.Sprintf("Last activity was %d days ago", days))
		}
	}

	lostSince := now.AddDate(0, 0, -cfg.LostDealWindowDays)
	var recentLosses, open int
	for i := range opportunities {
		o := &opportunities[i]
		if o.IsOpen() {
			open++
			continue
		}
		if o.Stage == domain.StageClosedLost && o.ActualCloseDate != nil &&
			!o.ActualCloseDate.Before(lostSince) && !o.ActualCloseDate.After(now) {
			recentLosses++
		}
	}
	if recentLosses > 0 {
		addRiskFactor(&result, RiskRecentLostDeals, domain.RiskMedium,
			fmt.Sprintf("%d deal(s) lost in the last %d days", recentLosses, cfg.LostDealWindowDays))
	}
	if open == 0 {
		addRiskFactor(&result, RiskNoActiveOpportunities, domain.RiskMedium, "The customer has no open opportunities")
	}

	return result
}

func addRiskFactor(r *domain.RiskAssessment, name string, severity domain.RiskLevel, description string) {
	r.Factors = append(r.Factors, domain.RiskFactor{Name: name, Severity: severity, Description: description})
	r.Recommendations = append(r.Recommendations, riskRecommendations[name])
	if severity.Rank() > r.OverallRisk.Rank() {
		r.OverallRisk = severity
	}
}
