package service

import (
	"time"

	"github.com/straye-as/crm-analytics/internal/config"
	"github.com/straye-as/crm-analytics/internal/domain"
)

// Segment labels
const (
	SegmentUnknown = "Unknown"

	SizeEnterprise    = "Enterprise"
	SizeMidMarket     = "Mid-Market"
	SizeSmallBusiness = "Small Business"

	ValueStrategic     = "Strategic"
	ValueKeyAccount    = "Key Account"
	ValueGrowth        = "Growth"
	ValueTransactional = "Transactional"

	LifecycleNew         = "New"
	LifecycleGrowing     = "Growing"
	LifecycleEstablished = "Established"
)

// ClassifySegments labels a company on the SIZE, INDUSTRY, VALUE and
// LIFECYCLE axes. totalRevenue is the sum of the company's won deals.
func ClassifySegments(c *domain.Company, totalRevenue float64, now time.Time, cfg config.AnalyticsConfig) []domain.CustomerSegment {
	industry := c.Industry
	if industry == "" {
		industry = SegmentUnknown
	}
	return []domain.CustomerSegment{
		{Type: domain.SegmentSize, Value: sizeSegment(c.EmployeeCount, cfg)},
		{Type: domain.SegmentIndustry, Value: industry},
		{Type: domain.SegmentValue, Value: valueSegment(totalRevenue, cfg)},
		{Type: domain.SegmentLifecycle, Value: lifecycleSegment(c.CreatedAt, now, cfg)},
	}
}

func sizeSegment(employees *int, cfg config.AnalyticsConfig) string {
	switch {
	case employees == nil:
		return SegmentUnknown
	case *employees >= cfg.SizeEnterprise:
		return SizeEnterprise
	case *employees >= cfg.SizeMidMarket:
		return SizeMidMarket
	default:
		return SizeSmallBusiness
	}
}

func valueSegment(totalRevenue float64, cfg config.AnalyticsConfig) string {
	switch {
	case totalRevenue > cfg.ValueStrategic:
		return ValueStrategic
	case totalRevenue > cfg.ValueKeyAccount:
		return ValueKeyAccount
	case totalRevenue > cfg.ValueGrowth:
		return ValueGrowth
	default:
		return ValueTransactional
	}
}

func lifecycleSegment(createdAt, now time.Time, cfg config.AnalyticsConfig) string {
	switch {
	case now.Before(createdAt.AddDate(cfg.LifecycleNewYears, 0, 0)):
		return LifecycleNew
	case now.Before(createdAt.AddDate(cfg.LifecycleGrowingYears, 0, 0)):
		return LifecycleGrowing
	default:
		return LifecycleEstablished
	}
}
