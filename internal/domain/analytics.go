package domain

import (
	"time"

	"github.com/google/uuid"
)

// Derived analytics records. These are computed per request and never
// persisted. Rates are ratios in [0,1]; the mapper converts them to
// percentages for output.

// PipelineMetrics summarises the opportunities matching a filter
type PipelineMetrics struct {
	Summary           PipelineSummary
	StageDistribution []StageBucket
	Velocity          []StageVelocity
}

// PipelineSummary holds pipeline-wide totals and rates
type PipelineSummary struct {
	TotalOpportunities    int64
	TotalValue            float64
	OpenOpportunities     int64
	OpenValue             float64
	WeightedValue         float64
	WonCount              int64
	WonValue              float64
	LostCount             int64
	AverageDealSize       float64
	ConversionRate        float64
	WinRate               float64
	AverageSalesCycleDays float64
}

// StageBucket is the share of the pipeline currently in one stage
type StageBucket struct {
	Stage OpportunityStage
	Count int64
	Value float64
	Share float64
}

// StageVelocity is the average time spent in a stage before leaving it
type StageVelocity struct {
	Stage       OpportunityStage
	AverageDays float64
	Transitions int64
}

// FunnelAnalysis describes conversion between adjacent funnel stages
type FunnelAnalysis struct {
	Stages            []FunnelStage
	Bottlenecks       []Bottleneck
	OverallConversion float64
	Threshold         float64
}

// FunnelStage counts the opportunities that entered a stage
type FunnelStage struct {
	Stage            OpportunityStage
	Count            int64
	CurrentCount     int64
	ConversionToNext float64
	DropOff          int64
}

// Bottleneck is an adjacent stage pair converting below the threshold
type Bottleneck struct {
	FromStage      OpportunityStage
	ToStage        OpportunityStage
	ConversionRate float64
}

// SalesForecast projects open opportunities over the coming months
type SalesForecast struct {
	Months  int
	From    time.Time
	To      time.Time
	Periods []ForecastPeriod
	Totals  ForecastTotals
}

// ForecastTotals are the forecast figures for a period or the whole window
type ForecastTotals struct {
	OpportunityCount int64
	PipelineValue    float64
	WeightedValue    float64
	BestCase         float64
	WorstCase        float64
}

// ForecastPeriod is one calendar month of the forecast
type ForecastPeriod struct {
	Month string
	ForecastTotals
}

// TeamMemberPerformance holds the pipeline results of one account manager
type TeamMemberPerformance struct {
	AccountManagerID   uuid.UUID
	Name               string
	TotalOpportunities int64
	TotalValue         float64
	WonCount           int64
	WonValue           float64
	LostCount          int64
	OpenValue          float64
	WeightedValue      float64
	WinRate            float64
	AverageDealSize    float64
}

// TeamPerformance ranks account managers by total pipeline value
type TeamPerformance struct {
	Members []TeamMemberPerformance
}

// ProposalStatusBucket counts proposals in one status
type ProposalStatusBucket struct {
	Status     ProposalStatus
	Count      int64
	TotalValue float64
}

// ProposalTemplateBucket summarises proposals created from one template
type ProposalTemplateBucket struct {
	TemplateKey    string
	Count          int64
	Accepted       int64
	AcceptanceRate float64
}

// ProposalAnalytics summarises the proposals matching a filter
type ProposalAnalytics struct {
	TotalProposals         int64
	ByStatus               []ProposalStatusBucket
	ByTemplate             []ProposalTemplateBucket
	AcceptanceRate         float64
	AverageDiscountPercent float64
	AverageApprovalHours   float64
}

// SegmentType is a customer classification axis
type SegmentType string

const (
	SegmentSize      SegmentType = "SIZE"
	SegmentIndustry  SegmentType = "INDUSTRY"
	SegmentValue     SegmentType = "VALUE"
	SegmentLifecycle SegmentType = "LIFECYCLE"
)

// CustomerSegment is a classification label attached to a customer
type CustomerSegment struct {
	Type  SegmentType
	Value string
}

// HealthStatus buckets a health score
type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "HEALTHY"
	HealthStatusAtRisk   HealthStatus = "AT_RISK"
	HealthStatusCritical HealthStatus = "CRITICAL"
)

// HealthFactor is one weighted input to the health score, scored 0..100
type HealthFactor struct {
	Name   string
	Score  float64
	Weight float64
}

// HealthScore is the weighted composite of the health factors, 0..100
type HealthScore struct {
	Score   float64
	Status  HealthStatus
	Factors []HealthFactor
}

// MonthlyRevenue is the won revenue booked in one calendar month
type MonthlyRevenue struct {
	Month   string
	Revenue float64
	Deals   int64
}

// RevenueAnalytics holds the revenue picture of one customer
type RevenueAnalytics struct {
	TotalRevenue     float64
	PipelineValue    float64
	WeightedPipeline float64
	AverageDealSize  float64
	WonCount         int64
	LostCount        int64
	OpenCount        int64
	WinRate          float64
	ConversionRate   float64
	MonthlyRevenue   []MonthlyRevenue
}

// RiskLevel orders risk severities
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Rank returns the ordinal of the level, LOW < MEDIUM < HIGH
func (l RiskLevel) Rank() int {
	switch l {
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// RiskFactor is a triggered risk rule
type RiskFactor struct {
	Name        string
	Severity    RiskLevel
	Description string
}

// RiskAssessment is the rule-based churn risk of a customer
type RiskAssessment struct {
	OverallRisk           RiskLevel
	DaysSinceLastActivity *int
	Factors               []RiskFactor
	Recommendations       []string
}

// ScheduledAction is the next planned interaction with a customer
type ScheduledAction struct {
	ActivityID uuid.UUID
	Type       ActivityType
	Subject    string
	StartTime  time.Time
}

// CustomerSummary holds headline counts for a customer
type CustomerSummary struct {
	TotalOpportunities  int64
	ActiveOpportunities int64
	WonOpportunities    int64
	Contacts            int64
	LastInteractionAt   *time.Time
	NextScheduledAction *ScheduledAction
}

// CustomerFinancials holds the money rollups for a customer
type CustomerFinancials struct {
	TotalRevenue     float64
	PipelineValue    float64
	WeightedPipeline float64
	AverageDealSize  float64
}

// CustomerRelationships lists the people and places attached to a customer
type CustomerRelationships struct {
	Branches       []Branch
	Contacts       []Contact
	DecisionMakers []Contact
}

// Customer360View is the combined picture of a single customer
type Customer360View struct {
	Company       Company
	Segments      []CustomerSegment
	Health        HealthScore
	Summary       CustomerSummary
	Financials    CustomerFinancials
	Relationships CustomerRelationships
}

// InteractionKind tells which source stream an interaction came from
type InteractionKind string

const (
	InteractionKindActivity InteractionKind = "ACTIVITY"
	InteractionKindNote     InteractionKind = "NOTE"
)

// Interaction is one entry in a merged activity and note history
type Interaction struct {
	ID         uuid.UUID
	Kind       InteractionKind
	Type       ActivityType
	UserID     uuid.UUID
	ContactID  *uuid.UUID
	Summary    string
	OccurredAt time.Time
}

// InteractionHistory is a descending-by-date merge of activities and notes
type InteractionHistory struct {
	CompanyID uuid.UUID
	Items     []Interaction
}

// TimelineMonth groups the activities of one calendar month
type TimelineMonth struct {
	Month      string
	Activities []Activity
}

// EngagementTimeline groups recent activities by month, newest first
type EngagementTimeline struct {
	CompanyID uuid.UUID
	Days      int
	Months    []TimelineMonth
}
