package domain

// ============================================================================
// Pipeline Analytics DTOs
// ============================================================================
//
// Rates are percentages (0-100) rounded to two decimals. Money values are
// rounded to two decimals. Timestamps are RFC3339 strings.

// PipelineSummaryDTO holds pipeline-wide totals and rates
type PipelineSummaryDTO struct {
	TotalOpportunities    int64   `json:"totalOpportunities"`
	TotalValue            float64 `json:"totalValue"`
	OpenOpportunities     int64   `json:"openOpportunities"`
	OpenValue             float64 `json:"openValue"`
	WeightedValue         float64 `json:"weightedValue"`
	WonCount              int64   `json:"wonCount"`
	WonValue              float64 `json:"wonValue"`
	LostCount             int64   `json:"lostCount"`
	AverageDealSize       float64 `json:"averageDealSize"`
	ConversionRate        float64 `json:"conversionRate"`
	WinRate               float64 `json:"winRate"`
	AverageSalesCycleDays float64 `json:"averageSalesCycleDays"`
}

// StageDistributionDTO is the share of the pipeline in one stage
type StageDistributionDTO struct {
	Stage      string  `json:"stage"`
	Count      int64   `json:"count"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// StageVelocityDTO is the average number of days spent in a stage
type StageVelocityDTO struct {
	Stage       string  `json:"stage"`
	AverageDays float64 `json:"averageDays"`
	Transitions int64   `json:"transitions"`
}

// PipelineMetricsDTO is the response for pipeline metrics
type PipelineMetricsDTO struct {
	Summary           PipelineSummaryDTO     `json:"summary"`
	StageDistribution []StageDistributionDTO `json:"stageDistribution"`
	Velocity          []StageVelocityDTO     `json:"velocity"`
}

// FunnelStageDTO is one stage of the funnel
type FunnelStageDTO struct {
	Stage            string  `json:"stage"`
	Count            int64   `json:"count"`
	CurrentCount     int64   `json:"currentCount"`
	ConversionToNext float64 `json:"conversionToNext"`
	DropOff          int64   `json:"dropOff"`
}

// BottleneckDTO is a stage pair converting below the threshold
type BottleneckDTO struct {
	FromStage      string  `json:"fromStage"`
	ToStage        string  `json:"toStage"`
	ConversionRate float64 `json:"conversionRate"`
}

// FunnelAnalysisDTO is the response for funnel analysis
type FunnelAnalysisDTO struct {
	Stages            []FunnelStageDTO `json:"stages"`
	Bottlenecks       []BottleneckDTO  `json:"bottlenecks"`
	OverallConversion float64          `json:"overallConversion"`
	Threshold         float64          `json:"threshold"`
}

// ForecastPeriodDTO is one month of the sales forecast
type ForecastPeriodDTO struct {
	Month            string  `json:"month"`
	OpportunityCount int64   `json:"opportunityCount"`
	PipelineValue    float64 `json:"pipelineValue"`
	WeightedValue    float64 `json:"weightedValue"`
	BestCase         float64 `json:"bestCase"`
	WorstCase        float64 `json:"worstCase"`
}

// ForecastTotalsDTO sums the forecast over the whole window
type ForecastTotalsDTO struct {
	OpportunityCount int64   `json:"opportunityCount"`
	PipelineValue    float64 `json:"pipelineValue"`
	WeightedValue    float64 `json:"weightedValue"`
	BestCase         float64 `json:"bestCase"`
	WorstCase        float64 `json:"worstCase"`
}

// SalesForecastDTO is the response for the sales forecast
type SalesForecastDTO struct {
	Months  int                 `json:"months"`
	From    string              `json:"from"`
	To      string              `json:"to"`
	Periods []ForecastPeriodDTO `json:"periods"`
	Totals  ForecastTotalsDTO   `json:"totals"`
}

// TeamMemberPerformanceDTO holds the results of one account manager
type TeamMemberPerformanceDTO struct {
	AccountManagerID   string  `json:"accountManagerId"`
	Name               string  `json:"name"`
	TotalOpportunities int64   `json:"totalOpportunities"`
	TotalValue         float64 `json:"totalValue"`
	WonCount           int64   `json:"wonCount"`
	WonValue           float64 `json:"wonValue"`
	LostCount          int64   `json:"lostCount"`
	OpenValue          float64 `json:"openValue"`
	WeightedValue      float64 `json:"weightedValue"`
	WinRate            float64 `json:"winRate"`
	AverageDealSize    float64 `json:"averageDealSize"`
}

// TeamPerformanceDTO is the response for team performance
type TeamPerformanceDTO struct {
	Members []TeamMemberPerformanceDTO `json:"members"`
}

// ProposalStatusDTO counts proposals in one status
type ProposalStatusDTO struct {
	Status     string  `json:"status"`
	Count      int64   `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

// ProposalTemplateDTO summarises proposals built from one template
type ProposalTemplateDTO struct {
	TemplateID     string  `json:"templateId"`
	Count          int64   `json:"count"`
	Accepted       int64   `json:"accepted"`
	AcceptanceRate float64 `json:"acceptanceRate"`
}

// ProposalAnalyticsDTO is the response for proposal analytics
type ProposalAnalyticsDTO struct {
	TotalProposals         int64                 `json:"totalProposals"`
	ByStatus               []ProposalStatusDTO   `json:"byStatus"`
	ByTemplate             []ProposalTemplateDTO `json:"byTemplate"`
	AcceptanceRate         float64               `json:"acceptanceRate"`
	AverageDiscountPercent float64               `json:"averageDiscountPercent"`
	AverageApprovalHours   float64               `json:"averageApprovalHours"`
}

// ============================================================================
// Customer Analytics DTOs
// ============================================================================

// CustomerSegmentDTO is a classification label
type CustomerSegmentDTO struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// HealthFactorDTO is one input to the health score
type HealthFactorDTO struct {
	Name          string  `json:"name"`
	Score         float64 `json:"score"`
	Weight        float64 `json:"weight"`
	WeightedScore float64 `json:"weightedScore"`
}

// HealthScoreDTO is the customer health composite
type HealthScoreDTO struct {
	Score   float64           `json:"score"`
	Status  string            `json:"status"`
	Factors []HealthFactorDTO `json:"factors"`
}

// CompanySummaryDTO identifies the customer
type CompanySummaryDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Industry      string `json:"industry,omitempty"`
	EmployeeCount *int   `json:"employeeCount,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// ScheduledActionDTO is the next planned interaction
type ScheduledActionDTO struct {
	ActivityID string `json:"activityId"`
	Type       string `json:"type"`
	Subject    string `json:"subject,omitempty"`
	StartTime  string `json:"startTime"`
}

// CustomerSummaryDTO holds headline counts
type CustomerSummaryDTO struct {
	TotalOpportunities  int64               `json:"totalOpportunities"`
	ActiveOpportunities int64               `json:"activeOpportunities"`
	WonOpportunities    int64               `json:"wonOpportunities"`
	Contacts            int64               `json:"contacts"`
	LastInteractionAt   *string             `json:"lastInteractionAt,omitempty"`
	NextScheduledAction *ScheduledActionDTO `json:"nextScheduledAction,omitempty"`
}

// CustomerFinancialsDTO holds the money rollups
type CustomerFinancialsDTO struct {
	TotalRevenue     float64 `json:"totalRevenue"`
	PipelineValue    float64 `json:"pipelineValue"`
	WeightedPipeline float64 `json:"weightedPipeline"`
	AverageDealSize  float64 `json:"averageDealSize"`
}

// BranchDTO is a company location
type BranchDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

// ContactDTO is a person at the customer
type ContactDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Title           string `json:"title,omitempty"`
	Email           string `json:"email,omitempty"`
	IsDecisionMaker bool   `json:"isDecisionMaker"`
}

// CustomerRelationshipsDTO lists people and places attached to the customer
type CustomerRelationshipsDTO struct {
	Branches       []BranchDTO  `json:"branches"`
	Contacts       []ContactDTO `json:"contacts"`
	DecisionMakers []ContactDTO `json:"decisionMakers"`
}

// Customer360DTO is the response for the customer 360 view
type Customer360DTO struct {
	Company       CompanySummaryDTO        `json:"company"`
	Segments      []CustomerSegmentDTO     `json:"segments"`
	Health        HealthScoreDTO           `json:"health"`
	Summary       CustomerSummaryDTO       `json:"summary"`
	Financials    CustomerFinancialsDTO    `json:"financials"`
	Relationships CustomerRelationshipsDTO `json:"relationships"`
}

// MonthlyRevenueDTO is the won revenue of one month
type MonthlyRevenueDTO struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Deals   int64   `json:"deals"`
}

// RevenueAnalyticsDTO is the response for customer revenue analytics
type RevenueAnalyticsDTO struct {
	TotalRevenue     float64             `json:"totalRevenue"`
	PipelineValue    float64             `json:"pipelineValue"`
	WeightedPipeline float64             `json:"weightedPipeline"`
	AverageDealSize  float64             `json:"averageDealSize"`
	WonCount         int64               `json:"wonCount"`
	LostCount        int64               `json:"lostCount"`
	OpenCount        int64               `json:"openCount"`
	WinRate          float64             `json:"winRate"`
	ConversionRate   float64             `json:"conversionRate"`
	MonthlyRevenue   []MonthlyRevenueDTO `json:"monthlyRevenue"`
}

// RiskFactorDTO is a triggered risk rule
type RiskFactorDTO struct {
	Name        string `json:"name"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// RiskAssessmentDTO is the response for customer risk assessment
type RiskAssessmentDTO struct {
	OverallRisk           string          `json:"overallRisk"`
	DaysSinceLastActivity *int            `json:"daysSinceLastActivity,omitempty"`
	Factors               []RiskFactorDTO `json:"factors"`
	Recommendations       []string        `json:"recommendations"`
}

// InteractionDTO is one entry of the interaction history
type InteractionDTO struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	Type       string  `json:"type"`
	UserID     string  `json:"userId"`
	ContactID  *string `json:"contactId,omitempty"`
	Summary    string  `json:"summary,omitempty"`
	OccurredAt string  `json:"occurredAt"`
}

// InteractionHistoryDTO is the response for the interaction history
type InteractionHistoryDTO struct {
	CompanyID string           `json:"companyId"`
	Items     []InteractionDTO `json:"items"`
}

// TimelineActivityDTO is an activity inside a timeline month
type TimelineActivityDTO struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Subject   string `json:"subject,omitempty"`
	UserID    string `json:"userId"`
	StartTime string `json:"startTime"`
}

// TimelineMonthDTO groups activities of one month
type TimelineMonthDTO struct {
	Month      string                `json:"month"`
	Activities []TimelineActivityDTO `json:"activities"`
}

// EngagementTimelineDTO is the response for the engagement timeline
type EngagementTimelineDTO struct {
	CompanyID string             `json:"companyId"`
	Days      int                `json:"days"`
	Months    []TimelineMonthDTO `json:"months"`
}
