package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/aggregation"
	"github.com/straye-as/crm-analytics/internal/config"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PipelineAnalyticsService derives pipeline, funnel, forecast, team and
// proposal analytics from the opportunities visible in the request context
type PipelineAnalyticsService struct {
	store  PipelineStore
	cfg    config.AnalyticsConfig
	logger *zap.Logger
	now    func() time.Time
}

func NewPipelineAnalyticsService(store PipelineStore, cfg config.AnalyticsConfig, logger *zap.Logger) *PipelineAnalyticsService {
	return &PipelineAnalyticsService{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source, for deterministic tests and reports
func (s *PipelineAnalyticsService) WithClock(now func() time.Time) *PipelineAnalyticsService {
	s.now = now
	return s
}

// GetPipelineMetrics returns pipeline totals, the per-stage value distribution
// and the stage velocity over the configured look-back window
func (s *PipelineAnalyticsService) GetPipelineMetrics(ctx context.Context, f *domain.OpportunityFilter) (*domain.PipelineMetrics, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	since := s.now().UTC().AddDate(0, 0, -s.cfg.VelocityLookbackDays)

	var (
		byStage       []domain.AggregateRecord
		opportunities []domain.Opportunity
		history       []domain.StageHistory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStage, err = s.store.AggregateOpportunities(gctx, f, domain.DimensionStage)
		if err != nil {
			return fmt.Errorf("failed to aggregate opportunities by stage: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		opportunities, err = s.store.FindOpportunities(gctx, f)
		if err != nil {
			return fmt.Errorf("failed to find opportunities: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		history, err = s.store.FindStageHistory(gctx, domain.StageHistoryQuery{Filter: filterValue(f), Since: &since})
		if err != nil {
			return fmt.Errorf("failed to find stage history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := summarizeStages(byStage)
	summary.AverageSalesCycleDays = averageSalesCycle(opportunities)

	result := &domain.PipelineMetrics{
		Summary:           summary,
		StageDistribution: stageDistribution(byStage, summary.TotalValue),
		Velocity:          stageVelocity(history),
	}

	s.logger.Debug("Pipeline metrics computed",
		zap.Int64("total_opportunities", summary.TotalOpportunities),
		zap.Float64("total_value", summary.TotalValue),
	)
	return result, nil
}

// GetFunnelAnalysis counts the opportunities that entered each funnel stage
// and flags adjacent stage pairs converting below the configured threshold
func (s *PipelineAnalyticsService) GetFunnelAnalysis(ctx context.Context, f *domain.OpportunityFilter) (*domain.FunnelAnalysis, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	lost := domain.StageClosedLost
	var (
		opportunities []domain.Opportunity
		losses        []domain.StageHistory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		opportunities, err = s.store.FindOpportunities(gctx, f)
		if err != nil {
			return fmt.Errorf("failed to find opportunities: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		losses, err = s.store.FindStageHistory(gctx, domain.StageHistoryQuery{Filter: filterValue(f), ToStage: &lost})
		if err != nil {
			return fmt.Errorf("failed to find loss transitions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Stage each lost opportunity left when it was lost. History is
	// chronological, so the latest transition wins.
	lostFrom := make(map[uuid.UUID]domain.OpportunityStage)
	for _, h := range losses {
		if h.FromStage != nil {
			lostFrom[h.OpportunityID] = *h.FromStage
		}
	}

	n := len(domain.FunnelStages)
	reached := make([]int64, n)
	current := make([]int64, n)
	for i := range opportunities {
		o := &opportunities[i]
		idx := o.Stage.FunnelIndex()
		if idx >= 0 {
			current[idx]++
		}
		if o.Stage == domain.StageClosedLost {
			idx = 0
			if from, ok := lostFrom[o.ID]; ok && from.FunnelIndex() > 0 {
				idx = from.FunnelIndex()
			}
			// A lost deal never counts as won, whatever stage it left.
			idx = min(idx, domain.StageNegotiation.FunnelIndex())
		}
		for j := 0; j <= idx; j++ {
			reached[j]++
		}
	}

	threshold := s.cfg.BottleneckThreshold
	result := &domain.FunnelAnalysis{
		Stages:      make([]domain.FunnelStage, 0, n),
		Bottlenecks: []domain.Bottleneck{},
		Threshold:   threshold,
	}
	for i, stage := range domain.FunnelStages {
		fs := domain.FunnelStage{
			Stage:        stage,
			Count:        reached[i],
			CurrentCount: current[i],
		}
		if i+1 < n {
			fs.ConversionToNext = metrics.Ratio(float64(reached[i+1]), float64(reached[i]))
			fs.DropOff = reached[i] - reached[i+1]
			if reached[i] > 0 && fs.ConversionToNext < threshold {
				result.Bottlenecks = append(result.Bottlenecks, domain.Bottleneck{
					FromStage:      stage,
					ToStage:        domain.FunnelStages[i+1],
					ConversionRate: fs.ConversionToNext,
				})
			}
		}
		result.Stages = append(result.Stages, fs)
	}
	result.OverallConversion = metrics.Ratio(float64(reached[n-1]), float64(reached[0]))

	return result, nil
}

// GetSalesForecast buckets open opportunities expected to close within the
// next months by calendar month. Opportunities without an expected close
// date are left out.
func (s *PipelineAnalyticsService) GetSalesForecast(ctx context.Context, months int, f *domain.OpportunityFilter) (*domain.SalesForecast, error) {
	if months < 1 || months > s.cfg.ForecastMaxMonths {
		return nil, &domain.InvalidRangeError{
			Field:  "months",
			Reason: fmt.Sprintf("must be between 1 and %d", s.cfg.ForecastMaxMonths),
		}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	opportunities, err := s.store.FindOpportunities(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to find opportunities: %w", err)
	}

	from := startOfDay(s.now())
	to := from.AddDate(0, months, 0)
	end := to.AddDate(0, 0, 1)

	periods := make([]domain.ForecastPeriod, 0, months+1)
	index := make(map[string]int)
	for m := startOfMonth(from); !m.After(to); m = m.AddDate(0, 1, 0) {
		key := domain.MonthKey(m)
		index[key] = len(periods)
		periods = append(periods, domain.ForecastPeriod{Month: key})
	}

	var totals domain.ForecastTotals
	for i := range opportunities {
		o := &opportunities[i]
		if !o.IsOpen() || o.ExpectedCloseDate == nil {
			continue
		}
		closeDate := o.ExpectedCloseDate.UTC()
		if closeDate.Before(from) || !closeDate.Before(end) {
			continue
		}
		period := &periods[index[domain.MonthKey(closeDate)]]
		s.addForecast(&period.ForecastTotals, o)
		s.addForecast(&totals, o)
	}

	return &domain.SalesForecast{
		Months:  months,
		From:    from,
		To:      to,
		Periods: periods,
		Totals:  totals,
	}, nil
}

func (s *PipelineAnalyticsService) addForecast(t *domain.ForecastTotals, o *domain.Opportunity) {
	t.OpportunityCount++
	t.PipelineValue += o.ExpectedAmount
	t.WeightedValue += metrics.WeightedForecast(o.ExpectedAmount, o.Probability)
	t.BestCase += o.ExpectedAmount
	if o.Probability > s.cfg.WorstCaseMinProbability {
		t.WorstCase += o.ExpectedAmount
	}
}

// GetTeamPerformance ranks account managers by total pipeline value,
// ties broken by manager id
func (s *PipelineAnalyticsService) GetTeamPerformance(ctx context.Context, f *domain.OpportunityFilter) (*domain.TeamPerformance, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	opportunities, err := s.store.FindOpportunities(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to find opportunities: %w", err)
	}

	members := make(map[uuid.UUID]*domain.TeamMemberPerformance)
	ids := make([]uuid.UUID, 0)
	for i := range opportunities {
		o := &opportunities[i]
		m, ok := members[o.AccountManagerID]
		if !ok {
			m = &domain.TeamMemberPerformance{AccountManagerID: o.AccountManagerID, Name: o.AccountManagerName}
			members[o.AccountManagerID] = m
			ids = append(ids, o.AccountManagerID)
		}
		m.TotalOpportunities++
		m.TotalValue += o.Value()
		switch aggregation.OpportunityStatus(o) {
		case aggregation.StatusWon:
			m.WonCount++
			m.WonValue += o.Amount
		case aggregation.StatusLost:
			m.LostCount++
		default:
			m.OpenValue += o.ExpectedAmount
			m.WeightedValue += o.WeightedValue()
		}
	}

	users, err := s.store.FindUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find account managers: %w", err)
	}
	for _, u := range users {
		if m, ok := members[u.ID]; ok && u.Name != "" {
			m.Name = u.Name
		}
	}

	result := &domain.TeamPerformance{Members: make([]domain.TeamMemberPerformance, 0, len(members))}
	for _, m := range members {
		m.WinRate = metrics.WinRate(m.WonCount, m.LostCount)
		m.AverageDealSize = metrics.AverageDealSize(m.WonValue, m.WonCount)
		result.Members = append(result.Members, *m)
	}
	sort.Slice(result.Members, func(i, j int) bool {
		a, b := result.Members[i], result.Members[j]
		if a.TotalValue != b.TotalValue {
			return a.TotalValue > b.TotalValue
		}
		return a.AccountManagerID.String() < b.AccountManagerID.String()
	})

	return result, nil
}

// GetProposalAnalytics summarises proposal outcomes per status and template
func (s *PipelineAnalyticsService) GetProposalAnalytics(ctx context.Context, f *domain.ProposalFilter) (*domain.ProposalAnalytics, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	var (
		byStatus   []domain.ProposalAggregate
		byTemplate []domain.ProposalAggregate
		proposals  []domain.Proposal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = s.store.AggregateProposals(gctx, f, domain.DimensionStatus)
		if err != nil {
			return fmt.Errorf("failed to aggregate proposals by status: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		byTemplate, err = s.store.AggregateProposals(gctx, f, domain.DimensionTemplate)
		if err != nil {
			return fmt.Errorf("failed to aggregate proposals by template: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		proposals, err = s.store.FindProposals(gctx, f)
		if err != nil {
			return fmt.Errorf("failed to find proposals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.ProposalAnalytics{
		ByStatus:   make([]domain.ProposalStatusBucket, 0, len(byStatus)),
		ByTemplate: make([]domain.ProposalTemplateBucket, 0, len(byTemplate)),
	}

	sort.SliceStable(byStatus, func(i, j int) bool {
		return proposalStatusRank(byStatus[i].Key) < proposalStatusRank(byStatus[j].Key)
	})
	var accepted, decided int64
	var discountSum float64
	for _, agg := range byStatus {
		status := domain.ProposalStatus(agg.Key)
		result.TotalProposals += agg.Count
		discountSum += agg.AvgDiscountPercent * float64(agg.Count)
		result.ByStatus = append(result.ByStatus, domain.ProposalStatusBucket{
			Status:     status,
			Count:      agg.Count,
			TotalValue: agg.SumTotalAmount,
		})
		if status.IsTerminal() {
			decided += agg.Count
		}
		if status == domain.ProposalStatusAccepted {
			accepted += agg.Count
		}
	}
	result.AcceptanceRate = metrics.Ratio(float64(accepted), float64(decided))
	result.AverageDiscountPercent = metrics.Ratio(discountSum, float64(result.TotalProposals))

	type outcome struct{ accepted, decided int64 }
	outcomes := make(map[string]*outcome)
	approvalHours := make([]float64, 0)
	for i := range proposals {
		p := &proposals[i]
		key := aggregation.ProposalKey(p, domain.DimensionTemplate)
		o, ok := outcomes[key]
		if !ok {
			o = &outcome{}
			outcomes[key] = o
		}
		if p.Status.IsTerminal() {
			o.decided++
		}
		if p.Status == domain.ProposalStatusAccepted {
			o.accepted++
		}
		if p.ApprovedAt != nil {
			approvalHours = append(approvalHours, p.ApprovedAt.Sub(p.CreatedAt).Hours())
		}
	}
	result.AverageApprovalHours = metrics.Average(approvalHours)

	for _, agg := range byTemplate {
		bucket := domain.ProposalTemplateBucket{TemplateKey: agg.Key, Count: agg.Count}
		if o, ok := outcomes[agg.Key]; ok {
			bucket.Accepted = o.accepted
			bucket.AcceptanceRate = metrics.Ratio(float64(o.accepted), float64(o.decided))
		}
		result.ByTemplate = append(result.ByTemplate, bucket)
	}

	return result, nil
}

func summarizeStages(records []domain.AggregateRecord) domain.PipelineSummary {
	var summary domain.PipelineSummary
	for _, r := range records {
		summary.TotalOpportunities += r.Count
		switch domain.OpportunityStage(r.Key) {
		case domain.StageClosedWon:
			summary.WonCount += r.Count
			summary.WonValue += r.SumAmount
			summary.TotalValue += r.SumAmount
		case domain.StageClosedLost:
			summary.LostCount += r.Count
			summary.TotalValue += r.SumExpectedAmount
		default:
			summary.OpenOpportunities += r.Count
			summary.OpenValue += r.SumExpectedAmount
			summary.WeightedValue += r.SumWeighted
			summary.TotalValue += r.SumExpectedAmount
		}
	}
	summary.AverageDealSize = metrics.AverageDealSize(summary.WonValue, summary.WonCount)
	summary.ConversionRate = metrics.ConversionRate(summary.TotalOpportunities, summary.WonCount)
	summary.WinRate = metrics.WinRate(summary.WonCount, summary.LostCount)
	return summary
}

func stageDistribution(records []domain.AggregateRecord, totalValue float64) []domain.StageBucket {
	buckets := make([]domain.StageBucket, 0, len(records))
	for _, r := range records {
		if r.Count == 0 {
			continue
		}
		stage := domain.OpportunityStage(r.Key)
		value := r.SumExpectedAmount
		if stage == domain.StageClosedWon {
			value = r.SumAmount
		}
		buckets = append(buckets, domain.StageBucket{
			Stage: stage,
			Count: r.Count,
			Value: value,
			Share: metrics.Ratio(value, totalValue),
		})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return stageRank(buckets[i].Stage) < stageRank(buckets[j].Stage)
	})
	return buckets
}

func stageVelocity(history []domain.StageHistory) []domain.StageVelocity {
	durations := make(map[domain.OpportunityStage][]float64)
	for _, h := range history {
		if h.FromStage == nil {
			continue
		}
		durations[*h.FromStage] = append(durations[*h.FromStage], h.DurationDays)
	}

	velocity := make([]domain.StageVelocity, 0, len(durations))
	for stage, days := range durations {
		velocity = append(velocity, domain.StageVelocity{
			Stage:       stage,
			AverageDays: metrics.Average(days),
			Transitions: int64(len(days)),
		})
	}
	sort.Slice(velocity, func(i, j int) bool {
		ri, rj := stageRank(velocity[i].Stage), stageRank(velocity[j].Stage)
		if ri != rj {
			return ri < rj
		}
		return velocity[i].Stage < velocity[j].Stage
	})
	return velocity
}

func averageSalesCycle(opportunities []domain.Opportunity) float64 {
	cycles := make([]float64, 0)
	for i := range opportunities {
		o := &opportunities[i]
		if o.Stage != domain.StageClosedWon {
			continue
		}
		if days, ok := metrics.SalesCycleDays(o.CreatedAt, o.ActualCloseDate); ok {
			cycles = append(cycles, float64(days))
		}
	}
	return metrics.Average(cycles)
}

// stageRank orders known stages by funnel position and unknown values last
func stageRank(stage domain.OpportunityStage) int {
	if idx := stage.Index(); idx >= 0 {
		return idx
	}
	return len(domain.AllStages)
}

func proposalStatusRank(key string) int {
	for i, status := range domain.ProposalStatuses {
		if string(status) == key {
			return i
		}
	}
	return len(domain.ProposalStatuses)
}

func filterValue(f *domain.OpportunityFilter) domain.OpportunityFilter {
	if f == nil {
		return domain.OpportunityFilter{}
	}
	return *f
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
