package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/config"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const revenueHistoryMonths = 12

// CustomerAnalyticsService builds per-customer rollups: the 360 view,
// health, risk, revenue, segments, interaction history and timeline
type CustomerAnalyticsService struct {
	store  CustomerStore
	cfg    config.AnalyticsConfig
	logger *zap.Logger
	now    func() time.Time
}

func NewCustomerAnalyticsService(store CustomerStore, cfg config.AnalyticsConfig, logger *zap.Logger) *CustomerAnalyticsService {
	return &CustomerAnalyticsService{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source, for deterministic tests and reports
func (s *CustomerAnalyticsService) WithClock(now func() time.Time) *CustomerAnalyticsService {
	s.now = now
	return s
}

// customerParts selects which record sets load fetches
type customerParts uint8

const (
	partOpportunities customerParts = 1 << iota
	partActivities
	partNotes
	partContacts
	partBranches
	partProjects
	partInvoices
	partTickets

	healthParts = partOpportunities | partActivities | partProjects | partInvoices | partTickets
	allParts    = healthParts | partNotes | partContacts | partBranches
)

// customerSnapshot holds every record set read for one company
type customerSnapshot struct {
	company       *domain.Company
	opportunities []domain.Opportunity
	activities    []domain.Activity
	notes         []domain.Note
	contacts      []domain.Contact
	branches      []domain.Branch
	projects      []domain.Project
	invoices      []domain.Invoice
	tickets       []domain.SupportTicket
}

// load reads the company first so a missing company fails fast with
// NotFound, then fetches the requested parts concurrently. Any failure or
// cancellation discards the whole snapshot.
func (s *CustomerAnalyticsService) load(ctx context.Context, companyID uuid.UUID, parts customerParts) (*customerSnapshot, error) {
	if companyID == uuid.Nil {
		return nil, fmt.Errorf("%w: company id is required", ErrInvalidInput)
	}
	company, err := s.store.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	snap := &customerSnapshot{company: company}
	g, gctx := errgroup.WithContext(ctx)

	if parts&partOpportunities != 0 {
		g.Go(func() error {
			var err error
			snap.opportunities, err = s.store.FindOpportunities(gctx, &domain.OpportunityFilter{CompanyID: &companyID})
			if err != nil {
				return fmt.Errorf("failed to find opportunities: %w", err)
			}
			return nil
		})
	}
	if parts&partActivities != 0 {
		g.Go(func() error {
			var err error
			snap.activities, err = s.store.FindActivities(gctx, domain.ActivityQuery{CompanyID: companyID})
			if err != nil {
				return fmt.Errorf("failed to find activities: %w", err)
			}
			return nil
		})
	}
	if parts&partNotes != 0 {
		g.Go(func() error {
			var err error
			snap.notes, err = s.store.FindNotes(gctx, domain.ActivityQuery{CompanyID: companyID})
			if err != nil {
				return fmt.Errorf("failed to find notes: %w", err)
			}
			return nil
		})
	}
	if parts&partContacts != 0 {
		g.Go(func() error {
			var err error
			snap.contacts, err = s.store.FindContacts(gctx, companyID)
			if err != nil {
				return fmt.Errorf("failed to find contacts: %w", err)
			}
			return nil
		})
	}
	if parts&partBranches != 0 {
		g.Go(func() error {
			var err error
			snap.branches, err = s.store.FindBranches(gctx, companyID)
			if err != nil {
				return fmt.Errorf("failed to find branches: %w", err)
			}
			return nil
		})
	}
	if parts&partProjects != 0 {
		g.Go(func() error {
			var err error
			snap.projects, err = s.store.FindProjects(gctx, companyID)
			if err != nil {
				return fmt.Errorf("failed to find projects: %w", err)
			}
			return nil
		})
	}
	if parts&partInvoices != 0 {
		g.Go(func() error {
			var err error
			snap.invoices, err = s.store.FindInvoices(gctx, companyID)
			if err != nil {
				return fmt.Errorf("failed to find invoices: %w", err)
			}
			return nil
		})
	}
	if parts&partTickets != 0 {
		g.Go(func() error {
			var err error
			snap.tickets, err = s.store.FindSupportTickets(gctx, companyID)
			if err != nil {
				return fmt.Errorf("failed to find support tickets: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn("Customer analytics load failed",
			zap.String("company_id", companyID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return snap, nil
}

func (snap *customerSnapshot) healthInputs() HealthInputs {
	return HealthInputs{
		Activities:    snap.activities,
		Opportunities: snap.opportunities,
		Projects:      snap.projects,
		Invoices:      snap.invoices,
		Tickets:       snap.tickets,
	}
}

// GetCustomer360View assembles the full picture of one customer
func (s *CustomerAnalyticsService) GetCustomer360View(ctx context.Context, companyID uuid.UUID) (*domain.Customer360View, error) {
	snap, err := s.load(ctx, companyID, allParts)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	financials := customerFinancials(snap.opportunities)

	summary := domain.CustomerSummary{
		TotalOpportunities: int64(len(snap.opportunities)),
		Contacts:           int64(len(snap.contacts)),
	}
	for i := range snap.opportunities {
		o := &snap.opportunities[i]
		if o.IsOpen() {
			summary.ActiveOpportunities++
		}
		if o.Stage == domain.StageClosedWon {
			summary.WonOpportunities++
		}
	}
	summary.LastInteractionAt = lastInteraction(snap.activities, snap.notes, now)
	summary.NextScheduledAction = nextScheduledAction(snap.activities, now)

	relationships := domain.CustomerRelationships{
		Branches:       snap.branches,
		Contacts:       snap.contacts,
		DecisionMakers: make([]domain.Contact, 0),
	}
	for _, c := range snap.contacts {
		if c.IsDecisionMaker {
			relationships.DecisionMakers = append(relationships.DecisionMakers, c)
		}
	}

	return &domain.Customer360View{
		Company:       *snap.company,
		Segments:      ClassifySegments(snap.company, financials.TotalRevenue, now, s.cfg),
		Health:        ComputeHealthScore(snap.healthInputs(), now, s.cfg),
		Summary:       summary,
		Financials:    financials,
		Relationships: relationships,
	}, nil
}

// GetHealthScore computes the weighted health score of one customer
func (s *CustomerAnalyticsService) GetHealthScore(ctx context.Context, companyID uuid.UUID) (*domain.HealthScore, error) {
	snap, err := s.load(ctx, companyID, healthParts)
	if err != nil {
		return nil, err
	}
	score := ComputeHealthScore(snap.healthInputs(), s.now().UTC(), s.cfg)
	return &score, nil
}

// GetSegments classifies one customer on every segment axis
func (s *CustomerAnalyticsService) GetSegments(ctx context.Context, companyID uuid.UUID) ([]domain.CustomerSegment, error) {
	snap, err := s.load(ctx, companyID, partOpportunities)
	if err != nil {
		return nil, err
	}
	financials := customerFinancials(snap.opportunities)
	return ClassifySegments(snap.company, financials.TotalRevenue, s.now().UTC(), s.cfg), nil
}

// GetRevenueAnalytics returns revenue, pipeline and win figures of one
// customer together with won revenue for each of the last twelve months
func (s *CustomerAnalyticsService) GetRevenueAnalytics(ctx context.Context, companyID uuid.UUID) (*domain.RevenueAnalytics, error) {
	snap, err := s.load(ctx, companyID, partOpportunities)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	financials := customerFinancials(snap.opportunities)
	result := &domain.RevenueAnalytics{
		TotalRevenue:     financials.TotalRevenue,
		PipelineValue:    financials.PipelineValue,
		WeightedPipeline: financials.WeightedPipeline,
		AverageDealSize:  financials.AverageDealSize,
		MonthlyRevenue:   make([]domain.MonthlyRevenue, 0, revenueHistoryMonths),
	}

	first := startOfMonth(now).AddDate(0, 1-revenueHistoryMonths, 0)
	index := make(map[string]int, revenueHistoryMonths)
	for m := first; !m.After(now); m = m.AddDate(0, 1, 0) {
		key := domain.MonthKey(m)
		index[key] = len(result.MonthlyRevenue)
		result.MonthlyRevenue = append(result.MonthlyRevenue, domain.MonthlyRevenue{Month: key})
	}

	for i := range snap.opportunities {
		o := &snap.opportunities[i]
		switch o.Stage {
		case domain.StageClosedWon:
			result.WonCount++
			if o.ActualCloseDate == nil {
				continue
			}
			if idx, ok := index[domain.MonthKey(*o.ActualCloseDate)]; ok {
				result.MonthlyRevenue[idx].Revenue += o.Amount
				result.MonthlyRevenue[idx].Deals++
			}
		case domain.StageClosedLost:
			result.LostCount++
		default:
			result.OpenCount++
		}
	}

	result.WinRate = metrics.WinRate(result.WonCount, result.LostCount)
	result.ConversionRate = metrics.ConversionRate(int64(len(snap.opportunities)), result.WonCount)
	return result, nil
}

// GetRiskAssessment classifies the churn risk of one customer
func (s *CustomerAnalyticsService) GetRiskAssessment(ctx context.Context, companyID uuid.UUID) (*domain.RiskAssessment, error) {
	snap, err := s.load(ctx, companyID, partOpportunities|partActivities)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	assessment := AssessRisk(lastActivity(snap.activities, now), snap.opportunities, now, s.cfg)
	return &assessment, nil
}

// GetInteractionHistory merges a customer's activities and notes newest first
func (s *CustomerAnalyticsService) GetInteractionHistory(ctx context.Context, companyID uuid.UUID, f *domain.InteractionFilter) (*domain.InteractionHistory, error) {
	if f == nil {
		f = &domain.InteractionFilter{}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetCompany(ctx, companyID); err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	limit := f.Limit
	if limit == 0 {
		limit = s.cfg.HistoryDefaultLimit
	}
	if limit > s.cfg.HistoryMaxLimit {
		limit = s.cfg.HistoryMaxLimit
	}

	q := domain.ActivityQuery{
		CompanyID: companyID,
		From:      f.From,
		To:        f.To,
		UserID:    f.UserID,
		Limit:     limit,
	}
	withNotes := true
	if f.Type != nil {
		q.Types = []domain.ActivityType{*f.Type}
		withNotes = *f.Type == domain.ActivityTypeNote
	}

	var (
		activities []domain.Activity
		notes      []domain.Note
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		activities, err = s.store.FindActivities(gctx, q)
		if err != nil {
			return fmt.Errorf("failed to find activities: %w", err)
		}
		return nil
	})
	if withNotes {
		g.Go(func() error {
			var err error
			notes, err = s.store.FindNotes(gctx, q)
			if err != nil {
				return fmt.Errorf("failed to find notes: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.InteractionHistory{
		CompanyID: companyID,
		Items:     MergeInteractions(activities, notes, limit),
	}, nil
}

// GetEngagementTimeline groups the activities of the trailing days by
// calendar month, newest month first
func (s *CustomerAnalyticsService) GetEngagementTimeline(ctx context.Context, companyID uuid.UUID, days int) (*domain.EngagementTimeline, error) {
	if days < 1 || days > s.cfg.TimelineMaxDays {
		return nil, &domain.InvalidRangeError{
			Field:  "days",
			Reason: fmt.Sprintf("must be between 1 and %d", s.cfg.TimelineMaxDays),
		}
	}
	if _, err := s.store.GetCompany(ctx, companyID); err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	now := s.now().UTC()
	from := now.AddDate(0, 0, -days)
	activities, err := s.store.FindActivities(ctx, domain.ActivityQuery{CompanyID: companyID, From: &from, To: &now})
	if err != nil {
		return nil, fmt.Errorf("failed to find activities: %w", err)
	}

	timeline := &domain.EngagementTimeline{
		CompanyID: companyID,
		Days:      days,
		Months:    make([]domain.TimelineMonth, 0),
	}
	for _, a := range activities {
		key := domain.MonthKey(a.StartTime)
		last := len(timeline.Months) - 1
		if last < 0 || timeline.Months[last].Month != key {
			timeline.Months = append(timeline.Months, domain.TimelineMonth{Month: key})
			last++
		}
		timeline.Months[last].Activities = append(timeline.Months[last].Activities, a)
	}
	return timeline, nil
}

func customerFinancials(opportunities []domain.Opportunity) domain.CustomerFinancials {
	var f domain.CustomerFinancials
	var won int64
	for i := range opportunities {
		o := &opportunities[i]
		switch {
		case o.Stage == domain.StageClosedWon:
			won++
			f.TotalRevenue += o.Amount
		case o.IsOpen():
			f.PipelineValue += o.ExpectedAmount
			f.WeightedPipeline += o.WeightedValue()
		}
	}
	f.AverageDealSize = metrics.AverageDealSize(f.TotalRevenue, won)
	return f
}

// lastActivity returns the start of the most recent activity that has
// already happened. Activities are ordered newest first.
func lastActivity(activities []domain.Activity, now time.Time) *time.Time {
	for i := range activities {
		if !activities[i].StartTime.After(now) {
			t := activities[i].StartTime
			return &t
		}
	}
	return nil
}

func lastInteraction(activities []domain.Activity, notes []domain.Note, now time.Time) *time.Time {
	last := lastActivity(activities, now)
	for i := range notes {
		if notes[i].CreatedAt.After(now) {
			continue
		}
		if last == nil || notes[i].CreatedAt.After(*last) {
			t := notes[i].CreatedAt
			last = &t
		}
		break
	}
	return last
}

// nextScheduledAction returns the earliest activity planned after now
func nextScheduledAction(activities []domain.Activity, now time.Time) *domain.ScheduledAction {
	var next *domain.Activity
	for i := range activities {
		a := &activities[i]
		if a.StartTime.After(now) && (next == nil || a.StartTime.Before(next.StartTime)) {
			next = a
		}
	}
	if next == nil {
		return nil
	}
	return &domain.ScheduledAction{
		ActivityID: next.ID,
		Type:       next.Type,
		Subject:    next.Subject,
		StartTime:  next.StartTime,
	}
}
