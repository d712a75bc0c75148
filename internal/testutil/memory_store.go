package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/aggregation"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/tenant"
)

// MemoryStore serves a Dataset with the same contract as repository.Store:
// tenant scoping from the context, NotFound for a missing scoping company
// and the same result ordering
type MemoryStore struct {
	mu   sync.RWMutex
	data Dataset
}

// NewMemoryStore creates a store over a copy of d
func NewMemoryStore(d *Dataset) *MemoryStore {
	s := &MemoryStore{}
	if d != nil {
		s.data = *d
		s.data.Companies = append([]domain.Company(nil), d.Companies...)
	}
	return s
}

func visible(ctx context.Context, tenantID uuid.UUID) bool {
	id, ok := tenant.FromContext(ctx)
	return !ok || id == tenantID
}

func (s *MemoryStore) teamLookup() aggregation.TeamLookup {
	teams := make(map[uuid.UUID]*uuid.UUID, len(s.data.Users))
	for _, u := range s.data.Users {
		teams[u.ID] = u.TeamID
	}
	return func(id uuid.UUID) *uuid.UUID { return teams[id] }
}

func (s *MemoryStore) ensureCompany(ctx context.Context, id uuid.UUID) error {
	for _, c := range s.data.Companies {
		if c.ID == id && visible(ctx, c.TenantID) {
			return nil
		}
	}
	return &domain.NotFoundError{Entity: "company", ID: id.String()}
}

func (s *MemoryStore) matchingOpportunities(ctx context.Context, f *domain.OpportunityFilter) ([]domain.Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f != nil && f.CompanyID != nil {
		if err := s.ensureCompany(ctx, *f.CompanyID); err != nil {
			return nil, err
		}
	}

	teams := s.teamLookup()
	result := make([]domain.Opportunity, 0)
	for i := range s.data.Opportunities {
		o := &s.data.Opportunities[i]
		if visible(ctx, o.TenantID) && aggregation.MatchOpportunity(f, o, teams) {
			result = append(result, *o)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return earlier(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID)
	})
	return result, nil
}

func (s *MemoryStore) FindOpportunities(ctx context.Context, f *domain.OpportunityFilter) ([]domain.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchingOpportunities(ctx, f)
}

func (s *MemoryStore) CountOpportunities(ctx context.Context, f *domain.OpportunityFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opportunities, err := s.matchingOpportunities(ctx, f)
	if err != nil {
		return 0, err
	}
	return int64(len(opportunities)), nil
}

func (s *MemoryStore) AggregateOpportunities(ctx context.Context, f *domain.OpportunityFilter, dim domain.Dimension) ([]domain.AggregateRecord, error) {
	switch dim {
	case domain.DimensionStage, domain.DimensionStatus, domain.DimensionAccountManager, domain.DimensionMonth:
	default:
		return nil, fmt.Errorf("unsupported opportunity dimension: %s", dim)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	opportunities, err := s.matchingOpportunities(ctx, f)
	if err != nil {
		return nil, err
	}
	return aggregation.GroupOpportunities(opportunities, dim), nil
}

func (s *MemoryStore) FindStageHistory(ctx context.Context, q domain.StageHistoryQuery) ([]domain.StageHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opportunities, err := s.matchingOpportunities(ctx, &q.Filter)
	if err != nil {
		return nil, err
	}
	ids := make(map[uuid.UUID]bool, len(opportunities))
	for _, o := range opportunities {
		ids[o.ID] = true
	}

	result := make([]domain.StageHistory, 0)
	for _, h := range s.data.StageHistory {
		if !ids[h.OpportunityID] || !visible(ctx, h.TenantID) {
			continue
		}
		if q.Since != nil && h.ChangedAt.Before(*q.Since) {
			continue
		}
		if q.ToStage != nil && h.ToStage != *q.ToStage {
			continue
		}
		result = append(result, h)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return earlier(result[i].ChangedAt, result[j].ChangedAt, result[i].ID, result[j].ID)
	})
	return result, nil
}

func (s *MemoryStore) matchingProposals(ctx context.Context, f *domain.ProposalFilter) ([]domain.Proposal, error) {
	var of *domain.OpportunityFilter
	if f != nil {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		of = &f.OpportunityFilter
	}
	opportunities, err := s.matchingOpportunities(ctx, of)
	if err != nil {
		return nil, err
	}
	ids := make(map[uuid.UUID]bool, len(opportunities))
	for _, o := range opportunities {
		ids[o.ID] = true
	}

	result := make([]domain.Proposal, 0)
	for _, p := range s.data.Proposals {
		if !ids[p.OpportunityID] || !visible(ctx, p.TenantID) {
			continue
		}
		if f != nil && f.TemplateID != nil && (p.TemplateID == nil || *p.TemplateID != *f.TemplateID) {
			continue
		}
		if f != nil && f.Status != nil && p.Status != *f.Status {
			continue
		}
		result = append(result, p)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return earlier(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID)
	})
	return result, nil
}

func (s *MemoryStore) FindProposals(ctx context.Context, f *domain.ProposalFilter) ([]domain.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchingProposals(ctx, f)
}

func (s *MemoryStore) AggregateProposals(ctx context.Context, f *domain.ProposalFilter, dim domain.Dimension) ([]domain.ProposalAggregate, error) {
	if dim != domain.DimensionStatus && dim != domain.DimensionTemplate {
		return nil, fmt.Errorf("unsupported proposal dimension: %s", dim)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposals, err := s.matchingProposals(ctx, f)
	if err != nil {
		return nil, err
	}
	return aggregation.GroupProposals(proposals, dim), nil
}

func (s *MemoryStore) FindActivities(ctx context.Context, q domain.ActivityQuery) ([]domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make(map[domain.ActivityType]bool, len(q.Types))
	for _, t := range q.Types {
		types[t] = true
	}
	result := make([]domain.Activity, 0)
	for _, a := range s.data.Activities {
		if a.CompanyID != q.CompanyID || !visible(ctx, a.TenantID) {
			continue
		}
		if !inRange(a.StartTime, q.From, q.To) {
			continue
		}
		if len(types) > 0 && !types[a.Type] {
			continue
		}
		if q.UserID != nil && a.UserID != *q.UserID {
			continue
		}
		result = append(result, a)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return later(result[i].StartTime, result[j].StartTime, result[i].ID, result[j].ID)
	})
	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result, nil
}

func (s *MemoryStore) FindNotes(ctx context.Context, q domain.ActivityQuery) ([]domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Note, 0)
	for _, n := range s.data.Notes {
		if n.CompanyID != q.CompanyID || !visible(ctx, n.TenantID) {
			continue
		}
		if !inRange(n.CreatedAt, q.From, q.To) {
			continue
		}
		if q.UserID != nil && n.UserID != *q.UserID {
			continue
		}
		result = append(result, n)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return later(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID)
	})
	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result, nil
}

func (s *MemoryStore) GetCompany(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.data.Companies {
		if c.ID == id && visible(ctx, c.TenantID) {
			company := c
			return &company, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "company", ID: id.String()}
}

func (s *MemoryStore) ListCompanyIDs(ctx context.Context) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(s.data.Companies))
	for _, c := range s.data.Companies {
		if visible(ctx, c.TenantID) {
			ids = append(ids, c.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (s *MemoryStore) UpdateCompanyHealth(ctx context.Context, id uuid.UUID, score float64, churnRisk domain.RiskLevel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Companies {
		c := &s.data.Companies[i]
		if c.ID == id && visible(ctx, c.TenantID) {
			risk := string(churnRisk)
			c.HealthScore = &score
			c.ChurnRisk = &risk
			return nil
		}
	}
	return &domain.NotFoundError{Entity: "company", ID: id.String()}
}

func (s *MemoryStore) FindContacts(ctx context.Context, companyID uuid.UUID) ([]domain.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Contact, 0)
	for _, c := range s.data.Contacts {
		if c.CompanyID == companyID && visible(ctx, c.TenantID) {
			result = append(result, c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

func (s *MemoryStore) FindBranches(ctx context.Context, companyID uuid.UUID) ([]domain.Branch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Branch, 0)
	for _, b := range s.data.Branches {
		if b.CompanyID == companyID && visible(ctx, b.TenantID) {
			result = append(result, b)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

func (s *MemoryStore) FindProjects(ctx context.Context, companyID uuid.UUID) ([]domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Project, 0)
	for _, p := range s.data.Projects {
		if p.CompanyID == companyID && visible(ctx, p.TenantID) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *MemoryStore) FindInvoices(ctx context.Context, companyID uuid.UUID) ([]domain.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Invoice, 0)
	for _, inv := range s.data.Invoices {
		if inv.CompanyID == companyID && visible(ctx, inv.TenantID) {
			result = append(result, inv)
		}
	}
	return result, nil
}

func (s *MemoryStore) FindSupportTickets(ctx context.Context, companyID uuid.UUID) ([]domain.SupportTicket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.SupportTicket, 0)
	for _, t := range s.data.Tickets {
		if t.CompanyID == companyID && visible(ctx, t.TenantID) {
			result = append(result, t)
		}
	}
	return result, nil
}

func (s *MemoryStore) FindUsers(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	result := make([]domain.User, 0)
	for _, u := range s.data.Users {
		if wanted[u.ID] && visible(ctx, u.TenantID) {
			result = append(result, u)
		}
	}
	return result, nil
}

// CompanyHealth returns the stored health score and churn risk of a company
func (s *MemoryStore) CompanyHealth(id uuid.UUID) (*float64, *string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.data.Companies {
		if c.ID == id {
			return c.HealthScore, c.ChurnRisk
		}
	}
	return nil, nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func earlier(a, b time.Time, idA, idB uuid.UUID) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return idA.String() < idB.String()
}

func later(a, b time.Time, idA, idB uuid.UUID) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA.String() < idB.String()
}
