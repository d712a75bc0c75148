package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/domain"
)

// OpportunityStore reads and aggregates opportunities
type OpportunityStore interface {
	FindOpportunities(ctx context.Context, f *domain.OpportunityFilter) ([]domain.Opportunity, error)
	AggregateOpportunities(ctx context.Context, f *domain.OpportunityFilter, dim domain.Dimension) ([]domain.AggregateRecord, error)
	CountOpportunities(ctx context.Context, f *domain.OpportunityFilter) (int64, error)
}

// StageHistoryStore reads opportunity stage transitions
type StageHistoryStore interface {
	FindStageHistory(ctx context.Context, q domain.StageHistoryQuery) ([]domain.StageHistory, error)
}

// ProposalStore reads and aggregates proposals
type ProposalStore interface {
	FindProposals(ctx context.Context, f *domain.ProposalFilter) ([]domain.Proposal, error)
	AggregateProposals(ctx context.Context, f *domain.ProposalFilter, dim domain.Dimension) ([]domain.ProposalAggregate, error)
}

// ActivityStore reads the interaction streams of a company
type ActivityStore interface {
	FindActivities(ctx context.Context, q domain.ActivityQuery) ([]domain.Activity, error)
	FindNotes(ctx context.Context, q domain.ActivityQuery) ([]domain.Note, error)
}

// CompanyStore reads a company and the records attached to it
type CompanyStore interface {
	GetCompany(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	FindContacts(ctx context.Context, companyID uuid.UUID) ([]domain.Contact, error)
	FindBranches(ctx context.Context, companyID uuid.UUID) ([]domain.Branch, error)
	FindProjects(ctx context.Context, companyID uuid.UUID) ([]domain.Project, error)
	FindInvoices(ctx context.Context, companyID uuid.UUID) ([]domain.Invoice, error)
	FindSupportTickets(ctx context.Context, companyID uuid.UUID) ([]domain.SupportTicket, error)
}

// UserStore resolves account manager names
type UserStore interface {
	FindUsers(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

// CompanyHealthWriter persists recomputed health figures on companies
type CompanyHealthWriter interface {
	ListCompanyIDs(ctx context.Context) ([]uuid.UUID, error)
	UpdateCompanyHealth(ctx context.Context, id uuid.UUID, score float64, churnRisk domain.RiskLevel) error
}

// PipelineStore is everything the pipeline analytics service reads
type PipelineStore interface {
	OpportunityStore
	StageHistoryStore
	ProposalStore
	UserStore
}

// CustomerStore is everything the customer analytics service reads
type CustomerStore interface {
	CompanyStore
	OpportunityStore
	ActivityStore
}
