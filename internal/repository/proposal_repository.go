package repository

import (
	"context"
	"fmt"

	"github.com/straye-as/crm-analytics/internal/aggregation"
	"github.com/straye-as/crm-analytics/internal/domain"
	"gorm.io/gorm"
)

type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) scoped(ctx context.Context, f *domain.ProposalFilter) (*gorm.DB, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&domain.Proposal{}).
		Joins("JOIN opportunities ON opportunities.id = proposals.opportunity_id")
	query = ApplyTenantFilterWithColumn(ctx, query, "proposals.tenant_id")

	if f == nil {
		return query, nil
	}
	if f.CompanyID != nil {
		if err := ensureCompany(ctx, r.db, *f.CompanyID); err != nil {
			return nil, err
		}
	}
	query = applyOpportunityFilter(query, &f.OpportunityFilter)
	if f.TemplateID != nil {
		query = query.Where("proposals.template_id = ?", *f.TemplateID)
	}
	if f.Status != nil {
		query = query.Where("proposals.status = ?", *f.Status)
	}
	return query, nil
}

// FindProposals returns the proposals matching the filter, oldest first
func (r *ProposalRepository) FindProposals(ctx context.Context, f *domain.ProposalFilter) ([]domain.Proposal, error) {
	query, err := r.scoped(ctx, f)
	if err != nil {
		return nil, err
	}

	var proposals []domain.Proposal
	err = query.
		Select("proposals.*").
		Order("proposals.created_at ASC, proposals.id ASC").
		Find(&proposals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find proposals: %w", err)
	}
	return proposals, nil
}

// AggregateProposals groups the proposals matching the filter by status or template
func (r *ProposalRepository) AggregateProposals(ctx context.Context, f *domain.ProposalFilter, dim domain.Dimension) ([]domain.ProposalAggregate, error) {
	var keyExpr string
	switch dim {
	case domain.DimensionStatus:
		keyExpr = "proposals.status"
	case domain.DimensionTemplate:
		keyExpr = fmt.Sprintf("COALESCE(CAST(proposals.template_id AS TEXT), '%s')", aggregation.NoTemplateKey)
	default:
		return nil, fmt.Errorf("unsupported proposal dimension: %s", dim)
	}

	query, err := r.scoped(ctx, f)
	if err != nil {
		return nil, err
	}

	results := []domain.ProposalAggregate{}
	err = query.
		Select(keyExpr + " AS group_key, COUNT(*) AS count, " +
			"COALESCE(SUM(proposals.total_amount), 0) AS sum_total_amount, " +
			"COALESCE(AVG(proposals.discount_percent), 0) AS avg_discount_percent").
		Group(keyExpr).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate proposals by %s: %w", dim, err)
	}

	aggregation.SortProposalAggregates(results)
	return results, nil
}
