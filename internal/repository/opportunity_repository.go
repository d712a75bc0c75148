package repository

import (
	"context"
	"fmt"

	"github.com/straye-as/crm-analytics/internal/aggregation"
	"github.com/straye-as/crm-analytics/internal/domain"
	"gorm.io/gorm"
)

// opportunityValueExpr is the canonical deal value in SQL: the booked amount
// once won, the expected amount otherwise
const opportunityValueExpr = "CASE WHEN opportunities.stage = 'CLOSED_WON' THEN opportunities.amount ELSE opportunities.expected_amount END"

const opportunityAggregateColumns = "COUNT(*) AS count, " +
	"COALESCE(SUM(opportunities.amount), 0) AS sum_amount, " +
	"COALESCE(SUM(opportunities.expected_amount), 0) AS sum_expected_amount, " +
	"COALESCE(SUM(CASE WHEN opportunities.stage NOT IN ('CLOSED_WON', 'CLOSED_LOST') " +
	"THEN opportunities.expected_amount * opportunities.probability / 100.0 ELSE 0 END), 0) AS sum_weighted, " +
	"COALESCE(AVG(opportunities.probability), 0) AS avg_probability"

type OpportunityRepository struct {
	db *gorm.DB
}

func NewOpportunityRepository(db *gorm.DB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

// applyOpportunityFilter narrows a query that selects from or joins opportunities
func applyOpportunityFilter(query *gorm.DB, f *domain.OpportunityFilter) *gorm.DB {
	if f == nil {
		return query
	}
	if f.CompanyID != nil {
		query = query.Where("opportunities.company_id = ?", *f.CompanyID)
	}
	if f.AccountManagerID != nil {
		query = query.Where("opportunities.account_manager_id = ?", *f.AccountManagerID)
	}
	if f.TeamID != nil {
		query = query.Where("opportunities.account_manager_id IN (SELECT id FROM users WHERE team_id = ?)", *f.TeamID)
	}
	if f.CreatedFrom != nil {
		query = query.Where("opportunities.created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		query = query.Where("opportunities.created_at <= ?", *f.CreatedTo)
	}
	if f.MinAmount != nil {
		query = query.Where(opportunityValueExpr+" >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		query = query.Where(opportunityValueExpr+" <= ?", *f.MaxAmount)
	}
	return query
}

func (r *OpportunityRepository) scoped(ctx context.Context, f *domain.OpportunityFilter) (*gorm.DB, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f != nil && f.CompanyID != nil {
		if err := ensureCompany(ctx, r.db, *f.CompanyID); err != nil {
			return nil, err
		}
	}
	query := r.db.WithContext(ctx).Model(&domain.Opportunity{})
	query = ApplyTenantFilterWithColumn(ctx, query, "opportunities.tenant_id")
	return applyOpportunityFilter(query, f), nil
}

// FindOpportunities returns the opportunities matching the filter, oldest first
func (r *OpportunityRepository) FindOpportunities(ctx context.Context, f *domain.OpportunityFilter) ([]domain.Opportunity, error) {
	query, err := r.scoped(ctx, f)
	if err != nil {
		return nil, err
	}

	var opportunities []domain.Opportunity
	if err := query.Order("opportunities.created_at ASC, opportunities.id ASC").Find(&opportunities).Error; err != nil {
		return nil, fmt.Errorf("failed to find opportunities: %w", err)
	}
	return opportunities, nil
}

// CountOpportunities counts the opportunities matching the filter
func (r *OpportunityRepository) CountOpportunities(ctx context.Context, f *domain.OpportunityFilter) (int64, error) {
	query, err := r.scoped(ctx, f)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count opportunities: %w", err)
	}
	return count, nil
}

// AggregateOpportunities groups the opportunities matching the filter by
// dimension. Month grouping is done in Go to stay independent of the SQL
// dialect's date functions.
func (r *OpportunityRepository) AggregateOpportunities(ctx context.Context, f *domain.OpportunityFilter, dim domain.Dimension) ([]domain.AggregateRecord, error) {
	if dim == domain.DimensionMonth {
		opportunities, err := r.FindOpportunities(ctx, f)
		if err != nil {
			return nil, err
		}
		return aggregation.GroupOpportunities(opportunities, dim), nil
	}

	keyExpr, err := opportunityKeyExpr(dim)
	if err != nil {
		return nil, err
	}

	query, err := r.scoped(ctx, f)
	if err != nil {
		return nil, err
	}

	results := []domain.AggregateRecord{}
	err = query.
		Select(keyExpr + " AS group_key, " + opportunityAggregateColumns).
		Group(keyExpr).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate opportunities by %s: %w", dim, err)
	}

	aggregation.SortRecords(results)
	return results, nil
}

func opportunityKeyExpr(dim domain.Dimension) (string, error) {
	switch dim {
	case domain.DimensionStage:
		return "opportunities.stage", nil
	case domain.DimensionStatus:
		return fmt.Sprintf("CASE WHEN opportunities.stage = 'CLOSED_WON' THEN '%s' WHEN opportunities.stage = 'CLOSED_LOST' THEN '%s' ELSE '%s' END",
			aggregation.StatusWon, aggregation.StatusLost, aggregation.StatusOpen), nil
	case domain.DimensionAccountManager:
		return "CAST(opportunities.account_manager_id AS TEXT)", nil
	default:
		return "", fmt.Errorf("unsupported opportunity dimension: %s", dim)
	}
}
