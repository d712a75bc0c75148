package repository

import (
	"context"
	"fmt"

	"github.com/straye-as/crm-analytics/internal/domain"
	"gorm.io/gorm"
)

type StageHistoryRepository struct {
	db *gorm.DB
}

func NewStageHistoryRepository(db *gorm.DB) *StageHistoryRepository {
	return &StageHistoryRepository{db: db}
}

// FindStageHistory returns the stage transitions of the opportunities matching
// the query filter, in chronological order
func (r *StageHistoryRepository) FindStageHistory(ctx context.Context, q domain.StageHistoryQuery) ([]domain.StageHistory, error) {
	if err := q.Filter.Validate(); err != nil {
		return nil, err
	}
	if q.Filter.CompanyID != nil {
		if err := ensureCompany(ctx, r.db, *q.Filter.CompanyID); err != nil {
			return nil, err
		}
	}

	query := r.db.WithContext(ctx).
		Model(&domain.StageHistory{}).
		Select("opportunity_stage_history.*").
		Joins("JOIN opportunities ON opportunities.id = opportunity_stage_history.opportunity_id")
	query = ApplyTenantFilterWithColumn(ctx, query, "opportunity_stage_history.tenant_id")
	query = applyOpportunityFilter(query, &q.Filter)

	if q.Since != nil {
		query = query.Where("opportunity_stage_history.changed_at >= ?", *q.Since)
	}
	if q.ToStage != nil {
		query = query.Where("opportunity_stage_history.to_stage = ?", *q.ToStage)
	}

	var history []domain.StageHistory
	err := query.
		Order("opportunity_stage_history.changed_at ASC, opportunity_stage_history.id ASC").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find stage history: %w", err)
	}
	return history, nil
}
