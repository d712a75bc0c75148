package repository

import (
	"context"
	"fmt"

	"github.com/straye-as/crm-analytics/internal/domain"
	"gorm.io/gorm"
)

// ActivityRepository reads activities and notes attached to companies.
//
// Index recommendations for optimal query performance:
// - CREATE INDEX idx_activities_company_start ON activities(company_id, start_time DESC);
// - CREATE INDEX idx_notes_company_created ON notes(company_id, created_at DESC);
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// FindActivities returns a company's activities, newest first
func (r *ActivityRepository) FindActivities(ctx context.Context, q domain.ActivityQuery) ([]domain.Activity, error) {
	query := r.db.WithContext(ctx).Model(&domain.Activity{}).Where("company_id = ?", q.CompanyID)
	query = ApplyTenantFilter(ctx, query)

	if q.From != nil {
		query = query.Where("start_time >= ?", *q.From)
	}
	if q.To != nil {
		query = query.Where("start_time <= ?", *q.To)
	}
	if len(q.Types) > 0 {
		query = query.Where("type IN ?", q.Types)
	}
	if q.UserID != nil {
		query = query.Where("user_id = ?", *q.UserID)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var activities []domain.Activity
	if err := query.Order("start_time DESC, id ASC").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("failed to find activities: %w", err)
	}
	return activities, nil
}

// FindNotes returns a company's notes, newest first. Types is ignored.
func (r *ActivityRepository) FindNotes(ctx context.Context, q domain.ActivityQuery) ([]domain.Note, error) {
	query := r.db.WithContext(ctx).Model(&domain.Note{}).Where("company_id = ?", q.CompanyID)
	query = ApplyTenantFilter(ctx, query)

	if q.From != nil {
		query = query.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		query = query.Where("created_at <= ?", *q.To)
	}
	if q.UserID != nil {
		query = query.Where("user_id = ?", *q.UserID)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var notes []domain.Note
	if err := query.Order("created_at DESC, id ASC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to find notes: %w", err)
	}
	return notes, nil
}
