package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/domain"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindUsers returns the users with the given ids. Unknown ids are skipped.
func (r *UserRepository) FindUsers(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	var users []domain.User
	query := r.db.WithContext(ctx).Where("id IN ?", ids)
	query = ApplyTenantFilter(ctx, query)
	if err := query.Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	return users, nil
}
