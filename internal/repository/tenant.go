package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/tenant"
	"gorm.io/gorm"
)

// ApplyTenantFilter applies the multi-tenant filter to a GORM query.
// If the context is unscoped the query is returned unchanged.
func ApplyTenantFilter(ctx context.Context, query *gorm.DB) *gorm.DB {
	return ApplyTenantFilterWithColumn(ctx, query, "tenant_id")
}

// ApplyTenantFilterWithColumn applies the tenant filter using a specific column name.
// Use this when joining tables and the column needs table qualification.
func ApplyTenantFilterWithColumn(ctx context.Context, query *gorm.DB, columnName string) *gorm.DB {
	if tenantID, ok := tenant.FromContext(ctx); ok {
		return query.Where(columnName+" = ?", tenantID)
	}
	return query
}

// ensureCompany returns a NotFoundError when the company does not exist
// within the tenant scope of ctx
func ensureCompany(ctx context.Context, db *gorm.DB, companyID uuid.UUID) error {
	var count int64
	query := db.WithContext(ctx).Model(&domain.Company{}).Where("id = ?", companyID)
	query = ApplyTenantFilter(ctx, query)
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check company: %w", err)
	}
	if count == 0 {
		return &domain.NotFoundError{Entity: "company", ID: companyID.String()}
	}
	return nil
}

// notFound maps gorm.ErrRecordNotFound to a domain NotFoundError
func notFound(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.NotFoundError{Entity: entity, ID: id.String()}
	}
	return err
}
