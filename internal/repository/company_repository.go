package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/domain"
	"gorm.io/gorm"
)

// CompanyRepository reads companies and the records hanging off them
type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// GetCompany returns the company or a NotFoundError
func (r *CompanyRepository) GetCompany(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	var company domain.Company
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyTenantFilter(ctx, query)
	if err := query.First(&company).Error; err != nil {
		return nil, notFound(err, "company", id)
	}
	return &company, nil
}

// ListCompanyIDs returns the ids of every company visible in ctx
func (r *CompanyRepository) ListCompanyIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := r.db.WithContext(ctx).Model(&domain.Company{})
	query = ApplyTenantFilter(ctx, query)
	if err := query.Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return ids, nil
}

// UpdateCompanyHealth stores the latest health score and churn risk on the company
func (r *CompanyRepository) UpdateCompanyHealth(ctx context.Context, id uuid.UUID, score float64, churnRisk domain.RiskLevel) error {
	query := r.db.WithContext(ctx).Model(&domain.Company{}).Where("id = ?", id)
	query = ApplyTenantFilter(ctx, query)
	result := query.Updates(map[string]interface{}{
		"health_score": score,
		"churn_risk":   string(churnRisk),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update company health: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &domain.NotFoundError{Entity: "company", ID: id.String()}
	}
	return nil
}

func (r *CompanyRepository) FindContacts(ctx context.Context, companyID uuid.UUID) ([]domain.Contact, error) {
	var contacts []domain.Contact
	if err := r.byCompany(ctx, companyID).Order("name ASC, id ASC").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to find contacts: %w", err)
	}
	return contacts, nil
}

func (r *CompanyRepository) FindBranches(ctx context.Context, companyID uuid.UUID) ([]domain.Branch, error) {
	var branches []domain.Branch
	if err := r.byCompany(ctx, companyID).Order("name ASC, id ASC").Find(&branches).Error; err != nil {
		return nil, fmt.Errorf("failed to find branches: %w", err)
	}
	return branches, nil
}

func (r *CompanyRepository) FindProjects(ctx context.Context, companyID uuid.UUID) ([]domain.Project, error) {
	var projects []domain.Project
	if err := r.byCompany(ctx, companyID).Order("created_at ASC, id ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to find projects: %w", err)
	}
	return projects, nil
}

func (r *CompanyRepository) FindInvoices(ctx context.Context, companyID uuid.UUID) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	if err := r.byCompany(ctx, companyID).Order("due_date ASC, id ASC").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to find invoices: %w", err)
	}
	return invoices, nil
}

func (r *CompanyRepository) FindSupportTickets(ctx context.Context, companyID uuid.UUID) ([]domain.SupportTicket, error) {
	var tickets []domain.SupportTicket
	if err := r.byCompany(ctx, companyID).Order("created_at ASC, id ASC").Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to find support tickets: %w", err)
	}
	return tickets, nil
}

func (r *CompanyRepository) byCompany(ctx context.Context, companyID uuid.UUID) *gorm.DB {
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	return ApplyTenantFilter(ctx, query)
}
