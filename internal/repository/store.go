package repository

import "gorm.io/gorm"

// Store bundles the read repositories the analytics services depend on
type Store struct {
	*OpportunityRepository
	*StageHistoryRepository
	*ProposalRepository
	*ActivityRepository
	*CompanyRepository
	*UserRepository
}

// NewStore creates a Store backed by db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		OpportunityRepository:  NewOpportunityRepository(db),
		StageHistoryRepository: NewStageHistoryRepository(db),
		ProposalRepository:     NewProposalRepository(db),
		ActivityRepository:     NewActivityRepository(db),
		CompanyRepository:      NewCompanyRepository(db),
		UserRepository:         NewUserRepository(db),
	}
}
