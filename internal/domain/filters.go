package domain

import (
	"time"

	"github.com/google/uuid"
)

// Dimension is a grouping key for aggregate queries
type Dimension string

const (
	DimensionStage          Dimension = "stage"
	DimensionStatus         Dimension = "status"
	DimensionAccountManager Dimension = "account_manager"
	DimensionMonth          Dimension = "month"
	DimensionTemplate       Dimension = "template"
)

// MonthKeyLayout formats calendar month bucket keys
const MonthKeyLayout = "2006-01"

// MonthKey returns the YYYY-MM bucket key for t in UTC
func MonthKey(t time.Time) string {
	return t.UTC().Format(MonthKeyLayout)
}

// OpportunityFilter narrows the opportunities an aggregate is computed over.
// Nil fields apply no restriction.
type OpportunityFilter struct {
	TeamID           *uuid.UUID
	AccountManagerID *uuid.UUID
	CompanyID        *uuid.UUID
	CreatedFrom      *time.Time
	CreatedTo        *time.Time
	MinAmount        *float64
	MaxAmount        *float64
}

// Validate checks the ordering of the date and amount ranges
func (f *OpportunityFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return &InvalidRangeError{Field: "createdAt", Reason: "from must not be after to"}
	}
	if f.MinAmount != nil && f.MaxAmount != nil && *f.MinAmount > *f.MaxAmount {
		return &InvalidRangeError{Field: "amount", Reason: "min must not be greater than max"}
	}
	return nil
}

// ProposalFilter narrows proposals by the owning opportunity and proposal attributes
type ProposalFilter struct {
	OpportunityFilter
	TemplateID *uuid.UUID
	Status     *ProposalStatus
}

// Validate checks the embedded opportunity ranges
func (f *ProposalFilter) Validate() error {
	if f == nil {
		return nil
	}
	return f.OpportunityFilter.Validate()
}

// ActivityQuery selects activities or notes for a single company
type ActivityQuery struct {
	CompanyID uuid.UUID
	From      *time.Time
	To        *time.Time
	Types     []ActivityType
	UserID    *uuid.UUID
	// Limit caps the number of rows returned, zero means unlimited
	Limit int
}

// InteractionFilter narrows an interaction history
type InteractionFilter struct {
	From   *time.Time
	To     *time.Time
	Type   *ActivityType
	UserID *uuid.UUID
	Limit  int
}

// Validate checks the ordering of the date range
func (f *InteractionFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return &InvalidRangeError{Field: "date", Reason: "from must not be after to"}
	}
	if f.Limit < 0 {
		return &InvalidRangeError{Field: "limit", Reason: "must not be negative"}
	}
	return nil
}

// StageHistoryQuery selects stage transitions for the opportunities matching Filter
type StageHistoryQuery struct {
	Filter OpportunityFilter
	// Since restricts to transitions at or after this instant when set
	Since *time.Time
	// ToStage restricts to transitions into this stage when set
	ToStage *OpportunityStage
}

// AggregateRecord is a partial aggregate for one dimension value
type AggregateRecord struct {
	Key               string  `gorm:"column:group_key"`
	Count             int64   `gorm:"column:count"`
	SumAmount         float64 `gorm:"column:sum_amount"`
	SumExpectedAmount float64 `gorm:"column:sum_expected_amount"`
	SumWeighted       float64 `gorm:"column:sum_weighted"`
	AvgProbability    float64 `gorm:"column:avg_probability"`
}

// ProposalAggregate is a partial aggregate over proposals for one dimension value
type ProposalAggregate struct {
	Key                string  `gorm:"column:group_key"`
	Count              int64   `gorm:"column:count"`
	SumTotalAmount     float64 `gorm:"column:sum_total_amount"`
	AvgDiscountPercent float64 `gorm:"column:avg_discount_percent"`
}
