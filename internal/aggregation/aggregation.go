// Package aggregation groups and filters raw entity collections into the
// partial aggregates consumed by the analytics engines. It is the
// in-process counterpart of the SQL grouping done by the repositories.
package aggregation

import (
	"sort"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/domain"
)

// Opportunity status keys used by DimensionStatus
const (
	StatusOpen = "OPEN"
	StatusWon  = "WON"
	StatusLost = "LOST"
)

// NoTemplateKey groups proposals that were not created from a template
const NoTemplateKey = "none"

// TeamLookup resolves the team of an account manager, nil if none
type TeamLookup func(accountManagerID uuid.UUID) *uuid.UUID

// OpportunityStatus returns the OPEN/WON/LOST status key of an opportunity
func OpportunityStatus(o *domain.Opportunity) string {
	switch o.Stage {
	case domain.StageClosedWon:
		return StatusWon
	case domain.StageClosedLost:
		return StatusLost
	default:
		return StatusOpen
	}
}

// MatchOpportunity reports whether o satisfies every restriction in f.
// Amount bounds apply to the canonical deal value.
func MatchOpportunity(f *domain.OpportunityFilter, o *domain.Opportunity, teams TeamLookup) bool {
	if f == nil {
		return true
	}
	if f.CompanyID != nil && o.CompanyID != *f.CompanyID {
		return false
	}
	if f.AccountManagerID != nil && o.AccountManagerID != *f.AccountManagerID {
		return false
	}
	if f.TeamID != nil {
		if teams == nil {
			return false
		}
		team := teams(o.AccountManagerID)
		if team == nil || *team != *f.TeamID {
			return false
		}
	}
	if f.CreatedFrom != nil && o.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && o.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	value := o.Value()
	if f.MinAmount != nil && value < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && value > *f.MaxAmount {
		return false
	}
	return true
}

// FilterOpportunities returns the opportunities matching f, preserving order
func FilterOpportunities(opps []domain.Opportunity, f *domain.OpportunityFilter, teams TeamLookup) []domain.Opportunity {
	result := make([]domain.Opportunity, 0, len(opps))
	for i := range opps {
		if MatchOpportunity(f, &opps[i], teams) {
			result = append(result, opps[i])
		}
	}
	return result
}

// OpportunityKey returns the group key of o for the given dimension
func OpportunityKey(o *domain.Opportunity, dim domain.Dimension) string {
	switch dim {
	case domain.DimensionStage:
		return string(o.Stage)
	case domain.DimensionStatus:
		return OpportunityStatus(o)
	case domain.DimensionAccountManager:
		return o.AccountManagerID.String()
	case domain.DimensionMonth:
		return domain.MonthKey(o.CreatedAt)
	default:
		return ""
	}
}

type opportunityAccumulator struct {
	record         domain.AggregateRecord
	probabilitySum float64
}

// GroupOpportunities aggregates opportunities by dimension. The result is
// ordered by key; empty input gives an empty slice.
func GroupOpportunities(opps []domain.Opportunity, dim domain.Dimension) []domain.AggregateRecord {
	groups := make(map[string]*opportunityAccumulator)
	for i := range opps {
		o := &opps[i]
		key := OpportunityKey(o, dim)
		acc, ok := groups[key]
		if !ok {
			acc = &opportunityAccumulator{record: domain.AggregateRecord{Key: key}}
			groups[key] = acc
		}
		acc.record.Count++
		acc.record.SumAmount += o.Amount
		acc.record.SumExpectedAmount += o.ExpectedAmount
		acc.record.SumWeighted += o.WeightedValue()
		acc.probabilitySum += float64(o.Probability)
	}

	result := make([]domain.AggregateRecord, 0, len(groups))
	for _, acc := range groups {
		acc.record.AvgProbability = acc.probabilitySum / float64(acc.record.Count)
		result = append(result, acc.record)
	}
	SortRecords(result)
	return result
}

// SortRecords orders aggregate records by key
func SortRecords(records []domain.AggregateRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key < records[j].Key
	})
}

// ProposalKey returns the group key of p for the given dimension
func ProposalKey(p *domain.Proposal, dim domain.Dimension) string {
	switch dim {
	case domain.DimensionStatus:
		return string(p.Status)
	case domain.DimensionTemplate:
		if p.TemplateID == nil {
			return NoTemplateKey
		}
		return p.TemplateID.String()
	case domain.DimensionMonth:
		return domain.MonthKey(p.CreatedAt)
	default:
		return ""
	}
}

// GroupProposals aggregates proposals by dimension, ordered by key
func GroupProposals(proposals []domain.Proposal, dim domain.Dimension) []domain.ProposalAggregate {
	type accumulator struct {
		record      domain.ProposalAggregate
		discountSum float64
	}
	groups := make(map[string]*accumulator)
	for i := range proposals {
		p := &proposals[i]
		key := ProposalKey(p, dim)
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{record: domain.ProposalAggregate{Key: key}}
			groups[key] = acc
		}
		acc.record.Count++
		acc.record.SumTotalAmount += p.TotalAmount
		acc.discountSum += p.DiscountPercent
	}

	result := make([]domain.ProposalAggregate, 0, len(groups))
	for _, acc := range groups {
		acc.record.AvgDiscountPercent = acc.discountSum / float64(acc.record.Count)
		result = append(result, acc.record)
	}
	SortProposalAggregates(result)
	return result
}

// SortProposalAggregates orders proposal aggregates by key
func SortProposalAggregates(records []domain.ProposalAggregate) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key < records[j].Key
	})
}
