package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/aggregation"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/repository"
	"github.com/straye-as/crm-analytics/internal/tenant"
	"github.com/straye-as/crm-analytics/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// repoFixture seeds two tenants into a fresh SQLite database
type repoFixture struct {
	db       *gorm.DB
	data     *testutil.Dataset
	companyA uuid.UUID
	companyB uuid.UUID
	teamID   uuid.UUID
	alice    uuid.UUID
	bob      uuid.UUID
	won      uuid.UUID
	open     uuid.UUID
	lost     uuid.UUID
	otherOpp uuid.UUID
}

func setupRepoFixture(t *testing.T) *repoFixture {
	d := &testutil.Dataset{}
	f := &repoFixture{data: d, teamID: uuid.New()}
	a, b := testutil.TenantA, testutil.TenantB

	f.companyA = d.AddCompany(a, "Acme AS", "Construction", testutil.Date(2020, 1, 1))
	f.companyB = d.AddCompany(b, "Other AS", "Retail", testutil.Date(2021, 1, 1))
	f.alice = d.AddUser(a, &f.teamID, "Alice")
	f.bob = d.AddUser(a, nil, "Bob")
	carol := d.AddUser(b, nil, "Carol")

	f.won = d.AddOpportunity(a, f.companyA, f.alice, domain.StageClosedWon, 50000, 100, testutil.Date(2026, 1, 5))
	f.open = d.AddOpportunity(a, f.companyA, f.bob, domain.StageProposal, 30000, 40, testutil.Date(2026, 2, 10))
	d.AddOpportunity(a, f.companyA, f.alice, domain.StageQualifying, 10000, 10, testutil.Date(2026, 2, 20))
	f.lost = d.AddOpportunity(a, f.companyA, f.bob, domain.StageClosedLost, 20000, 0, testutil.Date(2026, 3, 1))
	f.otherOpp = d.AddOpportunity(b, f.companyB, carol, domain.StageNegotiation, 99000, 90, testutil.Date(2026, 1, 15))
	d.Opportunity(f.won).ExpectedAmount = 45000

	f.db = testutil.SetupSQLiteDB(t)
	testutil.Seed(t, f.db, d)
	return f
}

func tenantA() context.Context {
	return tenant.WithTenantID(context.Background(), testutil.TenantA)
}

func opportunityIDs(opps []domain.Opportunity) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(opps))
	for _, o := range opps {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestOpportunityRepository_FindOpportunities(t *testing.T) {
	f := setupRepoFixture(t)
	repo := repository.NewOpportunityRepository(f.db)

	t.Run("tenant scope", func(t *testing.T) {
		opps, err := repo.FindOpportunities(tenantA(), nil)
		require.NoError(t, err)
		assert.Len(t, opps, 4)
		assert.NotContains(t, opportunityIDs(opps), f.otherOpp)
		assert.Equal(t, f.won, opps[0].ID, "oldest first")
	})

	t.Run("unscoped context sees every tenant", func(t *testing.T) {
		opps, err := repo.FindOpportunities(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, opps, 5)
	})

	t.Run("account manager", func(t *testing.T) {
		opps, err := repo.FindOpportunities(tenantA(), &domain.OpportunityFilter{AccountManagerID: &f.bob})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{f.open, f.lost}, opportunityIDs(opps))
	})

	t.Run("team", func(t *testing.T) {
		opps, err := repo.FindOpportunities(tenantA(), &domain.OpportunityFilter{TeamID: &f.teamID})
		require.NoError(t, err)
		assert.Len(t, opps, 2)
		for _, o := range opps {
			assert.Equal(t, f.alice, o.AccountManagerID)
		}
	})

	t.Run("amount uses booked amount for won deals", func(t *testing.T) {
		min := 46000.0
		opps, err := repo.FindOpportunities(tenantA(), &domain.OpportunityFilter{MinAmount: &min})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{f.won}, opportunityIDs(opps))

		max := 20000.0
		opps, err = repo.FindOpportunities(tenantA(), &domain.OpportunityFilter{MaxAmount: &max})
		require.NoError(t, err)
		assert.Len(t, opps, 2)
	})

	t.Run("created range is inclusive", func(t *testing.T) {
		from := testutil.Date(2026, 2, 10)
		to := testutil.Date(2026, 3, 1)
		opps, err := repo.FindOpportunities(tenantA(), &domain.OpportunityFilter{CreatedFrom: &from, CreatedTo: &to})
		require.NoError(t, err)
		assert.Len(t, opps, 3)
	})

	t.Run("reversed range", func(t *testing.T) {
		from := testutil.Date(2026, 3, 1)
		to := testutil.Date(2026, 1, 1)
		_, err := repo.FindOpportunities(tenantA(), &domain.OpportunityFilter{CreatedFrom: &from, CreatedTo: &to})
		assert.True(t, errors.Is(err, domain.ErrInvalidRange))
	})

	t.Run("company of another tenant is not found", func(t *testing.T) {
		_, err := repo.FindOpportunities(tenantA(), &domain.OpportunityFilter{CompanyID: &f.companyB})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestOpportunityRepository_CountOpportunities(t *testing.T) {
	f := setupRepoFixture(t)
	repo := repository.NewOpportunityRepository(f.db)

	count, err := repo.CountOpportunities(tenantA(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	count, err = repo.CountOpportunities(tenantA(), &domain.OpportunityFilter{CompanyID: &f.companyA, AccountManagerID: &f.alice})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	missing := uuid.New()
	_, err = repo.CountOpportunities(tenantA(), &domain.OpportunityFilter{CompanyID: &missing})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestOpportunityRepository_AggregateOpportunities(t *testing.T) {
	f := setupRepoFixture(t)
	repo := repository.NewOpportunityRepository(f.db)

	var visible []domain.Opportunity
	for _, o := range f.data.Opportunities {
		if o.TenantID == testutil.TenantA {
			visible = append(visible, o)
		}
	}

	dims := []domain.Dimension{
		domain.DimensionStage,
		domain.DimensionStatus,
		domain.DimensionAccountManager,
		domain.DimensionMonth,
	}
	for _, dim := range dims {
		t.Run(string(dim), func(t *testing.T) {
			got, err := repo.AggregateOpportunities(tenantA(), nil, dim)
			require.NoError(t, err)

			want := aggregation.GroupOpportunities(visible, dim)
			require.Len(t, got, len(want))
			for i := range want {
				assert.Equal(t, want[i].Key, got[i].Key)
				assert.Equal(t, want[i].Count, got[i].Count)
				assert.InDelta(t, want[i].SumAmount, got[i].SumAmount, 1e-6)
				assert.InDelta(t, want[i].SumExpectedAmount, got[i].SumExpectedAmount, 1e-6)
				assert.InDelta(t, want[i].SumWeighted, got[i].SumWeighted, 1e-6)
				assert.InDelta(t, want[i].AvgProbability, got[i].AvgProbability, 1e-6)
			}
		})
	}

	t.Run("weighted value covers open deals only", func(t *testing.T) {
		got, err := repo.AggregateOpportunities(tenantA(), nil, domain.DimensionStatus)
		require.NoError(t, err)
		weighted := make(map[string]float64)
		for _, r := range got {
			weighted[r.Key] = r.SumWeighted
		}
		assert.InDelta(t, 13000, weighted[aggregation.StatusOpen], 1e-6)
		assert.Equal(t, 0.0, weighted[aggregation.StatusWon])
		assert.Equal(t, 0.0, weighted[aggregation.StatusLost])
	})

	t.Run("empty result", func(t *testing.T) {
		min := 1e9
		got, err := repo.AggregateOpportunities(tenantA(), &domain.OpportunityFilter{MinAmount: &min}, domain.DimensionStage)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("unsupported dimension", func(t *testing.T) {
		_, err := repo.AggregateOpportunities(tenantA(), nil, domain.DimensionTemplate)
		assert.Error(t, err)
	})
}

func TestStageHistoryRepository_FindStageHistory(t *testing.T) {
	f := setupRepoFixture(t)
	a := testutil.TenantA
	proposal := testutil.StagePtr(domain.StageProposal)
	f.data.StageHistory = nil
	f.data.AddTransition(a, f.open, testutil.StagePtr(domain.StageQualifying), domain.StageProposal, 12, testutil.Date(2026, 2, 22))
	f.data.AddTransition(a, f.lost, proposal, domain.StageClosedLost, 4, testutil.Date(2026, 3, 5))
	f.data.AddTransition(a, f.won, proposal, domain.StageClosedWon, 9, testutil.Date(2026, 1, 20))
	f.data.AddTransition(testutil.TenantB, f.otherOpp, proposal, domain.StageNegotiation, 3, testutil.Date(2026, 2, 1))
	require.NoError(t, f.db.Create(&f.data.StageHistory).Error)

	repo := repository.NewStageHistoryRepository(f.db)

	all, err := repo.FindStageHistory(tenantA(), domain.StageHistoryQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, f.won, all[0].OpportunityID, "ordered by change time")
	assert.Equal(t, f.lost, all[2].OpportunityID)

	since := testutil.Date(2026, 2, 1)
	recent, err := repo.FindStageHistory(tenantA(), domain.StageHistoryQuery{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	lost := domain.StageClosedLost
	losses, err := repo.FindStageHistory(tenantA(), domain.StageHistoryQuery{ToStage: &lost})
	require.NoError(t, err)
	require.Len(t, losses, 1)
	require.NotNil(t, losses[0].FromStage)
	assert.Equal(t, domain.StageProposal, *losses[0].FromStage)

	byManager, err := repo.FindStageHistory(tenantA(), domain.StageHistoryQuery{
		Filter: domain.OpportunityFilter{AccountManagerID: &f.alice},
	})
	require.NoError(t, err)
	assert.Len(t, byManager, 1)
}
