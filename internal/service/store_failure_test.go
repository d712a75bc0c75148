package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/config"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("connection refused")

// failingStore serves reads from a MemoryStore except for the mocked methods
type failingStore struct {
	*testutil.MemoryStore
	mock.Mock
}

func (s *failingStore) AggregateOpportunities(ctx context.Context, f *domain.OpportunityFilter, dim domain.Dimension) ([]domain.AggregateRecord, error) {
	args := s.Called(ctx, f, dim)
	if records, ok := args.Get(0).([]domain.AggregateRecord); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (s *failingStore) FindInvoices(ctx context.Context, companyID uuid.UUID) ([]domain.Invoice, error) {
	args := s.Called(ctx, companyID)
	if invoices, ok := args.Get(0).([]domain.Invoice); ok {
		return invoices, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPipelineAnalyticsService_StoreFailure(t *testing.T) {
	fx := newPipelineFixture()
	store := &failingStore{MemoryStore: testutil.NewMemoryStore(fx.data)}
	store.On("AggregateOpportunities", mock.Anything, mock.Anything, domain.DimensionStage).
		Return(nil, errStoreDown).Once()

	svc := newPipelineService(store, config.DefaultAnalyticsConfig())
	result, err := svc.GetPipelineMetrics(context.Background(), nil)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, errStoreDown))
	store.AssertExpectations(t)
}

func TestCustomerAnalyticsService_StoreFailure(t *testing.T) {
	f := newCustomerFixture()
	store := &failingStore{MemoryStore: testutil.NewMemoryStore(f.data)}
	store.On("FindInvoices", mock.Anything, f.companyID).Return(nil, errStoreDown)

	svc := newCustomerService(store)

	view, err := svc.GetCustomer360View(context.Background(), f.companyID)
	require.Error(t, err)
	assert.Nil(t, view)
	assert.True(t, errors.Is(err, errStoreDown))

	health, err := svc.GetHealthScore(context.Background(), f.companyID)
	require.Error(t, err)
	assert.Nil(t, health)

	// Revenue analytics does not read invoices
	revenue, err := svc.GetRevenueAnalytics(context.Background(), f.companyID)
	require.NoError(t, err)
	assert.InDelta(t, 300000, revenue.TotalRevenue, 1e-6)

	store.AssertNumberOfCalls(t, "FindInvoices", 2)
}

func TestAnalyticsServices_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fx := newPipelineFixture()
	pipeline := newPipelineService(testutil.NewMemoryStore(fx.data), config.DefaultAnalyticsConfig())
	metrics, err := pipeline.GetPipelineMetrics(ctx, nil)
	assert.Nil(t, metrics)
	assert.True(t, errors.Is(err, context.Canceled))

	forecast, err := pipeline.GetSalesForecast(ctx, 3, nil)
	assert.Nil(t, forecast)
	assert.True(t, errors.Is(err, context.Canceled))

	f := newCustomerFixture()
	customer := newCustomerService(testutil.NewMemoryStore(f.data))
	view, err := customer.GetCustomer360View(ctx, f.companyID)
	assert.Nil(t, view)
	assert.True(t, errors.Is(err, context.Canceled))

	history, err := customer.GetInteractionHistory(ctx, f.companyID, nil)
	assert.Nil(t, history)
	assert.True(t, errors.Is(err, context.Canceled))
}
