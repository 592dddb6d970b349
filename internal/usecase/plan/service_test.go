package plan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fundlens/fundlens-backend/internal/domain"
)

// MockPlanRepository is a mock implementation of PlanRepository for testing
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *domain.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plan), args.Error(1)
}

func (m *MockPlanRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Plan, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Plan), args.Error(1)
}

func (m *MockPlanRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockValuationRepository is a mock implementation of ValuationRepository for testing
type MockValuationRepository struct {
	mock.Mock
}

func (m *MockValuationRepository) Save(ctx context.Context, result *domain.ValuationResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockValuationRepository) GetLatest(ctx context.Context, planID uuid.UUID) (*domain.ValuationResult, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValuationResult), args.Error(1)
}

// MockPriceProvider is a mock implementation of PriceProvider for testing
type MockPriceProvider struct {
	mock.Mock
}

func (m *MockPriceProvider) FetchPriceHistory(ctx context.Context, symbol string, start, end time.Time) (domain.PriceSeries, error) {
	args := m.Called(ctx, symbol, start, end)
	return args.Get(0).(domain.PriceSeries), args.Error(1)
}

func (m *MockPriceProvider) SearchInstruments(ctx context.Context, query string) ([]domain.Instrument, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Instrument), args.Error(1)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func marketSeries(start time.Time, months int, nav int64) domain.PriceSeries {
	series := domain.PriceSeries{Symbol: "TESTFUND", Source: domain.SourceMarket}
	for k := 0; k <= months; k++ {
		series.Points = append(series.Points, domain.PricePoint{
			Date: start.AddDate(0, k, 0),
			NAV:  decimal.NewFromInt(nav),
		})
	}
	return series
}

func newTestService(planRepo *MockPlanRepository, valuationRepo *MockValuationRepository, prices *MockPriceProvider, now time.Time) *Service {
	return NewService(planRepo, valuationRepo, prices, Options{
		CacheTTL:                time.Hour,
		FallbackBasePrice:       100,
		FallbackAnnualGrowthPct: 12,
		Now:                     fixedClock(now),
	})
}

func TestCreate_PersistsValidPlan(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.January, 1)
	planRepo := new(MockPlanRepository)
	service := newTestService(planRepo, new(MockValuationRepository), new(MockPriceProvider), now)

	planRepo.On("Create", ctx, mock.AnythingOfType("*domain.Plan")).Return(nil)

	created, err := service.Create(ctx, CreateInput{
		Symbol:        "TESTFUND",
		StartDate:     date(2023, time.January, 1),
		MonthlyAmount: decimal.NewFromInt(5000),
	})

	require.NoError(t, err)
	assert.Equal(t, "TESTFUND", created.Symbol)
	assert.True(t, created.IsActive)
	assert.NotEqual(t, uuid.Nil, created.ID)
	planRepo.AssertExpectations(t)
}

func TestCreate_RejectsFutureStartDate(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.January, 1)
	planRepo := new(MockPlanRepository)
	service := newTestService(planRepo, new(MockValuationRepository), new(MockPriceProvider), now)

	_, err := service.Create(ctx, CreateInput{
		Symbol:        "TESTFUND",
		StartDate:     date(2025, time.January, 1),
		MonthlyAmount: decimal.NewFromInt(5000),
	})

	assert.Error(t, err)
	planRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_RejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.January, 1)
	service := newTestService(new(MockPlanRepository), new(MockValuationRepository), new(MockPriceProvider), now)

	_, err := service.Create(ctx, CreateInput{
		Symbol:        "TESTFUND",
		StartDate:     date(2023, time.January, 1),
		MonthlyAmount: decimal.Zero,
	})

	assert.Error(t, err)
}

func TestValuate_ReturnsFreshCachedResult(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.January, 1)
	planID := uuid.New()

	planRepo := new(MockPlanRepository)
	valuationRepo := new(MockValuationRepository)
	prices := new(MockPriceProvider)
	service := newTestService(planRepo, valuationRepo, prices, now)

	p := &domain.Plan{
		ID:            planID,
		Symbol:        "TESTFUND",
		StartDate:     date(2023, time.January, 1),
		MonthlyAmount: decimal.NewFromInt(5000),
		IsActive:      true,
	}
	cached := &domain.ValuationResult{
		PlanID:     planID,
		ComputedAt: now.Add(-10 * time.Minute), // Younger than the 1h TTL
	}

	planRepo.On("GetByID", ctx, planID).Return(p, nil)
	valuationRepo.On("GetLatest", ctx, planID).Return(cached, nil)

	result, err := service.Valuate(ctx, planID)

	require.NoError(t, err)
	assert.Same(t, cached, result)
	prices.AssertNotCalled(t, "FetchPriceHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	valuationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestValuate_RecomputesStaleCache(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.January, 1)
	start := date(2023, time.January, 1)
	planID := uuid.New()

	planRepo := new(MockPlanRepository)
	valuationRepo := new(MockValuationRepository)
	prices := new(MockPriceProvider)
	service := newTestService(planRepo, valuationRepo, prices, now)

	p := &domain.Plan{
		ID:            planID,
		Symbol:        "TESTFUND",
		StartDate:     start,
		MonthlyAmount: decimal.NewFromInt(5000),
		IsActive:      true,
	}
	stale := &domain.ValuationResult{
		PlanID:     planID,
		ComputedAt: now.Add(-48 * time.Hour),
	}

	planRepo.On("GetByID", ctx, planID).Return(p, nil)
	valuationRepo.On("GetLatest", ctx, planID).Return(stale, nil)
	prices.On("FetchPriceHistory", ctx, "TESTFUND", start, now).Return(marketSeries(start, 12, 100), nil)
	valuationRepo.On("Save", ctx, mock.AnythingOfType("*domain.ValuationResult")).Return(nil)

	result, err := service.Valuate(ctx, planID)

	require.NoError(t, err)
	assert.True(t, result.TotalInvested.Equal(decimal.NewFromInt(60000)))
	assert.Equal(t, domain.SourceMarket, result.DataSource)
	valuationRepo.AssertExpectations(t)
	prices.AssertExpectations(t)
}

func TestValuate_SubstitutesSyntheticFallbackOnProviderFailure(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.January, 1)
	start := date(2023, time.January, 1)
	planID := uuid.New()

	planRepo := new(MockPlanRepository)
	valuationRepo := new(MockValuationRepository)
	prices := new(MockPriceProvider)
	service := newTestService(planRepo, valuationRepo, prices, now)

	p := &domain.Plan{
		ID:            planID,
		Symbol:        "TESTFUND",
		StartDate:     start,
		MonthlyAmount: decimal.NewFromInt(1000),
		IsActive:      true,
	}

	planRepo.On("GetByID", ctx, planID).Return(p, nil)
	valuationRepo.On("GetLatest", ctx, planID).Return(nil, errors.New("no cached valuation"))
	prices.On("FetchPriceHistory", ctx, "TESTFUND", start, now).Return(domain.PriceSeries{}, errors.New("provider down"))
	valuationRepo.On("Save", ctx, mock.AnythingOfType("*domain.ValuationResult")).Return(nil)

	result, err := service.Valuate(ctx, planID)

	require.NoError(t, err)
	// The synthetic provenance must be visible on the result.
	assert.Equal(t, domain.SourceSynthetic, result.DataSource)
	assert.True(t, result.TotalInvested.Equal(decimal.NewFromInt(12000)))
}

func TestValuate_CacheWriteFailureStillReturnsResult(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.January, 1)
	start := date(2023, time.January, 1)
	planID := uuid.New()

	planRepo := new(MockPlanRepository)
	valuationRepo := new(MockValuationRepository)
	prices := new(MockPriceProvider)
	service := newTestService(planRepo, valuationRepo, prices, now)

	p := &domain.Plan{
		ID:            planID,
		Symbol:        "TESTFUND",
		StartDate:     start,
		MonthlyAmount: decimal.NewFromInt(5000),
		IsActive:      true,
	}

	planRepo.On("GetByID", ctx, planID).Return(p, nil)
	valuationRepo.On("GetLatest", ctx, planID).Return(nil, errors.New("no cached valuation"))
	prices.On("FetchPriceHistory", ctx, "TESTFUND", start, now).Return(marketSeries(start, 12, 100), nil)
	valuationRepo.On("Save", ctx, mock.AnythingOfType("*domain.ValuationResult")).Return(errors.New("db down"))

	result, err := service.Valuate(ctx, planID)

	require.NoError(t, err)
	assert.True(t, result.TotalInvested.Equal(decimal.NewFromInt(60000)))
}

func TestCheckPerformance_FlagsUnderperformance(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.January, 1)
	start := date(2023, time.January, 1)
	planID := uuid.New()

	planRepo := new(MockPlanRepository)
	valuationRepo := new(MockValuationRepository)
	prices := new(MockPriceProvider)
	service := newTestService(planRepo, valuationRepo, prices, now)

	p := &domain.Plan{
		ID:            planID,
		Symbol:        "TESTFUND",
		StartDate:     start,
		MonthlyAmount: decimal.NewFromInt(5000),
		IsActive:      true,
	}
	// Cached flat valuation: XIRR 0%.
	cached := &domain.ValuationResult{PlanID: planID, XIRR: 0, ComputedAt: now.Add(-time.Minute)}

	// Benchmark gained 9% over the window.
	benchmark := domain.PriceSeries{Symbol: "BENCH", Source: domain.SourceMarket, Points: []domain.PricePoint{
		{Date: start, NAV: decimal.NewFromInt(100)},
		{Date: now, NAV: decimal.NewFromInt(109)},
	}}

	planRepo.On("GetByID", ctx, planID).Return(p, nil)
	valuationRepo.On("GetLatest", ctx, planID).Return(cached, nil)
	prices.On("FetchPriceHistory", ctx, "BENCH", start, now).Return(benchmark, nil)

	comparison, err := service.CheckPerformance(ctx, planID, "BENCH")

	require.NoError(t, err)
	assert.True(t, comparison.Available)
	assert.True(t, comparison.IsUnderperforming)
	assert.Equal(t, 9.0, comparison.BenchmarkReturn)
}

func TestCheckPerformance_DegradesWhenBenchmarkFetchFails(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.January, 1)
	start := date(2023, time.January, 1)
	planID := uuid.New()

	planRepo := new(MockPlanRepository)
	valuationRepo := new(MockValuationRepository)
	prices := new(MockPriceProvider)
	service := newTestService(planRepo, valuationRepo, prices, now)

	p := &domain.Plan{
		ID:            planID,
		Symbol:        "TESTFUND",
		StartDate:     start,
		MonthlyAmount: decimal.NewFromInt(5000),
		IsActive:      true,
	}
	cached := &domain.ValuationResult{PlanID: planID, XIRR: 5, ComputedAt: now.Add(-time.Minute)}

	planRepo.On("GetByID", ctx, planID).Return(p, nil)
	valuationRepo.On("GetLatest", ctx, planID).Return(cached, nil)
	prices.On("FetchPriceHistory", ctx, "BENCH", start, now).Return(domain.PriceSeries{}, errors.New("provider down"))

	comparison, err := service.CheckPerformance(ctx, planID, "BENCH")

	require.NoError(t, err)
	assert.False(t, comparison.Available)
	assert.False(t, comparison.IsUnderperforming)
	assert.Equal(t, 5.0, comparison.PlanReturn)
}

func TestDeactivate_UnknownPlan(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.January, 1)
	planID := uuid.New()

	planRepo := new(MockPlanRepository)
	service := newTestService(planRepo, new(MockValuationRepository), new(MockPriceProvider), now)

	planRepo.On("GetByID", ctx, planID).Return(nil, domain.ErrPlanNotFound)

	err := service.Deactivate(ctx, planID)

	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
	planRepo.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
}
