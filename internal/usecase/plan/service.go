package plan

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens-backend/internal/domain"
	"github.com/fundlens/fundlens-backend/internal/usecase/valuation"
)

// Options tunes the service's caching and fallback behaviour.
type Options struct {
	// CacheTTL is the staleness threshold for cached valuations. A plan is
	// only recomputed when its cached result is older than this.
	CacheTTL time.Duration

	// FallbackBasePrice and FallbackAnnualGrowthPct shape the synthetic
	// series substituted when the market data provider fails.
	FallbackBasePrice       float64
	FallbackAnnualGrowthPct float64

	// Now returns the current time; injectable for tests. Defaults to
	// time.Now.
	Now func() time.Time
}

// Service handles plan lifecycle and orchestrates valuations around the
// pure valuation core: cache debouncing, price history retrieval, and
// fallback substitution all live here, never inside the core.
type Service struct {
	PlanRepo      domain.PlanRepository
	ValuationRepo domain.ValuationRepository
	Prices        domain.PriceProvider

	opts Options
}

// NewService creates a new plan Service instance
func NewService(planRepo domain.PlanRepository, valuationRepo domain.ValuationRepository, prices domain.PriceProvider, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.FallbackBasePrice <= 0 {
		opts.FallbackBasePrice = 100
	}
	return &Service{
		PlanRepo:      planRepo,
		ValuationRepo: valuationRepo,
		Prices:        prices,
		opts:          opts,
	}
}

// CreateInput carries the fields needed to register a new plan.
type CreateInput struct {
	Symbol          string
	StartDate       time.Time
	MonthlyAmount   decimal.Decimal
	AutoTopup       bool
	TopupPercentage float64
}

// Create validates and persists a new plan.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Plan, error) {
	now := s.opts.Now()

	plan := &domain.Plan{
		ID:              uuid.New(),
		Symbol:          input.Symbol,
		StartDate:       input.StartDate,
		MonthlyAmount:   input.MonthlyAmount,
		AutoTopup:       input.AutoTopup,
		TopupPercentage: input.TopupPercentage,
		IsActive:        true,
		CreatedAt:       now,
	}

	if err := plan.Validate(now); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	return plan, nil
}

// Get retrieves a plan by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	return s.PlanRepo.GetByID(ctx, id)
}

// List retrieves all plans, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*domain.Plan, error) {
	return s.PlanRepo.List(ctx, activeOnly)
}

// Deactivate marks a plan as inactive. Its history remains queryable.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.PlanRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.PlanRepo.Deactivate(ctx, id)
}

// Valuate returns the current valuation of a plan.
//
// A cached result younger than the configured TTL is returned as-is: this
// is the debounce the caller side owes the pure core. Otherwise the price
// history is fetched; when that fails or comes back empty, a synthetic
// fallback series is substituted (and the result carries its provenance).
// The freshly computed result is cached best-effort.
func (s *Service) Valuate(ctx context.Context, planID uuid.UUID) (*domain.ValuationResult, error) {
	p, err := s.PlanRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	now := s.opts.Now()

	if cached, err := s.ValuationRepo.GetLatest(ctx, planID); err == nil && cached != nil {
		if now.Sub(cached.ComputedAt) < s.opts.CacheTTL {
			return cached, nil
		}
	}

	series := s.fetchSeries(ctx, p.Symbol, p.StartDate, now)

	result, err := valuation.Compute(p, series, now)
	if err != nil {
		return nil, err
	}

	if err := s.ValuationRepo.Save(ctx, result); err != nil {
		// A cache write failure must not lose a successful valuation.
		log.Warn().Err(err).Str("plan", planID.String()).Msg("failed to cache valuation result")
	}

	return result, nil
}

// CheckPerformance valuates the plan and compares its money-weighted
// return against a benchmark instrument over the same window. A benchmark
// fetch failure degrades to an "unavailable" comparison and never blocks
// the primary valuation.
func (s *Service) CheckPerformance(ctx context.Context, planID uuid.UUID, benchmarkSymbol string) (*domain.BenchmarkComparison, error) {
	p, err := s.PlanRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	result, err := s.Valuate(ctx, planID)
	if err != nil {
		return nil, err
	}

	benchmark, err := s.Prices.FetchPriceHistory(ctx, benchmarkSymbol, p.StartDate, s.opts.Now())
	if err != nil {
		log.Warn().Err(err).Str("benchmark", benchmarkSymbol).Msg("benchmark history unavailable")
		benchmark = domain.PriceSeries{Symbol: benchmarkSymbol}
	}

	comparison := valuation.CompareBenchmark(result.XIRR, benchmark)
	return &comparison, nil
}

// Search performs a free-text instrument lookup through the price
// provider.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Instrument, error) {
	return s.Prices.SearchInstruments(ctx, query)
}

// fetchSeries retrieves real price history and falls back to a synthetic
// series when the provider fails or returns nothing.
func (s *Service) fetchSeries(ctx context.Context, symbol string, start, now time.Time) domain.PriceSeries {
	series, err := s.Prices.FetchPriceHistory(ctx, symbol, start, now)
	if err == nil && !series.IsEmpty() {
		return series
	}

	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("price history fetch failed, substituting synthetic fallback")
	} else {
		log.Warn().Str("symbol", symbol).Msg("price history empty, substituting synthetic fallback")
	}

	rng := rand.New(rand.NewSource(now.UnixNano()))
	return valuation.SynthesizeSeries(symbol, start, now, s.opts.FallbackBasePrice, s.opts.FallbackAnnualGrowthPct, rng)
}
