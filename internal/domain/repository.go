package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PlanRepository defines the interface for plan persistence operations
type PlanRepository interface {
	// Create creates a new plan
	Create(ctx context.Context, plan *Plan) error

	// GetByID retrieves a plan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Plan, error)

	// List retrieves all plans, optionally filtered to active ones
	List(ctx context.Context, activeOnly bool) ([]*Plan, error)

	// Deactivate marks a plan as inactive
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// ValuationRepository defines the interface for the valuation result cache.
// The valuation core never persists anything itself; the surrounding plan
// service caches the results the core returned.
type ValuationRepository interface {
	// Save stores a computed valuation result for a plan
	Save(ctx context.Context, result *ValuationResult) error

	// GetLatest retrieves the most recent cached valuation for a plan
	GetLatest(ctx context.Context, planID uuid.UUID) (*ValuationResult, error)
}

// PriceProvider defines the interface to the external market data
// collaborators. Implementations may fail or return an empty series; the
// caller substitutes the synthetic fallback before invoking the core.
type PriceProvider interface {
	// FetchPriceHistory returns an ordered (date, NAV) series for symbol
	// between start and end
	FetchPriceHistory(ctx context.Context, symbol string, start, end time.Time) (PriceSeries, error)

	// SearchInstruments performs a free-text instrument lookup
	SearchInstruments(ctx context.Context, query string) ([]Instrument, error)
}
