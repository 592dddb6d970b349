package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens-backend/internal/domain"
)

// valuationRepository implements domain.ValuationRepository. Each computed
// valuation is appended as a history row; GetLatest serves the cache.
type valuationRepository struct {
	db *DB
}

// NewValuationRepository creates a new valuation repository
func NewValuationRepository(db *DB) domain.ValuationRepository {
	return &valuationRepository{db: db}
}

// Save stores a computed valuation result for a plan
func (r *valuationRepository) Save(ctx context.Context, result *domain.ValuationResult) error {
	chart, err := json.Marshal(result.ChartSeries)
	if err != nil {
		return fmt.Errorf("failed to marshal chart series: %w", err)
	}

	query := `
		INSERT INTO valuations (
			plan_id, current_value, total_invested, returns, returns_percentage,
			xirr, cagr, current_nav, total_units, months_invested,
			last_nav_date, data_source, xirr_converged, chart_series, computed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = r.db.ExecContext(ctx, query,
		result.PlanID,
		result.CurrentValue.String(),
		result.TotalInvested.String(),
		result.Returns.String(),
		result.ReturnsPercentage,
		result.XIRR,
		result.CAGR,
		result.CurrentNAV.String(),
		result.TotalUnits.String(),
		result.MonthsInvested,
		result.LastNAVDate,
		string(result.DataSource),
		result.XIRRConverged,
		chart,
		result.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert valuation: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent cached valuation for a plan
func (r *valuationRepository) GetLatest(ctx context.Context, planID uuid.UUID) (*domain.ValuationResult, error) {
	query := `
		SELECT plan_id, current_value, total_invested, returns, returns_percentage,
		       xirr, cagr, current_nav, total_units, months_invested,
		       last_nav_date, data_source, xirr_converged, chart_series, computed_at
		FROM valuations
		WHERE plan_id = $1
		ORDER BY computed_at DESC
		LIMIT 1
	`

	var result domain.ValuationResult
	var currentValueStr, totalInvestedStr, returnsStr, currentNAVStr, totalUnitsStr string
	var dataSource string
	var chart []byte

	err := r.db.QueryRowContext(ctx, query, planID).Scan(
		&result.PlanID,
		&currentValueStr,
		&totalInvestedStr,
		&returnsStr,
		&result.ReturnsPercentage,
		&result.XIRR,
		&result.CAGR,
		&currentNAVStr,
		&totalUnitsStr,
		&result.MonthsInvested,
		&result.LastNAVDate,
		&dataSource,
		&result.XIRRConverged,
		&chart,
		&result.ComputedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no valuation found for plan %s: %w", planID, err)
		}
		return nil, fmt.Errorf("failed to get latest valuation: %w", err)
	}

	for _, field := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&result.CurrentValue, currentValueStr},
		{&result.TotalInvested, totalInvestedStr},
		{&result.Returns, returnsStr},
		{&result.CurrentNAV, currentNAVStr},
		{&result.TotalUnits, totalUnitsStr},
	} {
		value, err := decimal.NewFromString(field.src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse valuation amount: %w", err)
		}
		*field.dst = value
	}

	result.DataSource = domain.PriceSource(dataSource)

	if err := json.Unmarshal(chart, &result.ChartSeries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chart series: %w", err)
	}

	return &result, nil
}
