package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens-backend/internal/domain"
)

// planRepository implements domain.PlanRepository
type planRepository struct {
	db *DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *DB) domain.PlanRepository {
	return &planRepository{db: db}
}

// Create creates a new plan
func (r *planRepository) Create(ctx context.Context, plan *domain.Plan) error {
	query := `
		INSERT INTO plans (id, symbol, start_date, monthly_amount, auto_topup, topup_percentage, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		plan.ID,
		plan.Symbol,
		plan.StartDate,
		plan.MonthlyAmount.String(),
		plan.AutoTopup,
		plan.TopupPercentage,
		plan.IsActive,
		plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}

	return nil
}

// GetByID retrieves a plan by its ID
func (r *planRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	query := `
		SELECT id, symbol, start_date, monthly_amount, auto_topup, topup_percentage, is_active, created_at
		FROM plans
		WHERE id = $1
	`

	plan, err := scanPlan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return plan, nil
}

// List retrieves all plans, optionally filtered to active ones
func (r *planRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Plan, error) {
	query := `
		SELECT id, symbol, start_date, monthly_amount, auto_topup, topup_percentage, is_active, created_at
		FROM plans
	`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := make([]*domain.Plan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

// Deactivate marks a plan as inactive
func (r *planRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE plans SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate plan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivation: %w", err)
	}
	if affected == 0 {
		return domain.ErrPlanNotFound
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(row scanner) (*domain.Plan, error) {
	var plan domain.Plan
	var amountStr string

	if err := row.Scan(
		&plan.ID,
		&plan.Symbol,
		&plan.StartDate,
		&amountStr,
		&plan.AutoTopup,
		&plan.TopupPercentage,
		&plan.IsActive,
		&plan.CreatedAt,
	); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse monthly_amount: %w", err)
	}
	plan.MonthlyAmount = amount

	return &plan, nil
}
