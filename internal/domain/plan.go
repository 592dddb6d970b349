package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan represents a periodic investment plan entity in the domain layer.
// A plan contributes MonthlyAmount into the instrument identified by Symbol
// on the same day of each month, starting at StartDate.
type Plan struct {
	ID              uuid.UUID
	Symbol          string
	StartDate       time.Time
	MonthlyAmount   decimal.Decimal
	AutoTopup       bool
	TopupPercentage float64 // Annual step-up applied once per completed year, compounding
	IsActive        bool
	CreatedAt       time.Time
}

// Validate ensures the plan adheres to domain rules.
// Returns an error if validation fails.
func (p *Plan) Validate(now time.Time) error {
	if p.Symbol == "" {
		return errors.New("plan symbol cannot be empty")
	}

	if p.MonthlyAmount.LessThanOrEqual(decimal.Zero) {
		return errors.New("monthly amount must be positive")
	}

	if p.StartDate.After(now) {
		return errors.New("start date cannot be in the future")
	}

	if p.AutoTopup && p.TopupPercentage < 0 {
		return errors.New("topup percentage cannot be negative")
	}

	return nil
}
