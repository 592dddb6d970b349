package domain

import "errors"

var (
	// ErrInsufficientData means the price series is empty even after
	// fallback substitution; the valuation cannot proceed.
	ErrInsufficientData = errors.New("insufficient price data for valuation")

	// ErrPlanNotFound means no plan exists with the requested ID.
	ErrPlanNotFound = errors.New("plan not found")
)
