package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContributionEvent represents a single scheduled purchase of the plan's
// instrument. Events are generated per valuation call and never persisted.
type ContributionEvent struct {
	Date   time.Time
	Amount decimal.Decimal
}

// CashFlow is a signed flow in the investor's ledger: negative amounts are
// capital leaving the investor's pocket into the plan, positive amounts are
// value returned to the investor.
type CashFlow struct {
	Date   time.Time
	Amount decimal.Decimal
}

// ChartPoint is one presentation sample of the plan's history: cumulative
// invested capital and the NAV matched for that contribution month. Chart
// points never feed back into the return calculations.
type ChartPoint struct {
	Month    int             `json:"month"`
	Date     time.Time       `json:"date"`
	Invested decimal.Decimal `json:"invested"`
	NAV      decimal.Decimal `json:"nav"`
}

// ValuationResult is the full mark-to-market picture of a plan at a point
// in time. Money fields are rounded to 2 decimal places at this boundary;
// all internal computation runs at full precision.
type ValuationResult struct {
	PlanID            uuid.UUID       `json:"planId"`
	CurrentValue      decimal.Decimal `json:"currentValue"`
	TotalInvested     decimal.Decimal `json:"totalInvested"`
	Returns           decimal.Decimal `json:"returns"`
	ReturnsPercentage float64         `json:"returnsPercentage"`
	XIRR              float64         `json:"xirr"`
	CAGR              float64         `json:"cagr"`
	CurrentNAV        decimal.Decimal `json:"currentNav"`
	TotalUnits        decimal.Decimal `json:"totalUnits"`
	MonthsInvested    int             `json:"monthsInvested"`
	LastNAVDate       time.Time       `json:"lastNavDate"`
	DataSource        PriceSource     `json:"dataSource"`
	XIRRConverged     bool            `json:"xirrConverged"`
	ChartSeries       []ChartPoint    `json:"chartSeries"`
	ComputedAt        time.Time       `json:"computedAt"`
}

// BenchmarkComparison reports how the plan's money-weighted return stacks
// up against a benchmark instrument's holding-period return over the same
// window. Available is false when the benchmark series was too short.
type BenchmarkComparison struct {
	IsUnderperforming bool    `json:"isUnderperforming"`
	PlanReturn        float64 `json:"planReturn"`
	BenchmarkReturn   float64 `json:"benchmarkReturn"`
	Difference        float64 `json:"difference"`
	Message           string  `json:"message"`
	Available         bool    `json:"available"`
}

// Instrument is a single instrument search result.
type Instrument struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Region string `json:"region"`
}
