package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens-backend/internal/domain"
)

// Compute runs the full valuation pipeline for a plan against an
// already-materialized price series: contribution schedule, nearest-price
// unit accumulation, money-weighted annualized return over the cash-flow
// ledger, and point-to-point CAGR.
//
// The function is pure: it performs no I/O, holds no state, and returns
// bit-identical results for identical inputs. Concurrent calls need no
// locking.
//
// An empty series is the one hard failure (domain.ErrInsufficientData).
// A plan whose start date is in the future, or that has not yet reached
// its first contribution month, yields a well-formed zero-valued result:
// that is a normal transient state, not an error.
func Compute(plan *domain.Plan, series domain.PriceSeries, now time.Time) (*domain.ValuationResult, error) {
	if series.IsEmpty() {
		return nil, domain.ErrInsufficientData
	}

	events := GenerateContributions(plan.StartDate, now, plan.MonthlyAmount, plan.AutoTopup, plan.TopupPercentage)
	if len(events) == 0 {
		return notStartedResult(plan, series, now), nil
	}

	acc, err := Accumulate(events, series)
	if err != nil {
		return nil, err
	}

	latest := series.Last()
	currentValue := acc.Units.Mul(latest.NAV)

	// Ledger: every contribution as an outflow, plus exactly one terminal
	// inflow equal to the current value at the valuation date.
	flows := append(acc.Flows, domain.CashFlow{Date: now, Amount: currentValue})
	xirr, converged := XIRR(flows)

	years := now.Sub(plan.StartDate).Hours() / 24 / 365
	cagr := CAGR(acc.Invested.InexactFloat64(), currentValue.InexactFloat64(), years)

	returns := currentValue.Sub(acc.Invested)
	returnsPct := 0.0
	if acc.Invested.IsPositive() {
		returnsPct = returns.Div(acc.Invested).InexactFloat64() * 100
	}

	return &domain.ValuationResult{
		PlanID:            plan.ID,
		CurrentValue:      currentValue.Round(2),
		TotalInvested:     acc.Invested.Round(2),
		Returns:           returns.Round(2),
		ReturnsPercentage: round2(returnsPct),
		XIRR:              round2(xirr),
		CAGR:              round2(cagr),
		CurrentNAV:        latest.NAV.Round(2),
		TotalUnits:        acc.Units.Round(2),
		MonthsInvested:    len(events),
		LastNAVDate:       latest.Date,
		DataSource:        series.Source,
		XIRRConverged:     converged,
		ChartSeries:       roundChart(acc.Chart),
		ComputedAt:        now,
	}, nil
}

// notStartedResult is the zero-valued valuation for a plan with no elapsed
// contribution months yet. The latest NAV is still reported for display.
func notStartedResult(plan *domain.Plan, series domain.PriceSeries, now time.Time) *domain.ValuationResult {
	latest := series.Last()
	return &domain.ValuationResult{
		PlanID:        plan.ID,
		CurrentValue:  decimal.Zero,
		TotalInvested: decimal.Zero,
		Returns:       decimal.Zero,
		CurrentNAV:    latest.NAV.Round(2),
		TotalUnits:    decimal.Zero,
		LastNAVDate:   latest.Date,
		DataSource:    series.Source,
		XIRRConverged: true,
		ChartSeries:   []domain.ChartPoint{},
		ComputedAt:    now,
	}
}

// roundChart rounds chart samples for presentation. Internal accumulation
// stays at full precision; only this boundary rounds.
func roundChart(points []domain.ChartPoint) []domain.ChartPoint {
	rounded := make([]domain.ChartPoint, len(points))
	for i, p := range points {
		rounded[i] = domain.ChartPoint{
			Month:    p.Month,
			Date:     p.Date,
			Invested: p.Invested.Round(2),
			NAV:      p.NAV.Round(2),
		}
	}
	return rounded
}
