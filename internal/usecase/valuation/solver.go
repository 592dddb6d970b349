package valuation

import (
	"math"

	"github.com/fundlens/fundlens-backend/internal/domain"
)

const (
	xirrInitialGuess  = 0.10
	xirrMaxIterations = 100
	xirrTolerance     = 1e-4
	xirrMaxStep       = 1.0       // Bound on a single Newton step to stop divergence
	xirrMinRate       = -0.999999 // (1+r) must stay positive
	xirrBracketHigh   = 10.0
)

// XIRR solves for the annualized money-weighted rate of return of an
// irregular cash-flow ledger: the rate r at which
// Σ amount / (1+r)^(days since first flow / 365) is zero.
//
// The solver is Newton-Raphson from a 10% initial guess with a bounded
// step; when the derivative vanishes or the iterate escapes the valid
// domain it falls back to bisection over a wide bracket. The returned
// value is a percentage. A ledger with fewer than two flows has no defined
// rate and yields 0.
//
// The boolean reports convergence. On exhaustion of the iteration budget
// the best estimate reached is still returned: missing the tolerance is a
// soft condition and never fails a valuation on its own.
func XIRR(flows []domain.CashFlow) (float64, bool) {
	if len(flows) < 2 {
		return 0, true
	}

	origin := flows[0].Date
	amounts := make([]float64, len(flows))
	years := make([]float64, len(flows))
	for i, f := range flows {
		amounts[i] = f.Amount.InexactFloat64()
		years[i] = f.Date.Sub(origin).Hours() / 24 / 365
	}

	npv := func(r float64) float64 {
		s := 0.0
		for i := range amounts {
			s += amounts[i] / math.Pow(1+r, years[i])
		}
		return s
	}
	derivative := func(r float64) float64 {
		s := 0.0
		for i := range amounts {
			s -= amounts[i] * years[i] / math.Pow(1+r, years[i]+1)
		}
		return s
	}

	r := xirrInitialGuess
	for i := 0; i < xirrMaxIterations; i++ {
		f := npv(r)
		df := derivative(r)
		if math.Abs(df) < 1e-12 {
			return bisectXIRR(npv, r)
		}

		step := f / df
		if math.IsNaN(step) || math.IsInf(step, 0) {
			return bisectXIRR(npv, r)
		}
		if step > xirrMaxStep {
			step = xirrMaxStep
		} else if step < -xirrMaxStep {
			step = -xirrMaxStep
		}

		next := r - step
		if next <= xirrMinRate {
			next = (r + xirrMinRate) / 2
		}

		if math.Abs(next-r) < xirrTolerance {
			return next * 100, true
		}
		r = next
	}

	return r * 100, false
}

// bisectXIRR recovers from a failed Newton iteration. If the NPV changes
// sign over (xirrMinRate, xirrBracketHigh] the root is bisected to
// tolerance; otherwise the last Newton estimate is returned unconverged.
func bisectXIRR(npv func(float64) float64, lastEstimate float64) (float64, bool) {
	lo, hi := xirrMinRate, xirrBracketHigh
	fLo, fHi := npv(lo), npv(hi)
	if math.IsNaN(fLo) || math.IsNaN(fHi) || fLo*fHi > 0 {
		return lastEstimate * 100, false
	}

	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		fMid := npv(mid)
		if math.Abs(fMid) < 1e-9 || hi-lo < xirrTolerance {
			return mid * 100, true
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}

	return (lo + hi) / 2 * 100, true
}

// CAGR computes the compound annual growth rate between total invested
// capital and the current value over elapsed years, as a percentage.
// It is defined as 0 when either value is non-positive or no time has
// elapsed, guarding the divide and the log domain: these are legitimate
// "not enough history yet" states, not errors.
func CAGR(startValue, endValue, years float64) float64 {
	if startValue <= 0 || endValue <= 0 || years <= 0 {
		return 0
	}
	return (math.Pow(endValue/startValue, 1/years) - 1) * 100
}
