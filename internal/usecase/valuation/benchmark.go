package valuation

import (
	"fmt"
	"math"

	"github.com/fundlens/fundlens-backend/internal/domain"
)

// underperformanceTolerance is the band, in percentage points, below the
// benchmark return before a plan is flagged. It keeps noise from being
// reported as underperformance.
const underperformanceTolerance = 2.0

// CompareBenchmark compares the plan's money-weighted return against the
// benchmark's simple holding-period return over the same window.
//
// A benchmark series with fewer than 2 points cannot produce a
// holding-period return; the comparison degrades to an informational
// "unavailable" message instead of failing.
func CompareBenchmark(planReturnPct float64, benchmark domain.PriceSeries) domain.BenchmarkComparison {
	if len(benchmark.Points) < 2 {
		return domain.BenchmarkComparison{
			PlanReturn: round2(planReturnPct),
			Available:  false,
			Message:    "benchmark data unavailable",
		}
	}

	first := benchmark.First().NAV.InexactFloat64()
	last := benchmark.Last().NAV.InexactFloat64()
	benchmarkReturn := (last - first) / first * 100

	difference := planReturnPct - benchmarkReturn
	underperforming := planReturnPct < benchmarkReturn-underperformanceTolerance

	message := fmt.Sprintf("plan is tracking the benchmark (%.2f%% vs %.2f%%)", planReturnPct, benchmarkReturn)
	if underperforming {
		message = fmt.Sprintf("plan is underperforming the benchmark by %.2f percentage points", math.Abs(difference))
	}

	return domain.BenchmarkComparison{
		IsUnderperforming: underperforming,
		PlanReturn:        round2(planReturnPct),
		BenchmarkReturn:   round2(benchmarkReturn),
		Difference:        round2(difference),
		Message:           message,
		Available:         true,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
