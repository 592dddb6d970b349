package valuation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fundlens/fundlens-backend/internal/domain"
)

func benchmarkSeries(firstNAV, lastNAV int64) domain.PriceSeries {
	return domain.PriceSeries{
		Symbol: "BENCH",
		Source: domain.SourceMarket,
		Points: []domain.PricePoint{
			{Date: date(2023, time.January, 1), NAV: decimal.NewFromInt(firstNAV)},
			{Date: date(2024, time.January, 1), NAV: decimal.NewFromInt(lastNAV)},
		},
	}
}

func TestCompareBenchmark_UnderperformanceFlag(t *testing.T) {
	// Benchmark holding-period return: (109-100)/100 = 9%.
	result := CompareBenchmark(5.0, benchmarkSeries(100, 109))

	assert.True(t, result.Available)
	assert.True(t, result.IsUnderperforming)
	assert.Equal(t, 5.0, result.PlanReturn)
	assert.Equal(t, 9.0, result.BenchmarkReturn)
	assert.Equal(t, -4.0, result.Difference)
	assert.Contains(t, result.Message, "underperforming")
}

func TestCompareBenchmark_WithinToleranceBand(t *testing.T) {
	// 1.5 points behind: inside the 2-point tolerance, not flagged.
	result := CompareBenchmark(7.5, benchmarkSeries(100, 109))

	assert.True(t, result.Available)
	assert.False(t, result.IsUnderperforming)
	assert.Equal(t, -1.5, result.Difference)
}

func TestCompareBenchmark_Outperformance(t *testing.T) {
	result := CompareBenchmark(12.0, benchmarkSeries(100, 109))

	assert.True(t, result.Available)
	assert.False(t, result.IsUnderperforming)
	assert.Equal(t, 3.0, result.Difference)
}

func TestCompareBenchmark_UnavailableWithSinglePoint(t *testing.T) {
	series := domain.PriceSeries{Points: []domain.PricePoint{
		{Date: date(2023, time.January, 1), NAV: decimal.NewFromInt(100)},
	}}

	result := CompareBenchmark(5.0, series)

	assert.False(t, result.Available)
	assert.False(t, result.IsUnderperforming)
	assert.Equal(t, 5.0, result.PlanReturn)
	assert.Contains(t, result.Message, "unavailable")
}

func TestCompareBenchmark_UnavailableWithEmptySeries(t *testing.T) {
	result := CompareBenchmark(5.0, domain.PriceSeries{})

	assert.False(t, result.Available)
	assert.Contains(t, result.Message, "unavailable")
}
