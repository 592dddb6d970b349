package valuation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fundlens/fundlens-backend/internal/domain"
)

func TestXIRR_RoundTripTenPercent(t *testing.T) {
	day0 := date(2023, time.January, 1)
	flows := []domain.CashFlow{
		{Date: day0, Amount: decimal.NewFromInt(-1000)},
		{Date: day0.AddDate(0, 0, 365), Amount: decimal.NewFromInt(1100)},
	}

	rate, converged := XIRR(flows)

	assert.True(t, converged)
	assert.InDelta(t, 10.0, rate, 0.01)
}

func TestXIRR_FewerThanTwoFlows(t *testing.T) {
	rate, converged := XIRR(nil)
	assert.True(t, converged)
	assert.Equal(t, 0.0, rate)

	rate, converged = XIRR([]domain.CashFlow{
		{Date: date(2023, time.January, 1), Amount: decimal.NewFromInt(-1000)},
	})
	assert.True(t, converged)
	assert.Equal(t, 0.0, rate)
}

func TestXIRR_FlatValueIsNearZero(t *testing.T) {
	start := date(2023, time.January, 1)

	flows := make([]domain.CashFlow, 0, 13)
	for k := 0; k < 12; k++ {
		flows = append(flows, domain.CashFlow{
			Date:   start.AddDate(0, k, 0),
			Amount: decimal.NewFromInt(-5000),
		})
	}
	flows = append(flows, domain.CashFlow{
		Date:   start.AddDate(1, 0, 0),
		Amount: decimal.NewFromInt(60000),
	})

	rate, converged := XIRR(flows)

	assert.True(t, converged)
	assert.InDelta(t, 0.0, rate, 0.1)
}

func TestXIRR_LossMakingLedgerIsNegative(t *testing.T) {
	day0 := date(2023, time.January, 1)
	flows := []domain.CashFlow{
		{Date: day0, Amount: decimal.NewFromInt(-1000)},
		{Date: day0.AddDate(0, 0, 365), Amount: decimal.NewFromInt(800)},
	}

	rate, converged := XIRR(flows)

	assert.True(t, converged)
	assert.InDelta(t, -20.0, rate, 0.01)
}

func TestCAGR_GuardedBoundaries(t *testing.T) {
	assert.Equal(t, 0.0, CAGR(0, 100, 5))
	assert.Equal(t, 0.0, CAGR(100, 0, 5))
	assert.Equal(t, 0.0, CAGR(100, 100, 0))
	assert.Equal(t, 0.0, CAGR(-100, 100, 5))
}

func TestCAGR_DoublingInOneYear(t *testing.T) {
	assert.InDelta(t, 100.0, CAGR(100, 200, 1), 1e-9)
}

func TestCAGR_DoublingInTwoYears(t *testing.T) {
	// 2^(1/2) - 1 = 41.42%
	assert.InDelta(t, 41.42, CAGR(100, 200, 2), 0.01)
}
