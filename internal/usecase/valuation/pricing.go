package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens-backend/internal/domain"
)

// ClosestPoint returns the price point whose date is nearest to target.
// Ties are broken by first occurrence in series order, so results are
// stable and deterministic. It fails only when the series is empty, which
// callers prevent by substituting fallback data first.
func ClosestPoint(series domain.PriceSeries, target time.Time) (domain.PricePoint, error) {
	if series.IsEmpty() {
		return domain.PricePoint{}, domain.ErrInsufficientData
	}

	best := series.Points[0]
	bestDistance := absDuration(series.Points[0].Date.Sub(target))

	for _, p := range series.Points[1:] {
		if d := absDuration(p.Date.Sub(target)); d < bestDistance {
			best = p
			bestDistance = d
		}
	}

	return best, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// Accumulation is the output of walking the contribution ledger against a
// price series: cumulative invested capital, cumulative units, the signed
// cash-flow ledger, and the presentation-only chart samples.
type Accumulation struct {
	Invested decimal.Decimal
	Units    decimal.Decimal
	Flows    []domain.CashFlow
	Chart    []domain.ChartPoint
}

// Accumulate converts each contribution event plus its nearest price into
// units purchased. Invested capital is the exact arithmetic sum of event
// amounts; units are kept at full precision, only the final presentation
// layer rounds. Each event also appends one negative cash flow to the
// ledger.
func Accumulate(events []domain.ContributionEvent, series domain.PriceSeries) (Accumulation, error) {
	acc := Accumulation{
		Invested: decimal.Zero,
		Units:    decimal.Zero,
		Flows:    make([]domain.CashFlow, 0, len(events)),
		Chart:    make([]domain.ChartPoint, 0, len(events)),
	}

	for k, event := range events {
		point, err := ClosestPoint(series, event.Date)
		if err != nil {
			return Accumulation{}, err
		}

		acc.Invested = acc.Invested.Add(event.Amount)
		acc.Units = acc.Units.Add(event.Amount.Div(point.NAV))
		acc.Flows = append(acc.Flows, domain.CashFlow{
			Date:   event.Date,
			Amount: event.Amount.Neg(),
		})
		acc.Chart = append(acc.Chart, domain.ChartPoint{
			Month:    k,
			Date:     event.Date,
			Invested: acc.Invested,
			NAV:      point.NAV,
		})
	}

	return acc, nil
}
