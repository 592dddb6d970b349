package valuation

import (
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens-backend/internal/domain"
)

// noiseBound caps the multiplicative noise applied to each synthetic point
// at ±2%. The noise only exists to avoid a perfectly flat curve; it is not
// a market model.
const noiseBound = 0.02

// SynthesizeSeries produces emergency price data for when the market data
// provider fails or returns nothing: one point per elapsed month from
// start to end, compounding basePrice by annualGrowthPct monthly, with
// small bounded noise per point.
//
// The series is marked SourceSynthetic so results computed from it are
// never mistaken for real market data. The rng is injected so tests can
// seed it; it must not be nil.
func SynthesizeSeries(symbol string, start, end time.Time, basePrice, annualGrowthPct float64, rng *rand.Rand) domain.PriceSeries {
	series := domain.PriceSeries{
		Symbol: symbol,
		Source: domain.SourceSynthetic,
	}

	monthlyGrowth := math.Pow(1+annualGrowthPct/100, 1.0/12)

	price := basePrice
	for k := 0; ; k++ {
		d := start.AddDate(0, k, 0)
		if d.After(end) {
			break
		}
		noise := 1 + (rng.Float64()*2-1)*noiseBound
		series.Points = append(series.Points, domain.PricePoint{
			Date: d,
			NAV:  decimal.NewFromFloat(price * noise),
		})
		price *= monthlyGrowth
	}

	return series
}
