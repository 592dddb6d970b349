package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource marks the provenance of a price series
type PriceSource string

const (
	// SourceMarket means the series was retrieved from a real market data provider
	SourceMarket PriceSource = "MARKET"
	// SourceSynthetic means the series was synthesized as emergency fallback data
	SourceSynthetic PriceSource = "SYNTHETIC"
)

// PricePoint represents a single (date, NAV) sample of an instrument.
type PricePoint struct {
	Date time.Time
	NAV  decimal.Decimal // Unit price on Date, always positive
}

// PriceSeries is an ordered-by-date, date-deduplicated sequence of price
// points together with its provenance.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
	Source PriceSource
}

// IsEmpty reports whether the series holds no points.
func (s PriceSeries) IsEmpty() bool { return len(s.Points) == 0 }

// First returns the earliest point. Callers must check IsEmpty first.
func (s PriceSeries) First() PricePoint { return s.Points[0] }

// Last returns the latest point. Callers must check IsEmpty first.
func (s PriceSeries) Last() PricePoint { return s.Points[len(s.Points)-1] }

// Normalize sorts the points chronologically and drops duplicate dates,
// keeping the first occurrence of each calendar day.
func (s *PriceSeries) Normalize() {
	sort.SliceStable(s.Points, func(i, j int) bool {
		return s.Points[i].Date.Before(s.Points[j].Date)
	})

	seen := make(map[string]bool, len(s.Points))
	deduped := s.Points[:0]
	for _, p := range s.Points {
		day := p.Date.Format("2006-01-02")
		if seen[day] {
			continue
		}
		seen[day] = true
		deduped = append(deduped, p)
	}
	s.Points = deduped
}
