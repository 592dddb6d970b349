package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/phuslu/log"

	"github.com/fundlens/fundlens-backend/internal/domain"
)

// Service implements domain.PriceProvider over two upstream sources:
// Yahoo Finance as the keyless primary and Alpha Vantage as the secondary
// when an API key is configured. Search goes through Alpha Vantage only.
type Service struct {
	yahoo        *YahooClient
	alphaVantage *AlphaVantageClient
}

var _ domain.PriceProvider = (*Service)(nil)

// NewService creates a new market data service. alphaVantageKey may be
// empty, in which case only Yahoo is available and search is unsupported.
func NewService(alphaVantageKey string) *Service {
	s := &Service{yahoo: NewYahooClient()}
	if alphaVantageKey != "" {
		s.alphaVantage = NewAlphaVantageClient(alphaVantageKey)
	}
	return s
}

// FetchPriceHistory returns an ordered, date-deduplicated series for
// symbol between start and end. The secondary source is only consulted
// when the primary fails or comes back empty; an empty result from both
// is returned as-is and the caller substitutes fallback data.
func (s *Service) FetchPriceHistory(ctx context.Context, symbol string, start, end time.Time) (domain.PriceSeries, error) {
	points, err := s.yahoo.GetDailyHistory(ctx, symbol, start, end)
	if (err != nil || len(points) == 0) && s.alphaVantage != nil {
		if err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("yahoo history failed, trying alpha vantage")
		}
		points, err = s.alphaVantage.GetDailyHistory(ctx, symbol, start, end)
	}
	if err != nil {
		return domain.PriceSeries{}, fmt.Errorf("failed to fetch price history for %s: %w", symbol, err)
	}

	series := domain.PriceSeries{
		Symbol: symbol,
		Points: points,
		Source: domain.SourceMarket,
	}
	series.Normalize()
	return series, nil
}

// SearchInstruments performs a free-text instrument lookup.
func (s *Service) SearchInstruments(ctx context.Context, query string) ([]domain.Instrument, error) {
	if s.alphaVantage == nil {
		return nil, fmt.Errorf("instrument search requires an Alpha Vantage API key")
	}
	return s.alphaVantage.Search(ctx, query)
}
