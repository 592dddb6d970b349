package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens-backend/internal/domain"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

// AlphaVantageClient fetches daily price history and performs instrument
// search against the Alpha Vantage API. Requires an API key.
type AlphaVantageClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewAlphaVantageClient creates a new Alpha Vantage client
func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{
		baseURL: alphaVantageBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type dailySeriesResponse struct {
	TimeSeries map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series (Daily)"`
}

// GetDailyHistory returns the daily closes for symbol between start and
// end, oldest first.
func (c *AlphaVantageClient) GetDailyHistory(ctx context.Context, symbol string, start, end time.Time) ([]domain.PricePoint, error) {
	reqURL := fmt.Sprintf("%s?function=TIME_SERIES_DAILY&symbol=%s&outputsize=full&apikey=%s",
		c.baseURL, url.QueryEscape(symbol), c.apiKey)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var seriesResp dailySeriesResponse
	if err := json.Unmarshal(body, &seriesResp); err != nil {
		return nil, err
	}

	if len(seriesResp.TimeSeries) == 0 {
		return nil, fmt.Errorf("no data returned for symbol %s", symbol)
	}

	points := make([]domain.PricePoint, 0, len(seriesResp.TimeSeries))
	for day, entry := range seriesResp.TimeSeries {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}

		nav, err := decimal.NewFromString(entry.Close)
		if err != nil || nav.LessThanOrEqual(decimal.Zero) {
			continue
		}

		points = append(points, domain.PricePoint{Date: date, NAV: nav})
	}

	return points, nil
}

type symbolSearchResponse struct {
	BestMatches []struct {
		Symbol string `json:"1. symbol"`
		Name   string `json:"2. name"`
		Type   string `json:"3. type"`
		Region string `json:"4. region"`
	} `json:"bestMatches"`
}

// Search performs an instrument lookup via the SYMBOL_SEARCH endpoint.
func (c *AlphaVantageClient) Search(ctx context.Context, query string) ([]domain.Instrument, error) {
	reqURL := fmt.Sprintf("%s?function=SYMBOL_SEARCH&keywords=%s&apikey=%s",
		c.baseURL, url.QueryEscape(query), c.apiKey)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var searchResp symbolSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, err
	}

	instruments := make([]domain.Instrument, 0, len(searchResp.BestMatches))
	for _, m := range searchResp.BestMatches {
		instruments = append(instruments, domain.Instrument{
			Symbol: m.Symbol,
			Name:   m.Name,
			Type:   m.Type,
			Region: m.Region,
		})
	}

	return instruments, nil
}

func (c *AlphaVantageClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alpha vantage returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
