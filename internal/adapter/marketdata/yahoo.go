package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens-backend/internal/domain"
)

const yahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooClient fetches daily price history from the Yahoo Finance chart
// API. No API key is required.
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewYahooClient creates a new Yahoo Finance client
func NewYahooClient() *YahooClient {
	return &YahooClient{
		baseURL: yahooBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// GetDailyHistory returns the daily closes for symbol between start and
// end, oldest first. Days with a missing or non-positive close are
// skipped.
func (c *YahooClient) GetDailyHistory(ctx context.Context, symbol string, start, end time.Time) ([]domain.PricePoint, error) {
	url := fmt.Sprintf("%s/%s?interval=1d&period1=%d&period2=%d", c.baseURL, symbol, start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo finance returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var chartResp yahooChartResponse
	if err := json.Unmarshal(body, &chartResp); err != nil {
		return nil, err
	}

	if len(chartResp.Chart.Result) == 0 || len(chartResp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no historical data for %s", symbol)
	}

	result := chartResp.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	points := make([]domain.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] <= 0 {
			continue
		}
		points = append(points, domain.PricePoint{
			Date: time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			NAV:  decimal.NewFromFloat(closes[i]),
		})
	}

	return points, nil
}
