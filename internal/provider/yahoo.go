package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/market-snapshot-service/internal/model"
)

const YahooFinanceBaseURL = "https://query1.finance.yahoo.com"

// yahooParams maps service timeframe codes to chart API interval/range pairs.
// Unknown codes fall back to hourly over one month.
var yahooParams = map[string][2]string{
	"1M":  {"1m", "1d"},
	"5M":  {"5m", "5d"},
	"15M": {"15m", "5d"},
	"1H":  {"60m", "1mo"},
	"4H":  {"60m", "3mo"},
	"1D":  {"1d", "6mo"},
	"1W":  {"1wk", "2y"},
}

// YahooProvider fetches equity bars from the Yahoo Finance chart API. No API
// key is required, which makes it the keyless fallback for stocks.
type YahooProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewYahooProvider(baseURL string, logger *zap.Logger) *YahooProvider {
	if baseURL == "" {
		baseURL = YahooFinanceBaseURL
	}
	return &YahooProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// yahooChartResponse mirrors the chart API envelope. Bars with missing data
// arrive as JSON nulls, hence the pointer slices.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// Fetch retrieves chart bars and normalizes them. The chart API returns
// timestamps oldest-first, matching the canonical order; null-padded bars are
// skipped.
func (p *YahooProvider) Fetch(ctx context.Context, symbol, timeframe, _ string) (*Result, error) {
	pair, ok := yahooParams[timeframe]
	if !ok {
		pair = [2]string{"60m", "1mo"}
	}

	params := url.Values{"interval": {pair[0]}, "range": {pair[1]}}
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s",
		p.baseURL, url.PathEscape(strings.ToUpper(symbol)), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "market-snapshot-service/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("yahoo returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var chart yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if chart.Chart.Error != nil {
		p.logger.Warn("Yahoo chart API error payload",
			zap.String("symbol", symbol),
			zap.Any("error", chart.Chart.Error))
		return nil, fmt.Errorf("yahoo error payload for %s", symbol)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no chart data for %s", symbol)
	}

	q := chart.Chart.Result[0].Indicators.Quote[0]
	series := &model.OHLCVSeries{}
	for i := range q.Close {
		if i >= len(q.High) || i >= len(q.Low) {
			break
		}
		if q.Close[i] == nil || q.High[i] == nil || q.Low[i] == nil {
			continue
		}
		series.Closes = append(series.Closes, *q.Close[i])
		series.Highs = append(series.Highs, *q.High[i])
		series.Lows = append(series.Lows, *q.Low[i])
		if i < len(q.Volume) && q.Volume[i] != nil {
			series.Volumes = append(series.Volumes, *q.Volume[i])
		} else {
			series.Volumes = append(series.Volumes, 0)
		}
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("yahoo: no usable bars for %s", symbol)
	}

	return &Result{
		Series: series,
		Quote:  quoteFromSeries(series),
		Source: "Yahoo Finance",
	}, nil
}
