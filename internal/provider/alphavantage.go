package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/market-snapshot-service/internal/model"
)

const AlphaVantageBaseURL = "https://www.alphavantage.co/query"

// AlphaVantageMarket selects which Alpha Vantage time-series function the
// adapter queries.
type AlphaVantageMarket string

const (
	AlphaVantageForex AlphaVantageMarket = "forex"
	AlphaVantageStock AlphaVantageMarket = "stock"
)

// alphaVantageIntervals translates service timeframe codes to Alpha Vantage
// intraday intervals. Codes coarser than hourly fall back to hourly, the
// provider's native granularity for this adapter.
var alphaVantageIntervals = map[string]string{
	"1M":  "1min",
	"5M":  "5min",
	"15M": "15min",
	"1H":  "60min",
	"4H":  "60min",
	"1D":  "60min",
	"1W":  "60min",
}

// AlphaVantageProvider fetches intraday time series from Alpha Vantage for
// forex pairs or equities. The API returns bars newest-first; the adapter
// reorders them oldest-first before building the canonical series.
type AlphaVantageProvider struct {
	market     AlphaVantageMarket
	baseURL    string
	defaultKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAlphaVantageProvider creates an Alpha Vantage adapter. defaultKey is
// used when the request carries no per-provider credential.
func NewAlphaVantageProvider(market AlphaVantageMarket, baseURL, defaultKey string, logger *zap.Logger) *AlphaVantageProvider {
	if baseURL == "" {
		baseURL = AlphaVantageBaseURL
	}
	return &AlphaVantageProvider{
		market:     market,
		baseURL:    baseURL,
		defaultKey: defaultKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (p *AlphaVantageProvider) Name() string { return "alphavantage" }

// Fetch queries FX_INTRADAY or TIME_SERIES_INTRADAY and normalizes the
// response. Alpha Vantage signals rate limits and errors inside a 200 body
// ("Note"/"Information"/"Error Message"); all three are treated as failures.
func (p *AlphaVantageProvider) Fetch(ctx context.Context, symbol, timeframe, apiKey string) (*Result, error) {
	if apiKey == "" {
		apiKey = p.defaultKey
	}
	if apiKey == "" {
		return nil, errors.New("alphavantage: no API key configured")
	}

	interval, ok := alphaVantageIntervals[timeframe]
	if !ok {
		interval = "60min"
	}

	params := url.Values{
		"interval": {interval},
		"apikey":   {apiKey},
	}
	switch p.market {
	case AlphaVantageForex:
		from, to, err := splitCurrencyPair(symbol)
		if err != nil {
			return nil, err
		}
		params.Set("function", "FX_INTRADAY")
		params.Set("from_symbol", from)
		params.Set("to_symbol", to)
	default:
		params.Set("function", "TIME_SERIES_INTRADAY")
		params.Set("symbol", strings.ToUpper(symbol))
	}

	reqURL := p.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("alphavantage returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	for _, key := range []string{"Error Message", "Note", "Information"} {
		if msg, ok := payload[key]; ok {
			p.logger.Warn("Alpha Vantage rejected request",
				zap.String("field", key),
				zap.String("message", string(msg)))
			return nil, fmt.Errorf("alphavantage error payload (%s)", key)
		}
	}

	series, err := parseAlphaVantageSeries(payload)
	if err != nil {
		return nil, err
	}

	return &Result{
		Series: series,
		Quote:  quoteFromSeries(series),
		Source: "Alpha Vantage",
	}, nil
}

// parseAlphaVantageSeries locates the "Time Series ..." object, whose exact
// key varies by function and interval, and rebuilds it oldest-first. The
// timestamp keys sort lexicographically in chronological order.
func parseAlphaVantageSeries(payload map[string]json.RawMessage) (*model.OHLCVSeries, error) {
	var rawSeries json.RawMessage
	for key, value := range payload {
		if strings.HasPrefix(key, "Time Series") {
			rawSeries = value
			break
		}
	}
	if rawSeries == nil {
		return nil, errors.New("alphavantage: no time series in response")
	}

	var bars map[string]map[string]string
	if err := json.Unmarshal(rawSeries, &bars); err != nil {
		return nil, fmt.Errorf("failed to decode time series: %w", err)
	}
	if len(bars) == 0 {
		return nil, errors.New("alphavantage: empty time series")
	}

	timestamps := make([]string, 0, len(bars))
	for ts := range bars {
		timestamps = append(timestamps, ts)
	}
	sort.Strings(timestamps)

	series := &model.OHLCVSeries{}
	for _, ts := range timestamps {
		bar := bars[ts]
		high, err1 := strconv.ParseFloat(bar["2. high"], 64)
		low, err2 := strconv.ParseFloat(bar["3. low"], 64)
		closePrice, err3 := strconv.ParseFloat(bar["4. close"], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		series.Highs = append(series.Highs, high)
		series.Lows = append(series.Lows, low)
		series.Closes = append(series.Closes, closePrice)
		// FX series carry no volume field.
		if v, err := strconv.ParseFloat(bar["5. volume"], 64); err == nil {
			series.Volumes = append(series.Volumes, v)
		}
	}
	if series.Len() == 0 {
		return nil, errors.New("alphavantage: no usable bars in time series")
	}
	return series, nil
}

// splitCurrencyPair splits a 6-letter pair like EURUSD (separators tolerated)
// into base and quote currencies.
func splitCurrencyPair(symbol string) (string, string, error) {
	s := strings.ToUpper(symbol)
	s = strings.NewReplacer("-", "", "/", "", " ", "").Replace(s)
	if len(s) != 6 {
		return "", "", fmt.Errorf("cannot split %q into a currency pair", symbol)
	}
	return s[:3], s[3:], nil
}
