package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/market-snapshot-service/internal/model"
)

const (
	BinanceAPIBaseURL = "https://api.binance.com/api/v3"
	binanceKlineLimit = 200
)

// binanceIntervals translates service timeframe codes to Binance interval
// strings. Unknown codes fall back to hourly.
var binanceIntervals = map[string]string{
	"1M":  "1m",
	"5M":  "5m",
	"15M": "15m",
	"1H":  "1h",
	"4H":  "4h",
	"1D":  "1d",
	"1W":  "1w",
}

// BinanceProvider fetches crypto market data from the Binance public API.
// A fetch issues three sub-calls (24h ticker, current price, klines); if any
// of them fails the whole fetch fails.
type BinanceProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewBinanceProvider creates a Binance adapter. An empty baseURL selects the
// public API endpoint.
func NewBinanceProvider(baseURL string, logger *zap.Logger) *BinanceProvider {
	if baseURL == "" {
		baseURL = BinanceAPIBaseURL
	}
	return &BinanceProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (p *BinanceProvider) Name() string { return "binance" }

// binanceTicker24h is the subset of the 24hr ticker payload the adapter uses.
// Binance encodes all numeric fields as strings.
type binanceTicker24h struct {
	PriceChange        string `json:"priceChange"`
	PriceChangePercent string `json:"priceChangePercent"`
	HighPrice          string `json:"highPrice"`
	LowPrice           string `json:"lowPrice"`
	Volume             string `json:"volume"`
	BidPrice           string `json:"bidPrice"`
	AskPrice           string `json:"askPrice"`
}

type binancePrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// NormalizeBinanceSymbol strips separators and coerces a trailing USD quote
// currency to Binance's USDT stablecoin ticker, e.g. "BTC-USD" -> "BTCUSDT".
func NormalizeBinanceSymbol(symbol string) string {
	s := strings.ToUpper(symbol)
	s = strings.NewReplacer("-", "", "/", "", " ", "").Replace(s)
	if strings.HasSuffix(s, "USD") && !strings.HasSuffix(s, "TUSD") {
		s += "T"
	}
	return s
}

// Fetch retrieves the 24h ticker, current price and up to 200 klines, and
// normalizes them into a full Result. Binance returns klines oldest-first,
// which already matches the canonical series order.
func (p *BinanceProvider) Fetch(ctx context.Context, symbol, timeframe, _ string) (*Result, error) {
	pair := NormalizeBinanceSymbol(symbol)
	interval, ok := binanceIntervals[timeframe]
	if !ok {
		interval = "1h"
	}

	var ticker binanceTicker24h
	if err := p.getJSON(ctx, "/ticker/24hr", url.Values{"symbol": {pair}}, &ticker); err != nil {
		return nil, fmt.Errorf("24h ticker: %w", err)
	}

	var price binancePrice
	if err := p.getJSON(ctx, "/ticker/price", url.Values{"symbol": {pair}}, &price); err != nil {
		return nil, fmt.Errorf("current price: %w", err)
	}

	var rawKlines [][]interface{}
	params := url.Values{
		"symbol":   {pair},
		"interval": {interval},
		"limit":    {strconv.Itoa(binanceKlineLimit)},
	}
	if err := p.getJSON(ctx, "/klines", params, &rawKlines); err != nil {
		return nil, fmt.Errorf("klines: %w", err)
	}

	series := &model.OHLCVSeries{}
	for i, raw := range rawKlines {
		if len(raw) < 6 {
			p.logger.Warn("Skipping malformed kline",
				zap.String("symbol", pair),
				zap.Int("index", i))
			continue
		}
		high, err1 := parseKlineField(raw[2])
		low, err2 := parseKlineField(raw[3])
		closePrice, err3 := parseKlineField(raw[4])
		volume, err4 := parseKlineField(raw[5])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			p.logger.Warn("Skipping unparsable kline",
				zap.String("symbol", pair),
				zap.Int("index", i))
			continue
		}
		series.Highs = append(series.Highs, high)
		series.Lows = append(series.Lows, low)
		series.Closes = append(series.Closes, closePrice)
		series.Volumes = append(series.Volumes, volume)
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("binance returned no usable klines for %s", pair)
	}

	lastPrice, err := strconv.ParseFloat(price.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("parse current price %q: %w", price.Price, err)
	}

	quote := model.Quote{
		Price:         lastPrice,
		Change:        parseFloatOrZero(ticker.PriceChange),
		ChangePercent: parseFloatOrZero(ticker.PriceChangePercent),
		Volume:        parseFloatOrZero(ticker.Volume),
		High24h:       parseFloatOrZero(ticker.HighPrice),
		Low24h:        parseFloatOrZero(ticker.LowPrice),
		Bid:           parseFloatOrZero(ticker.BidPrice),
		Ask:           parseFloatOrZero(ticker.AskPrice),
		LastUpdate:    time.Now().UTC().Format(time.RFC3339),
	}

	return &Result{Series: series, Quote: quote, Source: "Binance"}, nil
}

func (p *BinanceProvider) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := p.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		p.logger.Warn("Binance API error response",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(bodyBytes)))
		return fmt.Errorf("binance returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseKlineField handles Binance's mixed kline encoding: prices come as
// strings, timestamps as numbers.
func parseKlineField(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case string:
		return strconv.ParseFloat(v, 64)
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("unexpected kline field type %T", raw)
	}
}

func parseFloatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
