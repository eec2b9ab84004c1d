package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const FrankfurterBaseURL = "https://api.frankfurter.app"

// flatHistoryBars is the synthesized history length for spot-only upstreams.
const flatHistoryBars = 50

// FrankfurterProvider fetches a single current exchange rate from the keyless
// Frankfurter API. It can only supply a spot value, so the result is marked
// degraded: real quote, flat synthesized history.
type FrankfurterProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewFrankfurterProvider(baseURL string, logger *zap.Logger) *FrankfurterProvider {
	if baseURL == "" {
		baseURL = FrankfurterBaseURL
	}
	return &FrankfurterProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

func (p *FrankfurterProvider) Name() string { return "frankfurter" }

// Fetch resolves the pair's current rate. The timeframe is irrelevant to a
// spot source and is ignored.
func (p *FrankfurterProvider) Fetch(ctx context.Context, symbol, _, _ string) (*Result, error) {
	from, to, err := splitCurrencyPair(symbol)
	if err != nil {
		return nil, err
	}

	params := url.Values{"from": {from}, "to": {to}}
	reqURL := p.baseURL + "/latest?" + params.Encode()
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
		return nil, fmt.Errorf("frankfurter returned status %d", resp.StatusCode)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	rate, ok := payload.Rates[to]
	if !ok || rate <= 0 {
		return nil, fmt.Errorf("frankfurter: no rate for %s/%s", from, to)
	}

	p.logger.Debug("Fetched spot rate",
		zap.String("pair", from+"/"+to),
		zap.Float64("rate", rate))

	return &Result{
		Series:   flatSeries(rate, flatHistoryBars),
		Quote:    spotQuote(rate),
		Source:   "Frankfurter (spot)",
		Note:     "Current exchange rate only; historical depth synthesized from the spot value, indicators are uninformative.",
		Degraded: true,
	}, nil
}
