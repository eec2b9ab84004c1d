package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const MetalsAPIBaseURL = "https://api.metals.live/v1"

// metalKeys maps commodity tickers to metals.live spot keys. Symbols without
// a mapping (e.g. OIL) fail the adapter and fall through to the next one.
var metalKeys = map[string]string{
	"XAU": "gold",
	"XAG": "silver",
	"XPT": "platinum",
	"XPD": "palladium",
}

// MetalsProvider fetches a single commodity spot price. Like the forex spot
// adapter it can only produce degraded results: real price, flat synthesized
// history.
type MetalsProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewMetalsProvider(baseURL string, logger *zap.Logger) *MetalsProvider {
	if baseURL == "" {
		baseURL = MetalsAPIBaseURL
	}
	return &MetalsProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

func (p *MetalsProvider) Name() string { return "metals" }

// Fetch looks the symbol's metal up in the spot feed. The feed returns one
// object per metal, e.g. [{"gold": 2045.3}, {"silver": 22.9}, ...].
func (p *MetalsProvider) Fetch(ctx context.Context, symbol, _, _ string) (*Result, error) {
	metal := lookupMetalKey(symbol)
	if metal == "" {
		return nil, fmt.Errorf("metals: unsupported commodity symbol %q", symbol)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/spot", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metals API returned status %d", resp.StatusCode)
	}

	var entries []map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var price float64
	for _, entry := range entries {
		if v, ok := entry[metal]; ok {
			price = v
			break
		}
	}
	if price <= 0 {
		return nil, fmt.Errorf("metals: no spot price for %s", metal)
	}

	p.logger.Debug("Fetched commodity spot",
		zap.String("metal", metal),
		zap.Float64("price", price))

	return &Result{
		Series:   flatSeries(price, flatHistoryBars),
		Quote:    spotQuote(price),
		Source:   "Metals-API (spot)",
		Note:     "Spot price only; historical depth synthesized from the current value, indicators are uninformative.",
		Degraded: true,
	}, nil
}

func lookupMetalKey(symbol string) string {
	s := strings.ToUpper(symbol)
	for ticker, metal := range metalKeys {
		if strings.Contains(s, ticker) {
			return metal
		}
	}
	return ""
}
