package provider

import (
	"fmt"
	"time"

	"github.com/yourorg/market-snapshot-service/internal/model"
)

// Deterministic base prices per asset-class hint.
const (
	demoBaseForex     = 1.085
	demoBaseCommodity = 2045.3
	demoBaseDefault   = 178.5
	demoVolume        = 1234567
)

// DemoDataSource is the provenance label for synthetic snapshots.
const DemoDataSource = "Demo Data"

// SyntheticGenerator is the guaranteed-success terminal step of the fallback
// chain. Its output is fully deterministic for a given symbol and asset-class
// hint, except for the quote timestamp.
type SyntheticGenerator struct{}

func NewSyntheticGenerator() *SyntheticGenerator {
	return &SyntheticGenerator{}
}

// Generate builds demo snapshot ingredients from a fixed per-class base
// price. Quote fields are fixed offsets of the base: change +0.23%, 24h range
// ±1%, bid/ask ∓0.05%. The 50-bar history is flat at the base price with a
// constant volume, so the indicator engine stays fully defined on it.
func (g *SyntheticGenerator) Generate(symbol string, class model.AssetClass) *Result {
	base := demoBaseDefault
	switch class {
	case model.AssetForex:
		base = demoBaseForex
	case model.AssetCommodity:
		base = demoBaseCommodity
	}

	series := flatSeries(base, flatHistoryBars)
	volumes := make([]float64, flatHistoryBars)
	for i := range volumes {
		volumes[i] = demoVolume
	}
	series.Volumes = volumes

	return &Result{
		Series: series,
		Quote: model.Quote{
			Price:         base,
			Change:        base * 0.0023,
			ChangePercent: 0.23,
			Volume:        demoVolume,
			High24h:       base * 1.01,
			Low24h:        base * 0.99,
			Bid:           base * 0.9995,
			Ask:           base * 1.0005,
			LastUpdate:    time.Now().UTC().Format(time.RFC3339),
		},
		Source:   DemoDataSource,
		Note:     fmt.Sprintf("Live market data unavailable for %s; showing demo data.", symbol),
		Degraded: true,
	}
}
