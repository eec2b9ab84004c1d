package provider

import (
	"context"
	"time"

	"github.com/yourorg/market-snapshot-service/internal/model"
)

// Result is the outcome of a successful provider fetch. A provider never
// returns a partially usable result: either the series and quote are both
// populated, or the fetch fails with an error.
type Result struct {
	Series *model.OHLCVSeries
	Quote  model.Quote
	// Source is the provenance label surfaced in the snapshot.
	Source string
	// Note explains degraded depth or synthetic data, empty for full results.
	Note string
	// Degraded marks real-but-spot-only data whose history was synthesized
	// from the current price.
	Degraded bool
}

// Provider is the uniform adapter interface over one upstream market-data
// source. Implementations translate the service timeframe codes to their
// native intervals, normalize responses into an oldest-first OHLCVSeries, and
// report any upstream error, rate limit or malformed payload as an error.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, symbol, timeframe, apiKey string) (*Result, error)
}

// quoteFromSeries derives quote fields for upstreams that return bars but no
// native ticker. Change is measured against the close roughly 24 bars back.
func quoteFromSeries(series *model.OHLCVSeries) model.Quote {
	n := series.Len()
	price := series.LastClose()
	window := 24
	if window >= n {
		window = n - 1
	}
	ref := price
	if window > 0 {
		ref = series.Closes[n-1-window]
	}
	change := price - ref
	changePercent := 0.0
	if ref != 0 {
		changePercent = change / ref * 100
	}
	high := price
	low := price
	var volume float64
	for i := n - 1 - window; i < n; i++ {
		if i < 0 {
			continue
		}
		if series.Highs[i] > high {
			high = series.Highs[i]
		}
		if series.Lows[i] < low {
			low = series.Lows[i]
		}
		if i < len(series.Volumes) {
			volume += series.Volumes[i]
		}
	}
	return model.Quote{
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		Volume:        volume,
		High24h:       high,
		Low24h:        low,
		Bid:           price * 0.9999,
		Ask:           price * 1.0001,
		LastUpdate:    time.Now().UTC().Format(time.RFC3339),
	}
}

// flatSeries builds a constant-price history for spot-only upstreams. The
// indicator engine stays well-defined on it, just uninformative. No volume
// data is attached, so the volume profile comes back nil.
func flatSeries(price float64, bars int) *model.OHLCVSeries {
	closes := make([]float64, bars)
	highs := make([]float64, bars)
	lows := make([]float64, bars)
	for i := range closes {
		closes[i] = price
		highs[i] = price
		lows[i] = price
	}
	return &model.OHLCVSeries{Closes: closes, Highs: highs, Lows: lows, Volumes: []float64{}}
}

// spotQuote derives quote fields when only a single spot value is known.
func spotQuote(price float64) model.Quote {
	return model.Quote{
		Price:      price,
		High24h:    price,
		Low24h:     price,
		Bid:        price * 0.9999,
		Ask:        price * 1.0001,
		LastUpdate: time.Now().UTC().Format(time.RFC3339),
	}
}
