package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/yourorg/market-snapshot-service/internal/model"
	"github.com/yourorg/market-snapshot-service/internal/provider"
)

func newTestSnapshotService(registry map[model.AssetClass][]provider.Provider) *SnapshotService {
	return NewSnapshotService(newTestOrchestrator(registry), nil, nil, zap.NewNop())
}

// All adapters failing for a forex symbol must yield a complete demo
// snapshot, never an error.
func TestGetSnapshot_AllProvidersFail(t *testing.T) {
	registry := map[model.AssetClass][]provider.Provider{
		model.AssetForex: {
			&stubProvider{name: "a"},
			&stubProvider{name: "b"},
		},
	}
	s := newTestSnapshotService(registry)

	snapshot := s.GetSnapshot(context.Background(), &model.SnapshotRequest{
		Symbol:    "EURUSD",
		Timeframe: "1H",
	})

	if snapshot.Source != provider.DemoDataSource {
		t.Errorf("source = %q, want %q", snapshot.Source, provider.DemoDataSource)
	}
	if snapshot.Price != 1.085 {
		t.Errorf("price = %v, want 1.085", snapshot.Price)
	}
	if snapshot.Note == "" {
		t.Error("expected a non-empty note on demo data")
	}
	if snapshot.Indicators == nil {
		t.Fatal("expected indicators on demo data")
	}
	if len(snapshot.HistoricalData) != 50 {
		t.Errorf("historicalData length = %d, want 50", len(snapshot.HistoricalData))
	}
	if len(snapshot.Patterns) != 1 || snapshot.Patterns[0] != "Sideways" {
		t.Errorf("patterns = %v, want [Sideways] on a flat demo series", snapshot.Patterns)
	}
}

// A 200-bar crypto success must surface exactly the 50 most recent closes,
// oldest-to-newest order preserved.
func TestGetSnapshot_HistoricalDataCappedAtFifty(t *testing.T) {
	series := risingSeries(200)
	registry := map[model.AssetClass][]provider.Provider{
		model.AssetCrypto: {&fixedSeriesProvider{series: series}},
	}
	s := newTestSnapshotService(registry)

	snapshot := s.GetSnapshot(context.Background(), &model.SnapshotRequest{
		Symbol:    "BTCUSD",
		Timeframe: "1H",
	})

	if snapshot.Source != "fixed" {
		t.Fatalf("source = %q, want fixed", snapshot.Source)
	}
	if len(snapshot.HistoricalData) != 50 {
		t.Fatalf("historicalData length = %d, want 50", len(snapshot.HistoricalData))
	}
	for i := 0; i < 50; i++ {
		want := series.Closes[150+i]
		if snapshot.HistoricalData[i] != want {
			t.Fatalf("historicalData[%d] = %v, want %v", i, snapshot.HistoricalData[i], want)
		}
	}
}

func TestGetSnapshot_SupportResistanceAroundPrice(t *testing.T) {
	registry := map[model.AssetClass][]provider.Provider{}
	s := newTestSnapshotService(registry)

	snapshot := s.GetSnapshot(context.Background(), &model.SnapshotRequest{
		Symbol:    "ACME",
		Timeframe: "1D",
	})

	sr := snapshot.SupportResistance
	if len(sr.Support) != 3 || len(sr.Resistance) != 3 {
		t.Fatalf("expected 3 support and 3 resistance levels, got %d/%d", len(sr.Support), len(sr.Resistance))
	}
	for _, level := range sr.Support {
		if level >= snapshot.Price {
			t.Errorf("support level %v not below price %v", level, snapshot.Price)
		}
	}
	for _, level := range sr.Resistance {
		if level <= snapshot.Price {
			t.Errorf("resistance level %v not above price %v", level, snapshot.Price)
		}
	}
}

type fixedSeriesProvider struct {
	series *model.OHLCVSeries
}

func (f *fixedSeriesProvider) Name() string { return "fixed" }

func (f *fixedSeriesProvider) Fetch(_ context.Context, _, _, _ string) (*provider.Result, error) {
	return &provider.Result{
		Series: f.series,
		Quote:  model.Quote{Price: f.series.LastClose(), LastUpdate: "2024-01-01T00:00:00Z"},
		Source: "fixed",
	}, nil
}
