package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/market-snapshot-service/internal/model"
	"github.com/yourorg/market-snapshot-service/internal/provider"
)

type stubProvider struct {
	name    string
	succeed bool
	calls   int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(_ context.Context, _, _, _ string) (*provider.Result, error) {
	s.calls++
	if !s.succeed {
		return nil, errors.New("stub failure")
	}
	return &provider.Result{
		Series: risingSeries(10),
		Quote:  model.Quote{Price: 100, LastUpdate: "2024-01-01T00:00:00Z"},
		Source: "stub:" + s.name,
	}, nil
}

func risingSeries(n int) *model.OHLCVSeries {
	s := &model.OHLCVSeries{}
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		s.Closes = append(s.Closes, c)
		s.Highs = append(s.Highs, c+1)
		s.Lows = append(s.Lows, c-1)
		s.Volumes = append(s.Volumes, 1000)
	}
	return s
}

func newTestOrchestrator(registry map[model.AssetClass][]provider.Provider) *Orchestrator {
	return NewOrchestrator(registry, provider.NewSyntheticGenerator(), time.Second, nil, zap.NewNop())
}

// Walks every success/failure combination of a three-adapter chain and checks
// that the first success short-circuits the rest, and that only the all-fail
// case reaches the synthetic generator.
func TestAcquire_FirstSuccessShortCircuits(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		a := &stubProvider{name: "a", succeed: mask&4 != 0}
		b := &stubProvider{name: "b", succeed: mask&2 != 0}
		c := &stubProvider{name: "c", succeed: mask&1 != 0}
		chain := []*stubProvider{a, b, c}

		o := newTestOrchestrator(map[model.AssetClass][]provider.Provider{
			model.AssetStock: {a, b, c},
		})
		result := o.Acquire(context.Background(), "ACME", "1H", model.AssetStock, nil)

		firstSuccess := -1
		for i, p := range chain {
			if p.succeed {
				firstSuccess = i
				break
			}
		}

		if firstSuccess == -1 {
			if result.Source != provider.DemoDataSource {
				t.Errorf("mask %03b: all failed, source = %q, want %q", mask, result.Source, provider.DemoDataSource)
			}
			for _, p := range chain {
				if p.calls != 1 {
					t.Errorf("mask %03b: provider %s called %d times, want 1", mask, p.name, p.calls)
				}
			}
			continue
		}

		want := fmt.Sprintf("stub:%s", chain[firstSuccess].name)
		if result.Source != want {
			t.Errorf("mask %03b: source = %q, want %q", mask, result.Source, want)
		}
		for i, p := range chain {
			wantCalls := 0
			if i <= firstSuccess {
				wantCalls = 1
			}
			if p.calls != wantCalls {
				t.Errorf("mask %03b: provider %s called %d times, want %d", mask, p.name, p.calls, wantCalls)
			}
		}
	}
}

func TestAcquire_NoAdaptersConfigured(t *testing.T) {
	o := newTestOrchestrator(map[model.AssetClass][]provider.Provider{})
	result := o.Acquire(context.Background(), "EURUSD", "1H", model.AssetForex, nil)
	if result.Source != provider.DemoDataSource {
		t.Errorf("source = %q, want %q", result.Source, provider.DemoDataSource)
	}
	if result.Quote.Price != 1.085 {
		t.Errorf("forex demo price = %v, want 1.085", result.Quote.Price)
	}
}

// An adapter returning an empty series counts as a failure, never as success.
func TestAcquire_EmptySeriesIsFailure(t *testing.T) {
	empty := &emptySeriesProvider{}
	o := newTestOrchestrator(map[model.AssetClass][]provider.Provider{
		model.AssetStock: {empty},
	})
	result := o.Acquire(context.Background(), "ACME", "1H", model.AssetStock, nil)
	if result.Source != provider.DemoDataSource {
		t.Errorf("source = %q, want synthetic fallback", result.Source)
	}
}

type emptySeriesProvider struct{}

func (e *emptySeriesProvider) Name() string { return "empty" }

func (e *emptySeriesProvider) Fetch(_ context.Context, _, _, _ string) (*provider.Result, error) {
	return &provider.Result{Series: &model.OHLCVSeries{}, Source: "empty"}, nil
}

func TestAcquire_APIKeysRoutedByProviderName(t *testing.T) {
	kp := &keyCapturingProvider{}
	o := newTestOrchestrator(map[model.AssetClass][]provider.Provider{
		model.AssetStock: {kp},
	})
	o.Acquire(context.Background(), "ACME", "1H", model.AssetStock, map[string]string{
		"keycheck": "secret-key",
		"other":    "wrong-key",
	})
	if kp.gotKey != "secret-key" {
		t.Errorf("provider received key %q, want secret-key", kp.gotKey)
	}
}

type keyCapturingProvider struct {
	gotKey string
}

func (k *keyCapturingProvider) Name() string { return "keycheck" }

func (k *keyCapturingProvider) Fetch(_ context.Context, _, _, apiKey string) (*provider.Result, error) {
	k.gotKey = apiKey
	return nil, errors.New("key captured")
}
