package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/market-snapshot-service/internal/metrics"
	"github.com/yourorg/market-snapshot-service/internal/model"
	"github.com/yourorg/market-snapshot-service/internal/provider"
)

// Orchestrator tries an ordered list of provider adapters per asset class and
// returns the first success. The synthetic generator is the guaranteed
// terminal step, so Acquire never fails: every provider error is recovered
// here, logged, and never propagated to the caller.
type Orchestrator struct {
	registry  map[model.AssetClass][]provider.Provider
	synthetic *provider.SyntheticGenerator
	timeout   time.Duration
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewOrchestrator creates a fallback orchestrator. registry holds the ordered
// adapter chains; timeout bounds each individual provider call.
func NewOrchestrator(
	registry map[model.AssetClass][]provider.Provider,
	synthetic *provider.SyntheticGenerator,
	timeout time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		registry:  registry,
		synthetic: synthetic,
		timeout:   timeout,
		metrics:   m,
		logger:    logger,
	}
}

// Acquire walks the asset class's adapter chain in order. The first success
// short-circuits the remaining adapters. A timed-out call counts as a plain
// failure and the next adapter is tried; there is no retry of the same
// adapter. With zero adapters configured, or all of them failing, the
// synthetic generator supplies the result.
func (o *Orchestrator) Acquire(ctx context.Context, symbol, timeframe string, class model.AssetClass, apiKeys map[string]string) *provider.Result {
	for _, p := range o.registry[class] {
		callCtx, cancel := context.WithTimeout(ctx, o.timeout)
		result, err := p.Fetch(callCtx, symbol, timeframe, apiKeys[p.Name()])
		cancel()

		if err != nil {
			o.metrics.RecordProviderAttempt(p.Name(), "failure")
			o.logger.Warn("Provider failed, trying next",
				zap.String("provider", p.Name()),
				zap.String("symbol", symbol),
				zap.Error(err))
			continue
		}
		if result == nil || result.Series == nil || result.Series.Len() == 0 {
			o.metrics.RecordProviderAttempt(p.Name(), "failure")
			o.logger.Warn("Provider returned empty result, trying next",
				zap.String("provider", p.Name()),
				zap.String("symbol", symbol))
			continue
		}

		o.metrics.RecordProviderAttempt(p.Name(), "success")
		o.logger.Info("Acquired market data",
			zap.String("provider", p.Name()),
			zap.String("symbol", symbol),
			zap.Int("bars", result.Series.Len()),
			zap.Bool("degraded", result.Degraded))
		return result
	}

	o.metrics.RecordProviderAttempt("synthetic", "success")
	o.logger.Info("All providers exhausted, generating demo data",
		zap.String("symbol", symbol),
		zap.String("assetClass", string(class)))
	return o.synthetic.Generate(symbol, class)
}
