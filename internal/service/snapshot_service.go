package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/market-snapshot-service/internal/cache"
	"github.com/yourorg/market-snapshot-service/internal/indicator"
	"github.com/yourorg/market-snapshot-service/internal/metrics"
	"github.com/yourorg/market-snapshot-service/internal/model"
	"github.com/yourorg/market-snapshot-service/internal/provider"
)

// historyLimit caps historicalData at the most recent closes, oldest-first.
const historyLimit = 50

// SnapshotService assembles market snapshots: acquire a series through the
// fallback orchestrator, run the indicator engine and heuristics over it, and
// combine everything into the response payload.
type SnapshotService struct {
	orchestrator *Orchestrator
	cache        *cache.SnapshotCache
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewSnapshotService creates a snapshot service. cache and m may be nil.
func NewSnapshotService(orchestrator *Orchestrator, c *cache.SnapshotCache, m *metrics.Metrics, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{
		orchestrator: orchestrator,
		cache:        c,
		metrics:      m,
		logger:       logger,
	}
}

// GetSnapshot produces a complete snapshot for the request. Acquisition is
// total (the orchestrator terminates in the synthetic generator) and the
// indicator engine never errors, so this always returns a well-formed
// snapshot. Cache failures are logged and ignored.
func (s *SnapshotService) GetSnapshot(ctx context.Context, req *model.SnapshotRequest) *model.MarketSnapshot {
	start := time.Now()

	if cached, err := s.cache.Get(ctx, req.Symbol, req.Timeframe); err != nil {
		s.logger.Warn("Snapshot cache lookup failed", zap.Error(err))
	} else if cached != nil {
		s.metrics.RecordCacheHit()
		return cached
	} else {
		s.metrics.RecordCacheMiss()
	}

	class := ClassifyAssetClass(req.Symbol)
	result := s.orchestrator.Acquire(ctx, req.Symbol, req.Timeframe, class, req.APIKeys)

	snapshot := s.assemble(req.Symbol, result)

	if err := s.cache.Set(ctx, req.Timeframe, snapshot); err != nil {
		s.logger.Warn("Snapshot cache store failed", zap.Error(err))
	}
	s.metrics.RecordSnapshotDuration(time.Since(start).Seconds())

	return snapshot
}

func (s *SnapshotService) assemble(symbol string, result *provider.Result) *model.MarketSnapshot {
	indicators := indicator.Compute(result.Series)
	patterns := indicator.DetectPatterns(result.Series.Closes)
	support, resistance := indicator.SupportResistance(result.Quote.Price)

	return &model.MarketSnapshot{
		Symbol:        symbol,
		Source:        result.Source,
		Price:         result.Quote.Price,
		Change:        result.Quote.Change,
		ChangePercent: result.Quote.ChangePercent,
		Volume:        result.Quote.Volume,
		High24h:       result.Quote.High24h,
		Low24h:        result.Quote.Low24h,
		Bid:           result.Quote.Bid,
		Ask:           result.Quote.Ask,
		LastUpdate:    result.Quote.LastUpdate,
		Indicators:    indicators,
		Patterns:      patterns,
		SupportResistance: model.SupportResistance{
			Support:    support,
			Resistance: resistance,
		},
		HistoricalData: result.Series.TailCloses(historyLimit),
		Note:           result.Note,
	}
}
