package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yourorg/market-snapshot-service/internal/model"
)

// SnapshotCache memoizes assembled snapshots in Redis for a short TTL so a
// burst of requests for the same symbol does not hammer the upstream
// providers. It is a response memo, not bar storage.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New connects to Redis and verifies the connection. redisURL uses the
// redis:// scheme.
func New(redisURL string, ttl time.Duration, logger *zap.Logger) (*SnapshotCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &SnapshotCache{client: client, ttl: ttl, logger: logger}, nil
}

func cacheKey(symbol, timeframe string) string {
	return fmt.Sprintf("snapshot:%s:%s", symbol, timeframe)
}

// Get fetches a cached snapshot. A missing key is a miss, not an error.
// A nil cache always misses.
func (c *SnapshotCache) Get(ctx context.Context, symbol, timeframe string) (*model.MarketSnapshot, error) {
	if c == nil {
		return nil, nil
	}
	jsonBytes, err := c.client.Get(ctx, cacheKey(symbol, timeframe)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis GET failed: %w", err)
	}

	var snapshot model.MarketSnapshot
	if err := json.Unmarshal(jsonBytes, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal cached snapshot: %w", err)
	}
	return &snapshot, nil
}

// Set stores a snapshot under the configured TTL. A nil cache is a no-op.
func (c *SnapshotCache) Set(ctx context.Context, timeframe string, snapshot *model.MarketSnapshot) error {
	if c == nil {
		return nil
	}
	jsonBytes, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(snapshot.Symbol, timeframe), jsonBytes, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection. A nil cache is a no-op.
func (c *SnapshotCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
