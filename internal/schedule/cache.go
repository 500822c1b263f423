package schedule

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a read-through cache for per-provider schedules. Reads tolerate
// cache failure; writes to the schedule must invalidate synchronously, since a
// stale template can hand out slots outside actual working hours.
type Cache interface {
	Get(ctx context.Context, providerID string) (*ProviderSchedule, bool)
	Set(ctx context.Context, providerID string, s *ProviderSchedule)
	Invalidate(ctx context.Context, providerID string) error
}

// HitObserver receives cache hit/miss signals (satisfied by the metrics package).
type HitObserver interface {
	ObserveCacheHit(hit bool)
}

const cacheKeyPrefix = "schedule:provider:"

type redisCache struct {
	client   *redis.Client
	ttl      time.Duration
	log      *zap.Logger
	observer HitObserver
}

// NewRedisCache creates a Redis-backed schedule cache. The observer may be nil.
func NewRedisCache(client *redis.Client, ttl time.Duration, log *zap.Logger, observer HitObserver) Cache {
	return &redisCache{client: client, ttl: ttl, log: log, observer: observer}
}

func (c *redisCache) observe(hit bool) {
	if c.observer != nil {
		c.observer.ObserveCacheHit(hit)
	}
}

func (c *redisCache) Get(ctx context.Context, providerID string) (*ProviderSchedule, bool) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+providerID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("schedule cache get failed", zap.String("provider_id", providerID), zap.Error(err))
		}
		c.observe(false)
		return nil, false
	}

	var s ProviderSchedule
	if err := json.Unmarshal(raw, &s); err != nil {
		c.log.Warn("schedule cache entry corrupt", zap.String("provider_id", providerID), zap.Error(err))
		c.observe(false)
		return nil, false
	}

	c.observe(true)
	return &s, true
}

func (c *redisCache) Set(ctx context.Context, providerID string, s *ProviderSchedule) {
	raw, err := json.Marshal(s)
	if err != nil {
		c.log.Warn("schedule cache marshal failed", zap.String("provider_id", providerID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+providerID, raw, c.ttl).Err(); err != nil {
		c.log.Warn("schedule cache set failed", zap.String("provider_id", providerID), zap.Error(err))
	}
}

func (c *redisCache) Invalidate(ctx context.Context, providerID string) error {
	return c.client.Del(ctx, cacheKeyPrefix+providerID).Err()
}

// noopCache is used when Redis is not configured; every read is a miss.
type noopCache struct{}

// NewNoopCache returns a cache that stores nothing.
func NewNoopCache() Cache {
	return noopCache{}
}

func (noopCache) Get(ctx context.Context, providerID string) (*ProviderSchedule, bool) {
	return nil, false
}

func (noopCache) Set(ctx context.Context, providerID string, s *ProviderSchedule) {}

func (noopCache) Invalidate(ctx context.Context, providerID string) error { return nil }
