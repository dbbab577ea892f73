package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a small JSON cache over Redis for the dashboard aggregates.
// All methods degrade to cache misses on Redis errors so a flaky Redis
// never takes the dashboard down.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewCache connects to Redis at redisURL (redis:// form) and verifies
// connectivity.
func NewCache(ctx context.Context, redisURL string, ttl time.Duration, logger *zap.SugaredLogger) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}, nil
}

// GetJSON loads the value at key into dest. Returns false on miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.logger.Warnw("Cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warnw("Cache entry corrupt, ignoring", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON stores value at key with the cache TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warnw("Cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops the given keys, e.g. after a new complaint lands.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warnw("Cache invalidation failed", "keys", keys, "error", err)
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
