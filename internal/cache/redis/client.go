package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/cache"
)

var (
	opResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cliplink_cache_operations_total",
		Help: "Cache operations by type and outcome.",
	}, []string{"op", "outcome"})
)

// Client implements cache.KeyValueStore against a Redis server.
//
// Every operation catches transport failures internally and degrades to a
// neutral value; the cache is an accelerator, never a source of truth, and a
// Redis outage must not surface as request errors.
type Client struct {
	rdb *redis.Client
	log *zap.Logger
}

// Config holds the connection settings for the Redis client
type Config struct {
	// URL is a redis:// connection string
	URL string
	// PoolSize caps the number of pooled connections (0 uses the driver default)
	PoolSize int
}

// New creates a Redis-backed store. Connection failure at startup is logged
// but not fatal: the client degrades to all-miss behavior until the server
// becomes reachable.
func New(cfg Config, log *zap.Logger) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.ConnMaxIdleTime = 5 * time.Minute

	c := &Client{
		rdb: redis.NewClient(opts),
		log: log,
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable at startup, continuing degraded", zap.Error(err))
	}

	return c, nil
}

// Get retrieves the raw string value for a key
func (c *Client) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Error("redis GET failed", zap.String("key", key), zap.Error(err))
			opResults.WithLabelValues("get", "error").Inc()
		} else {
			opResults.WithLabelValues("get", "miss").Inc()
		}
		return "", false
	}
	opResults.WithLabelValues("get", "hit").Inc()
	return val, true
}

// Set stores a value with the given TTL. A zero TTL stores without expiry.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Error("redis SET failed", zap.String("key", key), zap.Error(err))
		opResults.WithLabelValues("set", "error").Inc()
		return false
	}
	opResults.WithLabelValues("set", "ok").Inc()
	return true
}

// GetJSON retrieves and decodes a JSON value into dest. Decode failures are
// treated as a miss.
func (c *Client) GetJSON(ctx context.Context, key string, dest any) bool {
	raw, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.log.Error("redis GET JSON decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetJSON encodes value as JSON and stores it with the given TTL
func (c *Client) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Error("redis SET JSON encode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return c.Set(ctx, key, string(raw), ttl)
}

// Delete removes a key
func (c *Client) Delete(ctx context.Context, key string) bool {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.log.Error("redis DEL failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Exists reports whether a key is present
func (c *Client) Exists(ctx context.Context, key string) bool {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		c.log.Error("redis EXISTS failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return n > 0
}

// Increment atomically adds amount to the integer stored at key
func (c *Client) Increment(ctx context.Context, key string, amount int64) (int64, bool) {
	n, err := c.rdb.IncrBy(ctx, key, amount).Result()
	if err != nil {
		c.log.Error("redis INCRBY failed", zap.String("key", key), zap.Error(err))
		return 0, false
	}
	return n, true
}

// Expire sets the TTL on an existing key
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	ok, err := c.rdb.Expire(ctx, key, ttl).Result()
	if err != nil {
		c.log.Error("redis EXPIRE failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

// HealthCheck round-trips a ping
func (c *Client) HealthCheck(ctx context.Context) bool {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		c.log.Error("redis health check failed", zap.Error(err))
		return false
	}
	return true
}

// Close releases the connection pool
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ensure Client implements the interface
var _ cache.KeyValueStore = (*Client)(nil)
