package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultResolveTTL is the write-back TTL used when a caller passes zero
const DefaultResolveTTL = 5 * time.Minute

// ReadFunc attempts a cache read. The boolean reports a hit. A returned error
// is treated by the resolver as a miss, never propagated.
type ReadFunc[T any] func(ctx context.Context) (T, bool, error)

// FallbackFunc computes the authoritative value on a miss. The boolean
// reports presence; an error is fatal to the resolution and is propagated.
type FallbackFunc[T any] func(ctx context.Context) (T, bool, error)

// Resolve implements the cache-aside read path: try the cache, fall back to
// the authoritative source on a miss, and repopulate the cache with the
// result.
//
// A cache hit is returned as-is with no freshness check against the
// authoritative source; staleness is bounded only by the TTL and explicit
// invalidation. The fallback runs at most once. Concurrent callers racing on
// the same key are not deduplicated: both may reach the authoritative source
// and both write back, which is acceptable because write-backs are idempotent
// value overwrites.
//
// The write-back is best-effort. Its outcome is logged and discarded; a
// failed write-back never fails the resolution.
func Resolve[T any](ctx context.Context, store KeyValueStore, log *zap.Logger, key string, ttl time.Duration, read ReadFunc[T], fallback FallbackFunc[T]) (T, bool, error) {
	if ttl <= 0 {
		ttl = DefaultResolveTTL
	}

	cached, hit, err := read(ctx)
	if err != nil {
		log.Warn("cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
	} else if hit {
		return cached, true, nil
	}

	value, found, err := fallback(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	if found {
		writeBack(ctx, store, log, key, value, ttl)
	}

	return value, found, nil
}

// writeBack stores the fallback result: strings as-is, everything else as
// JSON.
func writeBack(ctx context.Context, store KeyValueStore, log *zap.Logger, key string, value any, ttl time.Duration) {
	var ok bool
	if s, isString := value.(string); isString {
		ok = store.Set(ctx, key, s, ttl)
	} else {
		ok = store.SetJSON(ctx, key, value, ttl)
	}
	if !ok {
		log.Warn("cache write-back failed", zap.String("key", key))
		return
	}
	log.Debug("cache write-back", zap.String("key", key), zap.Duration("ttl", ttl))
}
