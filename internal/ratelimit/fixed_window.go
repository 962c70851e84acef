package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/cache"
)

// FixedWindow is a single-tier fixed-window limiter built on the cache
// client's increment/expire primitives.
//
// Time is bucketed into disjoint, contiguous windows by integer division of
// unix time; the counter key embeds the window index so counters for expired
// windows simply age out. The increment and the expire are two separate round
// trips, not an atomic pair: a crash between them can leave a counter without
// a refreshed TTL, which self-heals on the next increment in the same window.
type FixedWindow struct {
	store  cache.KeyValueStore
	log    *zap.Logger
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewFixedWindow creates a single-tier limiter admitting limit requests per
// window
func NewFixedWindow(store cache.KeyValueStore, log *zap.Logger, limit int64, window time.Duration) *FixedWindow {
	return &FixedWindow{
		store:  store,
		log:    log,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow checks and consumes one unit of the client's budget
func (f *FixedWindow) Allow(ctx context.Context, clientID string) Decision {
	count, rejected := checkTier(ctx, f.store, clientID, "", f.limit, f.window, f.now())
	if rejected {
		return Decision{
			Allowed:    false,
			Limit:      f.limit,
			Remaining:  0,
			RetryAfter: f.window,
		}
	}
	return Decision{
		Allowed:   true,
		Limit:     f.limit,
		Remaining: max(f.limit-count-1, 0),
	}
}

// Status reports the client's standing in the current window without
// consuming budget
func (f *FixedWindow) Status(ctx context.Context, clientID string) Status {
	now := f.now()
	windowSeconds := int64(f.window / time.Second)
	index := now.Unix() / windowSeconds

	count := readCount(ctx, f.store, counterKey(clientID, "", index))
	return Status{
		RequestsMade:  count,
		RequestsLimit: f.limit,
		Remaining:     max(f.limit-count, 0),
		WindowSeconds: windowSeconds,
		ResetTime:     (index + 1) * windowSeconds,
	}
}

// checkTier runs one fixed-window admission check. It returns the count
// observed before the check and whether the tier rejected. On admission the
// counter is incremented and its TTL refreshed to the window length, so a
// counter outlives its window by at most one expire-propagation delay.
func checkTier(ctx context.Context, store cache.KeyValueStore, clientID, tier string, limit int64, window time.Duration, now time.Time) (int64, bool) {
	windowSeconds := int64(window / time.Second)
	index := now.Unix() / windowSeconds
	key := counterKey(clientID, tier, index)

	count := readCount(ctx, store, key)
	if count >= limit {
		return count, true
	}

	// Backend failure on either call falls through to admission: fail-open.
	if _, ok := store.Increment(ctx, key, 1); ok {
		store.Expire(ctx, key, window)
	}
	return count, false
}

// readCount reads a counter, treating misses and backend failures as zero
func readCount(ctx context.Context, store cache.KeyValueStore, key string) int64 {
	raw, ok := store.Get(ctx, key)
	if !ok {
		return 0
	}
	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return count
}

func counterKey(clientID, tier string, index int64) string {
	if tier == "" {
		return cache.RateLimitKey(fmt.Sprintf("%s:%d", clientID, index))
	}
	return cache.RateLimitKey(fmt.Sprintf("%s:%s:%d", clientID, tier, index))
}

// Ensure FixedWindow implements the interface
var _ Limiter = (*FixedWindow)(nil)
