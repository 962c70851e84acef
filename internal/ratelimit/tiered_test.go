package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/cache"
	"github.com/cliplink/cliplink/internal/cache/memory"
)

func TestTieredBurstRejection(t *testing.T) {
	store := memory.New()
	limiter := NewTiered(store, zap.NewNop(), nil)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return base }

	ctx := context.Background()

	for i := 0; i < 10; i++ {
		d := limiter.Allow(ctx, "10.0.0.5")
		require.True(t, d.Allowed, "request %d should be admitted", i+1)
	}

	d := limiter.Allow(ctx, "10.0.0.5")
	assert.False(t, d.Allowed)
	assert.Equal(t, "burst", d.Tier)
	assert.Equal(t, int64(10), d.Limit)
	assert.Equal(t, 10*time.Second, d.RetryAfter)
}

func TestTieredShortCircuit(t *testing.T) {
	store := memory.New()
	limiter := NewTiered(store, zap.NewNop(), nil)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return base }

	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.True(t, limiter.Allow(ctx, "10.0.0.5").Allowed)
	}
	require.False(t, limiter.Allow(ctx, "10.0.0.5").Allowed)
	require.False(t, limiter.Allow(ctx, "10.0.0.5").Allowed)

	// The two rejected requests never reached the minute tier, so its
	// counter only holds the ten admitted requests.
	minuteKey := cache.RateLimitKey(fmt.Sprintf("10.0.0.5:minute:%d", base.Unix()/60))
	raw, ok := store.Get(ctx, minuteKey)
	require.True(t, ok)
	assert.Equal(t, "10", raw)
}

func TestTieredMinuteTierRejects(t *testing.T) {
	store := memory.New()
	tiers := []Tier{
		{Name: "burst", Limit: 1000, Window: 10 * time.Second},
		{Name: "minute", Limit: 5, Window: time.Minute},
	}
	limiter := NewTiered(store, zap.NewNop(), tiers)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return base }

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.True(t, limiter.Allow(ctx, "1.2.3.4").Allowed)
	}

	d := limiter.Allow(ctx, "1.2.3.4")
	assert.False(t, d.Allowed)
	assert.Equal(t, "minute", d.Tier)
	assert.Equal(t, time.Minute, d.RetryAfter)

	// The burst counter keeps counting rejected requests' earlier tiers.
	burstKey := cache.RateLimitKey(fmt.Sprintf("1.2.3.4:burst:%d", base.Unix()/10))
	raw, ok := store.Get(ctx, burstKey)
	require.True(t, ok)
	assert.Equal(t, "6", raw)
}

func TestTieredRemainingTracksTightestTier(t *testing.T) {
	store := memory.New()
	tiers := []Tier{
		{Name: "burst", Limit: 100, Window: 10 * time.Second},
		{Name: "minute", Limit: 3, Window: time.Minute},
	}
	limiter := NewTiered(store, zap.NewNop(), tiers)
	ctx := context.Background()

	d := limiter.Allow(ctx, "1.2.3.4")
	require.True(t, d.Allowed)
	assert.Equal(t, int64(3), d.Limit)
	assert.Equal(t, int64(2), d.Remaining)
}

func TestTieredDefaultTiers(t *testing.T) {
	limiter := NewTiered(memory.New(), zap.NewNop(), nil)
	require.Len(t, limiter.tiers, 3)
	assert.Equal(t, "burst", limiter.tiers[0].Name)
	assert.Equal(t, "minute", limiter.tiers[1].Name)
	assert.Equal(t, "hour", limiter.tiers[2].Name)
}
