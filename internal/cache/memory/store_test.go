package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetGet(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.True(t, store.Set(ctx, "k", "v", time.Minute))
	got, ok := store.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	_, ok = store.Get(ctx, "absent")
	assert.False(t, ok)
}

func TestStoreExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewWithClock(func() time.Time { return now })
	ctx := context.Background()

	store.Set(ctx, "k", "v", 10*time.Second)
	_, ok := store.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(11 * time.Second)
	_, ok = store.Get(ctx, "k")
	assert.False(t, ok)
	assert.False(t, store.Exists(ctx, "k"))
}

func TestStoreJSONRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.True(t, store.SetJSON(ctx, "k", doc{Name: "a", Count: 3}, time.Minute))

	var got doc
	require.True(t, store.GetJSON(ctx, "k", &got))
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, 3, got.Count)

	// Malformed stored values read as misses.
	store.Set(ctx, "bad", "{not json", time.Minute)
	assert.False(t, store.GetJSON(ctx, "bad", &got))
}

func TestStoreDelete(t *testing.T) {
	store := New()
	ctx := context.Background()

	store.Set(ctx, "k", "v", time.Minute)
	assert.True(t, store.Delete(ctx, "k"))
	assert.False(t, store.Exists(ctx, "k"))
}

func TestStoreIncrement(t *testing.T) {
	store := New()
	ctx := context.Background()

	n, ok := store.Increment(ctx, "counter", 1)
	require.True(t, ok)
	assert.Equal(t, int64(1), n)

	n, ok = store.Increment(ctx, "counter", 4)
	require.True(t, ok)
	assert.Equal(t, int64(5), n)

	// Non-numeric values cannot be incremented.
	store.Set(ctx, "text", "abc", time.Minute)
	_, ok = store.Increment(ctx, "text", 1)
	assert.False(t, ok)
}

func TestStoreIncrementKeepsExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewWithClock(func() time.Time { return now })
	ctx := context.Background()

	store.Set(ctx, "counter", "1", 10*time.Second)
	store.Increment(ctx, "counter", 1)

	now = now.Add(11 * time.Second)
	_, ok := store.Get(ctx, "counter")
	assert.False(t, ok)
}

func TestStoreExpire(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewWithClock(func() time.Time { return now })
	ctx := context.Background()

	store.Set(ctx, "k", "v", time.Hour)
	assert.True(t, store.Expire(ctx, "k", 5*time.Second))
	assert.False(t, store.Expire(ctx, "absent", 5*time.Second))

	now = now.Add(6 * time.Second)
	assert.False(t, store.Exists(ctx, "k"))
}

func TestStoreHealthCheck(t *testing.T) {
	store := New()
	assert.True(t, store.HealthCheck(context.Background()))
	assert.NoError(t, store.Close())
}
