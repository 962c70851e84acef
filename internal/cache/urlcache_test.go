package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/domain"
)

// plainStore is a minimal in-process KeyValueStore for exercising the URL
// cache adapter without import cycles on the memory package.
type plainStore struct {
	values map[string]string
}

func newPlainStore() *plainStore {
	return &plainStore{values: make(map[string]string)}
}

func (s *plainStore) Get(ctx context.Context, key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *plainStore) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	s.values[key] = value
	return true
}

func (s *plainStore) GetJSON(ctx context.Context, key string, dest any) bool {
	raw, ok := s.values[key]
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

func (s *plainStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	s.values[key] = string(raw)
	return true
}

func (s *plainStore) Delete(ctx context.Context, key string) bool {
	delete(s.values, key)
	return true
}

func (s *plainStore) Exists(ctx context.Context, key string) bool {
	_, ok := s.values[key]
	return ok
}

func (s *plainStore) Increment(ctx context.Context, key string, amount int64) (int64, bool) {
	return 0, false
}

func (s *plainStore) Expire(ctx context.Context, key string, ttl time.Duration) bool { return true }
func (s *plainStore) HealthCheck(ctx context.Context) bool                           { return true }
func (s *plainStore) Close() error                                                   { return nil }

func testRecord() *domain.URLRecord {
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.URLRecord{
		ID:          uuid.New(),
		OriginalURL: "https://example.com/long",
		ShortCode:   "abc123",
		CreatedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		ExpiresAt:   &expires,
		IsActive:    true,
		CreatedBy:   "tester",
		Metadata:    map[string]any{"campaign": "launch"},
	}
}

func constantFallback(rec *domain.URLRecord, calls *int) FallbackFunc[*domain.URLRecord] {
	return func(ctx context.Context) (*domain.URLRecord, bool, error) {
		*calls++
		if rec == nil {
			return nil, false, nil
		}
		return rec, true, nil
	}
}

func TestURLCacheRoundTrip(t *testing.T) {
	store := newPlainStore()
	uc := NewURLCache(store, zap.NewNop(), 0, 0)
	ctx := context.Background()

	rec := testRecord()
	calls := 0

	got, found, err := uc.GetForRedirect(ctx, "abc123", constantFallback(rec, &calls))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, calls)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.OriginalURL, got.OriginalURL)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, got.ExpiresAt.Equal(*rec.ExpiresAt))
	assert.Equal(t, "launch", got.Metadata["campaign"])

	// The second resolution hits the cached copy.
	again, found, err := uc.GetForRedirect(ctx, "abc123", constantFallback(rec, &calls))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, calls)
	assert.Equal(t, rec.ID, again.ID)
}

func TestURLCacheAbsentCode(t *testing.T) {
	store := newPlainStore()
	uc := NewURLCache(store, zap.NewNop(), 0, 0)
	calls := 0

	_, found, err := uc.GetForLookup(context.Background(), "ghost1", constantFallback(nil, &calls))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, calls)

	// Absence is not cached: the next resolution asks again.
	_, found, err = uc.GetForLookup(context.Background(), "ghost1", constantFallback(nil, &calls))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 2, calls)
}

func TestURLCacheMalformedEntryIsMiss(t *testing.T) {
	store := newPlainStore()
	uc := NewURLCache(store, zap.NewNop(), 0, 0)
	ctx := context.Background()

	// A document with an unparsable ID cannot be decoded.
	store.values[URLByCodeKey("abc123")] = `{"id":"not-a-uuid","original_url":"https://example.com","short_code":"abc123","created_at":"2024-06-01T12:00:00Z","is_active":true}`

	rec := testRecord()
	calls := 0
	got, found, err := uc.GetForRedirect(ctx, "abc123", constantFallback(rec, &calls))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, calls)
	assert.Equal(t, rec.ID, got.ID)
}

func TestURLCacheStoreAndInvalidate(t *testing.T) {
	store := newPlainStore()
	uc := NewURLCache(store, zap.NewNop(), 0, 0)
	ctx := context.Background()

	rec := testRecord()
	require.True(t, uc.Store(ctx, rec))
	assert.True(t, store.Exists(ctx, URLByCodeKey("abc123")))

	require.True(t, uc.Invalidate(ctx, "abc123"))
	assert.False(t, store.Exists(ctx, URLByCodeKey("abc123")))
}

func TestURLCacheFallbackErrorPropagates(t *testing.T) {
	store := newPlainStore()
	uc := NewURLCache(store, zap.NewNop(), 0, 0)

	fallback := func(ctx context.Context) (*domain.URLRecord, bool, error) {
		return nil, false, assert.AnError
	}
	_, found, err := uc.GetForRedirect(context.Background(), "abc123", fallback)
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, found)
	assert.False(t, store.Exists(context.Background(), URLByCodeKey("abc123")))
}
