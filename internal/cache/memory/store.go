package memory

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/cliplink/cliplink/internal/cache"
)

// Store implements cache.KeyValueStore with in-process storage. It backs
// single-instance deployments that run without a cache server, and doubles as
// the substitutable fake in tests. TTLs are honored lazily on read using the
// injected clock.
type Store struct {
	mutex sync.Mutex
	data  map[string]*entry
	now   func() time.Time
}

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// New creates an in-memory store using the wall clock
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock creates an in-memory store with a caller-supplied clock
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		data: make(map[string]*entry),
		now:  now,
	}
}

// Get retrieves the raw string value for a key
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, ok := s.live(key)
	if !ok {
		return "", false
	}
	return e.value, true
}

// Set stores a value with the given TTL
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e := &entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.data[key] = e
	return true
}

// GetJSON retrieves and decodes a JSON value into dest. A decode failure is a
// miss.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) bool {
	raw, ok := s.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false
	}
	return true
}

// SetJSON encodes value as JSON and stores it with the given TTL
func (s *Store) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	return s.Set(ctx, key, string(raw), ttl)
}

// Delete removes a key
func (s *Store) Delete(ctx context.Context, key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, key)
	return true
}

// Exists reports whether a key is present
func (s *Store) Exists(ctx context.Context, key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, ok := s.live(key)
	return ok
}

// Increment adds amount to the integer stored at key, creating it at zero
// first if absent. Non-numeric existing values report failure, matching the
// backing store's behavior.
func (s *Store) Increment(ctx context.Context, key string, amount int64) (int64, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	current := int64(0)
	if e, ok := s.live(key); ok {
		parsed, err := strconv.ParseInt(e.value, 10, 64)
		if err != nil {
			return 0, false
		}
		current = parsed
	}

	next := current + amount
	var expiresAt time.Time
	if e, ok := s.data[key]; ok {
		expiresAt = e.expiresAt
	}
	s.data[key] = &entry{value: strconv.FormatInt(next, 10), expiresAt: expiresAt}
	return next, true
}

// Expire sets the TTL on an existing key
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, ok := s.live(key)
	if !ok {
		return false
	}
	e.expiresAt = s.now().Add(ttl)
	return true
}

// HealthCheck always succeeds for the in-process store
func (s *Store) HealthCheck(ctx context.Context) bool {
	return true
}

// Close is a no-op for the in-process store
func (s *Store) Close() error {
	return nil
}

// live returns the entry for key if present and unexpired, reaping it
// otherwise. Callers must hold the mutex.
func (s *Store) live(key string) (*entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.data, key)
		return nil, false
	}
	return e, true
}

// Ensure Store implements the interface
var _ cache.KeyValueStore = (*Store)(nil)
