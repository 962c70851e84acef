package cache

import (
	"context"
	"time"
)

// KeyValueStore defines the interface for the remote key-value cache.
//
// The cache is an accelerator, never a source of truth: implementations catch
// transport and decode failures internally, log them, and degrade to a neutral
// value (miss/false/zero) instead of returning an error. Each call issues one
// round trip to the backing store.
type KeyValueStore interface {
	// Get retrieves the raw string value for a key. The boolean reports a hit;
	// a missing key and a backend failure both report a miss.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a value with the given TTL. A zero TTL stores without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) bool

	// GetJSON retrieves and decodes a JSON value into dest. Decode failures are
	// treated as a miss, not an error.
	GetJSON(ctx context.Context, key string, dest any) bool

	// SetJSON encodes value as JSON and stores it with the given TTL
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) bool

	// Delete removes a key, reporting whether the delete was issued successfully
	Delete(ctx context.Context, key string) bool

	// Exists reports whether a key is present
	Exists(ctx context.Context, key string) bool

	// Increment atomically adds amount to the integer stored at key, creating
	// it at zero first if absent. The boolean is false on backend failure.
	Increment(ctx context.Context, key string, amount int64) (int64, bool)

	// Expire sets the TTL on an existing key
	Expire(ctx context.Context, key string, ttl time.Duration) bool

	// HealthCheck round-trips a ping to the backing store
	HealthCheck(ctx context.Context) bool

	// Close releases the underlying connections
	Close() error
}
