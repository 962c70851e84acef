package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// KeyValueStore is a mock implementation of cache.KeyValueStore
type KeyValueStore struct {
	mock.Mock
}

// Get retrieves the raw string value for a key
func (m *KeyValueStore) Get(ctx context.Context, key string) (string, bool) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1)
}

// Set stores a value with the given TTL
func (m *KeyValueStore) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0)
}

// GetJSON retrieves and decodes a JSON value into dest
func (m *KeyValueStore) GetJSON(ctx context.Context, key string, dest any) bool {
	args := m.Called(ctx, key, dest)
	return args.Bool(0)
}

// SetJSON encodes value as JSON and stores it with the given TTL
func (m *KeyValueStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) bool {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0)
}

// Delete removes a key
func (m *KeyValueStore) Delete(ctx context.Context, key string) bool {
	args := m.Called(ctx, key)
	return args.Bool(0)
}

// Exists reports whether a key is present
func (m *KeyValueStore) Exists(ctx context.Context, key string) bool {
	args := m.Called(ctx, key)
	return args.Bool(0)
}

// Increment adds amount to the integer stored at key
func (m *KeyValueStore) Increment(ctx context.Context, key string, amount int64) (int64, bool) {
	args := m.Called(ctx, key, amount)
	return args.Get(0).(int64), args.Bool(1)
}

// Expire sets the TTL on an existing key
func (m *KeyValueStore) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0)
}

// HealthCheck round-trips a ping
func (m *KeyValueStore) HealthCheck(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// Close releases the underlying connections
func (m *KeyValueStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
