package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/cache/mocks"
)

func stringRead(store KeyValueStore, key string) ReadFunc[string] {
	return func(ctx context.Context) (string, bool, error) {
		v, ok := store.Get(ctx, key)
		return v, ok, nil
	}
}

func TestResolveHitSkipsFallback(t *testing.T) {
	store := new(mocks.KeyValueStore)
	store.On("Get", mock.Anything, "k").Return("cached", true)

	fallbackCalls := 0
	fallback := func(ctx context.Context) (string, bool, error) {
		fallbackCalls++
		return "computed", true, nil
	}

	got, found, err := Resolve(context.Background(), store, zap.NewNop(), "k", time.Minute,
		stringRead(store, "k"), fallback)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "cached", got)
	assert.Zero(t, fallbackCalls)

	// A hit returns immediately; nothing is written back.
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveMissComputesAndWritesBack(t *testing.T) {
	store := new(mocks.KeyValueStore)
	store.On("Get", mock.Anything, "k").Return("", false)
	store.On("Set", mock.Anything, "k", "computed", time.Minute).Return(true)

	fallback := func(ctx context.Context) (string, bool, error) {
		return "computed", true, nil
	}

	got, found, err := Resolve(context.Background(), store, zap.NewNop(), "k", time.Minute,
		stringRead(store, "k"), fallback)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "computed", got)
	store.AssertExpectations(t)
}

func TestResolveFallbackAbsence(t *testing.T) {
	store := new(mocks.KeyValueStore)
	store.On("Get", mock.Anything, "k").Return("", false)

	fallback := func(ctx context.Context) (string, bool, error) {
		return "", false, nil
	}

	_, found, err := Resolve(context.Background(), store, zap.NewNop(), "k", time.Minute,
		stringRead(store, "k"), fallback)
	require.NoError(t, err)
	assert.False(t, found)

	// Absence is not cached.
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveFallbackErrorPropagates(t *testing.T) {
	store := new(mocks.KeyValueStore)
	store.On("Get", mock.Anything, "k").Return("", false)

	fallback := func(ctx context.Context) (string, bool, error) {
		return "", false, assert.AnError
	}

	_, found, err := Resolve(context.Background(), store, zap.NewNop(), "k", time.Minute,
		stringRead(store, "k"), fallback)
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, found)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveWriteBackFailureIsNotFatal(t *testing.T) {
	store := new(mocks.KeyValueStore)
	store.On("Get", mock.Anything, "k").Return("", false)
	store.On("Set", mock.Anything, "k", "computed", time.Minute).Return(false)

	fallback := func(ctx context.Context) (string, bool, error) {
		return "computed", true, nil
	}

	got, found, err := Resolve(context.Background(), store, zap.NewNop(), "k", time.Minute,
		stringRead(store, "k"), fallback)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "computed", got)
}

func TestResolveReadErrorFallsThrough(t *testing.T) {
	store := new(mocks.KeyValueStore)
	store.On("Set", mock.Anything, "k", "computed", time.Minute).Return(true)

	read := func(ctx context.Context) (string, bool, error) {
		return "", false, assert.AnError
	}
	fallback := func(ctx context.Context) (string, bool, error) {
		return "computed", true, nil
	}

	// A failing read is a miss, never an error for the caller.
	got, found, err := Resolve(context.Background(), store, zap.NewNop(), "k", time.Minute, read, fallback)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "computed", got)
}
