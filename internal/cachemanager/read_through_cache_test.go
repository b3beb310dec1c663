package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCacheManager(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "k", 42, time.Minute)
	v, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "a", 1, time.Minute)
	c.Set(ctx, "b", 2, time.Minute)
	require.NoError(t, c.Flush(ctx))
	_, ok = c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestReadThroughCache(t *testing.T) {
	ctx := context.Background()
	calls := 0
	loader := func(ctx context.Context, input string) (string, error) {
		calls++
		return "tokenized:" + input, nil
	}

	mem := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	rtc := NewReadThroughCache[string, string, string](mem, loader, false)

	v, err := rtc.Get(ctx, "file.cif@1", "file.cif", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "tokenized:file.cif", v)
	assert.Equal(t, 1, calls)

	// Second hit on the same key skips the loader.
	_, err = rtc.Get(ctx, "file.cif@1", "file.cif", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// A new mtime key reloads.
	_, err = rtc.Get(ctx, "file.cif@2", "file.cif", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestReadThroughCache_SkipCache(t *testing.T) {
	ctx := context.Background()
	calls := 0
	loader := func(ctx context.Context, input string) (string, error) {
		calls++
		return input, nil
	}

	mem := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	rtc := NewReadThroughCache[string, string, string](mem, loader, true)

	for i := 0; i < 3; i++ {
		_, err := rtc.Get(ctx, "k", "in", time.Minute)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestReadThroughCache_LoaderErrorNotCached(t *testing.T) {
	ctx := context.Background()
	calls := 0
	loader := func(ctx context.Context, input string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("boom")
		}
		return "ok", nil
	}

	mem := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	rtc := NewReadThroughCache[string, string, string](mem, loader, false)

	_, err := rtc.Get(ctx, "k", "in", time.Minute)
	require.Error(t, err)

	v, err := rtc.Get(ctx, "k", "in", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
}
