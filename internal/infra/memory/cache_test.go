package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-query-service/pkg/ttlcache"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func setupCache(t *testing.T) (*Cache, *testClock) {
	t.Helper()

	clock := &testClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewCache(zap.NewNop(), time.Minute, ttlcache.WithClock(clock.Now))

	return cache, clock
}

func TestCache_SetAndGet(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "products:limit=20|page=1", []byte(`{"total":1}`), time.Minute))

	data, err := cache.Get(ctx, "products:limit=20|page=1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"total":1}`), data)
}

func TestCache_GetMissing(t *testing.T) {
	cache, _ := setupCache(t)

	data, err := cache.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCache_Expiry(t *testing.T) {
	cache, clock := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "search:q=phone", []byte("x"), 2*time.Minute))

	clock.Advance(2*time.Minute + time.Second)

	data, err := cache.Get(ctx, "search:q=phone")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCache_DefaultTTL(t *testing.T) {
	cache, clock := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))

	clock.Advance(59 * time.Second)
	data, _ := cache.Get(ctx, "k")
	assert.NotNil(t, data)

	clock.Advance(2 * time.Second)
	data, _ = cache.Get(ctx, "k")
	assert.Nil(t, data)
}

func TestCache_DeleteAndClear(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), time.Minute))

	require.NoError(t, cache.Delete(ctx, "a"))
	data, _ := cache.Get(ctx, "a")
	assert.Nil(t, data)

	require.NoError(t, cache.Clear(ctx))
	data, _ = cache.Get(ctx, "b")
	assert.Nil(t, data)
}

func TestCache_CleanupAndStats(t *testing.T) {
	cache, clock := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", []byte("12345"), time.Minute))
	require.NoError(t, cache.Set(ctx, "long", []byte("1234567890"), 10*time.Minute))

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, int64(15), stats.Bytes)

	clock.Advance(5 * time.Minute)

	removed, err := cache.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	stats, err = cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(10), stats.Bytes)
}
