package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCache(client, zap.NewNop(), "catalog"), mr
}

func TestCache_SetAndGet(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "trending:limit=10", []byte(`[{"id":1}]`), 10*time.Minute))

	data, err := cache.Get(ctx, "trending:limit=10")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":1}]`), data)

	assert.True(t, mr.Exists("catalog:trending:limit=10"))
	assert.Equal(t, 10*time.Minute, mr.TTL("catalog:trending:limit=10"))
}

func TestCache_GetMissing(t *testing.T) {
	cache, _ := setupCache(t)

	data, err := cache.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCache_Expiry(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
	mr.FastForward(time.Minute + time.Second)

	data, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCache_ClearOnlyOwnPrefix(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, cache.Clear(ctx))

	assert.False(t, mr.Exists("catalog:a"))
	assert.False(t, mr.Exists("catalog:b"))
	assert.True(t, mr.Exists("other:key"))
}

func TestCache_Stats(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)

	require.NoError(t, cache.Set(ctx, "a", []byte("12345"), time.Minute))
	require.NoError(t, cache.Set(ctx, "b", []byte("123"), time.Minute))
	require.NoError(t, mr.Set("other:key", "ignored"))

	stats, err = cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, int64(8), stats.Bytes)
}

func TestCache_Cleanup(t *testing.T) {
	cache, _ := setupCache(t)

	removed, err := cache.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCache_Delete(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, cache.Delete(ctx, "a"))
	assert.False(t, mr.Exists("catalog:a"))

	require.NoError(t, cache.Delete(ctx, "never-set"))
}
