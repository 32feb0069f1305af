package locker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testLockKey = "warm"

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestRedisLocker_Acquire_Success(t *testing.T) {
	client, mr := setupTestRedis(t)
	locker := NewRedisLocker(client, "catalog", zap.NewNop())

	acquired, err := locker.Acquire(context.Background(), testLockKey, 5*time.Second)

	require.NoError(t, err)
	assert.True(t, acquired)
	assert.True(t, mr.Exists("catalog:lock:warm"))
}

func TestRedisLocker_Acquire_AlreadyHeld(t *testing.T) {
	client, _ := setupTestRedis(t)
	locker1 := NewRedisLocker(client, "catalog", zap.NewNop())
	locker2 := NewRedisLocker(client, "catalog", zap.NewNop())
	ctx := context.Background()

	acquired, err := locker1.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = locker2.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, acquired, "second replica must not get the lock")
}

func TestRedisLocker_Acquire_AfterExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	locker1 := NewRedisLocker(client, "catalog", zap.NewNop())
	locker2 := NewRedisLocker(client, "catalog", zap.NewNop())
	ctx := context.Background()

	acquired, err := locker1.Acquire(ctx, testLockKey, time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(2 * time.Second)

	acquired, err = locker2.Acquire(ctx, testLockKey, time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisLocker_Release(t *testing.T) {
	client, mr := setupTestRedis(t)
	locker1 := NewRedisLocker(client, "catalog", zap.NewNop())
	locker2 := NewRedisLocker(client, "catalog", zap.NewNop())
	ctx := context.Background()

	acquired, err := locker1.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, locker1.Release(ctx, testLockKey))
	assert.False(t, mr.Exists("catalog:lock:warm"))

	acquired, err = locker2.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisLocker_Release_NotOwned(t *testing.T) {
	client, mr := setupTestRedis(t)
	owner := NewRedisLocker(client, "catalog", zap.NewNop())
	other := NewRedisLocker(client, "catalog", zap.NewNop())
	ctx := context.Background()

	acquired, err := owner.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, other.Release(ctx, testLockKey))
	assert.True(t, mr.Exists("catalog:lock:warm"), "lock must survive a release by a non-owner")
}

func TestRedisLocker_ConcurrentAcquisition(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var winners atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l := NewRedisLocker(client, "catalog", zap.NewNop())
			if ok, err := l.Acquire(ctx, testLockKey, 5*time.Second); err == nil && ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestRedisLocker_ContextCancellation(t *testing.T) {
	client, _ := setupTestRedis(t)
	locker := NewRedisLocker(client, "catalog", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	acquired, err := locker.Acquire(ctx, testLockKey, 5*time.Second)

	assert.False(t, acquired)
	assert.Error(t, err)
}
