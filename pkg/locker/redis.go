package locker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLocker implements DistributedLocker with Redsync (Redlock) so that
// only one replica runs a job per lock period.
type RedisLocker struct {
	rs        *redsync.Redsync
	keyPrefix string
	logger    *zap.Logger

	mu      sync.Mutex
	mutexes map[string]*redsync.Mutex
}

// NewRedisLocker creates a Redis-backed locker. Lock keys are stored as
// "<keyPrefix>:lock:<key>".
func NewRedisLocker(client *redis.Client, keyPrefix string, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{
		rs:        redsync.New(goredis.NewPool(client)),
		keyPrefix: keyPrefix,
		logger:    logger,
		mutexes:   make(map[string]*redsync.Mutex),
	}
}

// Acquire makes a single, non-blocking attempt to take the lock.
func (r *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	mutex := r.rs.NewMutex(
		r.lockKey(key),
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if isTaken(err) {
			r.logger.Debug("lock already held by another instance",
				zap.String("key", key),
			)
			return false, nil
		}

		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}

	r.mu.Lock()
	r.mutexes[key] = mutex
	r.mu.Unlock()

	r.logger.Debug("lock acquired",
		zap.String("key", key),
		zap.Duration("ttl", ttl),
	)

	return true, nil
}

// Release unlocks the key if this locker holds it. Redsync verifies the
// lock token, so an expired lock taken over by another replica is left alone.
func (r *RedisLocker) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	mutex, exists := r.mutexes[key]
	delete(r.mutexes, key)
	r.mu.Unlock()

	if !exists {
		return nil
	}

	ok, err := mutex.UnlockContext(ctx)
	if err != nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}

	r.logger.Debug("lock released",
		zap.String("key", key),
		zap.Bool("owned", ok),
	)

	return nil
}

func (r *RedisLocker) lockKey(key string) string {
	return r.keyPrefix + ":lock:" + key
}

// isTaken reports lock contention. Redsync signals it with ErrFailed, ErrTaken
// or a multierror wrapping the per-node "lock already taken" errors.
func isTaken(err error) bool {
	var taken *redsync.ErrTaken
	return errors.Is(err, redsync.ErrFailed) ||
		errors.As(err, &taken) ||
		strings.Contains(err.Error(), "lock already taken")
}
