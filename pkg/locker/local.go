package locker

import (
	"context"
	"sync"
	"time"
)

// LocalLocker implements DistributedLocker for a single process. It is used
// when no shared Redis is configured.
type LocalLocker struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

// NewLocalLocker creates an in-process locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Acquire takes the lock unless it is held and unexpired.
func (l *LocalLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if expiry, held := l.expires[key]; held && now.Before(expiry) {
		return false, nil
	}

	l.expires[key] = now.Add(ttl)

	return true, nil
}

// Release drops the lock.
func (l *LocalLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.expires, key)
	l.mu.Unlock()

	return nil
}
