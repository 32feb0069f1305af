// Package locker coordinates periodic work between service instances.
package locker

import (
	"context"
	"time"
)

// DistributedLocker hands out named, expiring locks.
// Implementations must be safe for concurrent use.
//
// Typical usage:
//
//	acquired, err := l.Acquire(ctx, "warm", time.Minute)
//	if err != nil || !acquired {
//	    return
//	}
//	defer l.Release(ctx, "warm")
type DistributedLocker interface {
	// Acquire tries once to take the lock. It returns false, without error,
	// when another holder has it. The lock expires after ttl.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives up a lock held by this locker. Releasing a lock that is
	// not held is a no-op.
	Release(ctx context.Context, key string) error
}
