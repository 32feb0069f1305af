// Package ttlcache provides a generic in-memory key-value store whose entries
// expire after a per-entry time-to-live.
//
// Expiry is lazy: an expired entry is removed the next time it is read.
// Cleanup sweeps the whole map and is meant to be called periodically so that
// keys which are written but never read again do not accumulate.
package ttlcache

import (
	"sync"
	"time"
)

// DefaultTTL is used by Set and by SetWithTTL when ttl <= 0.
const DefaultTTL = 5 * time.Minute

// Clock returns the current time. Tests replace it to control expiry.
type Clock func() time.Time

// entry wraps a stored value with its creation time and ttl.
type entry[T any] struct {
	value     T
	createdAt time.Time
	ttl       time.Duration
}

// expired reports whether the entry is no longer valid at now.
// An entry is valid while now - createdAt <= ttl.
func (e entry[T]) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// Cache is a concurrency-safe map of expiring entries.
type Cache[T any] struct {
	mu         sync.RWMutex
	entries    map[string]entry[T]
	defaultTTL time.Duration
	now        Clock
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	defaultTTL time.Duration
	clock      Clock
}

// WithDefaultTTL overrides DefaultTTL for this cache.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.defaultTTL = ttl
		}
	}
}

// WithClock sets the time source.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// New returns an empty cache.
func New[T any](opts ...Option) *Cache[T] {
	o := options{
		defaultTTL: DefaultTTL,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[T]{
		entries:    make(map[string]entry[T]),
		defaultTTL: o.defaultTTL,
		now:        o.clock,
	}
}

// DefaultTTL returns the ttl applied by Set.
func (c *Cache[T]) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Set stores value under key with the default ttl.
func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key, replacing any existing entry.
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	c.entries[key] = entry[T]{value: value, createdAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}

// Get returns the value stored under key. The second result is false when the
// key is missing or its entry has expired; an expired entry is deleted.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	now := c.now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return zero, false
	}

	if e.expired(now) {
		c.mu.Lock()
		// The entry may have been replaced between the two locks.
		if cur, ok := c.entries[key]; ok && cur.createdAt.Equal(e.createdAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()

		return zero, false
	}

	return e.value, true
}

// Delete removes key. It reports whether the key was present.
func (c *Cache[T]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	delete(c.entries, key)

	return ok
}

// Clear removes every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry[T])
	c.mu.Unlock()
}

// Cleanup evicts all expired entries and returns how many were removed.
func (c *Cache[T]) Cleanup() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			removed++
		}
	}

	return removed
}

// Len returns the number of stored entries, including expired entries that
// have not been read or swept yet.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Range calls fn for each unexpired entry of a snapshot taken under the read
// lock. Iteration stops when fn returns false.
func (c *Cache[T]) Range(fn func(key string, value T) bool) {
	now := c.now()

	c.mu.RLock()
	snapshot := make(map[string]T, len(c.entries))
	for key, e := range c.entries {
		if !e.expired(now) {
			snapshot[key] = e.value
		}
	}
	c.mu.RUnlock()

	for key, value := range snapshot {
		if !fn(key, value) {
			return
		}
	}
}
