// Package memory provides the in-process implementation of domain.Cache.
package memory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"catalog-query-service/internal/domain"
	"catalog-query-service/pkg/ttlcache"
)

// Cache implements the domain.Cache interface on top of a ttlcache.Cache.
// Contents live for the lifetime of the process only.
type Cache struct {
	store  *ttlcache.Cache[[]byte]
	logger *zap.Logger
}

// NewCache creates a new in-memory cache. defaultTTL applies to writes
// made with a non-positive ttl.
func NewCache(logger *zap.Logger, defaultTTL time.Duration, opts ...ttlcache.Option) *Cache {
	opts = append([]ttlcache.Option{ttlcache.WithDefaultTTL(defaultTTL)}, opts...)

	return &Cache{
		store:  ttlcache.New[[]byte](opts...),
		logger: logger,
	}
}

// Get retrieves a value by key. Returns nil if the key is missing or expired.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := c.store.Get(key)
	if !ok {
		return nil, nil
	}

	c.logger.Debug("cache hit",
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)

	return data, nil
}

// Set stores a value with the given TTL.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.store.SetWithTTL(key, value, ttl)

	c.logger.Debug("cache set",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
		zap.Duration("ttl", ttl),
	)

	return nil
}

// Delete removes a value by key.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

// Clear removes all cached values.
func (c *Cache) Clear(_ context.Context) error {
	entries := c.store.Len()
	c.store.Clear()

	c.logger.Info("cache cleared",
		zap.Int("key_count", entries),
	)

	return nil
}

// Cleanup evicts expired entries.
func (c *Cache) Cleanup(_ context.Context) (int, error) {
	return c.store.Cleanup(), nil
}

// Stats counts unexpired entries and the bytes of their serialized values.
func (c *Cache) Stats(_ context.Context) (domain.CacheStats, error) {
	var stats domain.CacheStats

	c.store.Range(func(_ string, value []byte) bool {
		stats.Entries++
		stats.Bytes += int64(len(value))
		return true
	})

	return stats, nil
}
