// Package redis provides the shared implementation of domain.Cache, used when
// several service replicas should see the same cached catalog queries.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"catalog-query-service/internal/domain"
)

// Cache implements the domain.Cache interface using Redis.
// Entries expire through native Redis TTLs; all keys live under keyPrefix.
type Cache struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
}

// NewCache creates a new Redis cache instance namespaced by keyPrefix.
func NewCache(client *redis.Client, logger *zap.Logger, keyPrefix string) *Cache {
	return &Cache{
		client:    client,
		logger:    logger,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves a value by key. Returns nil if the key doesn't exist.
// The key is automatically prefixed with the configured keyPrefix.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	fullKey := c.buildKey(key)

	data, err := c.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("cache get failed",
			zap.String("key", key),
			zap.Error(err),
		)

		return nil, err
	}

	c.logger.Debug("cache hit",
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)

	return data, nil
}

// Set stores a value with the given TTL.
// The key is automatically prefixed with the configured keyPrefix.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	fullKey := c.buildKey(key)

	err := c.client.Set(ctx, fullKey, value, ttl).Err()
	if err != nil {
		c.logger.Error("cache set failed",
			zap.String("key", key),
			zap.Int("bytes", len(value)),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)

		return err
	}

	c.logger.Debug("cache set",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
		zap.Duration("ttl", ttl),
	)

	return nil
}

// Delete removes a value by key.
// Returns nil if the key doesn't exist (idempotent operation).
func (c *Cache) Delete(ctx context.Context, key string) error {
	fullKey := c.buildKey(key)

	err := c.client.Del(ctx, fullKey).Err()
	if err != nil {
		c.logger.Error("cache delete failed",
			zap.String("key", key),
			zap.Error(err),
		)

		return err
	}

	c.logger.Debug("cache delete",
		zap.String("key", key),
	)

	return nil
}

// Clear removes all cached values matching the keyPrefix.
func (c *Cache) Clear(ctx context.Context) error {
	keys, err := c.scanKeys(ctx)
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		c.logger.Debug("cache clear: no keys found",
			zap.String("prefix", c.keyPrefix),
		)
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error("cache clear delete failed",
			zap.Int("key_count", len(keys)),
			zap.Error(err),
		)

		return err
	}

	c.logger.Info("cache cleared",
		zap.Int("key_count", len(keys)),
	)

	return nil
}

// Cleanup is a no-op: Redis evicts expired keys itself.
func (c *Cache) Cleanup(_ context.Context) (int, error) {
	return 0, nil
}

// Stats counts the keys under keyPrefix and sums their value lengths.
func (c *Cache) Stats(ctx context.Context) (domain.CacheStats, error) {
	keys, err := c.scanKeys(ctx)
	if err != nil {
		return domain.CacheStats{}, err
	}

	stats := domain.CacheStats{Entries: len(keys)}
	if len(keys) == 0 {
		return stats, nil
	}

	pipe := c.client.Pipeline()
	lengths := make([]*redis.IntCmd, len(keys))
	for i, key := range keys {
		lengths[i] = pipe.StrLen(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("cache stats failed",
			zap.Int("key_count", len(keys)),
			zap.Error(err),
		)

		return domain.CacheStats{}, err
	}

	for _, l := range lengths {
		stats.Bytes += l.Val()
	}

	return stats, nil
}

// scanKeys lists every key under keyPrefix with SCAN, which does not block the server.
func (c *Cache) scanKeys(ctx context.Context) ([]string, error) {
	pattern := c.keyPrefix + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		c.logger.Error("cache scan failed",
			zap.String("pattern", pattern),
			zap.Error(err),
		)

		return nil, err
	}

	return keys, nil
}

// buildKey creates a fully-qualified key by prefixing with the configured keyPrefix.
func (c *Cache) buildKey(key string) string {
	return c.keyPrefix + ":" + key
}
