package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"go.uber.org/zap"
)

// errEmptyResult marks a strategy that succeeded without producing a value.
var errEmptyResult = errors.New("empty result")

// Result sources reported in logs.
const (
	sourceRemote   = "remote"
	sourceFallback = "fallback"
)

// strategy is one way of computing a query result.
type strategy[T any] struct {
	source string
	run    func(ctx context.Context) (T, error)
}

func remote[T any](run func(ctx context.Context) (T, error)) strategy[T] {
	return strategy[T]{source: sourceRemote, run: run}
}

func fallback[T any](run func(ctx context.Context) (T, error)) strategy[T] {
	return strategy[T]{source: sourceFallback, run: run}
}

// firstSuccess runs the strategies in order and returns the first successful
// result with its source. When every strategy fails, the last error is returned.
func firstSuccess[T any](ctx context.Context, logger *zap.Logger, key string, strategies []strategy[T]) (T, string, error) {
	var zero T
	err := errors.New("no strategy configured")

	for i, st := range strategies {
		result, runErr := st.run(ctx)
		if runErr == nil && isNilPointer(result) {
			runErr = errEmptyResult
		}
		if runErr == nil {
			return result, st.source, nil
		}
		err = runErr

		if i < len(strategies)-1 {
			logger.Warn("query strategy failed, trying next",
				zap.String("key", key),
				zap.String("source", st.source),
				zap.Error(runErr),
			)
		}
	}

	return zero, "", err
}

// cachedQuery returns the cached result under key or computes it with the
// first successful strategy and stores it for ttl. Concurrent calls for the
// same key share one computation. The computation is detached from the
// caller's cancellation; a cancelled caller stops waiting, the others still
// get the result.
func cachedQuery[T any](ctx context.Context, s *CatalogService, key string, ttl time.Duration, strategies ...strategy[T]) (T, error) {
	var zero T

	if result, ok := lookup[T](ctx, s, key); ok {
		return result, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		// A computation that finished between the lookup above and DoChan has
		// already stored its result.
		if result, ok := lookup[T](flightCtx, s, key); ok {
			return result, nil
		}

		result, source, err := firstSuccess(flightCtx, s.logger, key, strategies)
		if err != nil {
			return nil, err
		}

		if source == sourceFallback {
			s.logger.Info("query served from fallback",
				zap.String("key", key),
				zap.String("source", source),
			)
		}

		store(flightCtx, s, key, result, ttl)

		return result, nil
	})

	select {
	case <-ctx.Done():
		s.logger.Debug("caller gave up waiting for query", zap.String("key", key), zap.Error(ctx.Err()))
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		if res.Shared {
			s.logger.Debug("query result shared", zap.String("key", key))
		}
		return res.Val.(T), nil
	}
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// lookup decodes a cached value. Cache and decode errors count as a miss.
func lookup[T any](ctx context.Context, s *CatalogService, key string) (T, bool) {
	var result T

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache get failed, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)
		return result, false
	}
	if data == nil {
		s.logger.Debug("cache miss", zap.String("key", key))
		return result, false
	}

	if err := json.Unmarshal(data, &result); err != nil || isNilPointer(result) {
		s.logger.Warn("cached value is corrupt, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)
		return result, false
	}

	return result, true
}

// store encodes and caches a value. Failures are logged and skipped.
func store[T any](ctx context.Context, s *CatalogService, key string, value T, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache encode failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.logger.Warn("cache set failed, skipping",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
