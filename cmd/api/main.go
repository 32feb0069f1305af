// Package main is the entry point for the catalog-query-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"catalog-query-service/internal/app/service"
	"catalog-query-service/internal/config"
	"catalog-query-service/internal/domain"
	"catalog-query-service/internal/infra/memory"
	"catalog-query-service/internal/infra/provider/registry"
	rediscache "catalog-query-service/internal/infra/redis"
	"catalog-query-service/internal/job"
	"catalog-query-service/internal/logger"
	"catalog-query-service/internal/transport/httpserver"
	"catalog-query-service/internal/validator"
	"catalog-query-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Service: cfg.App.Name,
			Level:   cfg.Logger.Level,
			Format:  cfg.Logger.Format,
			Output:  cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting catalog-query-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	catalogAPI := registry.NewCatalogAPI(cfg.Catalog, log.Logger)

	// Redis is optional: it backs the shared cache and the warm-up lock.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()

		log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))
	}

	var cache domain.Cache
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		cache = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
	default:
		cache = memory.NewCache(log.Logger, cfg.Cache.DefaultTTL)
	}

	var warmLocker locker.DistributedLocker = locker.NewLocalLocker()
	if redisClient != nil {
		warmLocker = locker.NewRedisLocker(redisClient, cfg.Cache.KeyPrefix, log.Logger)
	}

	catalogSvc := service.NewCatalogService(catalogAPI, cache, serviceOptions(cfg), log.Logger)

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:      cfg.App.Port,
			BodyLimit: 1024 * 1024, // 1MB
			Debug:     cfg.App.Debug,
		},
		catalogSvc,
		validator.New(),
		log.Logger,
	)

	// Start background jobs
	sweeper := job.NewSweepScheduler(catalogSvc, cfg.Cache.CleanupInterval, log.Logger)
	sweeper.Start()

	var warmer *job.WarmScheduler
	if cfg.Warm.Enabled {
		warmer = job.NewWarmScheduler(
			catalogSvc,
			job.WarmConfig{
				Interval:  cfg.Warm.Interval,
				Timeout:   cfg.Warm.Timeout,
				OnStartup: cfg.Warm.OnStartup,
			},
			warmLocker,
			log.Logger,
		)
		warmer.Start(cfg.Warm.OnStartup)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if warmer != nil {
			warmer.Stop()
		}
		sweeper.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func serviceOptions(cfg *config.Config) service.Options {
	ttl := cfg.Cache.TTL

	return service.Options{
		FetchAllLimit:      cfg.Catalog.FetchAllLimit,
		FilterOptionsLimit: cfg.Catalog.FilterOptionsLimit,
		TTL: service.TTLPolicy{
			List:         ttl.List,
			Search:       ttl.Search,
			Category:     ttl.Category,
			Brand:        ttl.Brand,
			PriceRange:   ttl.PriceRange,
			Rating:       ttl.Rating,
			Availability: ttl.Availability,
			MultiFilter:  ttl.MultiFilter,
			Trending:     ttl.Trending,
			Discounted:   ttl.Discounted,
			Stats:        ttl.Stats,
		},
	}
}
