// Package main runs the reference catalog API backed by PostgreSQL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"catalog-query-service/internal/config"
	"catalog-query-service/internal/infra/postgres"
	"catalog-query-service/internal/infra/postgres/migrations"
	"catalog-query-service/internal/logger"
	"catalog-query-service/internal/transport/catalogserver"
	"catalog-query-service/internal/validator"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(
		logger.Config{
			Service: "catalog-api",
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

	log.Info("starting catalog-api",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.Backend.Port),
	)

	// Connect to database
	db, err := postgres.NewConnection(
		postgres.Config{
			DSN:          cfg.Database.DSN(),
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			MaxLifetime:  cfg.Database.MaxLifetime,
			LogQueries:   cfg.App.Debug,
		},
		log.Logger,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	// Run migrations
	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	repo := postgres.NewRepository(db)

	if cfg.Backend.Seed {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := postgres.Seed(ctx, repo, log.Logger)
		cancel()
		if err != nil {
			log.Fatal("failed to seed products", zap.Error(err))
		}
	}

	server := catalogserver.NewServer(
		catalogserver.Config{
			Port:      cfg.Backend.Port,
			BodyLimit: 1024 * 1024,
		},
		repo,
		validator.New(),
		log.Logger,
	)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.Backend.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
