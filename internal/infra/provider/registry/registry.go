// Package registry builds upstream clients from application configuration.
package registry

import (
	"go.uber.org/zap"

	"catalog-query-service/internal/config"
	"catalog-query-service/internal/infra/provider"
	"catalog-query-service/internal/infra/provider/catalog"
)

// ClientConfig maps the catalog section of the configuration to the
// transport settings shared by upstream clients.
func ClientConfig(cfg config.CatalogConfig) provider.ClientConfig {
	return provider.ClientConfig{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Retry: provider.RetryConfig{
			MaxAttempts: cfg.Retry.MaxAttempts,
			WaitTime:    cfg.Retry.WaitTime,
			MaxWaitTime: cfg.Retry.MaxWaitTime,
		},
		CB: provider.CBConfig{
			MaxRequests:  cfg.CB.MaxRequests,
			Interval:     cfg.CB.Interval,
			Timeout:      cfg.CB.Timeout,
			FailureRatio: cfg.CB.FailureRatio,
		},
		Rate: provider.RateConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		},
	}
}

// NewCatalogAPI creates the remote catalog API client.
func NewCatalogAPI(cfg config.CatalogConfig, logger *zap.Logger) *catalog.Client {
	logger.Info("catalog api client configured",
		zap.String("base_url", cfg.BaseURL),
		zap.Duration("timeout", cfg.Timeout),
		zap.Int("retries", cfg.Retry.MaxAttempts),
		zap.Float64("rate_limit_rps", cfg.RateLimit.RequestsPerSecond),
	)

	return catalog.New(ClientConfig(cfg), logger.Named("catalog_api"))
}
