package registry

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-query-service/internal/config"
)

func TestClientConfig(t *testing.T) {
	cfg := config.CatalogConfig{
		BaseURL: "https://catalog.example.com",
		Timeout: 3 * time.Second,
		Retry:   config.RetryConfig{MaxAttempts: 2, WaitTime: time.Second, MaxWaitTime: 4 * time.Second},
		CB:      config.CBConfig{MaxRequests: 3, Interval: time.Minute, Timeout: 30 * time.Second, FailureRatio: 0.6},
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 25,
			Burst:             5,
		},
	}

	got := ClientConfig(cfg)

	assert.Equal(t, cfg.BaseURL, got.BaseURL)
	assert.Equal(t, cfg.Timeout, got.Timeout)
	assert.Equal(t, 2, got.Retry.MaxAttempts)
	assert.Equal(t, 4*time.Second, got.Retry.MaxWaitTime)
	assert.Equal(t, uint32(3), got.CB.MaxRequests)
	assert.Equal(t, 0.6, got.CB.FailureRatio)
	assert.Equal(t, 25.0, got.Rate.RequestsPerSecond)
	assert.Equal(t, 5, got.Rate.Burst)
}

func TestNewCatalogAPI_HealthCheck(t *testing.T) {
	client := NewCatalogAPI(config.CatalogConfig{
		BaseURL: "https://catalog.example.com",
		Timeout: time.Second,
		CB:      config.CBConfig{MaxRequests: 1, FailureRatio: 0.5},
	}, zap.NewNop())

	// resty builds its own transport, so the mock is installed on it directly.
	httpmock.ActivateNonDefault(client.HTTPClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, "https://catalog.example.com/api/products/health",
		httpmock.NewStringResponder(http.StatusOK, `{"status":"ok"}`))

	require.NoError(t, client.HealthCheck(context.Background()))
}
