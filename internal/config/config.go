// Package config provides application configuration management using Viper.
// Configuration is loaded from an optional .env file, YAML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Warm     WarmConfig     `mapstructure:"warm"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Backend  BackendConfig  `mapstructure:"backend"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// CatalogConfig holds the remote catalog API settings.
type CatalogConfig struct {
	BaseURL            string          `mapstructure:"base_url"`
	Timeout            time.Duration   `mapstructure:"timeout"`
	Retry              RetryConfig     `mapstructure:"retry"`
	CB                 CBConfig        `mapstructure:"circuit_breaker"`
	RateLimit          RateLimitConfig `mapstructure:"rate_limit"`
	FetchAllLimit      int             `mapstructure:"fetch_all_limit"`
	FilterOptionsLimit int             `mapstructure:"filter_options_limit"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// RateLimitConfig throttles outgoing catalog requests. Zero disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// CacheConfig holds caching settings.
type CacheConfig struct {
	Backend         string        `mapstructure:"backend"` // memory, redis
	KeyPrefix       string        `mapstructure:"key_prefix"`
	DefaultTTL      time.Duration `mapstructure:"default_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	TTL             TTLConfig     `mapstructure:"ttl"`
}

// TTLConfig holds the per-query-family cache TTLs.
type TTLConfig struct {
	List         time.Duration `mapstructure:"list"`
	Search       time.Duration `mapstructure:"search"`
	Category     time.Duration `mapstructure:"category"`
	Brand        time.Duration `mapstructure:"brand"`
	PriceRange   time.Duration `mapstructure:"price_range"`
	Rating       time.Duration `mapstructure:"rating"`
	Availability time.Duration `mapstructure:"availability"`
	MultiFilter  time.Duration `mapstructure:"multi_filter"`
	Trending     time.Duration `mapstructure:"trending"`
	Discounted   time.Duration `mapstructure:"discounted"`
	Stats        time.Duration `mapstructure:"stats"`
}

// WarmConfig holds cache warm-up job settings.
type WarmConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	Timeout   time.Duration `mapstructure:"timeout"`
	OnStartup bool          `mapstructure:"on_startup"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for the shared cache and locking.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the host:port address.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds database connection settings for the reference catalog backend.
type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Name         string        `mapstructure:"name"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// BackendConfig holds settings for the reference catalog API process.
type BackendConfig struct {
	Port int  `mapstructure:"port"`
	Seed bool `mapstructure:"seed"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars (including .env) > config file > defaults
func Load(configPath string) (*Config, error) {
	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("invalid cache backend %q", c.Cache.Backend)
	}

	if c.Cache.Backend == CacheBackendRedis && !c.Redis.Enabled {
		return errors.New("cache backend redis requires redis.enabled")
	}

	if c.Catalog.BaseURL == "" {
		return errors.New("catalog.base_url is required")
	}

	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "catalog-query-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)

	v.SetDefault("catalog.base_url", "http://localhost:8081")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.retry.max_attempts", 3)
	v.SetDefault("catalog.retry.wait_time", "1s")
	v.SetDefault("catalog.retry.max_wait_time", "5s")
	v.SetDefault("catalog.circuit_breaker.max_requests", 3)
	v.SetDefault("catalog.circuit_breaker.interval", "60s")
	v.SetDefault("catalog.circuit_breaker.timeout", "30s")
	v.SetDefault("catalog.circuit_breaker.failure_ratio", 0.5)
	v.SetDefault("catalog.rate_limit.requests_per_second", 0)
	v.SetDefault("catalog.rate_limit.burst", 10)
	v.SetDefault("catalog.fetch_all_limit", 1000)
	v.SetDefault("catalog.filter_options_limit", 500)

	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.key_prefix", "catalog-query")
	v.SetDefault("cache.default_ttl", "5m")
	v.SetDefault("cache.cleanup_interval", "1m")
	v.SetDefault("cache.ttl.list", "5m")
	v.SetDefault("cache.ttl.search", "2m")
	v.SetDefault("cache.ttl.category", "5m")
	v.SetDefault("cache.ttl.brand", "5m")
	v.SetDefault("cache.ttl.price_range", "3m")
	v.SetDefault("cache.ttl.rating", "3m")
	v.SetDefault("cache.ttl.availability", "3m")
	v.SetDefault("cache.ttl.multi_filter", "2m")
	v.SetDefault("cache.ttl.trending", "10m")
	v.SetDefault("cache.ttl.discounted", "5m")
	v.SetDefault("cache.ttl.stats", "15m")

	v.SetDefault("warm.enabled", true)
	v.SetDefault("warm.interval", "10m")
	v.SetDefault("warm.timeout", "30s")
	v.SetDefault("warm.on_startup", true)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "catalog")
	v.SetDefault("database.user", "app")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", "5m")

	v.SetDefault("backend.port", 8081)
	v.SetDefault("backend.seed", true)
}
