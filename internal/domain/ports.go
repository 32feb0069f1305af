package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// CatalogAPI defines the remote product catalog endpoints.
// Implementations: internal/infra/provider/catalog/
type CatalogAPI interface {
	// ListProducts returns one page of the unfiltered catalog.
	ListProducts(ctx context.Context, page, limit int) (*Page, error)

	// SearchProducts runs a server-side text search.
	SearchProducts(ctx context.Context, query string, page, limit int) (*Page, error)

	// ProductsByCategory returns all products of a category.
	ProductsByCategory(ctx context.Context, category string) ([]*Product, error)

	// ProductsByBrand returns all products of a brand.
	ProductsByBrand(ctx context.Context, brand string) ([]*Product, error)

	// ProductsByPriceRange returns products whose price lies within [min, max].
	ProductsByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]*Product, error)

	// ProductsByRating returns products rated at least minRating.
	ProductsByRating(ctx context.Context, minRating float64) ([]*Product, error)

	// ProductsByAvailability returns products with the given availability status.
	ProductsByAvailability(ctx context.Context, status string) ([]*Product, error)

	// TrendingProducts returns the most popular products.
	TrendingProducts(ctx context.Context, limit int) ([]*Product, error)

	// DiscountedProducts returns products with an active discount.
	DiscountedProducts(ctx context.Context) ([]*Product, error)

	// ProductStats returns aggregate catalog statistics.
	ProductStats(ctx context.Context) (*ProductStats, error)

	// ProductByID returns a single product by its numeric ID.
	ProductByID(ctx context.Context, id int) (*Product, error)

	// HealthCheck verifies the catalog API is reachable.
	HealthCheck(ctx context.Context) error
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/memory/cache.go, internal/infra/redis/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error

	// Cleanup evicts expired entries and returns how many were removed.
	Cleanup(ctx context.Context) (int, error)

	// Stats reports the number of entries and their approximate size.
	Stats(ctx context.Context) (CacheStats, error)
}

// CacheStats describes the current cache occupancy.
type CacheStats struct {
	Entries int   `json:"entries"`
	Bytes   int64 `json:"bytes"`
}

// Size formats Bytes as kilobytes, e.g. "12.34 KB".
func (s CacheStats) Size() string {
	return fmt.Sprintf("%.2f KB", float64(s.Bytes)/1024)
}
