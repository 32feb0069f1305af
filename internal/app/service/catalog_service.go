// Package service provides application use cases.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"catalog-query-service/internal/domain"
)

// ErrFetchProducts is returned when the primary product listing cannot be loaded.
var ErrFetchProducts = errors.New("failed to fetch products")

// DefaultTrendingLimit is used when a trending query has no positive limit.
const DefaultTrendingLimit = 10

// TTLPolicy holds the cache lifetime of each query kind.
type TTLPolicy struct {
	List         time.Duration
	Search       time.Duration
	Category     time.Duration
	Brand        time.Duration
	PriceRange   time.Duration
	Rating       time.Duration
	Availability time.Duration
	MultiFilter  time.Duration
	Trending     time.Duration
	Discounted   time.Duration
	Stats        time.Duration
}

// DefaultTTLPolicy returns the standard cache lifetimes.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		List:         5 * time.Minute,
		Search:       2 * time.Minute,
		Category:     5 * time.Minute,
		Brand:        5 * time.Minute,
		PriceRange:   3 * time.Minute,
		Rating:       3 * time.Minute,
		Availability: 3 * time.Minute,
		MultiFilter:  2 * time.Minute,
		Trending:     10 * time.Minute,
		Discounted:   5 * time.Minute,
		Stats:        15 * time.Minute,
	}
}

// Options configures a CatalogService.
type Options struct {
	// FetchAllLimit is the page size used as a stand-in for "all products"
	// by local fallbacks. Catalogs larger than this are computed on a subset.
	FetchAllLimit int
	// FilterOptionsLimit bounds the sample used to derive filter options.
	FilterOptionsLimit int
	TTL                TTLPolicy
}

// DefaultOptions returns Options with the standard limits and TTLs.
func DefaultOptions() Options {
	return Options{
		FetchAllLimit:      1000,
		FilterOptionsLimit: 500,
		TTL:                DefaultTTLPolicy(),
	}
}

// CatalogService answers catalog queries from the cache, the remote catalog
// API or, when the remote endpoint fails, a local computation over a large
// unfiltered page.
type CatalogService struct {
	api    domain.CatalogAPI
	cache  domain.Cache
	opts   Options
	group  singleflight.Group
	logger *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(api domain.CatalogAPI, cache domain.Cache, opts Options, logger *zap.Logger) *CatalogService {
	defaults := DefaultOptions()
	if opts.FetchAllLimit <= 0 {
		opts.FetchAllLimit = defaults.FetchAllLimit
	}
	if opts.FilterOptionsLimit <= 0 {
		opts.FilterOptionsLimit = defaults.FilterOptionsLimit
	}

	return &CatalogService{
		api:    api,
		cache:  cache,
		opts:   opts,
		logger: logger,
	}
}

// ListProducts returns one page of the catalog. There is no fallback: a
// failure is returned as ErrFetchProducts.
func (s *CatalogService) ListProducts(ctx context.Context, page, limit int) (*domain.Page, error) {
	page, limit = domain.NormalizePage(page, limit)
	key := domain.NewQueryKey(domain.OpListProducts).Int("page", page).Int("limit", limit).Key()

	result, err := cachedQuery(ctx, s, key, s.opts.TTL.List,
		remote(func(ctx context.Context) (*domain.Page, error) {
			return s.api.ListProducts(ctx, page, limit)
		}),
	)
	if err != nil {
		s.logger.Error("list products failed",
			zap.Int("page", page),
			zap.Int("limit", limit),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrFetchProducts, err)
	}

	return result, nil
}

// SearchProducts runs a text search. An empty query returns an empty page
// without touching the cache or the network.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, page, limit int) (*domain.Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.EmptyPage(), nil
	}

	page, limit = domain.NormalizePage(page, limit)
	key := domain.NewQueryKey(domain.OpSearch).Text("q", query).Int("page", page).Int("limit", limit).Key()

	return cachedQuery(ctx, s, key, s.opts.TTL.Search,
		remote(func(ctx context.Context) (*domain.Page, error) {
			return s.api.SearchProducts(ctx, query, page, limit)
		}),
		fallback(func(ctx context.Context) (*domain.Page, error) {
			all, err := s.fetchAll(ctx)
			if err != nil {
				return nil, err
			}
			return domain.Paginate(domain.RankByRelevance(all, query), page, limit), nil
		}),
	)
}

// ProductsByCategory returns the products of a category.
func (s *CatalogService) ProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	key := domain.NewQueryKey(domain.OpCategory).Text("category", category).Key()

	return cachedQuery(ctx, s, key, s.opts.TTL.Category,
		remote(func(ctx context.Context) ([]*domain.Product, error) {
			return s.api.ProductsByCategory(ctx, category)
		}),
		s.localSelect(func(p *domain.Product) bool {
			return domain.MatchesCategory(p, category)
		}),
	)
}

// ProductsByBrand returns the products of a brand.
func (s *CatalogService) ProductsByBrand(ctx context.Context, brand string) ([]*domain.Product, error) {
	key := domain.NewQueryKey(domain.OpBrand).Text("brand", brand).Key()

	return cachedQuery(ctx, s, key, s.opts.TTL.Brand,
		remote(func(ctx context.Context) ([]*domain.Product, error) {
			return s.api.ProductsByBrand(ctx, brand)
		}),
		s.localSelect(func(p *domain.Product) bool {
			return domain.MatchesBrand(p, brand)
		}),
	)
}

// ProductsByPriceRange returns products whose current price lies in [minPrice, maxPrice].
func (s *CatalogService) ProductsByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]*domain.Product, error) {
	key := domain.NewQueryKey(domain.OpPriceRange).Float("min", minPrice).Float("max", maxPrice).Key()
	priceRange := domain.PriceRange{Min: minPrice, Max: maxPrice}

	return cachedQuery(ctx, s, key, s.opts.TTL.PriceRange,
		remote(func(ctx context.Context) ([]*domain.Product, error) {
			return s.api.ProductsByPriceRange(ctx, minPrice, maxPrice)
		}),
		s.localSelect(func(p *domain.Product) bool {
			return priceRange.Contains(p.CurrentPrice())
		}),
	)
}

// ProductsByRating returns products rated at least minRating.
func (s *CatalogService) ProductsByRating(ctx context.Context, minRating float64) ([]*domain.Product, error) {
	key := domain.NewQueryKey(domain.OpRating).Float("min", minRating).Key()

	return cachedQuery(ctx, s, key, s.opts.TTL.Rating,
		remote(func(ctx context.Context) ([]*domain.Product, error) {
			return s.api.ProductsByRating(ctx, minRating)
		}),
		s.localSelect(func(p *domain.Product) bool {
			return domain.MatchesMinRating(p, minRating)
		}),
	)
}

// ProductsByAvailability returns products with the given availability status,
// IN_STOCK when status is empty.
func (s *CatalogService) ProductsByAvailability(ctx context.Context, status string) ([]*domain.Product, error) {
	if status == "" {
		status = domain.AvailabilityInStock
	}
	key := domain.NewQueryKey(domain.OpAvailability).Raw("status", status).Key()

	return cachedQuery(ctx, s, key, s.opts.TTL.Availability,
		remote(func(ctx context.Context) ([]*domain.Product, error) {
			return s.api.ProductsByAvailability(ctx, status)
		}),
		s.localSelect(func(p *domain.Product) bool {
			return p.Availability == status
		}),
	)
}

// FilteredProducts applies a multi-criteria filter. The remote API has no
// such endpoint, so the result is always computed locally. The cached
// result is unsorted; sortKey is applied on every call.
func (s *CatalogService) FilteredProducts(ctx context.Context, filters domain.Filters, sortKey domain.SortKey) ([]*domain.Product, error) {
	products, err := cachedQuery(ctx, s, domain.FilterKey(filters), s.opts.TTL.MultiFilter,
		s.localSelect(func(p *domain.Product) bool {
			return domain.Matches(p, filters)
		}),
	)
	if err != nil {
		return nil, err
	}

	return domain.SortProducts(products, sortKey), nil
}

// TrendingProducts returns up to limit popular products.
func (s *CatalogService) TrendingProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	key := domain.NewQueryKey(domain.OpTrending).Int("limit", limit).Key()

	return cachedQuery(ctx, s, key, s.opts.TTL.Trending,
		remote(func(ctx context.Context) ([]*domain.Product, error) {
			return s.api.TrendingProducts(ctx, limit)
		}),
		fallback(func(ctx context.Context) ([]*domain.Product, error) {
			all, err := s.fetchAll(ctx)
			if err != nil {
				return nil, err
			}
			return domain.RankTrending(all, limit), nil
		}),
	)
}

// DiscountedProducts returns products with an active discount.
func (s *CatalogService) DiscountedProducts(ctx context.Context) ([]*domain.Product, error) {
	key := domain.NewQueryKey(domain.OpDiscounted).Key()

	return cachedQuery(ctx, s, key, s.opts.TTL.Discounted,
		remote(func(ctx context.Context) ([]*domain.Product, error) {
			return s.api.DiscountedProducts(ctx)
		}),
		fallback(func(ctx context.Context) ([]*domain.Product, error) {
			all, err := s.fetchAll(ctx)
			if err != nil {
				return nil, err
			}
			return domain.SelectDiscounted(all), nil
		}),
	)
}

// ProductStats returns aggregate catalog statistics.
func (s *CatalogService) ProductStats(ctx context.Context) (*domain.ProductStats, error) {
	key := domain.NewQueryKey(domain.OpStats).Key()

	return cachedQuery(ctx, s, key, s.opts.TTL.Stats,
		remote(func(ctx context.Context) (*domain.ProductStats, error) {
			return s.api.ProductStats(ctx)
		}),
		fallback(func(ctx context.Context) (*domain.ProductStats, error) {
			all, err := s.fetchAll(ctx)
			if err != nil {
				return nil, err
			}
			return domain.ComputeStats(all), nil
		}),
	)
}

// GlobalFilterOptions derives the available filter values from a sample of
// the first FilterOptionsLimit products. The sample is cached as a list page.
func (s *CatalogService) GlobalFilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	page, err := s.ListProducts(ctx, 1, s.opts.FilterOptionsLimit)
	if err != nil {
		return nil, err
	}

	return domain.DeriveFilterOptions(page.Items), nil
}

// ProductByID returns a single product. It is not cached.
func (s *CatalogService) ProductByID(ctx context.Context, id int) (*domain.Product, error) {
	product, err := s.api.ProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product with id %d: %w", id, err)
	}

	return product, nil
}

// ClearCache removes every cached query result.
func (s *CatalogService) ClearCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	s.logger.Info("catalog cache cleared")

	return nil
}

// CacheStats reports cache occupancy.
func (s *CatalogService) CacheStats(ctx context.Context) (domain.CacheStats, error) {
	stats, err := s.cache.Stats(ctx)
	if err != nil {
		return domain.CacheStats{}, fmt.Errorf("reading cache stats: %w", err)
	}

	return stats, nil
}

// CleanupCache evicts expired cache entries.
func (s *CatalogService) CleanupCache(ctx context.Context) (int, error) {
	return s.cache.Cleanup(ctx)
}

// HealthCheck reports whether the remote catalog API is reachable.
func (s *CatalogService) HealthCheck(ctx context.Context) error {
	return s.api.HealthCheck(ctx)
}

// Warm loads the most requested queries into the cache.
// It keeps going after a failure and returns every error joined.
func (s *CatalogService) Warm(ctx context.Context) error {
	start := time.Now()
	var errs []error

	if _, err := s.ListProducts(ctx, domain.DefaultPage, domain.DefaultPageLimit); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.TrendingProducts(ctx, DefaultTrendingLimit); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.ProductStats(ctx); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.GlobalFilterOptions(ctx); err != nil {
		errs = append(errs, err)
	}

	s.logger.Info("cache warm completed",
		zap.Int("failed", len(errs)),
		zap.Duration("duration", time.Since(start)),
	)

	return errors.Join(errs...)
}

// fetchAll loads the fetch-most page through the cached list query.
func (s *CatalogService) fetchAll(ctx context.Context) ([]*domain.Product, error) {
	page, err := s.ListProducts(ctx, 1, s.opts.FetchAllLimit)
	if err != nil {
		return nil, err
	}

	return page.Items, nil
}

// localSelect is a fallback strategy keeping the fetch-most products that satisfy keep.
func (s *CatalogService) localSelect(keep func(*domain.Product) bool) strategy[[]*domain.Product] {
	return fallback(func(ctx context.Context) ([]*domain.Product, error) {
		all, err := s.fetchAll(ctx)
		if err != nil {
			return nil, err
		}
		return domain.Select(all, keep), nil
	})
}
