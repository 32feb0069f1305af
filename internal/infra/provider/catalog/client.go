// Package catalog implements the remote product catalog API client.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"catalog-query-service/internal/domain"
	"catalog-query-service/internal/infra/provider"
)

const serviceName = "catalog_api"

// Endpoint paths of the remote catalog API.
const (
	EndpointProducts     = "/api/products/"
	EndpointSearch       = "/api/products/search"
	EndpointCategory     = "/api/products/category/{category}"
	EndpointBrand        = "/api/products/brand/{brand}"
	EndpointPrice        = "/api/products/filter/price"
	EndpointRating       = "/api/products/filter/rating"
	EndpointAvailability = "/api/products/filter/availability"
	EndpointTrending     = "/api/products/trending"
	EndpointDiscounted   = "/api/products/discounted"
	EndpointStats        = "/api/products/stats"
	EndpointProduct      = "/api/products/{id}"
	EndpointHealth       = "/api/products/health"
)

// Client implements domain.CatalogAPI over HTTP.
type Client struct {
	client  *resty.Client
	cb      *gobreaker.CircuitBreaker[*resty.Response]
	limiter *rate.Limiter
	logger  *zap.Logger
}

// New creates a new catalog API client.
func New(cfg provider.ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		client:  provider.NewRestyClient(cfg),
		cb:      provider.NewCircuitBreaker[*resty.Response](serviceName, cfg.CB, logger),
		limiter: provider.NewLimiter(cfg.Rate),
		logger:  logger,
	}
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.client.GetClient()
}

// ListProducts fetches one page of the catalog.
func (c *Client) ListProducts(ctx context.Context, page, limit int) (*domain.Page, error) {
	return get[*domain.Page](ctx, c, EndpointProducts, func(r *resty.Request) {
		r.SetQueryParams(pageParams(page, limit))
	})
}

// SearchProducts runs the server-side text search.
func (c *Client) SearchProducts(ctx context.Context, query string, page, limit int) (*domain.Page, error) {
	return get[*domain.Page](ctx, c, EndpointSearch, func(r *resty.Request) {
		r.SetQueryParams(pageParams(page, limit)).SetQueryParam("q", query)
	})
}

// ProductsByCategory fetches every product of a category.
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return get[[]*domain.Product](ctx, c, EndpointCategory, func(r *resty.Request) {
		r.SetPathParam("category", category)
	})
}

// ProductsByBrand fetches every product of a brand.
func (c *Client) ProductsByBrand(ctx context.Context, brand string) ([]*domain.Product, error) {
	return get[[]*domain.Product](ctx, c, EndpointBrand, func(r *resty.Request) {
		r.SetPathParam("brand", brand)
	})
}

// ProductsByPriceRange fetches products priced within [minPrice, maxPrice].
func (c *Client) ProductsByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]*domain.Product, error) {
	return get[[]*domain.Product](ctx, c, EndpointPrice, func(r *resty.Request) {
		r.SetQueryParams(map[string]string{
			"min_price": formatFloat(minPrice),
			"max_price": formatFloat(maxPrice),
		})
	})
}

// ProductsByRating fetches products rated at least minRating.
func (c *Client) ProductsByRating(ctx context.Context, minRating float64) ([]*domain.Product, error) {
	return get[[]*domain.Product](ctx, c, EndpointRating, func(r *resty.Request) {
		r.SetQueryParam("min_rating", formatFloat(minRating))
	})
}

// ProductsByAvailability fetches products with the given availability status.
func (c *Client) ProductsByAvailability(ctx context.Context, status string) ([]*domain.Product, error) {
	return get[[]*domain.Product](ctx, c, EndpointAvailability, func(r *resty.Request) {
		r.SetQueryParam("status", status)
	})
}

// TrendingProducts fetches the server's trending products.
func (c *Client) TrendingProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	return get[[]*domain.Product](ctx, c, EndpointTrending, func(r *resty.Request) {
		r.SetQueryParam("limit", strconv.Itoa(limit))
	})
}

// DiscountedProducts fetches products with an active discount.
func (c *Client) DiscountedProducts(ctx context.Context) ([]*domain.Product, error) {
	return get[[]*domain.Product](ctx, c, EndpointDiscounted, nil)
}

// ProductStats fetches aggregate catalog statistics.
func (c *Client) ProductStats(ctx context.Context) (*domain.ProductStats, error) {
	return get[*domain.ProductStats](ctx, c, EndpointStats, nil)
}

// ProductByID fetches a single product. A 404 or a null body yields
// domain.ErrNotFound.
func (c *Client) ProductByID(ctx context.Context, id int) (*domain.Product, error) {
	product, err := fetch[*domain.Product](ctx, c, EndpointProduct, true, func(r *resty.Request) {
		r.SetPathParam("id", strconv.Itoa(id))
	})
	if provider.IsNotFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	return product, nil
}

// HealthCheck verifies the catalog API is accessible.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(EndpointHealth)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}

// get performs a rate limited, circuit broken GET and decodes the JSON body
// into T. A null object body is an ErrUnexpectedBody failure.
func get[T any](ctx context.Context, c *Client, endpoint string, build func(*resty.Request)) (T, error) {
	return fetch[T](ctx, c, endpoint, false, build)
}

// fetch is get with nullable controlling whether a null object body is
// accepted as a zero result.
func fetch[T any](ctx context.Context, c *Client, endpoint string, nullable bool, build func(*resty.Request)) (T, error) {
	var result T

	if err := c.limiter.Wait(ctx); err != nil {
		return result, fmt.Errorf("fetching %s: %w", endpoint, err)
	}

	_, err := c.cb.Execute(func() (*resty.Response, error) {
		req := c.client.R().
			SetContext(ctx).
			SetResult(&result)
		if build != nil {
			build(req)
		}

		r, err := req.Get(endpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, &provider.StatusError{Service: serviceName, StatusCode: r.StatusCode()}
		}
		if !strings.Contains(r.Header().Get("Content-Type"), "json") {
			return nil, fmt.Errorf("%w: content type %q", provider.ErrUnexpectedBody, r.Header().Get("Content-Type"))
		}
		if !nullable && isNilPointer(result) {
			return nil, fmt.Errorf("%w: null payload", provider.ErrUnexpectedBody)
		}

		return r, nil
	})

	if err != nil {
		c.logger.Warn("catalog api request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		var zero T
		return zero, fmt.Errorf("fetching %s: %w", endpoint, err)
	}

	c.logger.Debug("catalog api request completed",
		zap.String("endpoint", endpoint),
	)

	return result, nil
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func pageParams(page, limit int) map[string]string {
	return map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
