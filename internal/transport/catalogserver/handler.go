package catalogserver

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-query-service/internal/domain"
	"catalog-query-service/internal/transport/httpserver/dto"
	"catalog-query-service/internal/validator"
)

// Store is the product storage the catalog API serves from.
type Store interface {
	List(ctx context.Context, page, limit int) (*domain.Page, error)
	Search(ctx context.Context, query string, page, limit int) (*domain.Page, error)
	ByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	ByBrand(ctx context.Context, brand string) ([]*domain.Product, error)
	ByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]*domain.Product, error)
	ByRating(ctx context.Context, minRating float64) ([]*domain.Product, error)
	ByAvailability(ctx context.Context, status string) ([]*domain.Product, error)
	Trending(ctx context.Context, limit int) ([]*domain.Product, error)
	Discounted(ctx context.Context) ([]*domain.Product, error)
	Stats(ctx context.Context) (*domain.ProductStats, error)
	GetByID(ctx context.Context, id int) (*domain.Product, error)
	Ping(ctx context.Context) error
}

// ProductHandler serves the /api/products endpoints.
type ProductHandler struct {
	store     Store
	validator *validator.Validator
	logger    *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(store Store, v *validator.Validator, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		store:     store,
		validator: v,
		logger:    logger,
	}
}

// List handles GET /api/products/
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q pageQuery
	if err := h.parseQuery(c, &q); err != nil {
		return err
	}

	page, limit := domain.NormalizePage(q.Page, q.Limit)
	result, err := h.store.List(c.Context(), page, limit)
	if err != nil {
		return dto.Internal("failed to list products", err)
	}

	return c.JSON(result)
}

// Search handles GET /api/products/search
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	var q searchQuery
	if err := h.parseQuery(c, &q); err != nil {
		return err
	}

	page, limit := domain.NormalizePage(q.Page, q.Limit)
	result, err := h.store.Search(c.Context(), q.Query, page, limit)
	if err != nil {
		return dto.Internal("failed to search products", err)
	}

	return c.JSON(result)
}

// ByCategory handles GET /api/products/category/:category
func (h *ProductHandler) ByCategory(c *fiber.Ctx) error {
	return h.list(c, "by category", func(ctx context.Context) ([]*domain.Product, error) {
		return h.store.ByCategory(ctx, c.Params("category"))
	})
}

// ByBrand handles GET /api/products/brand/:brand
func (h *ProductHandler) ByBrand(c *fiber.Ctx) error {
	return h.list(c, "by brand", func(ctx context.Context) ([]*domain.Product, error) {
		return h.store.ByBrand(ctx, c.Params("brand"))
	})
}

// ByPriceRange handles GET /api/products/filter/price
func (h *ProductHandler) ByPriceRange(c *fiber.Ctx) error {
	var q priceQuery
	if err := h.parseQuery(c, &q); err != nil {
		return err
	}

	return h.list(c, "by price range", func(ctx context.Context) ([]*domain.Product, error) {
		return h.store.ByPriceRange(ctx, *q.MinPrice, *q.MaxPrice)
	})
}

// ByRating handles GET /api/products/filter/rating
func (h *ProductHandler) ByRating(c *fiber.Ctx) error {
	var q ratingQuery
	if err := h.parseQuery(c, &q); err != nil {
		return err
	}

	return h.list(c, "by rating", func(ctx context.Context) ([]*domain.Product, error) {
		return h.store.ByRating(ctx, *q.MinRating)
	})
}

// ByAvailability handles GET /api/products/filter/availability
func (h *ProductHandler) ByAvailability(c *fiber.Ctx) error {
	var q availabilityQuery
	if err := h.parseQuery(c, &q); err != nil {
		return err
	}
	if q.Status == "" {
		q.Status = domain.AvailabilityInStock
	}

	return h.list(c, "by availability", func(ctx context.Context) ([]*domain.Product, error) {
		return h.store.ByAvailability(ctx, q.Status)
	})
}

// Trending handles GET /api/products/trending
func (h *ProductHandler) Trending(c *fiber.Ctx) error {
	var q trendingQuery
	if err := h.parseQuery(c, &q); err != nil {
		return err
	}
	if q.Limit == 0 {
		q.Limit = defaultTrendingLimit
	}

	return h.list(c, "trending", func(ctx context.Context) ([]*domain.Product, error) {
		return h.store.Trending(ctx, q.Limit)
	})
}

// Discounted handles GET /api/products/discounted
func (h *ProductHandler) Discounted(c *fiber.Ctx) error {
	return h.list(c, "discounted", h.store.Discounted)
}

// Stats handles GET /api/products/stats
func (h *ProductHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.store.Stats(c.Context())
	if err != nil {
		return dto.Internal("failed to compute product statistics", err)
	}

	return c.JSON(stats)
}

// GetByID handles GET /api/products/:id
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return dto.InvalidParams("id must be a positive integer", err)
	}

	product, err := h.store.GetByID(c.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return dto.NotFound("product not found")
	}
	if err != nil {
		return dto.Internal("failed to get product", err)
	}

	return c.JSON(product)
}

// Health handles GET /api/products/health
func (h *ProductHandler) Health(c *fiber.Ctx) error {
	if err := h.store.Ping(c.Context()); err != nil {
		h.logger.Warn("database ping failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

// HealthCheck lets the readiness probe ping the store.
func (h *ProductHandler) HealthCheck(ctx context.Context) error {
	return h.store.Ping(ctx)
}

func (h *ProductHandler) list(c *fiber.Ctx, name string, query func(ctx context.Context) ([]*domain.Product, error)) error {
	products, err := query(c.Context())
	if err != nil {
		return dto.Internal("failed to query products "+name, err)
	}
	if products == nil {
		products = []*domain.Product{}
	}

	return c.JSON(products)
}

func (h *ProductHandler) parseQuery(c *fiber.Ctx, req any) error {
	if err := c.QueryParser(req); err != nil {
		return dto.InvalidParams("invalid query parameters", err)
	}

	if err := h.validator.Validate(req); err != nil {
		return dto.ValidationFailed(err)
	}

	return nil
}
