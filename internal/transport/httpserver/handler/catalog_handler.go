// Package handler provides HTTP handlers for the API.
package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-query-service/internal/app/service"
	"catalog-query-service/internal/transport/httpserver/dto"
	"catalog-query-service/internal/validator"
)

// CatalogHandler exposes the catalog queries.
type CatalogHandler struct {
	service   *service.CatalogService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc *service.CatalogService, v *validator.Validator, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// List handles GET /api/v1/products
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	var req dto.PageRequest
	if err := h.parseQuery(c, &req); err != nil {
		return err
	}

	page, err := h.service.ListProducts(c.Context(), req.Page, req.Limit)
	if err != nil {
		return dto.Upstream("failed to fetch products", err)
	}

	return c.JSON(dto.FromPage(page))
}

// Search handles GET /api/v1/products/search
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := h.parseQuery(c, &req); err != nil {
		return err
	}

	page, err := h.service.SearchProducts(c.Context(), req.Query, req.Page, req.Limit)
	if err != nil {
		return dto.Upstream("failed to search products", err)
	}

	return c.JSON(dto.FromPage(page))
}

// ByCategory handles GET /api/v1/products/category/:category
func (h *CatalogHandler) ByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	if category == "" {
		return dto.InvalidParams("category is required", nil)
	}

	products, err := h.service.ProductsByCategory(c.Context(), category)
	if err != nil {
		return dto.Upstream("failed to fetch products by category", err)
	}

	return c.JSON(dto.FromProductList(products))
}

// ByBrand handles GET /api/v1/products/brand/:brand
func (h *CatalogHandler) ByBrand(c *fiber.Ctx) error {
	brand := c.Params("brand")
	if brand == "" {
		return dto.InvalidParams("brand is required", nil)
	}

	products, err := h.service.ProductsByBrand(c.Context(), brand)
	if err != nil {
		return dto.Upstream("failed to fetch products by brand", err)
	}

	return c.JSON(dto.FromProductList(products))
}

// ByPriceRange handles GET /api/v1/products/filter/price
func (h *CatalogHandler) ByPriceRange(c *fiber.Ctx) error {
	var req dto.PriceRangeRequest
	if err := h.parseQuery(c, &req); err != nil {
		return err
	}

	products, err := h.service.ProductsByPriceRange(c.Context(), req.MinPrice, req.MaxPrice)
	if err != nil {
		return dto.Upstream("failed to fetch products by price range", err)
	}

	return c.JSON(dto.FromProductList(products))
}

// ByRating handles GET /api/v1/products/filter/rating
func (h *CatalogHandler) ByRating(c *fiber.Ctx) error {
	var req dto.RatingRequest
	if err := h.parseQuery(c, &req); err != nil {
		return err
	}

	products, err := h.service.ProductsByRating(c.Context(), req.MinRating)
	if err != nil {
		return dto.Upstream("failed to fetch products by rating", err)
	}

	return c.JSON(dto.FromProductList(products))
}

// ByAvailability handles GET /api/v1/products/filter/availability
func (h *CatalogHandler) ByAvailability(c *fiber.Ctx) error {
	var req dto.AvailabilityRequest
	if err := h.parseQuery(c, &req); err != nil {
		return err
	}

	products, err := h.service.ProductsByAvailability(c.Context(), req.Status)
	if err != nil {
		return dto.Upstream("failed to fetch products by availability", err)
	}

	return c.JSON(dto.FromProductList(products))
}

// Filter handles POST /api/v1/products/filter?sort=
// An empty body applies no filter.
func (h *CatalogHandler) Filter(c *fiber.Ctx) error {
	var req dto.FilterRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return dto.InvalidParams("invalid filter body", err)
		}
	}
	req.Sort = c.Query("sort")

	if err := h.validator.Validate(&req); err != nil {
		return dto.ValidationFailed(err)
	}

	products, err := h.service.FilteredProducts(c.Context(), req.ToFilters(), req.SortKey())
	if err != nil {
		return dto.Upstream("failed to filter products", err)
	}

	return c.JSON(dto.FromProductList(products))
}

// Trending handles GET /api/v1/products/trending
func (h *CatalogHandler) Trending(c *fiber.Ctx) error {
	var req dto.TrendingRequest
	if err := h.parseQuery(c, &req); err != nil {
		return err
	}

	products, err := h.service.TrendingProducts(c.Context(), req.Limit)
	if err != nil {
		return dto.Upstream("failed to fetch trending products", err)
	}

	return c.JSON(dto.FromProductList(products))
}

// Discounted handles GET /api/v1/products/discounted
func (h *CatalogHandler) Discounted(c *fiber.Ctx) error {
	products, err := h.service.DiscountedProducts(c.Context())
	if err != nil {
		return dto.Upstream("failed to fetch discounted products", err)
	}

	return c.JSON(dto.FromProductList(products))
}

// Stats handles GET /api/v1/products/stats
func (h *CatalogHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.ProductStats(c.Context())
	if err != nil {
		return dto.Upstream("failed to fetch product stats", err)
	}

	return c.JSON(stats)
}

// FilterOptions handles GET /api/v1/products/filter-options
func (h *CatalogHandler) FilterOptions(c *fiber.Ctx) error {
	options, err := h.service.GlobalFilterOptions(c.Context())
	if err != nil {
		return dto.Upstream("failed to fetch filter options", err)
	}

	return c.JSON(options)
}

// GetByID handles GET /api/v1/products/:id
func (h *CatalogHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return dto.InvalidParams("id must be a positive integer", err)
	}

	product, err := h.service.ProductByID(c.Context(), id)
	if err != nil {
		return dto.Upstream("failed to fetch product", err)
	}

	return c.JSON(dto.FromProduct(product))
}

func (h *CatalogHandler) parseQuery(c *fiber.Ctx, req any) error {
	if err := c.QueryParser(req); err != nil {
		return dto.InvalidParams("invalid query parameters", err)
	}

	if err := h.validator.Validate(req); err != nil {
		return dto.ValidationFailed(err)
	}

	return nil
}
