package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-query-service/internal/app/service"
	"catalog-query-service/internal/domain"
)

const dashboardTrendingLimit = 5

// DashboardHandler handles dashboard-related HTTP requests.
type DashboardHandler struct {
	service *service.CatalogService
	logger  *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc *service.CatalogService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: svc,
		logger:  logger,
	}
}

// Render handles GET /dashboard
// Sections whose query fails are rendered empty; the page itself always loads.
func (h *DashboardHandler) Render(c *fiber.Ctx) error {
	ctx := c.Context()

	stats, err := h.service.ProductStats(ctx)
	if err != nil {
		h.logger.Warn("dashboard stats unavailable", zap.Error(err))
	}

	cacheStats, err := h.service.CacheStats(ctx)
	if err != nil {
		h.logger.Warn("dashboard cache stats unavailable", zap.Error(err))
	}

	trending, err := h.service.TrendingProducts(ctx, dashboardTrendingLimit)
	if err != nil {
		h.logger.Warn("dashboard trending unavailable", zap.Error(err))
	}

	listings := make([]domain.Listing, 0, len(trending))
	for _, p := range trending {
		listings = append(listings, domain.NewListing(p))
	}

	return c.Render("pages/dashboard", fiber.Map{
		"Title":      "Catalog Query Dashboard",
		"Stats":      stats,
		"CacheStats": cacheStats,
		"CacheSize":  cacheStats.Size(),
		"Trending":   listings,
		"Healthy":    h.service.HealthCheck(ctx) == nil,
	}, "layouts/base")
}
