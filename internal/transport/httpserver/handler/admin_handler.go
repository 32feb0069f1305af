package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-query-service/internal/app/service"
	"catalog-query-service/internal/transport/httpserver/dto"
)

// AdminHandler handles cache administration requests.
type AdminHandler struct {
	service *service.CatalogService
	logger  *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc *service.CatalogService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: svc,
		logger:  logger,
	}
}

// ClearCache handles DELETE /api/v1/admin/cache
func (h *AdminHandler) ClearCache(c *fiber.Ctx) error {
	h.logger.Info("manual cache clear triggered")

	if err := h.service.ClearCache(c.Context()); err != nil {
		return dto.Internal("failed to clear cache", err)
	}

	return c.JSON(dto.MessageResponse{Message: "cache cleared"})
}

// CacheStats handles GET /api/v1/admin/cache/stats
func (h *AdminHandler) CacheStats(c *fiber.Ctx) error {
	stats, err := h.service.CacheStats(c.Context())
	if err != nil {
		return dto.Internal("failed to read cache stats", err)
	}

	return c.JSON(dto.FromCacheStats(stats))
}

// CleanupCache handles POST /api/v1/admin/cache/cleanup
func (h *AdminHandler) CleanupCache(c *fiber.Ctx) error {
	removed, err := h.service.CleanupCache(c.Context())
	if err != nil {
		return dto.Internal("failed to clean up cache", err)
	}

	return c.JSON(dto.CleanupResponse{Removed: removed})
}

// WarmCache handles POST /api/v1/admin/cache/warm
func (h *AdminHandler) WarmCache(c *fiber.Ctx) error {
	h.logger.Info("manual cache warm triggered")

	if err := h.service.Warm(c.Context()); err != nil {
		return dto.Upstream("cache warm incomplete", err)
	}

	return c.JSON(dto.MessageResponse{Message: "cache warmed"})
}
