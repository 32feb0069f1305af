// Package catalogserver serves the remote product catalog API from a Store.
// It is the backend the query service consumes.
package catalogserver

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"catalog-query-service/internal/transport/httpserver/dto"
	"catalog-query-service/internal/transport/httpserver/middleware"
	"catalog-query-service/internal/validator"
)

// Config holds catalog API server configuration.
type Config struct {
	Port      int
	BodyLimit int
}

// Server wraps the Fiber app serving the catalog API.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates the catalog API server with all routes configured.
func NewServer(cfg Config, store Store, v *validator.Validator, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "catalog-api",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
		UnescapePath: true,
	})

	h := NewProductHandler(store, v, logger)

	app.Use(middleware.NewHealthCheck(h))
	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))

	products := app.Group("/api/products")

	// Fixed paths are registered before /:id.
	products.Get("/", h.List)
	products.Get("/search", h.Search)
	products.Get("/category/:category", h.ByCategory)
	products.Get("/brand/:brand", h.ByBrand)
	products.Get("/filter/price", h.ByPriceRange)
	products.Get("/filter/rating", h.ByRating)
	products.Get("/filter/availability", h.ByAvailability)
	products.Get("/trending", h.Trending)
	products.Get("/discounted", h.Discounted)
	products.Get("/stats", h.Stats)
	products.Get("/health", h.Health)
	products.Get("/:id", h.GetByID)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var apiErr *dto.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Status >= 500 {
				logger.Error("catalog api error", zap.Error(err), zap.String("path", c.Path()))
			}
			return c.Status(apiErr.Status).JSON(apiErr.Response())
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code := dto.CodeInvalidParams
			if fiberErr.Code == fiber.StatusNotFound {
				code = dto.CodeNotFound
			}
			return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{Error: fiberErr.Message, Code: code})
		}

		logger.Error("catalog api error", zap.Error(err), zap.String("path", c.Path()))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "internal server error",
			Code:  dto.CodeInternalError,
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting catalog API server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}
