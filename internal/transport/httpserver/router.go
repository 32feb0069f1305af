// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"catalog-query-service/internal/app/service"
	"catalog-query-service/internal/transport/httpserver/dto"
	"catalog-query-service/internal/transport/httpserver/handler"
	"catalog-query-service/internal/transport/httpserver/middleware"
	"catalog-query-service/internal/validator"
)

// DefaultTemplatesDir is where the dashboard templates live, relative to the
// working directory.
const DefaultTemplatesDir = "./web/templates"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         int
	BodyLimit    int
	Debug        bool
	TemplatesDir string
	CORSOrigins  []string
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	catalogSvc *service.CatalogService,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	templatesDir := cfg.TemplatesDir
	if templatesDir == "" {
		templatesDir = DefaultTemplatesDir
	}

	engine := html.New(templatesDir, ".html")
	if cfg.Debug {
		engine.Reload(true)
	}

	app := fiber.New(fiber.Config{
		AppName:      "catalog-query-service",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
		UnescapePath: true,
		Views:        engine,
	})

	// Probes stay reachable even when later middleware is slow or failing.
	app.Use(middleware.NewHealthCheck(catalogSvc))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS(cfg.CORSOrigins...))
	app.Use(compress.New())

	catalogHandler := handler.NewCatalogHandler(catalogSvc, v, logger)
	adminHandler := handler.NewAdminHandler(catalogSvc, logger)
	dashboardHandler := handler.NewDashboardHandler(catalogSvc, logger)

	registerRoutes(app, catalogHandler, adminHandler, dashboardHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

func registerRoutes(
	app *fiber.App,
	catalogHandler *handler.CatalogHandler,
	adminHandler *handler.AdminHandler,
	dashboardHandler *handler.DashboardHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	app.Get("/dashboard", dashboardHandler.Render)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	v1 := app.Group("/api/v1")

	// Fixed paths are registered before /:id.
	products := v1.Group("/products")
	products.Get("/", catalogHandler.List)
	products.Get("/search", catalogHandler.Search)
	products.Get("/category/:category", catalogHandler.ByCategory)
	products.Get("/brand/:brand", catalogHandler.ByBrand)
	products.Get("/filter/price", catalogHandler.ByPriceRange)
	products.Get("/filter/rating", catalogHandler.ByRating)
	products.Get("/filter/availability", catalogHandler.ByAvailability)
	products.Post("/filter", catalogHandler.Filter)
	products.Get("/trending", catalogHandler.Trending)
	products.Get("/discounted", catalogHandler.Discounted)
	products.Get("/stats", catalogHandler.Stats)
	products.Get("/filter-options", catalogHandler.FilterOptions)
	products.Get("/:id", catalogHandler.GetByID)

	admin := v1.Group("/admin")
	admin.Delete("/cache", adminHandler.ClearCache)
	admin.Get("/cache/stats", adminHandler.CacheStats)
	admin.Post("/cache/cleanup", adminHandler.CleanupCache)
	admin.Post("/cache/warm", adminHandler.WarmCache)
}

// errorHandler renders errors as ErrorResponse JSON and logs them by status:
// 404s at DEBUG, other 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := resolveError(err)

		switch {
		case status == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case status >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", status),
				zap.String("path", c.Path()),
			)
		default:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", status),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(status).JSON(body)
	}
}

func resolveError(err error) (int, dto.ErrorResponse) {
	var apiErr *dto.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr.Response()
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := dto.CodeInternalError
		switch {
		case fiberErr.Code == fiber.StatusNotFound:
			code = dto.CodeNotFound
		case fiberErr.Code < 500:
			code = dto.CodeInvalidParams
		}
		return fiberErr.Code, dto.ErrorResponse{Error: fiberErr.Message, Code: code}
	}

	return fiber.StatusInternalServerError, dto.ErrorResponse{
		Error: "internal server error",
		Code:  dto.CodeInternalError,
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
