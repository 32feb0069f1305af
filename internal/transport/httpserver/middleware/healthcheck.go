// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
)

// ReadinessChecker reports whether a dependency can serve traffic.
type ReadinessChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewHealthCheck creates a Fiber healthcheck middleware with Kubernetes-style endpoints.
//
// Endpoints:
//   - GET /livez  - Liveness probe (process is running)
//   - GET /readyz - Readiness probe (every checker reports healthy)
//
// Register it before any other middleware.
func NewHealthCheck(checkers ...ReadinessChecker) fiber.Handler {
	return healthcheck.New(healthcheck.Config{
		LivenessEndpoint: "/livez",
		LivenessProbe: func(_ *fiber.Ctx) bool {
			return true
		},

		ReadinessEndpoint: "/readyz",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			for _, checker := range checkers {
				if checker == nil || checker.HealthCheck(c.Context()) != nil {
					return false
				}
			}
			return true
		},
	})
}
