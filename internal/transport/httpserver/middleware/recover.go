package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-query-service/internal/transport/httpserver/dto"
)

// Recover turns a panicking handler into a 500 INTERNAL_ERROR response.
func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger.Error("handler panicked",
				zap.String("panic", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()),
				zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
			)

			apiErr := dto.Internal("internal server error", nil)
			err = c.Status(apiErr.Status).JSON(apiErr.Response())
		}()

		return c.Next()
	}
}
