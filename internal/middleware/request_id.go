package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-ID"

// RequestID keeps an incoming X-Request-ID or mints one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("request_id", id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// Logger returns base tagged with the request id, if any.
func Logger(c *fiber.Ctx, base *zap.Logger) *zap.Logger {
	if id, ok := c.Locals("request_id").(string); ok && id != "" {
		return base.With(zap.String("request_id", id))
	}
	return base
}
