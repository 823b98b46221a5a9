package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
)

// RequestLogger logs one line per request once the error handler has set
// the final status.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		fields := []interface{}{
			"method", strings.ToUpper(c.Method()),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Debug("HTTP request", fields...)
		}
		return nil
	}
}
