package logging

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MiddlewareConfig controls the request logging middleware
type MiddlewareConfig struct {
	// SkipPaths lists exact paths that are never logged
	SkipPaths []string

	// AdditionalFields appends extra key/value pairs to every entry
	AdditionalFields func(c *fiber.Ctx) []interface{}
}

// DefaultMiddlewareConfig skips the health probe so liveness polling does not
// flood the request log
func DefaultMiddlewareConfig() MiddlewareConfig {
	return MiddlewareConfig{
		SkipPaths: []string{"/health"},
	}
}

// FiberMiddlewareWithConfig returns a request logging middleware. Each request
// is tagged with a request ID (propagated from X-Request-ID when the client
// sends one), the logger is attached to the request context for downstream
// handlers, and one entry is written on completion with severity chosen by
// status code.
func FiberMiddlewareWithConfig(logger *Logger, cfg MiddlewareConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, path := range cfg.SkipPaths {
			if c.Path() == path {
				return c.Next()
			}
		}

		start := time.Now()

		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
			c.Set("X-Request-ID", requestID)
		}
		c.SetUserContext(WithLogger(WithRequestID(c.UserContext(), requestID), logger))

		err := c.Next()

		status := c.Response().StatusCode()
		fields := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"ip", c.IP(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", len(c.Response().Body()),
			"request_id", requestID,
		}
		if cfg.AdditionalFields != nil {
			fields = append(fields, cfg.AdditionalFields(c)...)
		}

		switch {
		case err != nil:
			logger.Error("Request failed", append(fields, "error", err)...)
			return err
		case status >= fiber.StatusInternalServerError:
			logger.Error("Server error", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("Client error", fields...)
		default:
			logger.Info("Request completed", fields...)
		}
		return nil
	}
}
