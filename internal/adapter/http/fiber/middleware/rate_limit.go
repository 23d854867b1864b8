package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/seu-repo/vox-site/internal/domain"
	"github.com/seu-repo/vox-site/pkg/config"
)

// RateLimit limits requests per client IP. It is a no-op when disabled.
func RateLimit(cfg config.RateLimitingConfig) fiber.Handler {
	if !cfg.Enabled || cfg.MaxRequests <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        cfg.MaxRequests,
		Expiration: cfg.Window,
		Next: func(c *fiber.Ctx) bool {
			path := c.Path()
			return path == "/metrics" || strings.HasPrefix(path, "/health")
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success":     false,
				"failureKind": domain.KindValidation.String(),
				"error":       "Too many requests",
				"message":     "Too many requests, please try again later",
			})
		},
	})
}
