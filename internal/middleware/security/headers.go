package security

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type HeadersConfig struct {
	// WidgetOrigins may embed the chat widget; everything else is denied
	// frame access.
	WidgetOrigins []string
	IsDevelopment bool
}

func HeadersMiddleware(cfg HeadersConfig) fiber.Handler {
	frameAncestors := "'none'"
	if len(cfg.WidgetOrigins) > 0 {
		frameAncestors = strings.Join(cfg.WidgetOrigins, " ")
	}

	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if !cfg.IsDevelopment {
			c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Set("Content-Security-Policy", "default-src 'self'; frame-ancestors "+frameAncestors)

		return c.Next()
	}
}
