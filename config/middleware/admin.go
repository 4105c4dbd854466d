package middleware

import (
	"github.com/gofiber/fiber/v2"

	"dayflow/pkg/paseto"
)

// AdminMiddleware lets admin and hr roles through; both share the admin
// surface.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("employee").(*paseto.Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated or session data corrupted"})
		}

		if !claims.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied. Admin or HR privileges required"})
		}

		return c.Next()
	}
}
