package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/hamyarhq/hamyar_backend/internal/models"
	pasetotoken "github.com/hamyarhq/hamyar_backend/pkg/paseto"
)

// RequireAdmin gates a route group on the role claim. Must run after
// AuthRequired so the claims are in Locals.
func RequireAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, ok := pasetotoken.ClaimsFromFiber(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		if claims.Role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}
		return c.Next()
	}
}
