package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/hamyarhq/hamyar_backend/internal/models"
	"github.com/hamyarhq/hamyar_backend/internal/service/settings"
	pasetotoken "github.com/hamyarhq/hamyar_backend/pkg/paseto"
)

// Maintenance returns 503 for non-admin traffic while the maintenance flag is
// set. Admins pass so they can reach the settings screen and turn it off.
// Must run after AuthRequired; auth routes stay outside this gate so admins
// can still log in.
func Maintenance(svc settings.Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		sys, err := svc.Effective(c.Context())
		if err != nil {
			// fail open on settings read errors
			return c.Next()
		}
		if !sys.MaintenanceMode {
			return c.Next()
		}

		if claims, ok := pasetotoken.ClaimsFromFiber(c); ok && claims.Role == models.RoleAdmin {
			return c.Next()
		}

		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "service is under maintenance",
		})
	}
}
