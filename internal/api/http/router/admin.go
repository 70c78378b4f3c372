package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/hamyarhq/hamyar_backend/internal/api/http/handler"
)

// Admin routes skip the maintenance gate so settings stay reachable
// while the rest of the API is closed.
func (r *Router) registerAdminRoutes(
	api fiber.Router,
	sh *handler.SettingsHandler,
	th *handler.TechnicianHandler,
	authRequired fiber.Handler,
	adminOnly fiber.Handler,
) {
	admin := api.Group("/admin", authRequired, adminOnly)

	admin.Get("/settings", sh.Get)
	admin.Put("/settings", sh.Update)

	techs := admin.Group("/technicians")
	techs.Get("/", th.List)
	techs.Post("/", th.Create)
	techs.Get("/:id", th.Get)
	techs.Put("/:id", th.Update)
	techs.Patch("/:id/status", th.SetStatus)
}
