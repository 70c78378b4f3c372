package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/hamyarhq/hamyar_backend/internal/api/http/handler"
)

func (r *Router) registerTicketRoutes(
	api fiber.Router,
	th *handler.TicketHandler,
	authRequired fiber.Handler,
	maintenance fiber.Handler,
	adminOnly fiber.Handler,
) {
	tickets := api.Group("/tickets", authRequired, maintenance)

	tickets.Get("/", th.List)
	tickets.Post("/", th.Create)

	t := tickets.Group("/:id")
	t.Get("/", th.Get)
	t.Post("/attachments", th.AddAttachment)

	// Status and assignment are staff actions; owners are notified instead.
	t.Patch("/status", adminOnly, th.UpdateStatus)
	t.Put("/technician", adminOnly, th.AssignTechnician)
}
