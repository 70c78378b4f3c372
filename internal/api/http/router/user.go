package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/hamyarhq/hamyar_backend/internal/api/http/handler"
)

func (r *Router) registerUserRoutes(
	api fiber.Router,
	uh *handler.UserHandler,
	ph *handler.PreferenceHandler,
	authRequired fiber.Handler,
	maintenance fiber.Handler,
) {
	me := api.Group("/users/me", authRequired, maintenance)

	me.Get("/", uh.GetMe)
	me.Patch("/", uh.UpdateMe)
	me.Put("/password", uh.ChangePassword)
	me.Post("/avatar", uh.UploadAvatar)

	me.Get("/preferences", ph.Get)
	me.Put("/preferences", ph.Update)
	me.Get("/notification-prefs", ph.GetNotificationPrefs)
	me.Put("/notification-prefs", ph.UpdateNotificationPrefs)
}
