package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/hamyarhq/hamyar_backend/internal/service/preference"
	pasetotoken "github.com/hamyarhq/hamyar_backend/pkg/paseto"
	"github.com/hamyarhq/hamyar_backend/pkg/validate"
)

type PreferenceHandler struct {
	svc preference.Service
}

func NewPreferenceHandler(svc preference.Service) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

func mapPreferenceError(c fiber.Ctx, err error) error {
	if validate.IsValidationError(err) {
		return badRequest(c, err.Error())
	}
	return internalError(c)
}

// GET /api/v1/users/me/preferences
func (h *PreferenceHandler) Get(c fiber.Ctx) error {
	claims, valid := pasetotoken.ClaimsFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	prefs, err := h.svc.Get(c.Context(), claims.UserID)
	if err != nil {
		return mapPreferenceError(c, err)
	}

	return ok(c, prefs)
}

// PUT /api/v1/users/me/preferences
func (h *PreferenceHandler) Update(c fiber.Ctx) error {
	claims, valid := pasetotoken.ClaimsFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	var req preference.UpdateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	prefs, err := h.svc.Update(c.Context(), claims.UserID, req)
	if err != nil {
		return mapPreferenceError(c, err)
	}

	return ok(c, prefs)
}

// GET /api/v1/users/me/notification-prefs
func (h *PreferenceHandler) GetNotificationPrefs(c fiber.Ctx) error {
	claims, valid := pasetotoken.ClaimsFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	prefs, err := h.svc.GetNotificationPrefs(c.Context(), claims.UserID)
	if err != nil {
		return mapPreferenceError(c, err)
	}

	return ok(c, prefs)
}

// PUT /api/v1/users/me/notification-prefs
func (h *PreferenceHandler) UpdateNotificationPrefs(c fiber.Ctx) error {
	claims, valid := pasetotoken.ClaimsFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	var req preference.UpdateNotificationsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	prefs, err := h.svc.UpdateNotificationPrefs(c.Context(), claims.UserID, req)
	if err != nil {
		return mapPreferenceError(c, err)
	}

	return ok(c, prefs)
}
