package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/hamyarhq/hamyar_backend/internal/service/settings"
	"github.com/hamyarhq/hamyar_backend/pkg/validate"
)

type SettingsHandler struct {
	svc settings.Service
}

func NewSettingsHandler(svc settings.Service) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

func mapSettingsError(c fiber.Ctx, err error) error {
	if validate.IsValidationError(err) {
		return badRequest(c, err.Error())
	}
	return internalError(c)
}

// GET /api/v1/admin/settings  (admin)
func (h *SettingsHandler) Get(c fiber.Ctx) error {
	sys, err := h.svc.Effective(c.Context())
	if err != nil {
		return mapSettingsError(c, err)
	}

	return ok(c, sys)
}

// PUT /api/v1/admin/settings  (admin)
func (h *SettingsHandler) Update(c fiber.Ctx) error {
	var req settings.UpdateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	sys, err := h.svc.Update(c.Context(), req)
	if err != nil {
		return mapSettingsError(c, err)
	}

	return ok(c, sys)
}
