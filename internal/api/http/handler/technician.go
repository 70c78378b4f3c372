package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/hamyarhq/hamyar_backend/internal/service/technician"
	"github.com/hamyarhq/hamyar_backend/pkg/validate"
)

type TechnicianHandler struct {
	svc technician.Service
}

func NewTechnicianHandler(svc technician.Service) *TechnicianHandler {
	return &TechnicianHandler{svc: svc}
}

func mapTechnicianError(c fiber.Ctx, err error) error {
	switch {
	case validate.IsValidationError(err):
		return badRequest(c, err.Error())
	case errors.Is(err, technician.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, technician.ErrEmailTaken):
		return conflict(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /api/v1/admin/technicians  (admin)
// Optional ?active=true|false filter.
func (h *TechnicianHandler) List(c fiber.Ctx) error {
	var q struct {
		Active *bool `query:"active"`
	}
	_ = c.Bind().Query(&q)

	techs, err := h.svc.List(c.Context(), q.Active)
	if err != nil {
		return mapTechnicianError(c, err)
	}

	return ok(c, techs)
}

// POST /api/v1/admin/technicians  (admin)
func (h *TechnicianHandler) Create(c fiber.Ctx) error {
	var req technician.CreateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	t, err := h.svc.Create(c.Context(), req)
	if err != nil {
		return mapTechnicianError(c, err)
	}

	return created(c, t)
}

// GET /api/v1/admin/technicians/:id  (admin)
func (h *TechnicianHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid technician id")
	}

	t, err := h.svc.GetByID(c.Context(), id)
	if err != nil {
		return mapTechnicianError(c, err)
	}

	return ok(c, t)
}

// PUT /api/v1/admin/technicians/:id  (admin)
func (h *TechnicianHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid technician id")
	}

	var req technician.UpdateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	t, err := h.svc.Update(c.Context(), id, req)
	if err != nil {
		return mapTechnicianError(c, err)
	}

	return ok(c, t)
}

// PATCH /api/v1/admin/technicians/:id/status  (admin)
func (h *TechnicianHandler) SetStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid technician id")
	}

	var body struct {
		Active *bool `json:"active"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Active == nil {
		return badRequest(c, "active is required")
	}

	t, err := h.svc.SetActive(c.Context(), id, *body.Active)
	if err != nil {
		return mapTechnicianError(c, err)
	}

	return ok(c, t)
}
