package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/hamyarhq/hamyar_backend/internal/models"
	"github.com/hamyarhq/hamyar_backend/internal/service/ticket"
	pasetotoken "github.com/hamyarhq/hamyar_backend/pkg/paseto"
	"github.com/hamyarhq/hamyar_backend/pkg/validate"
)

type TicketHandler struct {
	svc ticket.Service
}

func NewTicketHandler(svc ticket.Service) *TicketHandler {
	return &TicketHandler{svc: svc}
}

func mapTicketError(c fiber.Ctx, err error) error {
	switch {
	case validate.IsValidationError(err):
		return badRequest(c, err.Error())
	case errors.Is(err, ticket.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, ticket.ErrTechnicianNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, ticket.ErrTechnicianInactive):
		return conflict(c, err.Error())
	case errors.Is(err, ticket.ErrAttachmentsDisabled):
		return forbidden(c, err.Error())
	case errors.Is(err, ticket.ErrAttachmentTooLarge):
		return payloadTooLarge(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /api/v1/tickets
func (h *TicketHandler) List(c fiber.Ctx) error {
	claims, valid := pasetotoken.ClaimsFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	var q struct {
		Status  string `query:"status"`
		Page    int    `query:"page"`
		PerPage int    `query:"per_page"`
	}
	_ = c.Bind().Query(&q)

	req := ticket.ListRequest{
		Page:    q.Page,
		PerPage: q.PerPage,
	}
	if q.Status != "" {
		req.Status = &q.Status
	}

	tickets, err := h.svc.List(c.Context(), claims.UserID, claims.Role == models.RoleAdmin, req)
	if err != nil {
		return mapTicketError(c, err)
	}

	return ok(c, tickets)
}

// POST /api/v1/tickets
func (h *TicketHandler) Create(c fiber.Ctx) error {
	claims, valid := pasetotoken.ClaimsFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	var req ticket.CreateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	t, err := h.svc.Create(c.Context(), claims.UserID, req)
	if err != nil {
		return mapTicketError(c, err)
	}

	return created(c, t)
}

// GET /api/v1/tickets/:id
func (h *TicketHandler) Get(c fiber.Ctx) error {
	claims, valid := pasetotoken.ClaimsFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	ticketID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid ticket id")
	}

	t, err := h.svc.GetByID(c.Context(), ticketID, claims.UserID, claims.Role == models.RoleAdmin)
	if err != nil {
		return mapTicketError(c, err)
	}

	return ok(c, t)
}

// PATCH /api/v1/tickets/:id/status  (admin)
func (h *TicketHandler) UpdateStatus(c fiber.Ctx) error {
	ticketID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid ticket id")
	}

	var req ticket.UpdateStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	t, err := h.svc.UpdateStatus(c.Context(), ticketID, req)
	if err != nil {
		return mapTicketError(c, err)
	}

	return ok(c, t)
}

// PUT /api/v1/tickets/:id/technician  (admin)
func (h *TicketHandler) AssignTechnician(c fiber.Ctx) error {
	ticketID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid ticket id")
	}

	var body struct {
		TechnicianID string `json:"technician_id"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	technicianID, err := uuid.Parse(body.TechnicianID)
	if err != nil {
		return badRequest(c, "invalid technician_id")
	}

	t, err := h.svc.AssignTechnician(c.Context(), ticketID, technicianID)
	if err != nil {
		return mapTicketError(c, err)
	}

	return ok(c, t)
}

// POST /api/v1/tickets/:id/attachments
// Multipart upload; returns {key, url}.
func (h *TicketHandler) AddAttachment(c fiber.Ctx) error {
	claims, valid := pasetotoken.ClaimsFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	ticketID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid ticket id")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file field is required")
	}

	result, err := h.svc.AddAttachment(c.Context(), ticketID, claims.UserID, claims.Role == models.RoleAdmin, fh)
	if err != nil {
		return mapTicketError(c, err)
	}

	return created(c, result)
}
