package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/hamyarhq/hamyar_backend/internal/service/user"
	pasetotoken "github.com/hamyarhq/hamyar_backend/pkg/paseto"
	"github.com/hamyarhq/hamyar_backend/pkg/validate"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func mapUserError(c fiber.Ctx, err error) error {
	switch {
	case validate.IsValidationError(err):
		return badRequest(c, err.Error())
	case errors.Is(err, user.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, user.ErrWrongPassword):
		return badRequest(c, err.Error())
	case errors.Is(err, user.ErrPasswordTooShort):
		return badRequest(c, err.Error())
	case errors.Is(err, user.ErrAvatarTooLarge):
		return payloadTooLarge(c, err.Error())
	case errors.Is(err, user.ErrAvatarType):
		return unsupportedMediaType(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /api/v1/users/me
func (h *UserHandler) GetMe(c fiber.Ctx) error {
	claims, valid := pasetotoken.ClaimsFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	u, err := h.svc.GetByID(c.Context(), claims.UserID)
	if err != nil {
		return mapUserError(c, err)
	}

	return ok(c, u)
}

// PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	claims, valid := pasetotoken.ClaimsFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	var req user.UpdateMeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	u, err := h.svc.UpdateProfile(c.Context(), claims.UserID, req)
	if err != nil {
		return mapUserError(c, err)
	}

	return ok(c, u)
}

// PUT /api/v1/users/me/password
func (h *UserHandler) ChangePassword(c fiber.Ctx) error {
	claims, valid := pasetotoken.ClaimsFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	var req user.ChangePasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.svc.ChangePassword(c.Context(), claims.UserID, req); err != nil {
		return mapUserError(c, err)
	}

	return noContent(c)
}

// POST /api/v1/users/me/avatar
// Multipart upload; returns {key, url}.
func (h *UserHandler) UploadAvatar(c fiber.Ctx) error {
	claims, valid := pasetotoken.ClaimsFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		return badRequest(c, "avatar field is required")
	}

	result, err := h.svc.UploadAvatar(c.Context(), claims.UserID, fh)
	if err != nil {
		return mapUserError(c, err)
	}

	return created(c, result)
}
