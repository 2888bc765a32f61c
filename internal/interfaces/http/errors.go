package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/projectdesk-api/internal/application/dto"
	"github.com/jhoicas/projectdesk-api/internal/domain"
)

// errorStatus traduce los sentinels del dominio a status HTTP y código de error.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusUnprocessableEntity, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrWrongDeliveryMethod):
		return fiber.StatusUnprocessableEntity, "WRONG_DELIVERY_METHOD"
	case errors.Is(err, domain.ErrAIUnavailable):
		return fiber.StatusServiceUnavailable, "AI_UNAVAILABLE"
	case errors.Is(err, domain.ErrStorage):
		return fiber.StatusInternalServerError, "STORAGE"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// respondError escribe err como dto.ErrorResponse. Los fallos internos llevan
// un mensaje genérico; el detalle queda en el log del request.
func respondError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		c.Locals(LocalError, err)
		msg = "internal error"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
}
