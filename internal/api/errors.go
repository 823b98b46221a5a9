package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
	"github.com/aldoetobex/legal-trust-ledger/pkg/validation"
)

/* =========================== Error Formatting =========================== */

// httpCodeToString converts an HTTP status code to a short, stable string.
func httpCodeToString(code int) string {
	switch code {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusUnprocessableEntity:
		return "UNPROCESSABLE_ENTITY"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// ErrorHandler maps domain errors to HTTP statuses with a consistent JSON
// shape. Validation failures use the Laravel-style body.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			ve  *apperrors.ValidationError
			dup *apperrors.DuplicateRoleError
			rep *apperrors.InvalidRepresentationError
			fe  *fiber.Error
		)

		code := fiber.StatusInternalServerError
		msg := "Internal Server Error"

		switch {
		case errors.As(err, &ve):
			return validation.Respond(c, ve.Fields)
		case errors.Is(err, apperrors.ErrNotFound):
			code, msg = fiber.StatusNotFound, fiber.ErrNotFound.Message
		case errors.As(err, &dup):
			code, msg = fiber.StatusConflict, dup.Error()
		case errors.As(err, &rep):
			code, msg = fiber.StatusUnprocessableEntity, rep.Error()
		case errors.As(err, &fe):
			code = fe.Code
			if strings.TrimSpace(fe.Message) != "" {
				msg = fe.Message
			} else {
				msg = fiber.NewError(code).Message
			}
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err.Error())
		}

		return c.Status(code).JSON(models.ErrorResponse{
			Code:    httpCodeToString(code),
			Error:   true,
			Message: msg,
		})
	}
}
