package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/biosecret/todolist-api/models"
)

// ErrorEnvelope is the body of every error response except 403.
type ErrorEnvelope struct {
	Status        int               `json:"status"`
	Message       string            `json:"message"`
	StatusMessage string            `json:"statusMessage"`
	Errors        map[string]string `json:"errors"`
}

func envelope(status int, message string, errs map[string]string) ErrorEnvelope {
	return ErrorEnvelope{Status: status, Message: message, StatusMessage: "error", Errors: errs}
}

// TokenErrorEnvelope is returned for any missing, malformed or expired token.
var TokenErrorEnvelope = envelope(fiber.StatusUnauthorized, "Unauthorized",
	map[string]string{"Token": "No authorization token was found."})

// NotFoundEnvelope is returned for unknown routes and missing records.
var NotFoundEnvelope = envelope(fiber.StatusNotFound, "Not found",
	map[string]string{"content": "Not found"})

// ErrorHandler turns handler errors into the uniform JSON envelope. Outside
// production the cause of internal errors is included in errors.detail.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusUnprocessableEntity).
				JSON(envelope(fiber.StatusUnprocessableEntity, ve.Message, ve.Errors))
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			switch fe.Code {
			case fiber.StatusUnauthorized:
				return c.Status(fe.Code).JSON(TokenErrorEnvelope)
			case fiber.StatusForbidden:
				return c.Status(fe.Code).Send(nil)
			case fiber.StatusNotFound:
				return c.Status(fe.Code).JSON(NotFoundEnvelope)
			default:
				return c.Status(fe.Code).JSON(envelope(fe.Code, fe.Message, map[string]string{"request": fe.Message}))
			}
		}

		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)

		errs := map[string]string{"api": "Internal error"}
		if !production {
			errs["detail"] = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(envelope(fiber.StatusInternalServerError, "Internal error", errs))
	}
}
