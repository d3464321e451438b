package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders errors that escape handlers. Details of 5xx errors
// are logged and replaced with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
