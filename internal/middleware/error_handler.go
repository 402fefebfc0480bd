package middleware

import (
	"errors"
	"log/slog"

	"github.com/cinelog/cinelog/internal/apperr"
	"github.com/cinelog/cinelog/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every failure in the uniform {error, code}
// shape. Server-side details stay in the logs, not the response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Status >= 500 {
			slog.Error("request failed",
				"route", c.Method()+" "+c.Path(),
				"code", appErr.Code,
				"error", appErr.Error(),
			)
		}
		return c.Status(appErr.Status).JSON(dto.ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		})
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		message := fiberErr.Message
		if fiberErr.Code >= 500 {
			slog.Error("unhandled server error", "route", c.Method()+" "+c.Path(), "error", err.Error())
			message = "Internal server error"
		}
		return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{
			Error: message,
			Code:  "internal_error",
		})
	}

	slog.Error("unhandled server error", "route", c.Method()+" "+c.Path(), "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: "Internal server error",
		Code:  "internal_error",
	})
}
