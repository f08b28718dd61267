package middleware

import (
	"errors"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the single place errors become HTTP responses.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := err.Error()
		var details interface{}

		var fiberErr *fiber.Error
		var appErr *apperror.Error
		switch {
		case errors.As(err, &appErr):
			status = appErr.Kind.Status()
			if appErr.Kind != apperror.KindInternal && appErr.Message != "" {
				message = appErr.Message
			}
			details = appErr.Details
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		default:
			status = apperror.KindOf(err).Status()
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", ctx.Method()),
				zap.String("path", ctx.Path()),
				zap.Error(err))
		}

		body := fiber.Map{
			"success": false,
			"message": message,
		}
		if details != nil {
			body["errors"] = details
		}
		return ctx.Status(status).JSON(body)
	}
}
