package middleware

import (
	"time"

	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger writes one line per request once the handler chain returns.
func RequestLogger(logger *zap.Logger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		chainErr := ctx.Next()
		if chainErr != nil {
			if err := ctx.App().ErrorHandler(ctx, chainErr); err != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		fields := []zap.Field{
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", ctx.IP()),
		}
		if p, err := auth.PrincipalFrom(ctx); err == nil {
			fields = append(fields, zap.String("account_id", p.AccountID.String()))
		}
		logger.Info("request", fields...)
		return nil
	}
}
