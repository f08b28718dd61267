package middleware

import (
	"time"

	"github.com/Zmley/warehouse-admin-sub001/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latency by route pattern. It must sit
// outside RequestLogger so the status it reads is the final one.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		m.ObserveRequest(ctx.Method(), ctx.Route().Path, ctx.Response().StatusCode(), time.Since(start))
		return err
	}
}
