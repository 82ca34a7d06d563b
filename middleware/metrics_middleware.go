package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"trip-approval-backend/lib/metrics"
)

func MetricsMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		// шаблон маршрута, чтобы ид не раздували метки
		path := ctx.Path()
		if r := ctx.Route(); r != nil && r.Path != "" {
			path = r.Path
		}
		metrics.RecordAPIRequest(ctx.Method(), path, ctx.Response().StatusCode(), time.Since(start).Seconds())
		return err
	}
}
