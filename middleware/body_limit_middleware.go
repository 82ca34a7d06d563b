package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	apimodels "trip-approval-backend/models/api"
)

// WithBodyLimit проверяет заявленную длину и фактический размер тела
func WithBodyLimit(limit int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		size := int64(c.Request().Header.ContentLength())
		if bodySize := int64(len(c.Request().Body())); bodySize > size {
			size = bodySize
		}
		if size > limit {
			return c.Status(fiber.StatusRequestEntityTooLarge).
				JSON(apimodels.NewError(fmt.Sprintf("слишком большой запрос, допустимо не более %d байт", limit)))
		}
		return c.Next()
	}
}
