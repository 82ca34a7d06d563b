package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	apimodels "trip-approval-backend/models/api"
)

// AuthorizationRequired токен без идентификатора пользователя не принимается
func AuthorizationRequired(secret string) fiber.Handler {
	unauthorized := func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("требуется авторизация"))
	}
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(secret),
		},
		SuccessHandler: func(ctx *fiber.Ctx) error {
			if GetUserID(ctx) == "" {
				return unauthorized(ctx)
			}
			return ctx.Next()
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return unauthorized(ctx)
		},
	})
}
