package authutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"trip-approval-backend/models"
)

// GetToken activeRole пустая, если пользователь работает под заявленной ролью
func GetToken(secret string, expireIn time.Duration, userID, name string, role, activeRole models.UserRole) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"name": name,
		"sub":  userID,
		"role": string(role),
		"exp":  time.Now().Add(expireIn).Unix(),
		"iat":  time.Now().Unix(),
	}
	if activeRole != "" {
		claims["active_role"] = string(activeRole)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}

func claimString(claims jwt.MapClaims, key string) string {
	if value, exist := claims[key]; exist {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}

// GetCurrentUser роль из токена используется только для сверки, права считаются по БД
func GetCurrentUser(ctx *fiber.Ctx) models.CurrentUser {
	claims := GetClaims(ctx)
	return models.CurrentUser{
		ID:           claimString(claims, "sub"),
		DeclaredRole: models.UserRole(claimString(claims, "role")),
		ActiveRole:   models.UserRole(claimString(claims, "active_role")),
	}
}
