package middleware

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/lib/rbac"
	apimodels "trip-approval-backend/models/api"
)

// RbacMiddleware права вычисляются по БД на каждый запрос, роль из токена только сверяется
func RbacMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user := GetCurrentUser(ctx)
		if user.ID == "" {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("RBAC_FORBIDDEN"))
		}

		view, err := rbac.Resolver.Resolve(user)
		if err != nil {
			if appErr, ok := apperrors.As(err); ok {
				return ctx.Status(apperrors.HTTPStatus(err)).JSON(apimodels.NewAppError(appErr))
			}
			log.WithError(err).WithField("user_id", user.ID).Error("ошибка вычисления прав пользователя")
			return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("ошибка вычисления прав пользователя"))
		}
		ctx.Locals(permissionViewKey, view)

		// Ищем обработчик
		handler, found := rbac.Instance.GetRuleFunc(ctx.Method(), ctx.Path())
		if !found {
			return ctx.Next()
		}

		// Выполняем проверку
		if !handler(view) {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("RBAC_FORBIDDEN"))
		}

		return ctx.Next()
	}
}
