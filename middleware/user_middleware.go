package middleware

import (
	"github.com/gofiber/fiber/v2"
	"trip-approval-backend/lib/rbac"
	authutils "trip-approval-backend/lib/utils/auth-utils"
	"trip-approval-backend/models"
)

const permissionViewKey = "permission_view"

func GetCurrentUser(ctx *fiber.Ctx) models.CurrentUser {
	return authutils.GetCurrentUser(ctx)
}

func GetUserID(ctx *fiber.Ctx) string {
	return GetCurrentUser(ctx).ID
}

// GetPermissionView права, вычисленные RbacMiddleware для текущего запроса
func GetPermissionView(ctx *fiber.Ctx) (rbac.PermissionView, bool) {
	view, ok := ctx.Locals(permissionViewKey).(rbac.PermissionView)
	return view, ok
}
