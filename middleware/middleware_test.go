package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"trip-approval-backend/db/dbtest"
	"trip-approval-backend/lib/rbac"
	authutils "trip-approval-backend/lib/utils/auth-utils"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

const testSecret = "secret"

func testApp(t *testing.T) (*fiber.App, map[models.UserRole]dbmodels.User) {
	conn := dbtest.Open(t)
	users := map[models.UserRole]dbmodels.User{}
	for _, role := range []models.UserRole{models.SuperAdminRole, models.FinanceAdminRole, models.EmployeeRole} {
		user := dbmodels.User{Email: string(role) + "@test", Role: role, IsActive: true}
		require.NoError(t, conn.Create(&user).Error)
		users[role] = user
	}
	rbac.NewHandler()
	rbac.Resolver = rbac.NewResolverWithTx(conn)

	app := fiber.New()
	api := fiber.New()
	app.Mount("/api/v1", api)
	api.Use(AuthorizationRequired(testSecret))
	api.Use(RbacMiddleware())
	api.Post("/maintenance/sweep", func(ctx *fiber.Ctx) error {
		view, ok := GetPermissionView(ctx)
		require.True(t, ok)
		return ctx.SendString(string(view.EffectiveRole))
	})
	api.Get("/requests/visible", func(ctx *fiber.Ctx) error {
		return ctx.SendString(GetUserID(ctx))
	})
	return app, users
}

func doRequest(t *testing.T, app *fiber.App, method, path string, user dbmodels.User, activeRole models.UserRole) int {
	req := httptest.NewRequest(method, path, nil)
	if user.ID != "" {
		token, err := authutils.GetToken(testSecret, time.Hour, user.ID, user.Email, user.Role, activeRole)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRbacMiddleware(t *testing.T) {
	app, users := testApp(t)

	require.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, "POST", "/api/v1/maintenance/sweep", dbmodels.User{}, ""))
	require.Equal(t, fiber.StatusOK, doRequest(t, app, "POST", "/api/v1/maintenance/sweep", users[models.SuperAdminRole], ""))
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "POST", "/api/v1/maintenance/sweep", users[models.FinanceAdminRole], ""))
	// временное понижение роли сужает права
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "POST", "/api/v1/maintenance/sweep", users[models.SuperAdminRole], models.ManagerRole))
	// повышение роли через токен недопустимо
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "GET", "/api/v1/requests/visible", users[models.EmployeeRole], models.SuperAdminRole))
	require.Equal(t, fiber.StatusOK, doRequest(t, app, "GET", "/api/v1/requests/visible", users[models.EmployeeRole], ""))

	unknown := dbmodels.User{BaseModel: dbmodels.BaseModel{ID: "missing"}, Role: models.SuperAdminRole}
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "GET", "/api/v1/requests/visible", unknown, ""))
}

func TestBodyLimit(t *testing.T) {
	app := fiber.New()
	app.Use(WithBodyLimit(10))
	app.Post("/", func(ctx *fiber.Ctx) error { return ctx.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("a", 100)))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestErrNotify(t *testing.T) {
	received := make(chan errNotification, 1)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := errNotification{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&n))
		received <- n
	}))
	defer hook.Close()

	app := fiber.New()
	app.Use(ErrNotify(hook.URL))
	app.Get("/fail/:id", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "fail", "message": "таймаут транзакции", "request_id": "t1"})
	})
	app.Get("/ok", func(ctx *fiber.Ctx) error { return ctx.SendStatus(fiber.StatusOK) })

	_, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/fail/1", nil))
	require.NoError(t, err)

	select {
	case n := <-received:
		require.Equal(t, fiber.StatusServiceUnavailable, n.Code)
		require.Equal(t, "/fail/:id", n.Path)
		require.Equal(t, "таймаут транзакции", n.Error)
		require.Equal(t, "t1", n.RequestID)
	case <-time.After(2 * time.Second):
		t.Fatal("уведомление не отправлено")
	}
	require.Empty(t, received)
}
