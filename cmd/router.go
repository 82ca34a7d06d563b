package cmd

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"trip-approval-backend/config"
	apiv1 "trip-approval-backend/controllers/v1"
	"trip-approval-backend/fiberlog"
	"trip-approval-backend/lib/metrics"
	"trip-approval-backend/middleware"
)

const bodyLimit = 10 * 1024 * 1024

func setupRoutes(loggerConfig fiberlog.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	app.Use(fiberRecover.New())
	app.Use(middleware.WithBodyLimit(bodyLimit))
	if config.Conf.App.ErrNotifyAddr != "" {
		app.Use(middleware.ErrNotify(config.Conf.App.ErrNotifyAddr))
	}

	if _, err := os.Stat(config.Conf.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			Path:     "/swagger",
			FilePath: config.Conf.App.SwaggerFile,
		}))
	}
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(loggerConfig))
	apiV1.Use(middleware.MetricsMiddleware())
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	apiV1.Use(middleware.AuthorizationRequired(config.Conf.Auth.JWTSecret))
	apiV1.Use(middleware.RbacMiddleware())
	app.Mount("/api/v1", apiV1)

	apiv1.InitTripRequestApiRouters(apiV1)
	apiv1.InitAdminRequestApiRouters(apiV1)
	apiv1.InitDecisionApiRouters(apiV1)
	apiv1.InitBudgetApiRouters(apiV1)
	apiv1.InitMaintenanceApiRouters(apiV1)
	apiv1.InitAuditApiRouters(apiV1)
	return app
}
