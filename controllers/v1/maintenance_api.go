package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"trip-approval-backend/controllers"
	"trip-approval-backend/lib/maintenance"
	apimodels "trip-approval-backend/models/api"
	auditapimodels "trip-approval-backend/models/api/audit"
)

type maintenanceApiController struct {
	controllers.BaseAPIController
}

func InitMaintenanceApiRouters(app *fiber.App) {
	controller := maintenanceApiController{}
	app.Post("maintenance/sweep", controller.sweep)
}

// @Summary Обслуживание
// @Tags Обслуживание
// @Description Внеочередной запуск ежедневного обслуживания: сброс бонусов и закрытие проектов
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=auditapimodels.SweepView}
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/maintenance/sweep [post]
func (c *maintenanceApiController) sweep(ctx *fiber.Ctx) error {
	result, err := maintenance.Instance.RunSweep(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выполнения обслуживания")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(auditapimodels.SweepView{
		BonusResets: result.BonusResets,
		Expirations: result.Expirations,
		Failures:    result.Failures,
	}))
}
