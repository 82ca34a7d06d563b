package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"trip-approval-backend/controllers"
	adminreqhandler "trip-approval-backend/lib/admin-req"
	"trip-approval-backend/lib/approval"
	"trip-approval-backend/middleware"
	apimodels "trip-approval-backend/models/api"
	tripapimodels "trip-approval-backend/models/api/trip"
)

type adminRequestApiController struct {
	controllers.BaseAPIController
}

func InitAdminRequestApiRouters(app *fiber.App) {
	controller := adminRequestApiController{}
	app.Route("admin_request", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Post("list", controller.list)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("cancel", controller.cancel)
		})
	})
}

// @Summary Создание
// @Tags Административная заявка
// @Description Создание заявки на увеличение бюджета, новый проект или прочее
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 tripapimodels.AdminRequestData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin_request [post]
func (c *adminRequestApiController) create(ctx *fiber.Ctx) error {
	var payload tripapimodels.AdminRequestData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := adminreqhandler.Instance.Create(ctx.UserContext(), middleware.GetCurrentUser(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список
// @Tags Административная заявка
// @Description Список видимых пользователю административных заявок
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]tripapimodels.AdminRequestView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin_request/list [post]
func (c *adminRequestApiController) list(ctx *fiber.Ctx) error {
	list, err := adminreqhandler.Instance.List(middleware.GetCurrentUser(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Получение по ИД
// @Tags Административная заявка
// @Description Получение по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=tripapimodels.AdminRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin_request/{id} [get]
func (c *adminRequestApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := adminreqhandler.Instance.GetByID(middleware.GetCurrentUser(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Отзыв
// @Tags Административная заявка
// @Description Отзыв заявки автором
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=tripapimodels.OutcomeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin_request/{id}/cancel [put]
func (c *adminRequestApiController) cancel(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	outcome, err := approval.Instance.Cancel(ctx.UserContext(), middleware.GetCurrentUser(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отзыва заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(outcomeConvert(*outcome)))
}
