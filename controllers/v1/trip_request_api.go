package apiv1

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"trip-approval-backend/controllers"
	"trip-approval-backend/lib/approval"
	tripreqhandler "trip-approval-backend/lib/trip-req"
	"trip-approval-backend/middleware"
	apimodels "trip-approval-backend/models/api"
	tripapimodels "trip-approval-backend/models/api/trip"
)

type tripRequestApiController struct {
	controllers.BaseAPIController
}

func InitTripRequestApiRouters(app *fiber.App) {
	controller := tripRequestApiController{}
	app.Route("trip_request", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Post("list", controller.list)
		router.Put("bulk_paid", controller.bulkPaid)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Get("steps", controller.steps)
			idRoute.Get("approval_sheet", controller.approvalSheet)
			idRoute.Get("can_approve", controller.canApprove)
			idRoute.Put("cancel", controller.cancel) // отозвать заявку
			idRoute.Put("paid", controller.paid)     // отметить оплату
		})
	})
}

// @Summary Создание
// @Tags Командировка
// @Description Создание заявки на командировку, этапы согласования формируются сразу
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 tripapimodels.TripRequestData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trip_request [post]
func (c *tripRequestApiController) create(ctx *fiber.Ctx) error {
	var payload tripapimodels.TripRequestData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := tripreqhandler.Instance.Create(ctx.UserContext(), middleware.GetCurrentUser(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список
// @Tags Командировка
// @Description Список видимых пользователю заявок
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 tripapimodels.TripFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]tripapimodels.TripRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trip_request/list [post]
func (c *tripRequestApiController) list(ctx *fiber.Ctx) error {
	var payload tripapimodels.TripFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := tripreqhandler.Instance.List(middleware.GetCurrentUser(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Получение по ИД
// @Tags Командировка
// @Description Получение по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=tripapimodels.TripRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trip_request/{id} [get]
func (c *tripRequestApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := tripreqhandler.Instance.GetByID(middleware.GetCurrentUser(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Этапы согласования
// @Tags Командировка
// @Description Этапы согласования заявки по порядку
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=[]tripapimodels.WorkflowStepView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trip_request/{id}/steps [get]
func (c *tripRequestApiController) steps(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := tripreqhandler.Instance.Steps(middleware.GetCurrentUser(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения этапов согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Лист согласования
// @Tags Командировка
// @Description Лист согласования согласованной заявки в формате PDF
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trip_request/{id}/approval_sheet [get]
func (c *tripRequestApiController) approvalSheet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	file, err := tripreqhandler.Instance.ApprovalSheet(middleware.GetCurrentUser(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования листа согласования")
	}
	fileName := fmt.Sprintf("approval_sheet_%s.pdf", id)
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", fileName))
	return ctx.Status(fiber.StatusOK).Send(file)
}

// @Summary Возможность согласования
// @Tags Командировка
// @Description Может ли пользователь закрыть текущий этап заявки, с учетом бюджета проекта
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=tripapimodels.CanApproveView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trip_request/{id}/can_approve [get]
func (c *tripRequestApiController) canApprove(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ok, err := approval.Instance.CanApprove(middleware.GetCurrentUser(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка проверки возможности согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(tripapimodels.CanApproveView{CanApprove: ok}))
}

// @Summary Отзыв
// @Tags Командировка
// @Description Отзыв заявки автором, пока она на согласовании
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=tripapimodels.OutcomeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trip_request/{id}/cancel [put]
func (c *tripRequestApiController) cancel(ctx *fiber.Ctx) error {
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

// @Summary Оплата
// @Tags Командировка
// @Description Отметка об оплате согласованной заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=tripapimodels.OutcomeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trip_request/{id}/paid [put]
func (c *tripRequestApiController) paid(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	outcome, err := approval.Instance.MarkPaid(ctx.UserContext(), middleware.GetCurrentUser(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отметки об оплате")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(outcomeConvert(*outcome)))
}

// @Summary Массовая оплата
// @Tags Командировка
// @Description Отметка об оплате списка заявок, каждая обрабатывается отдельно
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 tripapimodels.BulkPaidData	true	"request body"
// @Success 200 {object} apimodels.Response{data=tripapimodels.BulkPaidView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trip_request/bulk_paid [put]
func (c *tripRequestApiController) bulkPaid(ctx *fiber.Ctx) error {
	var payload tripapimodels.BulkPaidData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := approval.Instance.BulkMarkPaid(ctx.UserContext(), middleware.GetCurrentUser(ctx), payload.RequestIDs)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка массовой отметки об оплате")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(bulkPaidConvert(*result)))
}
