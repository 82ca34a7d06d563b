package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"trip-approval-backend/controllers"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/lib/budget"
	"trip-approval-backend/lib/rbac"
	"trip-approval-backend/middleware"
	"trip-approval-backend/models"
	apimodels "trip-approval-backend/models/api"
	budgetapimodels "trip-approval-backend/models/api/budget"
)

type budgetApiController struct {
	controllers.BaseAPIController
}

func InitBudgetApiRouters(app *fiber.App) {
	controller := budgetApiController{}
	app.Route("budget", func(router fiber.Router) {
		router.Route("project/:id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.project)
			idRoute.Post("check", controller.check)
			idRoute.Post("adjustment", controller.adjustment)
		})
		router.Route("department/:id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.department)
			idRoute.Put("", controller.setDepartmentBudget)
			idRoute.Put("bonus", controller.bonus)
		})
	})
}

// бюджет проекта видят системные роли и руководители проекта или его подразделения
func canSeeProjectBudget(view rbac.PermissionView, projectID string) bool {
	if view.Scope == models.SystemWideScope || view.ManagesProject(projectID) {
		return true
	}
	project, ok := view.Graph().Project(projectID)
	return ok && view.ManagesDepartment(project.DepartmentID)
}

func canSeeDepartmentBudget(view rbac.PermissionView, departmentID string) bool {
	return view.Scope == models.SystemWideScope || view.ManagesDepartment(departmentID)
}

// @Summary Проверка бюджета
// @Tags Бюджет
// @Description Хватит ли бюджета проекта на расход, без изменения данных
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "project ID"
// @Param	body body	 budgetapimodels.CheckData	true	"request body"
// @Success 200 {object} apimodels.Response{data=tripapimodels.BudgetCheckView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/budget/project/{id}/check [post]
func (c *budgetApiController) check(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload budgetapimodels.CheckData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := c.GetView(ctx)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка проверки бюджета")
	}
	if !canSeeProjectBudget(view, id) {
		return c.SendError(ctx, c.GetLogger(ctx), apperrors.Forbidden("нет доступа к бюджету проекта"), "Ошибка проверки бюджета")
	}
	result, err := budget.Instance.CheckProject(id, payload.Cost, payload.ExcludeRequestID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка проверки бюджета")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(budgetCheckConvert(*result)))
}

// @Summary Бюджет проекта
// @Tags Бюджет
// @Description Исходный бюджет, корректировки, распределено и доступно
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "project ID"
// @Success 200 {object} apimodels.Response{data=budgetapimodels.ProjectBudgetView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/budget/project/{id} [get]
func (c *budgetApiController) project(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := c.GetView(ctx)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения бюджета проекта")
	}
	if !canSeeProjectBudget(view, id) {
		return c.SendError(ctx, c.GetLogger(ctx), apperrors.Forbidden("нет доступа к бюджету проекта"), "Ошибка получения бюджета проекта")
	}
	result, err := budget.Instance.ProjectView(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения бюджета проекта")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(projectBudgetConvert(*result)))
}

// @Summary Корректировка бюджета проекта
// @Tags Бюджет
// @Description Запись корректировки со знаком, уменьшение не ниже распределенного
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "project ID"
// @Param	body body	 budgetapimodels.AdjustmentData	true	"request body"
// @Success 200 {object} apimodels.Response{data=budgetapimodels.ProjectBudgetView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/budget/project/{id}/adjustment [post]
func (c *budgetApiController) adjustment(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload budgetapimodels.AdjustmentData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := budget.Instance.AdjustProject(ctx.UserContext(), middleware.GetUserID(ctx), id, payload.Amount, payload.Justification)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка корректировки бюджета проекта")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(projectBudgetConvert(*result)))
}

// @Summary Бюджет подразделения
// @Tags Бюджет
// @Description Бюджет с учетом действующего бонуса
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "department ID"
// @Success 200 {object} apimodels.Response{data=budgetapimodels.DepartmentBudgetView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/budget/department/{id} [get]
func (c *budgetApiController) department(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := c.GetView(ctx)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения бюджета подразделения")
	}
	if !canSeeDepartmentBudget(view, id) {
		return c.SendError(ctx, c.GetLogger(ctx), apperrors.Forbidden("нет доступа к бюджету подразделения"), "Ошибка получения бюджета подразделения")
	}
	result, err := budget.Instance.DepartmentView(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения бюджета подразделения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(departmentBudgetConvert(*result)))
}

// @Summary Изменение бюджета подразделения
// @Tags Бюджет
// @Description Установка базового бюджета подразделения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "department ID"
// @Param	body body	 budgetapimodels.AmountData	true	"request body"
// @Success 200 {object} apimodels.Response{data=budgetapimodels.DepartmentBudgetView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/budget/department/{id} [put]
func (c *budgetApiController) setDepartmentBudget(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload budgetapimodels.AmountData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := budget.Instance.SetDepartmentBudget(ctx.UserContext(), middleware.GetUserID(ctx), id, payload.Amount)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения бюджета подразделения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(departmentBudgetConvert(*result)))
}

// @Summary Бонус подразделения
// @Tags Бюджет
// @Description Выдача бонуса на календарный месяц
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "department ID"
// @Param	body body	 budgetapimodels.AmountData	true	"request body"
// @Success 200 {object} apimodels.Response{data=budgetapimodels.DepartmentBudgetView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/budget/department/{id}/bonus [put]
func (c *budgetApiController) bonus(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload budgetapimodels.AmountData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := budget.Instance.GrantDepartmentBonus(ctx.UserContext(), middleware.GetUserID(ctx), id, payload.Amount)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выдачи бонуса подразделению")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(departmentBudgetConvert(*result)))
}

func projectBudgetConvert(rec budget.ProjectBudget) budgetapimodels.ProjectBudgetView {
	return budgetapimodels.ProjectBudgetView{
		ProjectID:       rec.ProjectID,
		Budget:          rec.Budget,
		OriginalBudget:  rec.OriginalBudget,
		Adjustments:     rec.Adjustments,
		EffectiveBudget: rec.EffectiveBudget,
		TotalAllocated:  rec.TotalAllocated,
		AvailableBudget: rec.AvailableBudget,
		IsActive:        rec.IsActive,
		ExpiresAt:       rec.ExpiresAt,
	}
}

func departmentBudgetConvert(rec budget.DepartmentBudget) budgetapimodels.DepartmentBudgetView {
	return budgetapimodels.DepartmentBudgetView{
		DepartmentID:    rec.DepartmentID,
		Budget:          rec.Budget,
		ActiveBonus:     rec.ActiveBonus,
		BonusResetAt:    rec.BonusResetAt,
		EffectiveBudget: rec.EffectiveBudget,
		TotalAllocated:  rec.TotalAllocated,
		AvailableBudget: rec.AvailableBudget,
	}
}
