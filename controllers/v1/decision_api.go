package apiv1

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"trip-approval-backend/controllers"
	"trip-approval-backend/lib/approval"
	"trip-approval-backend/lib/budget"
	"trip-approval-backend/lib/rbac"
	"trip-approval-backend/middleware"
	apimodels "trip-approval-backend/models/api"
	tripapimodels "trip-approval-backend/models/api/trip"
)

type decisionApiController struct {
	controllers.BaseAPIController
}

func InitDecisionApiRouters(app *fiber.App) {
	controller := decisionApiController{}
	app.Get("requests/visible", controller.visible)
	app.Route("request", func(router fiber.Router) {
		router.Put("bulk_decision", controller.bulkDecision)
		router.Put(":id/decision", controller.decision)
	})
}

// @Summary Видимые заявки
// @Tags Согласование
// @Description Идентификаторы командировок и административных заявок, видимых пользователю
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=tripapimodels.VisibleRequestsView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/visible [get]
func (c *decisionApiController) visible(ctx *fiber.Ctx) error {
	ids, err := rbac.Resolver.ResolveVisibleRequestIDs(middleware.GetCurrentUser(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	result := tripapimodels.VisibleRequestsView{RequestIDs: make([]string, 0, len(ids))}
	for id := range ids {
		result.RequestIDs = append(result.RequestIDs, id)
	}
	sort.Strings(result.RequestIDs)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Решение по заявке
// @Tags Согласование
// @Description Согласование или отклонение текущего этапа командировки либо административной заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 tripapimodels.DecisionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=tripapimodels.OutcomeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/{id}/decision [put]
func (c *decisionApiController) decision(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload tripapimodels.DecisionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	outcome, err := approval.Instance.Approve(ctx.UserContext(), middleware.GetCurrentUser(ctx), id, payload.Decision, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка применения решения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(outcomeConvert(*outcome)))
}

// @Summary Массовое решение
// @Tags Согласование
// @Description Одно решение по списку заявок: применяется ко всем или ни к одной
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 tripapimodels.BulkDecisionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=tripapimodels.BulkDecisionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/bulk_decision [put]
func (c *decisionApiController) bulkDecision(ctx *fiber.Ctx) error {
	var payload tripapimodels.BulkDecisionData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := approval.Instance.BulkApprove(ctx.UserContext(), middleware.GetCurrentUser(ctx), payload.RequestIDs, payload.Decision, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка массового применения решения")
	}
	view := tripapimodels.BulkDecisionView{
		Count:     result.Count,
		Allocated: result.Allocated,
		Released:  result.Released,
		Results:   make([]tripapimodels.OutcomeView, 0, len(result.Results)),
	}
	for _, outcome := range result.Results {
		view.Results = append(view.Results, outcomeConvert(outcome))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

func budgetCheckConvert(check budget.CheckResult) tripapimodels.BudgetCheckView {
	return tripapimodels.BudgetCheckView{
		CanApprove:      check.CanApprove,
		BudgetExcess:    check.BudgetExcess,
		AvailableBudget: check.AvailableBudget,
		TotalSpent:      check.TotalSpent,
		EffectiveBudget: check.EffectiveBudget,
		Reason:          check.Reason,
	}
}

func outcomeConvert(outcome approval.Outcome) tripapimodels.OutcomeView {
	view := tripapimodels.OutcomeView{
		RequestID:  outcome.RequestID,
		Kind:       outcome.Kind,
		PrevStatus: outcome.PrevStatus,
		Status:     outcome.Status,
		StepType:   outcome.StepType,
	}
	if outcome.BudgetCheck != nil {
		check := budgetCheckConvert(*outcome.BudgetCheck)
		view.Budget = &check
	}
	return view
}

func bulkPaidConvert(result approval.BulkPaidResult) tripapimodels.BulkPaidView {
	view := tripapimodels.BulkPaidView{
		Count:   result.Count,
		Results: make([]tripapimodels.PaidItemView, 0, len(result.Results)),
	}
	for _, item := range result.Results {
		view.Results = append(view.Results, tripapimodels.PaidItemView{
			RequestID: item.RequestID,
			Success:   item.Success,
			Status:    item.Status,
			ErrorKind: string(item.ErrorKind),
			Error:     item.Error,
		})
	}
	return view
}
