package apiv1

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"trip-approval-backend/controllers"
	"trip-approval-backend/lib/audit"
	auditstore "trip-approval-backend/lib/audit/store"
	xlsexport "trip-approval-backend/lib/export/xls"
	apimodels "trip-approval-backend/models/api"
	auditapimodels "trip-approval-backend/models/api/audit"
)

type auditApiController struct {
	controllers.BaseAPIController
}

func InitAuditApiRouters(app *fiber.App) {
	controller := auditApiController{}
	app.Route("audit", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("export", controller.export)
	})
}

func auditStoreFilter(filter auditapimodels.AuditFilter, paged bool) auditstore.Filter {
	result := auditstore.Filter{
		ActorID: filter.ActorID,
		Action:  filter.Action,
		From:    filter.From,
		To:      filter.To,
	}
	if paged {
		page, limit := filter.GetPage()
		result.Limit = limit
		result.Offset = (page - 1) * limit
	}
	return result
}

// @Summary Журнал аудита
// @Tags Аудит
// @Description Записи журнала аудита по фильтру, по возрастанию времени
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 auditapimodels.AuditFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]auditapimodels.AuditEntryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/audit/list [post]
func (c *auditApiController) list(ctx *fiber.Ctx) error {
	var payload auditapimodels.AuditFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := audit.Instance.List(auditStoreFilter(payload, true))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала аудита")
	}
	result := make([]auditapimodels.AuditEntryView, 0, len(list))
	for _, rec := range list {
		result = append(result, auditapimodels.AuditEntryConvert(rec))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(result, rowCount))
}

// @Summary Выгрузка журнала аудита
// @Tags Аудит
// @Description Выгрузка записей журнала аудита по фильтру в xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 auditapimodels.AuditFilter	true	"request body"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/audit/export [post]
func (c *auditApiController) export(ctx *fiber.Ctx) error {
	var payload auditapimodels.AuditFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, _, err := audit.Instance.List(auditStoreFilter(payload, false))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала аудита")
	}
	buf, err := xlsexport.Instance.ExportAuditLog(list)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки журнала аудита")
	}
	fileName := fmt.Sprintf("audit_%s.xlsx", time.Now().Format("20060102_150405"))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", fileName))
	return ctx.Status(fiber.StatusOK).SendStream(buf)
}
