package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/lib/rbac"
	"trip-approval-backend/middleware"
	apimodels "trip-approval-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("не указан идентификатор")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// GetView права текущего пользователя, вычисленные RbacMiddleware
func (c *BaseAPIController) GetView(ctx *fiber.Ctx) (rbac.PermissionView, error) {
	view, ok := middleware.GetPermissionView(ctx)
	if !ok {
		return rbac.PermissionView{}, apperrors.Forbidden("права пользователя не определены")
	}
	return view, nil
}

// SendError доменные ошибки отдаются со своим кодом, остальные как 500 с сообщением msg
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	if appErr, ok := apperrors.As(err); ok {
		status := apperrors.HTTPStatus(err)
		logger.
			WithField("error_kind", appErr.Kind).
			WithField("status", status).
			Warn(appErr.Error())
		return ctx.Status(status).JSON(apimodels.NewAppError(appErr))
	}
	logger.WithError(err).Error(msg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(msg))
}
