package fiberlog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// Logger nil - стандартный логгер logrus
	Logger *logrus.Logger
	Tags   []string
	// Skip запрос не попадает в журнал
	Skip func(c *fiber.Ctx) bool
}

var ConfigDefault = Config{
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
		TagUserID,
	},
	Skip: SkipPreflight,
}

func SkipPreflight(c *fiber.Ctx) bool {
	return c.Method() == fiber.MethodOptions
}
