package fiberlog

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// New журнал запросов: 5xx уровнем error, остальные ответы >= 300 уровнем warning
func New(config ...Config) fiber.Handler {
	cfg := ConfigDefault
	if len(config) != 0 {
		cfg = config[0]
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	pid := os.Getpid()
	tags := getFuncTagMap(cfg)
	return func(c *fiber.Ctx) error {
		d := &data{pid: pid, start: time.Now()}
		err := c.Next()
		d.end = time.Now()
		if cfg.Skip != nil && cfg.Skip(c) {
			return err
		}
		entry := logger.WithFields(collectFields(tags, c, d))
		status := c.Response().StatusCode()
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("ошибка обработки запроса api")
		case status >= fiber.StatusMultipleChoices:
			entry.Warn("запрос api")
		default:
			entry.Info("запрос api")
		}
		return err
	}
}

// collectFields пустые строковые значения в журнал не попадают
func collectFields(tags map[string]FuncTag, c *fiber.Ctx, d *data) log.Fields {
	fields := make(log.Fields, len(tags))
	for name, tag := range tags {
		value := tag(c, d)
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		fields[name] = value
	}
	return fields
}
