package initializers

import (
	log "github.com/sirupsen/logrus"
	"trip-approval-backend/config"
	"trip-approval-backend/fiberlog"
)

func newJSONFormatter() *log.JSONFormatter {
	return &log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	}
}

// InitLogger уровень берется из конфигурации, журнал запросов api пишется отдельным логгером
func InitLogger() *fiberlog.Config {
	level, err := log.ParseLevel(config.Conf.App.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetFormatter(newJSONFormatter())
	log.SetLevel(level)
	if err != nil {
		log.WithField("log_level", config.Conf.App.LogLevel).Warn("неизвестный уровень журнала, используется info")
	}

	apiLogger := log.New()
	apiLogger.SetFormatter(newJSONFormatter())
	apiLogger.SetLevel(log.DebugLevel)
	return &fiberlog.Config{
		Logger: apiLogger,
		Tags: []string{
			fiberlog.TagBody,
			fiberlog.TagResBody,
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.TagUserID,
			fiberlog.RequestID,
		},
		Skip: fiberlog.SkipPreflight,
	}
}
