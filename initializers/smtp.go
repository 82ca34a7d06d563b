package initializers

import (
	log "github.com/sirupsen/logrus"
	"trip-approval-backend/config"
	"trip-approval-backend/lib/smtp"
)

// InitSmtp без хоста уведомления о решениях только пишутся в журнал
func InitSmtp() {
	conf := config.Conf.Smtp
	if err := smtp.Connect(conf.User, conf.Password, conf.Host, conf.Port, *conf.TLSEnabled); err != nil {
		panic(err.Error())
	}
	log.WithField("smtp_host", conf.Host).
		WithField("sender", conf.Sender).
		Info("почтовый клиент настроен")
}
