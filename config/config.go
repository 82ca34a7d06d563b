package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr  string `default:"" env:"APP_HOST"`
		Port        int    `default:"8080"  env:"APP_PORT"`
		SwaggerFile string `default:"./docs/swagger.json" env:"APP_SWAGGER_FILE"`
		LogLevel    string `default:"info" env:"APP_LOG_LEVEL"`
		// ErrNotifyAddr адрес вебхука для уведомлений об ошибках 5xx, пусто - не отправлять
		ErrNotifyAddr string `default:"" env:"APP_ERR_NOTIFY_ADDR"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"trip-approval" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
		TxTimeoutSec   int    `default:"10" env:"DB_TX_TIMEOUT_SEC"`
	}
	Auth struct {
		JWTSecret      string `default:"" env:"JWT_SECRET"`
		JWTExpireInSec int    `default:"86400" env:"JWT_EXPIRE_IN_SEC"`
	}
	Workflow struct {
		BulkLimit int `default:"200" env:"WORKFLOW_BULK_LIMIT"`
	}
	Maintenance struct {
		Enabled          *bool `default:"true" env:"MAINTENANCE_ENABLED"`
		FirstRunDelaySec int   `default:"60" env:"MAINTENANCE_FIRST_RUN_DELAY_SEC"`
		IntervalHours    int   `default:"24" env:"MAINTENANCE_INTERVAL_HOURS"`
	}
	Export struct {
		// FontDir каталог с Arial.ttf и Arial Bold.ttf для PDF
		FontDir string `default:"static/font/" env:"EXPORT_FONT_DIR"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		Sender     string `default:"noreply@trip-approval.local" env:"SMTP_SENDER"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
