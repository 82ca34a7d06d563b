package initializers

import (
	"time"

	"trip-approval-backend/config"
	"trip-approval-backend/db"
)

func InitDBConnection() {
	InitDBConnectionWithMigrate(*config.Conf.Database.MigrateOnStart)
}

func InitDBConnectionWithMigrate(migrate bool) {
	err := db.Connect(config.Conf.Database.Host, config.Conf.Database.Port, config.Conf.Database.Name,
		config.Conf.Database.User, config.Conf.Database.Password, *config.Conf.Database.DebugMode, migrate)
	if err != nil {
		panic(err.Error())
	}
	if config.Conf.Database.TxTimeoutSec > 0 {
		db.TxTimeout = time.Duration(config.Conf.Database.TxTimeoutSec) * time.Second
	}
}
