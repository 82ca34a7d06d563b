package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"trip-approval-backend/lib/apperrors"
)

var DB *gorm.DB

// TxTimeout ограничение времени одной транзакции
var TxTimeout = 10 * time.Second

func Connect(host string, port string, database string, user string, pass string, debugMode bool, migrate bool) (err error) {
	if DB == nil {
		dbConnString := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s", host, port, user, database, pass)
		db, err := gorm.Open(postgres.Open(dbConnString), &gorm.Config{
			Logger: gorm_logrus.New(),
		})
		if err != nil {
			return errors.Wrap(err, "Ошибка подключения к БД")
		}
		if debugMode {
			db.Logger = logger.Default.LogMode(logger.Info)
			DB = db.Debug()
		} else {
			DB = db
		}
		if migrate {
			err = AutoMigrateDB(DB)
		}
		log.Info("Сервис успешно подключен к БД")
		return err
	}
	return nil
}

func PingDB() error {
	db, err := DB.DB()
	if err != nil {
		return err
	}
	if err = db.Ping(); err != nil {
		return err
	}
	return nil
}

// Transaction выполняет fc в одной транзакции с таймаутом.
// На postgres уровень изоляции read committed задается явно.
// Истечение таймаута возвращается как повторяемая ошибка.
func Transaction(ctx context.Context, conn *gorm.DB, fc func(tx *gorm.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	txCtx, cancel := context.WithTimeout(ctx, TxTimeout)
	defer cancel()

	var opts []*sql.TxOptions
	if conn.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	}
	err := conn.WithContext(txCtx).Transaction(fc, opts...)
	if err != nil && txCtx.Err() != nil && errors.Is(txCtx.Err(), context.DeadlineExceeded) {
		log.WithError(err).Warn("транзакция прервана по таймауту")
		return apperrors.Unavailable("операция не завершена за отведенное время, повторите запрос")
	}
	return err
}
