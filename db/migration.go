package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	dbmodels "trip-approval-backend/models/db"
)

func AutoMigrateDB(conn *gorm.DB) error {
	log.Info("Запуск миграций")
	tables := []struct {
		name  string
		model any
	}{
		{"User", &dbmodels.User{}},
		{"Department", &dbmodels.Department{}},
		{"Project", &dbmodels.Project{}},
		{"TripRequest", &dbmodels.TripRequest{}},
		{"WorkflowStep", &dbmodels.WorkflowStep{}},
		{"AdminRequest", &dbmodels.AdminRequest{}},
		{"BudgetAdjustment", &dbmodels.BudgetAdjustment{}},
		{"AuditLogEntry", &dbmodels.AuditLogEntry{}},
	}
	for _, table := range tables {
		if err := conn.AutoMigrate(table.model); err != nil {
			return errors.Wrapf(err, "ошибка создания структуры %s", table.name)
		}
	}
	log.Info("Миграция прошла успешно")
	return nil
}
