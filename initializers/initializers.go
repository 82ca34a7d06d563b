package initializers

import (
	"context"
	"time"

	"trip-approval-backend/config"
	"trip-approval-backend/db"
	"trip-approval-backend/fiberlog"
	adminreqhandler "trip-approval-backend/lib/admin-req"
	"trip-approval-backend/lib/approval"
	"trip-approval-backend/lib/audit"
	"trip-approval-backend/lib/budget"
	pdfexport "trip-approval-backend/lib/export/pdf"
	xlsexport "trip-approval-backend/lib/export/xls"
	"trip-approval-backend/lib/maintenance"
	maintenanceworker "trip-approval-backend/lib/maintenance/worker"
	"trip-approval-backend/lib/metrics"
	"trip-approval-backend/lib/rbac"
	tripreqhandler "trip-approval-backend/lib/trip-req"
	baseworker "trip-approval-backend/lib/utils/base-worker"
	initchecker "trip-approval-backend/lib/utils/init-checker"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	config.InitConfig()
	LoggerConfig = InitLogger()
	InitDBConnection()
	InitSmtp()
	InitHandlers()
	go initWorkers(ctx)
}

func InitHandlers() {
	rbac.NewHandler()
	rbac.NewResolver()
	audit.NewHandler()
	budget.NewHandler()
	pdfexport.NewHandler(config.Conf.Export.FontDir)
	tripreqhandler.NewHandler()
	adminreqhandler.NewHandler()
	approval.NewHandler()
	maintenance.NewHandler()
	xlsexport.NewHandler()
	initchecker.CheckInit(
		"rbac", rbac.Instance,
		"rbac resolver", rbac.Resolver,
		"audit", audit.Instance,
		"budget", budget.Instance,
		"trip request", tripreqhandler.Instance,
		"admin request", adminreqhandler.Instance,
		"approval", approval.Instance,
		"maintenance", maintenance.Instance,
		"xls export", xlsexport.Instance,
		"pdf export", pdfexport.Instance,
	)
}

func initWorkers(ctx context.Context) {
	if *config.Conf.Maintenance.Enabled {
		// Задача ежедневного обслуживания: сброс бонусов и закрытие проектов
		maintenanceworker.StartWorker(ctx)
	}
	// Задача обновления метрик пула соединений с БД
	statsWorker := baseworker.NewInstance("DbStatsWorker", 0, 30*time.Second)
	go statsWorker.Run(ctx, func(ctx context.Context) error {
		return metrics.UpdateDatabaseConnections(db.DB)
	})
}
