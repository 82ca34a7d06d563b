package maintenanceworker

import (
	"context"
	"time"

	"trip-approval-backend/config"
	"trip-approval-backend/lib/maintenance"
	baseworker "trip-approval-backend/lib/utils/base-worker"
)

func StartWorker(ctx context.Context) {
	firstRunDelay := time.Duration(config.Conf.Maintenance.FirstRunDelaySec) * time.Second
	interval := time.Duration(config.Conf.Maintenance.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	w := baseworker.NewInstance("MaintenanceWorker", firstRunDelay, interval)
	go w.Run(ctx, handle)
}

func handle(ctx context.Context) error {
	_, err := maintenance.Instance.RunSweep(ctx)
	return err
}
