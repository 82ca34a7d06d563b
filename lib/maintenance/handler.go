package maintenance

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"trip-approval-backend/db"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/lib/audit"
	departmentstore "trip-approval-backend/lib/dicts/department/store"
	projectstore "trip-approval-backend/lib/dicts/project/store"
	"trip-approval-backend/lib/metrics"
	"trip-approval-backend/lib/utils/helpers"
	"trip-approval-backend/lib/utils/lock"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

const (
	sweepItemBonusReset     = "bonus_reset"
	sweepItemProjectExpired = "project_expired"
	sweepItemFailure        = "failure"

	sweepLockKey  = "maintenance_sweep"
	sweepLockWait = 5 * time.Second
)

type Result struct {
	BonusResets int
	Expirations int
	Failures    int
}

type Provider interface {
	RunSweep(ctx context.Context) (Result, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewHandlerWithTx(db.DB, time.Now)
}

func NewHandlerWithTx(tx *gorm.DB, clock func() time.Time) Provider {
	return impl{
		db:    tx,
		clock: clock,
	}
}

type impl struct {
	db    *gorm.DB
	clock func() time.Time
}

func (i impl) getLogger() *log.Entry {
	return log.WithField("job", "maintenance_sweep")
}

// RunSweep в процессе одновременно выполняется не более одного обхода
func (i impl) RunSweep(ctx context.Context) (result Result, err error) {
	ok, err := lock.WithDelay(ctx, sweepLockKey, sweepLockWait, func() error {
		result, err = i.sweep(ctx)
		return err
	})
	if err != nil {
		return result, err
	}
	if !ok {
		return result, apperrors.Conflict("обслуживание уже выполняется")
	}
	return result, nil
}

// sweep каждая сущность обновляется в своей транзакции, ошибка по одной не прерывает обход
func (i impl) sweep(ctx context.Context) (Result, error) {
	logger := i.getLogger()
	now := i.clock()
	result := Result{}

	windowStart := dbmodels.BonusWindowStart(now)
	departments, err := departmentstore.NewInstance(i.db).ListBonusExpired(windowStart)
	if err != nil {
		return result, errors.Wrap(err, "ошибка получения подразделений с истекшим бонусом")
	}
	for _, department := range departments {
		if helpers.IsContextDone(ctx) {
			return result, ctx.Err()
		}
		updated, err := i.resetBonus(ctx, department, windowStart, now)
		if err != nil {
			result.Failures++
			logger.
				WithError(err).
				WithField("department_id", department.ID).
				Error("ошибка сброса бонуса подразделения")
			continue
		}
		if updated {
			result.BonusResets++
		}
	}

	projects, err := projectstore.NewInstance(i.db).ListExpired(now)
	if err != nil {
		return result, errors.Wrap(err, "ошибка получения проектов с истекшим сроком")
	}
	for _, project := range projects {
		if helpers.IsContextDone(ctx) {
			return result, ctx.Err()
		}
		updated, err := i.expireProject(ctx, project, now)
		if err != nil {
			result.Failures++
			logger.
				WithError(err).
				WithField("project_id", project.ID).
				Error("ошибка закрытия проекта")
			continue
		}
		if updated {
			result.Expirations++
		}
	}

	metrics.RecordSweep(sweepItemBonusReset, result.BonusResets)
	metrics.RecordSweep(sweepItemProjectExpired, result.Expirations)
	metrics.RecordSweep(sweepItemFailure, result.Failures)
	logger.
		WithField("bonus_resets", result.BonusResets).
		WithField("expirations", result.Expirations).
		WithField("failures", result.Failures).
		Info("обслуживание выполнено")
	return result, nil
}

func (i impl) resetBonus(ctx context.Context, department dbmodels.Department, windowStart, now time.Time) (updated bool, err error) {
	err = db.Transaction(ctx, i.db, func(tx *gorm.DB) error {
		updated, err = departmentstore.NewInstance(tx).ResetBonus(department.ID, windowStart, now)
		if err != nil || !updated {
			return err
		}
		return audit.NewHandlerWithTx(tx).Record(models.SystemUser, models.AuditDepartmentBonusReset, audit.Details{
			"department_id":  department.ID,
			"previous_bonus": department.MonthlyBonus,
			"granted_at":     department.BonusResetAt,
		})
	})
	return updated, err
}

func (i impl) expireProject(ctx context.Context, project dbmodels.Project, now time.Time) (updated bool, err error) {
	err = db.Transaction(ctx, i.db, func(tx *gorm.DB) error {
		updated, err = projectstore.NewInstance(tx).Deactivate(project.ID, now)
		if err != nil || !updated {
			return err
		}
		return audit.NewHandlerWithTx(tx).Record(models.SystemUser, models.AuditProjectExpired, audit.Details{
			"project_id": project.ID,
			"expires_at": project.ExpiresAt,
		})
	})
	return updated, err
}
