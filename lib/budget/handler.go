package budget

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"trip-approval-backend/db"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/lib/audit"
	adjustmentstore "trip-approval-backend/lib/budget/adjustment-store"
	departmentstore "trip-approval-backend/lib/dicts/department/store"
	projectstore "trip-approval-backend/lib/dicts/project/store"
	tripreqstore "trip-approval-backend/lib/trip-req/store"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

type Provider interface {
	CheckProject(projectID string, cost decimal.Decimal, excludeRequestID string) (*CheckResult, error)
	CheckDepartment(departmentID string, cost decimal.Decimal, excludeRequestID string) (*CheckResult, error)
	ProjectView(projectID string) (*ProjectBudget, error)
	DepartmentView(departmentID string) (*DepartmentBudget, error)
	AdjustProject(ctx context.Context, actorID, projectID string, amount decimal.Decimal, justification string) (*ProjectBudget, error)
	GrantDepartmentBonus(ctx context.Context, actorID, departmentID string, amount decimal.Decimal) (*DepartmentBudget, error)
	SetDepartmentBudget(ctx context.Context, actorID, departmentID string, amount decimal.Decimal) (*DepartmentBudget, error)
	ApplyProjectAdjustment(project dbmodels.Project, actorID string, amount decimal.Decimal, justification string) (audit.Details, error)
	ApplyDepartmentBudget(department dbmodels.Department, amount decimal.Decimal) (audit.Details, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewHandlerWithTx(db.DB)
}

func NewHandlerWithTx(tx *gorm.DB) Provider {
	return NewHandlerWithClock(tx, time.Now)
}

// NewHandlerWithClock часы задаются явно для сравнения с окном бонуса и датой окончания проекта
func NewHandlerWithClock(tx *gorm.DB, clock func() time.Time) Provider {
	return impl{
		db:              tx,
		clock:           clock,
		projectStore:    projectstore.NewInstance(tx),
		departmentStore: departmentstore.NewInstance(tx),
		adjustmentStore: adjustmentstore.NewInstance(tx),
		tripStore:       tripreqstore.NewInstance(tx),
		auditHandler:    audit.NewHandlerWithTx(tx),
	}
}

type impl struct {
	db              *gorm.DB
	clock           func() time.Time
	projectStore    projectstore.Provider
	departmentStore departmentstore.Provider
	adjustmentStore adjustmentstore.Provider
	tripStore       tripreqstore.Provider
	auditHandler    audit.Provider
}

func (i impl) getLogger(field, id string) *log.Entry {
	return log.WithField(field, id)
}

func (i impl) CheckProject(projectID string, cost decimal.Decimal, excludeRequestID string) (*CheckResult, error) {
	if err := ValidateAmount(cost, false); err != nil {
		return nil, err
	}
	project, err := i.projectStore.GetByID(projectID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения проекта")
	}
	if project == nil {
		return nil, apperrors.NotFound("проект не найден")
	}
	effective, err := i.projectEffective(*project)
	if err != nil {
		return nil, err
	}
	allocated, err := i.tripStore.AllocatedCost(tripreqstore.AllocationFilter{
		ProjectID:        projectID,
		ExcludeRequestID: excludeRequestID,
	})
	if err != nil {
		return nil, err
	}
	result := evaluate(effective, allocated, cost)

	now := i.clock()
	switch {
	case project.IsExpired(now):
		result.CanApprove = false
		result.expired = true
		result.Reason = "срок действия проекта истек"
	case !project.IsActive:
		result.CanApprove = false
		result.expired = true
		result.Reason = "проект не активен"
	}
	return &result, nil
}

func (i impl) CheckDepartment(departmentID string, cost decimal.Decimal, excludeRequestID string) (*CheckResult, error) {
	if err := ValidateAmount(cost, false); err != nil {
		return nil, err
	}
	department, err := i.departmentStore.GetByID(departmentID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения подразделения")
	}
	if department == nil {
		return nil, apperrors.NotFound("подразделение не найдено")
	}
	allocated, err := i.tripStore.AllocatedCost(tripreqstore.AllocationFilter{
		DepartmentID:     departmentID,
		ExcludeRequestID: excludeRequestID,
	})
	if err != nil {
		return nil, err
	}
	result := evaluate(departmentEffective(*department, i.clock()), allocated, cost)
	return &result, nil
}

func evaluate(effective, allocated, cost decimal.Decimal) CheckResult {
	available := effective.Sub(allocated)
	result := CheckResult{
		CanApprove:      true,
		BudgetExcess:    decimal.Zero,
		AvailableBudget: available,
		TotalSpent:      allocated,
		EffectiveBudget: effective,
	}
	if cost.GreaterThan(available) {
		result.CanApprove = false
		result.BudgetExcess = cost.Sub(available)
		result.Reason = "недостаточно средств в бюджете"
	}
	return result
}

func (i impl) projectEffective(project dbmodels.Project) (decimal.Decimal, error) {
	adjustments, err := i.adjustmentStore.Sum(project.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return project.OriginalBudget.Add(adjustments), nil
}

func departmentEffective(department dbmodels.Department, now time.Time) decimal.Decimal {
	return department.Budget.Add(department.ActiveBonus(now))
}

func (i impl) ProjectView(projectID string) (*ProjectBudget, error) {
	project, err := i.projectStore.GetByID(projectID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения проекта")
	}
	if project == nil {
		return nil, apperrors.NotFound("проект не найден")
	}
	adjustments, err := i.adjustmentStore.Sum(projectID)
	if err != nil {
		return nil, err
	}
	allocated, err := i.tripStore.AllocatedCost(tripreqstore.AllocationFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	effective := project.OriginalBudget.Add(adjustments)
	return &ProjectBudget{
		ProjectID:       project.ID,
		Budget:          project.Budget,
		OriginalBudget:  project.OriginalBudget,
		Adjustments:     adjustments,
		EffectiveBudget: effective,
		TotalAllocated:  allocated,
		AvailableBudget: effective.Sub(allocated),
		IsActive:        project.IsActive,
		ExpiresAt:       project.ExpiresAt,
	}, nil
}

func (i impl) DepartmentView(departmentID string) (*DepartmentBudget, error) {
	department, err := i.departmentStore.GetByID(departmentID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения подразделения")
	}
	if department == nil {
		return nil, apperrors.NotFound("подразделение не найдено")
	}
	allocated, err := i.tripStore.AllocatedCost(tripreqstore.AllocationFilter{DepartmentID: departmentID})
	if err != nil {
		return nil, err
	}
	now := i.clock()
	effective := departmentEffective(*department, now)
	return &DepartmentBudget{
		DepartmentID:    department.ID,
		Budget:          department.Budget,
		ActiveBonus:     department.ActiveBonus(now),
		BonusResetAt:    department.BonusResetAt,
		EffectiveBudget: effective,
		TotalAllocated:  allocated,
		AvailableBudget: effective.Sub(allocated),
	}, nil
}

// AdjustProject добавляет запись корректировки; уменьшение не может опустить бюджет ниже распределенного
func (i impl) AdjustProject(ctx context.Context, actorID, projectID string, amount decimal.Decimal, justification string) (*ProjectBudget, error) {
	if err := ValidateAmount(amount, true); err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, apperrors.Validation("сумма корректировки не может быть нулевой")
	}
	if justification == "" {
		return nil, apperrors.Validation("не указано обоснование корректировки")
	}
	var view *ProjectBudget
	err := db.Transaction(ctx, i.db, func(tx *gorm.DB) error {
		h := NewHandlerWithClock(tx, i.clock).(impl)
		project, err := h.projectStore.GetForUpdate(projectID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения проекта")
		}
		if project == nil {
			return apperrors.NotFound("проект не найден")
		}
		details, err := h.ApplyProjectAdjustment(*project, actorID, amount, justification)
		if err != nil {
			return err
		}
		err = h.auditHandler.Record(actorID, models.AuditBudgetAdjusted, details)
		if err != nil {
			return err
		}
		view, err = h.ProjectView(projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ApplyProjectAdjustment запись корректировки в уже открытой транзакции, строка проекта должна быть заблокирована.
// Запись аудита остается за вызывающим.
func (i impl) ApplyProjectAdjustment(project dbmodels.Project, actorID string, amount decimal.Decimal, justification string) (audit.Details, error) {
	logger := i.getLogger("project_id", project.ID)
	effective, err := i.projectEffective(project)
	if err != nil {
		return nil, err
	}
	newEffective := effective.Add(amount)
	if amount.IsNegative() {
		allocated, err := i.tripStore.AllocatedCost(tripreqstore.AllocationFilter{ProjectID: project.ID})
		if err != nil {
			return nil, err
		}
		if newEffective.LessThan(allocated) {
			return nil, apperrors.Validation("бюджет проекта не может быть меньше распределенного (%s)", allocated.StringFixed(2))
		}
	}
	adjustmentID, err := i.adjustmentStore.Create(dbmodels.BudgetAdjustment{
		ProjectID:     project.ID,
		Amount:        amount,
		Justification: justification,
		ActorID:       actorID,
	})
	if err != nil {
		logger.WithError(err).Error("ошибка записи корректировки бюджета")
		return nil, errors.Wrap(err, "ошибка записи корректировки бюджета")
	}
	newBudget := project.Budget.Add(amount)
	err = i.projectStore.Update(project.ID, map[string]interface{}{"budget": newBudget})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка обновления бюджета проекта")
	}
	return audit.Details{
		"project_id":     project.ID,
		"adjustment_id":  adjustmentID,
		"amount":         amount,
		"justification":  justification,
		"prev_effective": effective,
		"new_effective":  newEffective,
		"display_budget": newBudget,
	}, nil
}

func (i impl) GrantDepartmentBonus(ctx context.Context, actorID, departmentID string, amount decimal.Decimal) (*DepartmentBudget, error) {
	if err := ValidateAmount(amount, false); err != nil {
		return nil, err
	}
	return i.updateDepartment(ctx, departmentID, func(h impl, department dbmodels.Department) error {
		now := h.clock()
		err := h.departmentStore.Update(department.ID, map[string]interface{}{
			"monthly_bonus":  amount,
			"bonus_reset_at": now,
		})
		if err != nil {
			return errors.Wrap(err, "ошибка обновления бонуса подразделения")
		}
		return h.auditHandler.Record(actorID, models.AuditDepartmentBonusSet, audit.Details{
			"department_id": department.ID,
			"prev_bonus":    department.ActiveBonus(now),
			"new_bonus":     amount,
			"granted_at":    now,
		})
	})
}

func (i impl) SetDepartmentBudget(ctx context.Context, actorID, departmentID string, amount decimal.Decimal) (*DepartmentBudget, error) {
	if err := ValidateAmount(amount, false); err != nil {
		return nil, err
	}
	return i.updateDepartment(ctx, departmentID, func(h impl, department dbmodels.Department) error {
		details, err := h.ApplyDepartmentBudget(department, amount)
		if err != nil {
			return err
		}
		return h.auditHandler.Record(actorID, models.AuditDepartmentBudgetSet, details)
	})
}

// ApplyDepartmentBudget смена базового бюджета в уже открытой транзакции
func (i impl) ApplyDepartmentBudget(department dbmodels.Department, amount decimal.Decimal) (audit.Details, error) {
	if err := ValidateAmount(amount, false); err != nil {
		return nil, err
	}
	err := i.departmentStore.Update(department.ID, map[string]interface{}{"budget": amount})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка обновления бюджета подразделения")
	}
	return audit.Details{
		"department_id": department.ID,
		"prev_budget":   department.Budget,
		"new_budget":    amount,
	}, nil
}

func (i impl) updateDepartment(ctx context.Context, departmentID string, fc func(h impl, department dbmodels.Department) error) (*DepartmentBudget, error) {
	var view *DepartmentBudget
	err := db.Transaction(ctx, i.db, func(tx *gorm.DB) error {
		h := NewHandlerWithClock(tx, i.clock).(impl)
		department, err := h.departmentStore.GetForUpdate(departmentID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения подразделения")
		}
		if department == nil {
			return apperrors.NotFound("подразделение не найдено")
		}
		if err = fc(h, *department); err != nil {
			return err
		}
		view, err = h.DepartmentView(departmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ValidateAmount денежная сумма с точностью до копеек
func ValidateAmount(amount decimal.Decimal, allowNegative bool) error {
	if !allowNegative && amount.IsNegative() {
		return apperrors.Validation("сумма не может быть отрицательной")
	}
	if !amount.Equal(amount.Round(2)) {
		return apperrors.Validation("сумма указывается с точностью до копеек")
	}
	return nil
}
