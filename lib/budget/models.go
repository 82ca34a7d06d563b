package budget

import (
	"time"

	"github.com/shopspring/decimal"
	"trip-approval-backend/lib/apperrors"
)

// CheckResult результат проверки бюджета под расход cost
type CheckResult struct {
	CanApprove      bool
	BudgetExcess    decimal.Decimal
	AvailableBudget decimal.Decimal
	TotalSpent      decimal.Decimal
	EffectiveBudget decimal.Decimal
	Reason          string
	expired         bool
}

// Err доменная ошибка для отказа, nil если расход допустим
func (r CheckResult) Err() error {
	if r.CanApprove {
		return nil
	}
	if r.expired {
		return apperrors.Conflict("%s", r.Reason)
	}
	return apperrors.BudgetExceeded(r.BudgetExcess)
}

type ProjectBudget struct {
	ProjectID       string
	Budget          decimal.Decimal
	OriginalBudget  decimal.Decimal
	Adjustments     decimal.Decimal
	EffectiveBudget decimal.Decimal
	TotalAllocated  decimal.Decimal
	AvailableBudget decimal.Decimal
	IsActive        bool
	ExpiresAt       *time.Time
}

type DepartmentBudget struct {
	DepartmentID    string
	Budget          decimal.Decimal
	ActiveBonus     decimal.Decimal
	BonusResetAt    *time.Time
	EffectiveBudget decimal.Decimal
	TotalAllocated  decimal.Decimal
	AvailableBudget decimal.Decimal
}
