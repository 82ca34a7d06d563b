package budgetapimodels

import (
	"time"

	"github.com/shopspring/decimal"
	"trip-approval-backend/lib/apperrors"
)

type CheckData struct {
	Cost             decimal.Decimal `json:"cost"`               // сумма планируемого расхода
	ExcludeRequestID string          `json:"exclude_request_id"` // заявка, которая не учитывается в распределении
}

func (c CheckData) Validate() error {
	if c.Cost.IsNegative() {
		return apperrors.Validation("сумма не может быть отрицательной")
	}
	return nil
}

type AdjustmentData struct {
	Amount        decimal.Decimal `json:"amount"`        // сумма корректировки со знаком
	Justification string          `json:"justification"` // обоснование
}

func (a AdjustmentData) Validate() error {
	if a.Amount.IsZero() {
		return apperrors.Validation("сумма корректировки не может быть нулевой")
	}
	if a.Justification == "" {
		return apperrors.Validation("не указано обоснование корректировки")
	}
	return nil
}

type AmountData struct {
	Amount decimal.Decimal `json:"amount"`
}

func (a AmountData) Validate() error {
	if a.Amount.IsNegative() {
		return apperrors.Validation("сумма не может быть отрицательной")
	}
	return nil
}

type ProjectBudgetView struct {
	ProjectID       string          `json:"project_id"`
	Budget          decimal.Decimal `json:"budget"`
	OriginalBudget  decimal.Decimal `json:"original_budget"`
	Adjustments     decimal.Decimal `json:"adjustments"`
	EffectiveBudget decimal.Decimal `json:"effective_budget"`
	TotalAllocated  decimal.Decimal `json:"total_allocated"`
	AvailableBudget decimal.Decimal `json:"available_budget"`
	IsActive        bool            `json:"is_active"`
	ExpiresAt       *time.Time      `json:"expires_at"`
}

type DepartmentBudgetView struct {
	DepartmentID    string          `json:"department_id"`
	Budget          decimal.Decimal `json:"budget"`
	ActiveBonus     decimal.Decimal `json:"active_bonus"`
	BonusResetAt    *time.Time      `json:"bonus_reset_at"`
	EffectiveBudget decimal.Decimal `json:"effective_budget"`
	TotalAllocated  decimal.Decimal `json:"total_allocated"`
	AvailableBudget decimal.Decimal `json:"available_budget"`
}
