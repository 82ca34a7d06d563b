package tripapimodels

import (
	"github.com/shopspring/decimal"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/models"
)

type DecisionData struct {
	Decision models.Decision `json:"decision"` // APPROVE / REJECT
	Reason   string          `json:"reason"`   // комментарий / причина отклонения
}

func (d DecisionData) Validate() error {
	if !d.Decision.IsValid() {
		return apperrors.Validation("неизвестное решение: %v", d.Decision)
	}
	return nil
}

type BulkDecisionData struct {
	DecisionData
	RequestIDs []string `json:"request_ids"` // ид заявок, решение применяется ко всем
}

func (d BulkDecisionData) Validate() error {
	if len(d.RequestIDs) == 0 {
		return apperrors.Validation("не переданы заявки")
	}
	return d.DecisionData.Validate()
}

type BulkPaidData struct {
	RequestIDs []string `json:"request_ids"`
}

func (d BulkPaidData) Validate() error {
	if len(d.RequestIDs) == 0 {
		return apperrors.Validation("не переданы заявки")
	}
	return nil
}

type BudgetCheckView struct {
	CanApprove      bool            `json:"can_approve"`
	BudgetExcess    decimal.Decimal `json:"budget_excess"`
	AvailableBudget decimal.Decimal `json:"available_budget"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	EffectiveBudget decimal.Decimal `json:"effective_budget"`
	Reason          string          `json:"reason,omitempty"`
}

type OutcomeView struct {
	RequestID  string               `json:"request_id"`
	Kind       models.RequestKind   `json:"kind"`
	PrevStatus models.RequestStatus `json:"prev_status"`
	Status     models.RequestStatus `json:"status"`
	StepType   models.StepType      `json:"step_type,omitempty"`
	Budget     *BudgetCheckView     `json:"budget,omitempty"`
}

type BulkDecisionView struct {
	Count     int             `json:"count"`
	Allocated decimal.Decimal `json:"allocated"`
	Released  decimal.Decimal `json:"released"`
	Results   []OutcomeView   `json:"results"`
}

type PaidItemView struct {
	RequestID string               `json:"request_id"`
	Success   bool                 `json:"success"`
	Status    models.RequestStatus `json:"status,omitempty"`
	ErrorKind string               `json:"error_kind,omitempty"`
	Error     string               `json:"error,omitempty"`
}

type BulkPaidView struct {
	Count   int            `json:"count"`
	Results []PaidItemView `json:"results"`
}

type CanApproveView struct {
	CanApprove bool `json:"can_approve"`
}

type VisibleRequestsView struct {
	RequestIDs []string `json:"request_ids"`
}
