package tripapimodels

import (
	"time"

	"github.com/shopspring/decimal"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

type AdminRequestData struct {
	Category           models.AdminRequestCategory `json:"category"`             // BUDGET_INCREASE / NEW_PROJECT / GENERAL
	Title              string                      `json:"title"`                // заголовок, для нового проекта - его название
	Justification      string                      `json:"justification"`        // обоснование
	TargetDepartmentID string                      `json:"target_department_id"` // ид подразделения
	TargetProjectID    string                      `json:"target_project_id"`    // ид проекта
	Amount             *decimal.Decimal            `json:"amount"`               // запрашиваемая сумма
}

func (a AdminRequestData) Validate() error {
	if !a.Category.IsValid() {
		return apperrors.Validation("неизвестная категория заявки: %v", a.Category)
	}
	if a.Title == "" {
		return apperrors.Validation("не указан заголовок заявки")
	}
	if a.Amount != nil && !a.Amount.Equal(a.Amount.Round(2)) {
		return apperrors.Validation("сумма указывается с точностью до копеек")
	}
	switch a.Category {
	case models.AdminBudgetIncrease:
		if a.Amount == nil || !a.Amount.IsPositive() {
			return apperrors.Validation("сумма увеличения бюджета должна быть больше нуля")
		}
		if (a.TargetDepartmentID == "") == (a.TargetProjectID == "") {
			return apperrors.Validation("необходимо указать либо проект, либо подразделение")
		}
	case models.AdminNewProject:
		if a.Amount == nil || a.Amount.IsNegative() {
			return apperrors.Validation("не указан бюджет нового проекта")
		}
		if a.TargetDepartmentID == "" {
			return apperrors.Validation("не указано подразделение нового проекта")
		}
		if a.TargetProjectID != "" {
			return apperrors.Validation("для нового проекта не указывается существующий проект")
		}
	}
	return nil
}

type AdminRequestView struct {
	ID                 string                      `json:"id"`
	CreatedAt          time.Time                   `json:"created_at"`
	RequesterID        string                      `json:"requester_id"`
	RequesterName      string                      `json:"requester_name"`
	Category           models.AdminRequestCategory `json:"category"`
	Title              string                      `json:"title"`
	Justification      string                      `json:"justification"`
	TargetDepartmentID *string                     `json:"target_department_id"`
	TargetProjectID    *string                     `json:"target_project_id"`
	Amount             *decimal.Decimal            `json:"amount"`
	Status             models.RequestStatus        `json:"status"`
	DecidedByID        *string                     `json:"decided_by_id"`
	DecisionReason     string                      `json:"decision_reason,omitempty"`
}

func AdminRequestConvert(rec dbmodels.AdminRequest) AdminRequestView {
	view := AdminRequestView{
		ID:                 rec.ID,
		CreatedAt:          rec.CreatedAt,
		RequesterID:        rec.RequesterID,
		Category:           rec.Category,
		Title:              rec.Title,
		Justification:      rec.Justification,
		TargetDepartmentID: rec.TargetDepartmentID,
		TargetProjectID:    rec.TargetProjectID,
		Amount:             rec.Amount,
		Status:             rec.Status,
		DecidedByID:        rec.DecidedByID,
		DecisionReason:     rec.DecisionReason,
	}
	if rec.Requester != nil {
		view.RequesterName = rec.Requester.GetFullName()
	}
	return view
}
