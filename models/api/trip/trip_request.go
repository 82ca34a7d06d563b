package tripapimodels

import (
	"time"

	"github.com/shopspring/decimal"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

type TripRequestData struct {
	Destination   string              `json:"destination"`    // место назначения
	Purpose       string              `json:"purpose"`        // цель поездки
	DepartureDate time.Time           `json:"departure_date"` // дата отъезда
	ReturnDate    time.Time           `json:"return_date"`    // дата возвращения
	Cost          decimal.Decimal     `json:"cost"`           // стоимость
	DepartmentID  string              `json:"department_id"`  // ид подразделения
	ProjectID     string              `json:"project_id"`     // ид проекта
	Category      models.TripCategory `json:"category"`       // ROUTINE / TICKETED / URGENT
}

func (t TripRequestData) Validate() error {
	if t.Destination == "" {
		return apperrors.Validation("не указано место назначения")
	}
	if !t.Category.IsValid() {
		return apperrors.Validation("неизвестная категория поездки: %v", t.Category)
	}
	if t.DepartureDate.IsZero() || t.ReturnDate.IsZero() {
		return apperrors.Validation("не указаны даты поездки")
	}
	if t.ReturnDate.Before(t.DepartureDate) {
		return apperrors.Validation("дата возвращения раньше даты отъезда")
	}
	if !t.Cost.IsPositive() {
		return apperrors.Validation("стоимость поездки должна быть больше нуля")
	}
	if !t.Cost.Equal(t.Cost.Round(2)) {
		return apperrors.Validation("стоимость указывается с точностью до копеек")
	}
	if !t.Category.IsUrgent() && t.DepartmentID == "" && t.ProjectID == "" {
		return apperrors.Validation("для несрочной поездки необходимо указать подразделение или проект")
	}
	return nil
}

type TripFilter struct {
	Statuses []models.RequestStatus `json:"statuses"` // фильтр по статусам, пусто - все
}

type TripRequestView struct {
	ID              string               `json:"id"`
	CreatedAt       time.Time            `json:"created_at"`
	RequesterID     string               `json:"requester_id"`
	RequesterName   string               `json:"requester_name"`
	Destination     string               `json:"destination"`
	Purpose         string               `json:"purpose"`
	DepartureDate   time.Time            `json:"departure_date"`
	ReturnDate      time.Time            `json:"return_date"`
	Cost            decimal.Decimal      `json:"cost"`
	DepartmentID    *string              `json:"department_id"`
	ProjectID       *string              `json:"project_id"`
	Category        models.TripCategory  `json:"category"`
	Status          models.RequestStatus `json:"status"`
	CurrentStep     models.StepType      `json:"current_step,omitempty"`
	Paid            bool                 `json:"paid"`
	PaidAt          *time.Time           `json:"paid_at"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
	Steps           []WorkflowStepView   `json:"steps,omitempty"`
}

func TripRequestConvert(rec dbmodels.TripRequest) TripRequestView {
	view := TripRequestView{
		ID:              rec.ID,
		CreatedAt:       rec.CreatedAt,
		RequesterID:     rec.RequesterID,
		Destination:     rec.Destination,
		Purpose:         rec.Purpose,
		DepartureDate:   rec.DepartureDate,
		ReturnDate:      rec.ReturnDate,
		Cost:            rec.Cost,
		DepartmentID:    rec.DepartmentID,
		ProjectID:       rec.ProjectID,
		Category:        rec.Category,
		Status:          rec.Status,
		CurrentStep:     rec.Status.PendingStep(),
		Paid:            rec.Paid,
		PaidAt:          rec.PaidAt,
		RejectionReason: rec.RejectionReason,
	}
	if rec.Requester != nil {
		view.RequesterName = rec.Requester.GetFullName()
	}
	return view
}

type WorkflowStepView struct {
	ID             string              `json:"id"`
	Position       int                 `json:"position"`
	StepType       models.StepType     `json:"step_type"`
	StepName       string              `json:"step_name"`
	ApproverKind   models.ApproverKind `json:"approver_kind"` // ASSIGNED - конкретный сотрудник, ROLE_GATED - любой с ролью
	ApproverUserID string              `json:"approver_user_id,omitempty"`
	ApproverRole   models.UserRole     `json:"approver_role,omitempty"`
	Status         models.StepStatus   `json:"status"`
	DecidedByID    *string             `json:"decided_by_id"`
	DecidedAt      *time.Time          `json:"decided_at"`
	Comment        string              `json:"comment,omitempty"`
}

func WorkflowStepConvert(rec dbmodels.WorkflowStep) WorkflowStepView {
	approver := rec.Approver()
	return WorkflowStepView{
		ID:             rec.ID,
		Position:       rec.Position,
		StepType:       rec.StepType,
		StepName:       rec.StepType.ToHuman(),
		ApproverKind:   approver.Kind,
		ApproverUserID: approver.UserID,
		ApproverRole:   approver.Role,
		Status:         rec.Status,
		DecidedByID:    rec.DecidedByID,
		DecidedAt:      rec.DecidedAt,
		Comment:        rec.Comment,
	}
}
