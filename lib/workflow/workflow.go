package workflow

import (
	"time"

	"trip-approval-backend/lib/apperrors"
	orggraph "trip-approval-backend/lib/org-graph"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

// fallbackApprover этап без руководителя закрывает финансовая служба
var fallbackApprover = models.RoleGatedApprover(models.FinanceAdminRole)

// StepTypes порядок этапов для командировки
func StepTypes(trip dbmodels.TripRequest) []models.StepType {
	types := make([]models.StepType, 0, 3)
	if !trip.Category.IsUrgent() {
		types = append(types, models.DepartmentApprovalStep)
	}
	if trip.HasProject() {
		types = append(types, models.ProjectManagerApprovalStep)
	}
	return append(types, models.FinanceApprovalStep)
}

// GenerateSteps этапы согласования для новой командировки, все в статусе ожидания
func GenerateSteps(trip dbmodels.TripRequest, graph orggraph.Snapshot) []dbmodels.WorkflowStep {
	types := StepTypes(trip)
	steps := make([]dbmodels.WorkflowStep, 0, len(types))
	for pos, stepType := range types {
		step := dbmodels.WorkflowStep{
			TripRequestID: trip.ID,
			StepType:      stepType,
			Position:      pos + 1,
			Status:        models.StepPending,
		}
		step.SetApprover(approverFor(stepType, trip, graph))
		steps = append(steps, step)
	}
	return steps
}

func approverFor(stepType models.StepType, trip dbmodels.TripRequest, graph orggraph.Snapshot) models.Approver {
	switch stepType {
	case models.DepartmentApprovalStep:
		departmentID := departmentOf(trip, graph)
		if node, ok := graph.Department(departmentID); ok && node.PrimaryManagerID() != "" {
			return models.AssignedApprover(node.PrimaryManagerID())
		}
	case models.ProjectManagerApprovalStep:
		if !trip.HasProject() {
			break
		}
		if node, ok := graph.Project(*trip.ProjectID); ok && node.PrimaryManagerID() != "" {
			return models.AssignedApprover(node.PrimaryManagerID())
		}
	}
	return fallbackApprover
}

// departmentOf подразделение командировки, при отсутствии берется подразделение проекта
func departmentOf(trip dbmodels.TripRequest, graph orggraph.Snapshot) string {
	if trip.HasDepartment() {
		return *trip.DepartmentID
	}
	if trip.HasProject() {
		if node, ok := graph.Project(*trip.ProjectID); ok {
			return node.DepartmentID
		}
	}
	return ""
}

func InitialStatus(steps []dbmodels.WorkflowStep) models.RequestStatus {
	for _, step := range steps {
		if step.Status == models.StepPending {
			return models.PendingStatus(step.StepType)
		}
	}
	return models.StatusApproved
}

// CurrentStep ожидающий этап, соответствующий статусу заявки
func CurrentStep(trip dbmodels.TripRequest, steps []dbmodels.WorkflowStep) (*dbmodels.WorkflowStep, error) {
	if !trip.Status.IsPending() {
		return nil, apperrors.Conflict("заявка в статусе %v не ожидает согласования", trip.Status)
	}
	stepType := trip.Status.PendingStep()
	for idx := range steps {
		step := steps[idx]
		if step.Status == models.StepPending && step.StepType == stepType {
			return &step, nil
		}
	}
	return nil, apperrors.Conflict("не найден ожидающий этап %v", stepType.ToHuman())
}

// Transition результат решения по текущему этапу, еще не сохраненный
type Transition struct {
	Step       dbmodels.WorkflowStep
	PrevStatus models.RequestStatus
	NewStatus  models.RequestStatus
}

func (t Transition) IsFinal() bool {
	return !t.NewStatus.IsPending()
}

// StepUpdate поля этапа для сохранения
func (t Transition) StepUpdate() map[string]interface{} {
	return map[string]interface{}{
		"status":        t.Step.Status,
		"decided_by_id": t.Step.DecidedByID,
		"decided_at":    t.Step.DecidedAt,
		"comment":       t.Step.Comment,
	}
}

// Advance закрывает текущий этап решением; отклонение на любом этапе завершает заявку
func Advance(trip dbmodels.TripRequest, steps []dbmodels.WorkflowStep, decision models.Decision, actorID, comment string, now time.Time) (Transition, error) {
	if !decision.IsValid() {
		return Transition{}, apperrors.Validation("неизвестное решение: %v", decision)
	}
	current, err := CurrentStep(trip, steps)
	if err != nil {
		return Transition{}, err
	}
	step := *current
	step.DecidedByID = &actorID
	step.DecidedAt = &now
	step.Comment = comment

	result := Transition{PrevStatus: trip.Status}
	if decision == models.DecisionReject {
		step.Status = models.StepRejected
		result.Step = step
		result.NewStatus = models.StatusRejected
		return result, nil
	}

	step.Status = models.StepApproved
	result.Step = step
	result.NewStatus = models.StatusApproved
	for _, next := range steps {
		if next.Status == models.StepPending && next.Position > step.Position {
			result.NewStatus = models.PendingStatus(next.StepType)
			break
		}
	}
	return result, nil
}

// CheckCancel отменить можно только ожидающую заявку
func CheckCancel(status models.RequestStatus) error {
	if !status.IsPending() {
		return apperrors.Conflict("заявку в статусе %v нельзя отменить", status)
	}
	return nil
}

// CheckPaid оплатить можно только согласованную командировку
func CheckPaid(status models.RequestStatus) error {
	if status != models.StatusApproved {
		return apperrors.Conflict("заявку в статусе %v нельзя отметить оплаченной", status)
	}
	return nil
}

// AdminDecision переход административной заявки по неявному этапу
func AdminDecision(status models.RequestStatus, decision models.Decision) (models.RequestStatus, error) {
	if !decision.IsValid() {
		return "", apperrors.Validation("неизвестное решение: %v", decision)
	}
	if status != models.StatusPending {
		return "", apperrors.Conflict("заявка в статусе %v не ожидает согласования", status)
	}
	if decision == models.DecisionReject {
		return models.StatusRejected, nil
	}
	return models.StatusApproved, nil
}
