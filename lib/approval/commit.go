package approval

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/lib/audit"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

// commit запись одного проверенного решения и его записи аудита
func (s *scope) commit(in intent) error {
	if in.kind == models.TripRequestKind {
		return s.commitTrip(in)
	}
	return s.commitAdmin(in)
}

func (s *scope) commitTrip(in intent) error {
	tr := in.transition
	err := s.stepStore.Update(tr.Step.ID, tr.StepUpdate())
	if err != nil {
		return errors.Wrap(err, "ошибка сохранения этапа согласования")
	}
	upd := map[string]interface{}{"status": tr.NewStatus}
	if tr.NewStatus == models.StatusRejected {
		upd["rejection_reason"] = in.reason
	}
	err = s.tripStore.Update(in.trip.ID, upd)
	if err != nil {
		return errors.Wrap(err, "ошибка сохранения статуса заявки")
	}

	details := audit.Details{
		"request_id":    in.trip.ID,
		"request_kind":  models.TripRequestKind,
		"step_id":       tr.Step.ID,
		"step_type":     tr.Step.StepType,
		"decision":      in.decision,
		"prev_status":   tr.PrevStatus,
		"new_status":    tr.NewStatus,
		"reason":        in.reason,
		"cost":          in.trip.Cost,
		"category":      in.trip.Category,
		"project_id":    in.trip.ProjectID,
		"department_id": in.trip.DepartmentID,
	}
	if in.check != nil {
		details["budget"] = audit.Details{
			"effective_budget": in.check.EffectiveBudget,
			"total_spent":      in.check.TotalSpent,
			"available_budget": in.check.AvailableBudget,
		}
	}
	if released := in.released(); released.IsPositive() {
		details["released"] = released
	}
	action := models.AuditTripStepApproved
	if tr.NewStatus == models.StatusRejected {
		action = models.AuditTripRejected
	}
	return s.audit.Record(s.view.UserID, action, details)
}

func (s *scope) commitAdmin(in intent) error {
	details := audit.Details{
		"request_id":   in.admin.ID,
		"request_kind": models.AdminRequestKind,
		"category":     in.admin.Category,
		"decision":     in.decision,
		"prev_status":  in.admin.Status,
		"new_status":   in.adminStatus,
		"reason":       in.reason,
		"amount":       in.admin.Amount,
	}
	if in.decision == models.DecisionApprove {
		effect, err := s.applyAdminEffect(*in.admin)
		if err != nil {
			return err
		}
		if effect != nil {
			details["effect"] = effect
		}
	}
	actorID := s.view.UserID
	err := s.adminStore.Update(in.admin.ID, map[string]interface{}{
		"status":          in.adminStatus,
		"decided_by_id":   &actorID,
		"decision_reason": in.reason,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка сохранения статуса заявки")
	}
	action := models.AuditAdminApproved
	if in.adminStatus == models.StatusRejected {
		action = models.AuditAdminRejected
	}
	return s.audit.Record(actorID, action, details)
}

// applyAdminEffect строки проекта и подразделения перечитываются: в пакете их могли изменить предыдущие заявки
func (s *scope) applyAdminEffect(req dbmodels.AdminRequest) (audit.Details, error) {
	switch req.Category {
	case models.AdminBudgetIncrease:
		if req.TargetProjectID != nil {
			project, err := s.lockProject(*req.TargetProjectID)
			if err != nil {
				return nil, err
			}
			justification := fmt.Sprintf("административная заявка %s: %s", req.ID, req.Title)
			return s.budget.ApplyProjectAdjustment(*project, s.view.UserID, *req.Amount, justification)
		}
		department, err := s.lockDepartment(*req.TargetDepartmentID)
		if err != nil {
			return nil, err
		}
		return s.budget.ApplyDepartmentBudget(*department, department.Budget.Add(*req.Amount))
	case models.AdminNewProject:
		name := req.Title
		if name == "" {
			return nil, apperrors.Validation("не указано название нового проекта")
		}
		projectID, err := s.projectStore.Create(dbmodels.Project{
			Name:           name,
			DepartmentID:   *req.TargetDepartmentID,
			Budget:         *req.Amount,
			OriginalBudget: *req.Amount,
			IsActive:       true,
		})
		if err != nil {
			return nil, errors.Wrap(err, "ошибка создания проекта")
		}
		return audit.Details{
			"project_id":      projectID,
			"department_id":   *req.TargetDepartmentID,
			"original_budget": *req.Amount,
		}, nil
	}
	return nil, nil
}

// commitBatch вторая фаза: любая ошибка откатывает весь пакет вместе с транзакцией
func (s *scope) commitBatch(batch *ValidatedBatch) (*BulkResult, error) {
	result := &BulkResult{
		Allocated: decimal.Zero,
		Released:  decimal.Zero,
		Results:   make([]Outcome, 0, batch.Len()),
	}
	for _, in := range batch.intents {
		if err := s.commit(in); err != nil {
			return nil, errors.Wrapf(err, "ошибка записи решения по заявке %s", in.requestID())
		}
		result.Allocated = result.Allocated.Add(in.allocated())
		result.Released = result.Released.Add(in.released())
		result.Results = append(result.Results, in.outcome())
	}
	result.Count = len(result.Results)
	err := s.audit.Record(batch.actorID, models.AuditBulkApprovalSummary, audit.Details{
		"decision":        batch.decision,
		"reason":          batch.reason,
		"count":           result.Count,
		"request_ids":     batch.RequestIDs(),
		"allocated_total": result.Allocated,
		"released_total":  result.Released,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
