package approval

import (
	"github.com/pkg/errors"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/lib/audit"
	"trip-approval-backend/lib/workflow"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

func (s *scope) cancelTrip(trip *dbmodels.TripRequest) (Outcome, error) {
	if trip.RequesterID != s.view.UserID {
		return Outcome{}, apperrors.Forbidden("отменить заявку может только ее автор")
	}
	if err := workflow.CheckCancel(trip.Status); err != nil {
		return Outcome{}, err
	}
	err := s.tripStore.Update(trip.ID, map[string]interface{}{"status": models.StatusCancelled})
	if err != nil {
		return Outcome{}, errors.Wrap(err, "ошибка сохранения статуса заявки")
	}
	details := audit.Details{
		"request_id":   trip.ID,
		"request_kind": models.TripRequestKind,
		"prev_status":  trip.Status,
		"new_status":   models.StatusCancelled,
		"cost":         trip.Cost,
		"project_id":   trip.ProjectID,
	}
	if released := releasedCost(*trip); released.IsPositive() {
		details["released"] = released
	}
	err = s.audit.Record(s.view.UserID, models.AuditTripCancelled, details)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		RequestID:   trip.ID,
		Kind:        models.TripRequestKind,
		RequesterID: trip.RequesterID,
		PrevStatus:  trip.Status,
		Status:      models.StatusCancelled,
	}, nil
}

func (s *scope) cancelAdmin(req *dbmodels.AdminRequest) (Outcome, error) {
	if req.RequesterID != s.view.UserID {
		return Outcome{}, apperrors.Forbidden("отменить заявку может только ее автор")
	}
	if err := workflow.CheckCancel(req.Status); err != nil {
		return Outcome{}, err
	}
	err := s.adminStore.Update(req.ID, map[string]interface{}{"status": models.StatusCancelled})
	if err != nil {
		return Outcome{}, errors.Wrap(err, "ошибка сохранения статуса заявки")
	}
	err = s.audit.Record(s.view.UserID, models.AuditAdminCancelled, audit.Details{
		"request_id":   req.ID,
		"request_kind": models.AdminRequestKind,
		"prev_status":  req.Status,
		"new_status":   models.StatusCancelled,
	})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		RequestID:   req.ID,
		Kind:        models.AdminRequestKind,
		RequesterID: req.RequesterID,
		PrevStatus:  req.Status,
		Status:      models.StatusCancelled,
	}, nil
}
