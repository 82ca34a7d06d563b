package approval

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"trip-approval-backend/db"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/lib/audit"
	"trip-approval-backend/lib/metrics"
	"trip-approval-backend/lib/workflow"
	"trip-approval-backend/models"
)

func (i impl) MarkPaid(ctx context.Context, user models.CurrentUser, tripID string) (*Outcome, error) {
	logger := i.getLogger(user).WithField("request_id", tripID)
	var result Outcome
	err := db.Transaction(ctx, i.db, func(tx *gorm.DB) error {
		s, err := i.newScope(tx, user)
		if err != nil {
			return err
		}
		if err = s.view.Require(models.ManageFinanceCapability); err != nil {
			return err
		}
		trip, err := s.tripStore.GetForUpdate(tripID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения заявки")
		}
		if trip == nil {
			return apperrors.NotFound("командировка не найдена")
		}
		if err = workflow.CheckPaid(trip.Status); err != nil {
			return err
		}
		err = s.tripStore.Update(trip.ID, map[string]interface{}{
			"status":  models.StatusPaid,
			"paid":    true,
			"paid_at": s.now,
		})
		if err != nil {
			return errors.Wrap(err, "ошибка сохранения статуса заявки")
		}
		err = s.audit.Record(s.view.UserID, models.AuditTripPaid, audit.Details{
			"request_id":   trip.ID,
			"request_kind": models.TripRequestKind,
			"prev_status":  trip.Status,
			"new_status":   models.StatusPaid,
			"cost":         trip.Cost,
			"paid_at":      s.now,
		})
		if err != nil {
			return err
		}
		result = Outcome{
			RequestID:   trip.ID,
			Kind:        models.TripRequestKind,
			RequesterID: trip.RequesterID,
			PrevStatus:  trip.Status,
			Status:      models.StatusPaid,
		}
		return nil
	})
	metrics.RecordPayment(err == nil)
	if err != nil {
		i.logFailure(logger, err, "оплата не отмечена")
		return nil, err
	}
	logger.Info("командировка отмечена оплаченной")
	return &result, nil
}

// BulkMarkPaid каждая заявка в своей транзакции, ошибки возвращаются по каждой заявке отдельно
func (i impl) BulkMarkPaid(ctx context.Context, user models.CurrentUser, tripIDs []string) (*BulkPaidResult, error) {
	if err := i.checkBatchIDs(tripIDs); err != nil {
		return nil, err
	}
	result := &BulkPaidResult{Results: make([]PaidItem, 0, len(tripIDs))}
	for _, id := range tripIDs {
		item := PaidItem{RequestID: id}
		outcome, err := i.MarkPaid(ctx, user, id)
		if err != nil {
			item.Error = err.Error()
			if appErr, ok := apperrors.As(err); ok {
				item.ErrorKind = appErr.Kind
			}
		} else {
			item.Success = true
			item.Status = outcome.Status
			result.Count++
		}
		result.Results = append(result.Results, item)
	}
	return result, nil
}
