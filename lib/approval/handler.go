package approval

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"trip-approval-backend/config"
	"trip-approval-backend/db"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/lib/metrics"
	"trip-approval-backend/lib/workflow"
	"trip-approval-backend/models"
)

type Provider interface {
	CanApprove(user models.CurrentUser, requestID string) (bool, error)
	Approve(ctx context.Context, user models.CurrentUser, requestID string, decision models.Decision, reason string) (*Outcome, error)
	BulkApprove(ctx context.Context, user models.CurrentUser, requestIDs []string, decision models.Decision, reason string) (*BulkResult, error)
	Cancel(ctx context.Context, user models.CurrentUser, requestID string) (*Outcome, error)
	MarkPaid(ctx context.Context, user models.CurrentUser, tripID string) (*Outcome, error)
	BulkMarkPaid(ctx context.Context, user models.CurrentUser, tripIDs []string) (*BulkPaidResult, error)
}

var Instance Provider

const defaultBulkLimit = 200

func NewHandler() {
	Instance = NewHandlerWithTx(
		db.DB,
		time.Now,
		config.Conf.Workflow.BulkLimit,
		NewMailNotifier(db.DB, config.Conf.Smtp.Sender),
	)
}

// NewHandlerWithTx notifier может быть nil, тогда уведомления не отправляются
func NewHandlerWithTx(tx *gorm.DB, clock func() time.Time, bulkLimit int, notifier Notifier) Provider {
	if bulkLimit <= 0 {
		bulkLimit = defaultBulkLimit
	}
	return impl{
		db:        tx,
		clock:     clock,
		bulkLimit: bulkLimit,
		notifier:  notifier,
	}
}

type impl struct {
	db        *gorm.DB
	clock     func() time.Time
	bulkLimit int
	notifier  Notifier
}

func (i impl) getLogger(user models.CurrentUser) *log.Entry {
	return log.
		WithField("user_id", user.ID).
		WithField("active_role", user.ActiveRole)
}

func (i impl) CanApprove(user models.CurrentUser, requestID string) (bool, error) {
	s, err := i.newScope(i.db, user)
	if err != nil {
		return false, err
	}
	trip, err := s.tripStore.GetByID(requestID)
	if err != nil {
		return false, errors.Wrap(err, "ошибка получения заявки")
	}
	if trip != nil {
		if !trip.Status.IsPending() || !s.view.CanSeeTrip(*trip) {
			return false, nil
		}
		steps, err := s.stepStore.List(trip.ID)
		if err != nil {
			return false, errors.Wrap(err, "ошибка получения этапов согласования")
		}
		current, err := workflow.CurrentStep(*trip, steps)
		if err != nil {
			return false, nil
		}
		return s.view.CanActOnStep(*trip, *current), nil
	}
	admin, err := s.adminStore.GetByID(requestID)
	if err != nil {
		return false, errors.Wrap(err, "ошибка получения заявки")
	}
	if admin == nil {
		return false, apperrors.NotFound("заявка не найдена")
	}
	return admin.Status == models.StatusPending && s.view.CanDecideAdmin(*admin), nil
}

// Approve решение по одной заявке: права, бюджет, переход, статус и аудит в одной транзакции
func (i impl) Approve(ctx context.Context, user models.CurrentUser, requestID string, decision models.Decision, reason string) (*Outcome, error) {
	logger := i.getLogger(user).WithField("request_id", requestID)
	if !decision.IsValid() {
		return nil, apperrors.Validation("неизвестное решение: %v", decision)
	}
	var result Outcome
	err := db.Transaction(ctx, i.db, func(tx *gorm.DB) error {
		s, err := i.newScope(tx, user)
		if err != nil {
			return err
		}
		in, err := s.validate(requestID, decision, reason)
		if err != nil {
			return err
		}
		if err = s.commit(in); err != nil {
			return err
		}
		result = in.outcome()
		return nil
	})
	if err != nil {
		i.logFailure(logger, err, "решение по заявке не применено")
		return nil, err
	}
	logger.
		WithField("prev_status", result.PrevStatus).
		WithField("status", result.Status).
		Info("решение по заявке применено")
	metrics.RecordDecision(string(result.Kind), string(decision))
	i.notify(result, reason)
	return &result, nil
}

// BulkApprove все заявки пакета проверяются до первой записи; ошибка любой отменяет весь пакет
func (i impl) BulkApprove(ctx context.Context, user models.CurrentUser, requestIDs []string, decision models.Decision, reason string) (*BulkResult, error) {
	logger := i.getLogger(user).WithField("batch_size", len(requestIDs))
	if !decision.IsValid() {
		return nil, apperrors.Validation("неизвестное решение: %v", decision)
	}
	if err := i.checkBatchIDs(requestIDs); err != nil {
		return nil, err
	}
	var result *BulkResult
	err := db.Transaction(ctx, i.db, func(tx *gorm.DB) error {
		s, err := i.newScope(tx, user)
		if err != nil {
			return err
		}
		batch, err := s.validateBatch(requestIDs, decision, reason)
		if err != nil {
			return err
		}
		result, err = s.commitBatch(batch)
		return err
	})
	metrics.RecordBulkBatch(err == nil)
	if err != nil {
		i.logFailure(logger, err, "пакетное решение не применено")
		return nil, err
	}
	logger.
		WithField("allocated", result.Allocated.String()).
		WithField("released", result.Released.String()).
		Info("пакетное решение применено")
	for _, outcome := range result.Results {
		metrics.RecordDecision(string(outcome.Kind), string(decision))
		i.notify(outcome, reason)
	}
	return result, nil
}

// validateBatch первая фаза: блокировки и проверки без записи, первая ошибка указывает заявку
func (s *scope) validateBatch(requestIDs []string, decision models.Decision, reason string) (*ValidatedBatch, error) {
	batch := &ValidatedBatch{
		actorID:  s.view.UserID,
		decision: decision,
		reason:   reason,
		intents:  make([]intent, 0, len(requestIDs)),
	}
	for _, id := range requestIDs {
		in, err := s.validate(id, decision, reason)
		if err != nil {
			if appErr, ok := apperrors.As(err); ok {
				return nil, appErr.ForRequest(id)
			}
			return nil, errors.Wrapf(err, "ошибка проверки заявки %s", id)
		}
		batch.intents = append(batch.intents, in)
	}
	return batch, nil
}

func (i impl) checkBatchIDs(ids []string) error {
	if len(ids) == 0 {
		return apperrors.Validation("не переданы заявки")
	}
	if len(ids) > i.bulkLimit {
		return apperrors.Validation("в пакете не может быть больше %d заявок", i.bulkLimit)
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return apperrors.Validation("передан пустой идентификатор заявки")
		}
		if _, ok := seen[id]; ok {
			return apperrors.Validation("заявка %s указана повторно", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Cancel отменить ожидающую заявку может только ее автор
func (i impl) Cancel(ctx context.Context, user models.CurrentUser, requestID string) (*Outcome, error) {
	logger := i.getLogger(user).WithField("request_id", requestID)
	var result Outcome
	err := db.Transaction(ctx, i.db, func(tx *gorm.DB) error {
		s, err := i.newScope(tx, user)
		if err != nil {
			return err
		}
		trip, admin, err := s.lockRequest(requestID)
		if err != nil {
			return err
		}
		if trip != nil {
			result, err = s.cancelTrip(trip)
			return err
		}
		result, err = s.cancelAdmin(admin)
		return err
	})
	if err != nil {
		i.logFailure(logger, err, "заявка не отменена")
		return nil, err
	}
	logger.Info("заявка отменена")
	return &result, nil
}

func (i impl) logFailure(logger *log.Entry, err error, msg string) {
	if appErr, ok := apperrors.As(err); ok {
		metrics.RecordDecisionFailure(string(appErr.Kind))
		logger.WithError(err).Warn(msg)
		return
	}
	metrics.RecordDecisionFailure("internal")
	logger.WithError(err).Error(msg)
}

func (i impl) notify(outcome Outcome, reason string) {
	if i.notifier == nil || outcome.Status.IsPending() {
		return
	}
	n := Notification{
		RequestID:   outcome.RequestID,
		Kind:        outcome.Kind,
		RequesterID: outcome.RequesterID,
		Status:      outcome.Status,
		Reason:      reason,
	}
	go i.notifier.NotifyDecision(n)
}
