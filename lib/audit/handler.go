package audit

import (
	"encoding/json"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"trip-approval-backend/db"
	auditstore "trip-approval-backend/lib/audit/store"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

// Details произвольные данные, достаточные для восстановления решения
type Details map[string]interface{}

type Provider interface {
	Record(actorID string, action models.AuditAction, details Details) error
	List(filter auditstore.Filter) (list []dbmodels.AuditLogEntry, rowCount int64, err error)
	ForRequest(requestID string, action models.AuditAction) ([]dbmodels.AuditLogEntry, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewHandlerWithTx(db.DB)
}

func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		store: auditstore.NewInstance(tx),
	}
}

type impl struct {
	store auditstore.Provider
}

func (i impl) Record(actorID string, action models.AuditAction, details Details) error {
	if details == nil {
		details = Details{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return errors.Wrap(err, "ошибка сериализации записи аудита")
	}
	_, err = i.store.Create(dbmodels.AuditLogEntry{
		ActorID: actorID,
		Action:  action,
		Details: datatypes.JSON(payload),
	})
	if err != nil {
		log.
			WithField("actor_id", actorID).
			WithField("action", action).
			WithError(err).
			Error("ошибка записи аудита")
		return errors.Wrap(err, "ошибка записи аудита")
	}
	return nil
}

func (i impl) List(filter auditstore.Filter) (list []dbmodels.AuditLogEntry, rowCount int64, err error) {
	list, rowCount, err = i.store.List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения журнала аудита")
	}
	return list, rowCount, nil
}

func (i impl) ForRequest(requestID string, action models.AuditAction) ([]dbmodels.AuditLogEntry, error) {
	list, err := i.store.ListForRequest(requestID, action)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения журнала аудита по заявке")
	}
	return list, nil
}
