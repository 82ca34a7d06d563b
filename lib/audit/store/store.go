package auditstore

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.AuditLogEntry) (id string, err error)
	List(filter Filter) (list []dbmodels.AuditLogEntry, rowCount int64, err error)
	ListForRequest(requestID string, action models.AuditAction) (list []dbmodels.AuditLogEntry, err error)
}

type Filter struct {
	ActorID string
	Action  models.AuditAction
	From    *time.Time
	To      *time.Time
	Offset  int
	Limit   int
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.AuditLogEntry) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(filter Filter) (list []dbmodels.AuditLogEntry, rowCount int64, err error) {
	list = []dbmodels.AuditLogEntry{}
	tx := i.db.Model(&dbmodels.AuditLogEntry{})
	if filter.ActorID != "" {
		tx = tx.Where("actor_id = ?", filter.ActorID)
	}
	if filter.Action != "" {
		tx = tx.Where("action = ?", filter.Action)
	}
	if filter.From != nil {
		tx = tx.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		tx = tx.Where("created_at < ?", *filter.To)
	}
	err = tx.Session(&gorm.Session{}).Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit).Offset(filter.Offset)
	}
	err = tx.
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

// ListForRequest записи по заявке, поиск по полю request_id в details
func (i impl) ListForRequest(requestID string, action models.AuditAction) (list []dbmodels.AuditLogEntry, err error) {
	list = []dbmodels.AuditLogEntry{}
	tx := i.db.
		Model(&dbmodels.AuditLogEntry{}).
		Where(datatypes.JSONQuery("details").Equals(requestID, "request_id"))
	if action != "" {
		tx = tx.Where("action = ?", action)
	}
	err = tx.
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
