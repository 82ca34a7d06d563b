package dbmodels

import (
	"trip-approval-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditLogEntry struct {
	BaseModel
	ActorID string             `gorm:"type:varchar(36);index"`
	Action  models.AuditAction `gorm:"type:varchar(64);index"`
	Details datatypes.JSON
}

func (a *AuditLogEntry) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableRecord
}

func (a *AuditLogEntry) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableRecord
}
