package auditapimodels

import (
	"encoding/json"
	"time"

	"trip-approval-backend/models"
	apimodels "trip-approval-backend/models/api"
	dbmodels "trip-approval-backend/models/db"
)

type AuditFilter struct {
	ActorID string             `json:"actor_id"` // ид пользователя
	Action  models.AuditAction `json:"action"`   // код действия
	From    *time.Time         `json:"from"`     // начало периода
	To      *time.Time         `json:"to"`       // конец периода (не включая)
	apimodels.Pagination
}

func (f AuditFilter) Validate() error {
	return f.Pagination.Validate()
}

type SweepView struct {
	BonusResets int `json:"bonus_resets"`
	Expirations int `json:"expirations"`
	Failures    int `json:"failures"`
}

type AuditEntryView struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	ActorID   string             `json:"actor_id"`
	Action    models.AuditAction `json:"action"`
	Details   json.RawMessage    `json:"details"`
}

func AuditEntryConvert(rec dbmodels.AuditLogEntry) AuditEntryView {
	return AuditEntryView{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		ActorID:   rec.ActorID,
		Action:    rec.Action,
		Details:   json.RawMessage(rec.Details),
	}
}
