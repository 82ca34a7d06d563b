package dbmodels

import (
	"time"
	"trip-approval-backend/models"
)

type WorkflowStep struct {
	BaseModel
	TripRequestID  string              `gorm:"type:varchar(36);index"`
	StepType       models.StepType     `gorm:"type:varchar(50)"`
	ApproverKind   models.ApproverKind `gorm:"type:varchar(20)"`
	ApproverUserID *string             `gorm:"type:varchar(36);index"`
	ApproverRole   models.UserRole     `gorm:"type:varchar(50)"`
	Position       int
	Status         models.StepStatus `gorm:"type:varchar(20)"`
	DecidedByID    *string           `gorm:"type:varchar(36)"`
	DecidedAt      *time.Time
	Comment        string
}

func (s WorkflowStep) Approver() models.Approver {
	a := models.Approver{Kind: s.ApproverKind, Role: s.ApproverRole}
	if s.ApproverUserID != nil {
		a.UserID = *s.ApproverUserID
	}
	return a
}

func (s *WorkflowStep) SetApprover(a models.Approver) {
	s.ApproverKind = a.Kind
	s.ApproverRole = a.Role
	s.ApproverUserID = nil
	if a.UserID != "" {
		userID := a.UserID
		s.ApproverUserID = &userID
	}
}
