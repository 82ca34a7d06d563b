package dbmodels

import (
	"time"
	"trip-approval-backend/models"

	"github.com/shopspring/decimal"
)

type TripRequest struct {
	BaseModel
	RequesterID     string `gorm:"type:varchar(36);index"`
	Requester       *User  `gorm:"foreignKey:RequesterID"`
	Destination     string `gorm:"type:varchar(255)"`
	Purpose         string
	DepartureDate   time.Time
	ReturnDate      time.Time
	Cost            decimal.Decimal      `gorm:"type:numeric(14,2)"`
	DepartmentID    *string              `gorm:"type:varchar(36);index"`
	ProjectID       *string              `gorm:"type:varchar(36);index"`
	Category        models.TripCategory  `gorm:"type:varchar(20)"`
	Status          models.RequestStatus `gorm:"type:varchar(64);index"`
	Paid            bool
	PaidAt          *time.Time
	RejectionReason string
	WorkflowSteps   []WorkflowStep `gorm:"foreignKey:TripRequestID"`
}

func (t TripRequest) HasProject() bool {
	return t.ProjectID != nil && *t.ProjectID != ""
}

func (t TripRequest) HasDepartment() bool {
	return t.DepartmentID != nil && *t.DepartmentID != ""
}

// IsBudgetRelevant только несрочные заявки по проекту проходят проверку бюджета
func (t TripRequest) IsBudgetRelevant() bool {
	return t.HasProject() && !t.Category.IsUrgent()
}
