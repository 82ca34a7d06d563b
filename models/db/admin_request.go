package dbmodels

import (
	"trip-approval-backend/models"

	"github.com/shopspring/decimal"
)

type AdminRequest struct {
	BaseModel
	RequesterID        string                      `gorm:"type:varchar(36);index"`
	Requester          *User                       `gorm:"foreignKey:RequesterID"`
	Category           models.AdminRequestCategory `gorm:"type:varchar(50)"`
	Title              string                      `gorm:"type:varchar(255)"`
	Justification      string
	TargetDepartmentID *string              `gorm:"type:varchar(36);index"`
	TargetProjectID    *string              `gorm:"type:varchar(36);index"`
	Amount             *decimal.Decimal     `gorm:"type:numeric(14,2)"`
	Status             models.RequestStatus `gorm:"type:varchar(64);index"`
	DecidedByID        *string              `gorm:"type:varchar(36)"`
	DecisionReason     string
}
