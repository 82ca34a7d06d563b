package dbmodels

import (
	"time"

	"github.com/shopspring/decimal"
	"trip-approval-backend/lib/apperrors"
)

type Project struct {
	BaseModel
	Name            string          `gorm:"type:varchar(255)"`
	DepartmentID    string          `gorm:"type:varchar(36);index"`
	Department      *Department     `gorm:"foreignKey:DepartmentID"`
	Budget          decimal.Decimal `gorm:"type:numeric(14,2)"`
	OriginalBudget  decimal.Decimal `gorm:"type:numeric(14,2)"`
	ManagerID       *string         `gorm:"type:varchar(36);index"`
	SecondManagerID *string         `gorm:"type:varchar(36);index"`
	ExpiresAt       *time.Time
	IsActive        bool
}

func (p Project) ManagerIDs() []string {
	return collectIDs(p.ManagerID, p.SecondManagerID)
}

// IsExpired проект после даты окончания не принимает новых расходов, даже если активен
func (p Project) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

func (p Project) AcceptsAllocations(now time.Time) bool {
	return p.IsActive && !p.IsExpired(now)
}

func (p Project) Validate() error {
	if p.Name == "" {
		return apperrors.Validation("не указано название проекта")
	}
	if p.DepartmentID == "" {
		return apperrors.Validation("не указано подразделение проекта")
	}
	if p.OriginalBudget.IsNegative() {
		return apperrors.Validation("бюджет проекта не может быть отрицательным")
	}
	return nil
}
