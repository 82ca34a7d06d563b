package dbmodels

import (
	"time"

	"github.com/shopspring/decimal"
	"trip-approval-backend/lib/apperrors"
)

type Department struct {
	BaseModel
	Name            string          `gorm:"type:varchar(255)"`
	Budget          decimal.Decimal `gorm:"type:numeric(14,2)"`
	MonthlyBonus    decimal.Decimal `gorm:"type:numeric(14,2)"`
	BonusResetAt    *time.Time
	ManagerID       *string `gorm:"type:varchar(36);index"`
	SecondManagerID *string `gorm:"type:varchar(36);index"`
	ThirdManagerID  *string `gorm:"type:varchar(36);index"`
	IsActive        bool
}

// ManagerIDs заполненные слоты руководителей, первым идет основной
func (d Department) ManagerIDs() []string {
	return collectIDs(d.ManagerID, d.SecondManagerID, d.ThirdManagerID)
}

func (d Department) Validate() error {
	if d.Name == "" {
		return apperrors.Validation("не указано название подразделения")
	}
	if d.Budget.IsNegative() {
		return apperrors.Validation("бюджет подразделения не может быть отрицательным")
	}
	if d.MonthlyBonus.IsNegative() {
		return apperrors.Validation("бонус подразделения не может быть отрицательным")
	}
	return nil
}

func collectIDs(ids ...*string) []string {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != nil && *id != "" {
			result = append(result, *id)
		}
	}
	return result
}

// BonusWindowStart бонус, выданный не позже этой метки, считается истекшим
func BonusWindowStart(now time.Time) time.Time {
	return now.AddDate(0, -1, 0)
}

// ActiveBonus бонус учитывается в течение календарного месяца с момента выдачи
func (d Department) ActiveBonus(now time.Time) decimal.Decimal {
	if d.BonusResetAt == nil || !d.BonusResetAt.After(BonusWindowStart(now)) {
		return decimal.Zero
	}
	return d.MonthlyBonus
}
