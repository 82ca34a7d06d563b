package dbmodels

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrImmutableRecord = errors.New("запись журнала не может быть изменена")

type BudgetAdjustment struct {
	BaseModel
	ProjectID     string          `gorm:"type:varchar(36);index"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2)"`
	Justification string
	ActorID       string `gorm:"type:varchar(36)"`
}

func (b *BudgetAdjustment) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableRecord
}

func (b *BudgetAdjustment) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableRecord
}
