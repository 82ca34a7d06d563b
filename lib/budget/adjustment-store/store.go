package adjustmentstore

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	dbmodels "trip-approval-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.BudgetAdjustment) (id string, err error)
	List(projectID string) (list []dbmodels.BudgetAdjustment, err error)
	Sum(projectID string) (total decimal.Decimal, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.BudgetAdjustment) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(projectID string) (list []dbmodels.BudgetAdjustment, err error) {
	list = []dbmodels.BudgetAdjustment{}
	err = i.db.
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

type amountRow struct {
	Amount decimal.Decimal
}

func (i impl) Sum(projectID string) (decimal.Decimal, error) {
	rows := []amountRow{}
	err := i.db.
		Model(&dbmodels.BudgetAdjustment{}).
		Select("amount").
		Where("project_id = ?", projectID).
		Find(&rows).
		Error
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "ошибка расчета корректировок бюджета")
	}
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount)
	}
	return total, nil
}
