package store

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"trip-approval-backend/lib/apperrors"
	dbmodels "trip-approval-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Department) (id string, err error)
	GetByID(id string) (rec *dbmodels.Department, err error)
	GetForUpdate(id string) (rec *dbmodels.Department, err error)
	List() (list []dbmodels.Department, err error)
	Update(id string, updMap map[string]interface{}) error
	ListBonusExpired(windowStart time.Time) (list []dbmodels.Department, err error)
	ResetBonus(id string, windowStart, now time.Time) (updated bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Department) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	err = i.isUnique("", rec.Name)
	if err != nil {
		return "", err
	}
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Department, error) {
	return i.get(i.db, id)
}

func (i impl) GetForUpdate(id string) (*dbmodels.Department, error) {
	return i.get(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (i impl) get(tx *gorm.DB, id string) (*dbmodels.Department, error) {
	rec := dbmodels.Department{}
	err := tx.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) List() (list []dbmodels.Department, err error) {
	list = []dbmodels.Department{}
	err = i.db.
		Order("name ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	name, ok := updMap["name"]
	if ok {
		err := i.isUnique(id, name.(string))
		if err != nil {
			return err
		}
	}
	tx := i.db.
		Model(&dbmodels.Department{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return apperrors.NotFound("подразделение не найдено")
	}
	return nil
}

// ListBonusExpired подразделения с ненулевым бонусом, чей срок действия истек
func (i impl) ListBonusExpired(windowStart time.Time) (list []dbmodels.Department, err error) {
	list = []dbmodels.Department{}
	err = i.db.
		Where("monthly_bonus > ?", decimal.Zero).
		Where("bonus_reset_at IS NOT NULL AND bonus_reset_at <= ?", windowStart).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ResetBonus условное обнуление: повторный вызов после сдвига метки ничего не меняет
func (i impl) ResetBonus(id string, windowStart, now time.Time) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.Department{}).
		Where("id = ?", id).
		Where("monthly_bonus > ?", decimal.Zero).
		Where("bonus_reset_at IS NOT NULL AND bonus_reset_at <= ?", windowStart).
		Updates(map[string]interface{}{
			"monthly_bonus":  decimal.Zero,
			"bonus_reset_at": now,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) isUnique(selfID, name string) error {
	var rowCount int64
	tx := i.db.Model(dbmodels.Department{}).
		Where("name = ?", name)
	if selfID != "" {
		tx = tx.Where("id <> ?", selfID)
	}
	err := tx.Count(&rowCount).Error
	if err != nil {
		return errors.Wrap(err, "ошибка проверки уникальности подразделения")
	}
	if rowCount != 0 {
		return apperrors.Conflict("подразделение \"%s\" уже существует", name)
	}
	return nil
}
