package stepstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "trip-approval-backend/models/db"
)

type Provider interface {
	CreateBatch(list []dbmodels.WorkflowStep) error
	List(requestID string) (list []dbmodels.WorkflowStep, err error)
	Update(id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CreateBatch(list []dbmodels.WorkflowStep) error {
	if len(list) == 0 {
		return nil
	}
	return i.db.
		Create(&list).
		Error
}

func (i impl) List(requestID string) (list []dbmodels.WorkflowStep, err error) {
	list = []dbmodels.WorkflowStep{}
	err = i.db.
		Where("trip_request_id = ?", requestID).
		Order("position ASC").
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
	tx := i.db.
		Model(&dbmodels.WorkflowStep{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("этап согласования не найден")
	}
	return nil
}
