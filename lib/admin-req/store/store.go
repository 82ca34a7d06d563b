package adminreqstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	tripreqstore "trip-approval-backend/lib/trip-req/store"
	dbmodels "trip-approval-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.AdminRequest) (id string, err error)
	GetByID(id string) (rec *dbmodels.AdminRequest, err error)
	GetForUpdate(id string) (rec *dbmodels.AdminRequest, err error)
	Update(id string, updMap map[string]interface{}) error
	List(filter tripreqstore.VisibilityFilter) (list []dbmodels.AdminRequest, err error)
	ListIDs(filter tripreqstore.VisibilityFilter) (ids []string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.AdminRequest) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.AdminRequest, error) {
	return i.get(i.db, id)
}

func (i impl) GetForUpdate(id string) (*dbmodels.AdminRequest, error) {
	return i.get(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (i impl) get(tx *gorm.DB, id string) (*dbmodels.AdminRequest, error) {
	rec := dbmodels.AdminRequest{}
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.AdminRequest{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("запись не найдена")
	}
	return nil
}

func (i impl) List(filter tripreqstore.VisibilityFilter) (list []dbmodels.AdminRequest, err error) {
	list = []dbmodels.AdminRequest{}
	err = i.applyVisibility(i.db.Model(&dbmodels.AdminRequest{}), filter).
		Order("created_at DESC").
		Preload("Requester").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListIDs(filter tripreqstore.VisibilityFilter) (ids []string, err error) {
	ids = []string{}
	err = i.applyVisibility(i.db.Model(&dbmodels.AdminRequest{}), filter).
		Pluck("id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (i impl) applyVisibility(tx *gorm.DB, filter tripreqstore.VisibilityFilter) *gorm.DB {
	if filter.All {
		return tx
	}
	cond := i.db.Where("requester_id = ?", filter.RequesterID)
	if len(filter.DepartmentIDs) > 0 {
		cond = cond.Or("target_department_id IN ?", filter.DepartmentIDs)
	}
	if len(filter.ProjectIDs) > 0 {
		cond = cond.Or("target_project_id IN ?", filter.ProjectIDs)
	}
	return tx.Where(cond)
}
