package tripreqstore

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.TripRequest) (id string, err error)
	GetByID(id string) (rec *dbmodels.TripRequest, err error)
	GetForUpdate(id string) (rec *dbmodels.TripRequest, err error)
	Update(id string, updMap map[string]interface{}) error
	List(filter VisibilityFilter, statuses []models.RequestStatus) (list []dbmodels.TripRequest, err error)
	ListIDs(filter VisibilityFilter) (ids []string, err error)
	AllocatedCost(filter AllocationFilter) (total decimal.Decimal, err error)
}

// VisibilityFilter All перекрывает остальные условия, иначе условия объединяются через ИЛИ
type VisibilityFilter struct {
	All           bool
	RequesterID   string
	DepartmentIDs []string
	ProjectIDs    []string
}

type AllocationFilter struct {
	ProjectID        string
	DepartmentID     string
	ExcludeRequestID string
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TripRequest) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.TripRequest, error) {
	return i.get(i.db, id)
}

// GetForUpdate блокирует строку заявки до конца транзакции
func (i impl) GetForUpdate(id string) (*dbmodels.TripRequest, error) {
	return i.get(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (i impl) get(tx *gorm.DB, id string) (*dbmodels.TripRequest, error) {
	rec := dbmodels.TripRequest{}
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
		Model(&dbmodels.TripRequest{}).
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

func (i impl) List(filter VisibilityFilter, statuses []models.RequestStatus) (list []dbmodels.TripRequest, err error) {
	list = []dbmodels.TripRequest{}
	tx := i.applyVisibility(i.db.Model(&dbmodels.TripRequest{}), filter)
	if len(statuses) > 0 {
		tx = tx.Where("status IN ?", statuses)
	}
	err = tx.
		Order("created_at DESC").
		Preload("Requester").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListIDs(filter VisibilityFilter) (ids []string, err error) {
	ids = []string{}
	err = i.applyVisibility(i.db.Model(&dbmodels.TripRequest{}), filter).
		Pluck("id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (i impl) applyVisibility(tx *gorm.DB, filter VisibilityFilter) *gorm.DB {
	if filter.All {
		return tx
	}
	cond := i.db.Where("requester_id = ?", filter.RequesterID)
	if len(filter.DepartmentIDs) > 0 {
		cond = cond.Or("department_id IN ?", filter.DepartmentIDs)
	}
	if len(filter.ProjectIDs) > 0 {
		cond = cond.Or("project_id IN ?", filter.ProjectIDs)
	}
	return tx.Where(cond)
}

type costRow struct {
	Cost decimal.Decimal
}

// AllocatedCost сумма по несрочным заявкам в ожидающих, согласованных и оплаченных статусах
func (i impl) AllocatedCost(filter AllocationFilter) (decimal.Decimal, error) {
	rows := []costRow{}
	tx := i.db.
		Model(&dbmodels.TripRequest{}).
		Select("cost").
		Where("category <> ?", models.TripUrgent).
		Where(i.db.Where("status IN ?", models.AllocatedStatuses).
			Or("status LIKE ?", models.PendingStatusPattern))
	if filter.ProjectID != "" {
		tx = tx.Where("project_id = ?", filter.ProjectID)
	}
	if filter.DepartmentID != "" {
		tx = tx.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.ExcludeRequestID != "" {
		tx = tx.Where("id <> ?", filter.ExcludeRequestID)
	}
	err := tx.Find(&rows).Error
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "ошибка расчета распределенного бюджета")
	}
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Cost)
	}
	return total, nil
}
