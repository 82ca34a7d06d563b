package adminreqhandler

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"trip-approval-backend/db"
	adminreqstore "trip-approval-backend/lib/admin-req/store"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/lib/audit"
	projectstore "trip-approval-backend/lib/dicts/project/store"
	orggraph "trip-approval-backend/lib/org-graph"
	"trip-approval-backend/lib/rbac"
	"trip-approval-backend/models"
	tripapimodels "trip-approval-backend/models/api/trip"
	dbmodels "trip-approval-backend/models/db"
)

type Provider interface {
	Create(ctx context.Context, user models.CurrentUser, data tripapimodels.AdminRequestData) (id string, err error)
	GetByID(user models.CurrentUser, id string) (*tripapimodels.AdminRequestView, error)
	List(user models.CurrentUser) ([]tripapimodels.AdminRequestView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewHandlerWithTx(db.DB)
}

func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		db:           tx,
		store:        adminreqstore.NewInstance(tx),
		resolver:     rbac.NewResolverWithTx(tx),
		projectStore: projectstore.NewInstance(tx),
	}
}

type impl struct {
	db           *gorm.DB
	store        adminreqstore.Provider
	resolver     rbac.ResolverProvider
	projectStore projectstore.Provider
}

func (i impl) getLogger(user models.CurrentUser) *log.Entry {
	return log.WithField("user_id", user.ID)
}

func (i impl) Create(ctx context.Context, user models.CurrentUser, data tripapimodels.AdminRequestData) (id string, err error) {
	logger := i.getLogger(user)
	if err = data.Validate(); err != nil {
		return "", err
	}
	err = db.Transaction(ctx, i.db, func(tx *gorm.DB) error {
		h := NewHandlerWithTx(tx).(impl)
		view, err := h.resolver.Resolve(user)
		if err != nil {
			return err
		}
		rec := dbmodels.AdminRequest{
			RequesterID:   view.UserID,
			Category:      data.Category,
			Title:         data.Title,
			Justification: data.Justification,
			Amount:        data.Amount,
			Status:        models.StatusPending,
		}
		if err = h.linkTargets(&rec, data, view.Graph()); err != nil {
			return err
		}
		id, err = h.store.Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка создания административной заявки")
		}
		return audit.NewHandlerWithTx(tx).Record(view.UserID, models.AuditAdminCreated, audit.Details{
			"request_id":           id,
			"request_kind":         models.AdminRequestKind,
			"category":             rec.Category,
			"amount":               rec.Amount,
			"target_department_id": rec.TargetDepartmentID,
			"target_project_id":    rec.TargetProjectID,
			"new_status":           rec.Status,
		})
	})
	if err != nil {
		logger.WithError(err).Warn("административная заявка не создана")
		return "", err
	}
	logger.WithField("request_id", id).Info("административная заявка создана")
	return id, nil
}

func (i impl) linkTargets(rec *dbmodels.AdminRequest, data tripapimodels.AdminRequestData, graph orggraph.Snapshot) error {
	if data.TargetDepartmentID != "" {
		if _, ok := graph.Department(data.TargetDepartmentID); !ok {
			return apperrors.Validation("подразделение не найдено")
		}
		departmentID := data.TargetDepartmentID
		rec.TargetDepartmentID = &departmentID
	}
	if data.TargetProjectID != "" {
		project, err := i.projectStore.GetByID(data.TargetProjectID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения проекта")
		}
		if project == nil {
			return apperrors.Validation("проект не найден")
		}
		projectID := project.ID
		rec.TargetProjectID = &projectID
	}
	return nil
}

func (i impl) GetByID(user models.CurrentUser, id string) (*tripapimodels.AdminRequestView, error) {
	view, err := i.resolver.Resolve(user)
	if err != nil {
		return nil, err
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения административной заявки")
	}
	if rec == nil {
		return nil, apperrors.NotFound("заявка не найдена")
	}
	if !view.CanSeeAdmin(*rec) {
		return nil, apperrors.Forbidden("нет доступа к заявке")
	}
	result := tripapimodels.AdminRequestConvert(*rec)
	return &result, nil
}

func (i impl) List(user models.CurrentUser) ([]tripapimodels.AdminRequestView, error) {
	view, err := i.resolver.Resolve(user)
	if err != nil {
		return nil, err
	}
	list, err := i.store.List(view.VisibilityFilter())
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка административных заявок")
	}
	result := make([]tripapimodels.AdminRequestView, 0, len(list))
	for _, rec := range list {
		result = append(result, tripapimodels.AdminRequestConvert(rec))
	}
	return result, nil
}
