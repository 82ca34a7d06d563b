package tripreqhandler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"trip-approval-backend/db"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/lib/audit"
	departmentstore "trip-approval-backend/lib/dicts/department/store"
	projectstore "trip-approval-backend/lib/dicts/project/store"
	pdfexport "trip-approval-backend/lib/export/pdf"
	orggraph "trip-approval-backend/lib/org-graph"
	"trip-approval-backend/lib/rbac"
	stepstore "trip-approval-backend/lib/trip-req/step-store"
	tripreqstore "trip-approval-backend/lib/trip-req/store"
	usersstore "trip-approval-backend/lib/users/store"
	"trip-approval-backend/lib/workflow"
	"trip-approval-backend/models"
	tripapimodels "trip-approval-backend/models/api/trip"
	dbmodels "trip-approval-backend/models/db"
)

type Provider interface {
	Create(ctx context.Context, user models.CurrentUser, data tripapimodels.TripRequestData) (id string, err error)
	GetByID(user models.CurrentUser, id string) (*tripapimodels.TripRequestView, error)
	List(user models.CurrentUser, filter tripapimodels.TripFilter) ([]tripapimodels.TripRequestView, error)
	Steps(user models.CurrentUser, id string) ([]tripapimodels.WorkflowStepView, error)
	ApprovalSheet(user models.CurrentUser, id string) ([]byte, error)
}

var Instance Provider

func NewHandler() {
	h := NewHandlerWithTx(db.DB, time.Now).(impl)
	h.pdf = pdfexport.Instance
	Instance = h
}

func NewHandlerWithTx(tx *gorm.DB, clock func() time.Time) Provider {
	return impl{
		db:           tx,
		clock:        clock,
		store:        tripreqstore.NewInstance(tx),
		stepStore:    stepstore.NewInstance(tx),
		resolver:     rbac.NewResolverWithTx(tx),
		projectStore: projectstore.NewInstance(tx),
		deptStore:    departmentstore.NewInstance(tx),
		userStore:    usersstore.NewInstance(tx),
		audit:        audit.NewHandlerWithTx(tx),
		pdf:          pdfexport.NewInstance(""),
	}
}

type impl struct {
	db           *gorm.DB
	clock        func() time.Time
	store        tripreqstore.Provider
	stepStore    stepstore.Provider
	resolver     rbac.ResolverProvider
	projectStore projectstore.Provider
	deptStore    departmentstore.Provider
	userStore    usersstore.Provider
	audit        audit.Provider
	pdf          pdfexport.Provider
}

func (i impl) getLogger(user models.CurrentUser) *log.Entry {
	return log.WithField("user_id", user.ID)
}

// Create заявка и ее этапы согласования создаются в одной транзакции
func (i impl) Create(ctx context.Context, user models.CurrentUser, data tripapimodels.TripRequestData) (id string, err error) {
	logger := i.getLogger(user)
	if err = data.Validate(); err != nil {
		return "", err
	}
	err = db.Transaction(ctx, i.db, func(tx *gorm.DB) error {
		h := NewHandlerWithTx(tx, i.clock).(impl)
		view, err := h.resolver.Resolve(user)
		if err != nil {
			return err
		}
		graph := view.Graph()
		rec := dbmodels.TripRequest{
			RequesterID:   view.UserID,
			Destination:   data.Destination,
			Purpose:       data.Purpose,
			DepartureDate: data.DepartureDate,
			ReturnDate:    data.ReturnDate,
			Cost:          data.Cost,
			Category:      data.Category,
		}
		if err = h.linkOrg(&rec, data, graph); err != nil {
			return err
		}
		steps := workflow.GenerateSteps(rec, graph)
		rec.Status = workflow.InitialStatus(steps)
		id, err = h.store.Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка создания заявки")
		}
		for idx := range steps {
			steps[idx].TripRequestID = id
		}
		if err = h.stepStore.CreateBatch(steps); err != nil {
			return errors.Wrap(err, "ошибка создания этапов согласования")
		}
		return audit.NewHandlerWithTx(tx).Record(view.UserID, models.AuditTripCreated, audit.Details{
			"request_id":    id,
			"request_kind":  models.TripRequestKind,
			"category":      rec.Category,
			"cost":          rec.Cost,
			"project_id":    rec.ProjectID,
			"department_id": rec.DepartmentID,
			"new_status":    rec.Status,
			"steps":         len(steps),
		})
	})
	if err != nil {
		logger.WithError(err).Warn("заявка на командировку не создана")
		return "", err
	}
	logger.WithField("request_id", id).Info("заявка на командировку создана")
	return id, nil
}

// linkOrg проверяет связи с орг. структурой; подразделение без явного указания берется из проекта
func (i impl) linkOrg(rec *dbmodels.TripRequest, data tripapimodels.TripRequestData, graph orggraph.Snapshot) error {
	if data.DepartmentID != "" {
		node, ok := graph.Department(data.DepartmentID)
		if !ok {
			return apperrors.Validation("подразделение не найдено")
		}
		if !node.IsActive {
			return apperrors.Validation("подразделение не активно")
		}
		departmentID := data.DepartmentID
		rec.DepartmentID = &departmentID
	}
	if data.ProjectID == "" {
		return nil
	}
	project, err := i.projectStore.GetByID(data.ProjectID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения проекта")
	}
	if project == nil {
		return apperrors.Validation("проект не найден")
	}
	if !project.AcceptsAllocations(i.clock()) {
		return apperrors.Validation("проект закрыт или истек срок его действия")
	}
	if rec.DepartmentID != nil && *rec.DepartmentID != project.DepartmentID {
		return apperrors.Validation("проект не относится к указанному подразделению")
	}
	if rec.DepartmentID == nil && project.DepartmentID != "" {
		departmentID := project.DepartmentID
		rec.DepartmentID = &departmentID
	}
	projectID := project.ID
	rec.ProjectID = &projectID
	return nil
}

func (i impl) get(user models.CurrentUser, id string) (*dbmodels.TripRequest, error) {
	view, err := i.resolver.Resolve(user)
	if err != nil {
		return nil, err
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil {
		return nil, apperrors.NotFound("заявка не найдена")
	}
	if !view.CanSeeTrip(*rec) {
		return nil, apperrors.Forbidden("нет доступа к заявке")
	}
	return rec, nil
}

func (i impl) GetByID(user models.CurrentUser, id string) (*tripapimodels.TripRequestView, error) {
	rec, err := i.get(user, id)
	if err != nil {
		return nil, err
	}
	steps, err := i.stepViews(rec.ID)
	if err != nil {
		return nil, err
	}
	result := tripapimodels.TripRequestConvert(*rec)
	result.Steps = steps
	return &result, nil
}

func (i impl) List(user models.CurrentUser, filter tripapimodels.TripFilter) ([]tripapimodels.TripRequestView, error) {
	view, err := i.resolver.Resolve(user)
	if err != nil {
		return nil, err
	}
	list, err := i.store.List(view.VisibilityFilter(), filter.Statuses)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка заявок")
	}
	result := make([]tripapimodels.TripRequestView, 0, len(list))
	for _, rec := range list {
		result = append(result, tripapimodels.TripRequestConvert(rec))
	}
	return result, nil
}

func (i impl) Steps(user models.CurrentUser, id string) ([]tripapimodels.WorkflowStepView, error) {
	rec, err := i.get(user, id)
	if err != nil {
		return nil, err
	}
	return i.stepViews(rec.ID)
}

func (i impl) stepViews(requestID string) ([]tripapimodels.WorkflowStepView, error) {
	steps, err := i.stepStore.List(requestID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения этапов согласования")
	}
	result := make([]tripapimodels.WorkflowStepView, 0, len(steps))
	for _, step := range steps {
		result = append(result, tripapimodels.WorkflowStepConvert(step))
	}
	return result, nil
}
