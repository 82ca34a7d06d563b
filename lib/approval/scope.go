package approval

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	adminreqstore "trip-approval-backend/lib/admin-req/store"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/lib/audit"
	"trip-approval-backend/lib/budget"
	departmentstore "trip-approval-backend/lib/dicts/department/store"
	projectstore "trip-approval-backend/lib/dicts/project/store"
	"trip-approval-backend/lib/rbac"
	stepstore "trip-approval-backend/lib/trip-req/step-store"
	tripreqstore "trip-approval-backend/lib/trip-req/store"
	"trip-approval-backend/lib/workflow"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

// scope все чтения и записи одной транзакции, права вычислены один раз
type scope struct {
	now             time.Time
	view            rbac.PermissionView
	tripStore       tripreqstore.Provider
	stepStore       stepstore.Provider
	adminStore      adminreqstore.Provider
	projectStore    projectstore.Provider
	departmentStore departmentstore.Provider
	budget          budget.Provider
	audit           audit.Provider
}

func (i impl) newScope(tx *gorm.DB, user models.CurrentUser) (*scope, error) {
	view, err := rbac.NewResolverWithTx(tx).Resolve(user)
	if err != nil {
		return nil, err
	}
	return &scope{
		now:             i.clock(),
		view:            view,
		tripStore:       tripreqstore.NewInstance(tx),
		stepStore:       stepstore.NewInstance(tx),
		adminStore:      adminreqstore.NewInstance(tx),
		projectStore:    projectstore.NewInstance(tx),
		departmentStore: departmentstore.NewInstance(tx),
		budget:          budget.NewHandlerWithClock(tx, i.clock),
		audit:           audit.NewHandlerWithTx(tx),
	}, nil
}

// lockRequest блокирует строку заявки; ровно одно из значений не nil
func (s *scope) lockRequest(requestID string) (*dbmodels.TripRequest, *dbmodels.AdminRequest, error) {
	trip, err := s.tripStore.GetForUpdate(requestID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения заявки")
	}
	if trip != nil {
		return trip, nil, nil
	}
	admin, err := s.adminStore.GetForUpdate(requestID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения заявки")
	}
	if admin == nil {
		return nil, nil, apperrors.NotFound("заявка не найдена")
	}
	return nil, admin, nil
}

// validate проверка решения без записи: права, состояние, бюджет
func (s *scope) validate(requestID string, decision models.Decision, reason string) (intent, error) {
	trip, admin, err := s.lockRequest(requestID)
	if err != nil {
		return intent{}, err
	}
	if trip != nil {
		return s.validateTrip(*trip, decision, reason)
	}
	return s.validateAdmin(*admin, decision, reason)
}

func (s *scope) validateTrip(trip dbmodels.TripRequest, decision models.Decision, reason string) (intent, error) {
	if !s.view.CanSeeTrip(trip) {
		return intent{}, apperrors.Forbidden("нет доступа к заявке")
	}
	steps, err := s.stepStore.List(trip.ID)
	if err != nil {
		return intent{}, errors.Wrap(err, "ошибка получения этапов согласования")
	}
	current, err := workflow.CurrentStep(trip, steps)
	if err != nil {
		return intent{}, err
	}
	if !s.view.CanActOnStep(trip, *current) {
		return intent{}, apperrors.Forbidden("этап \"%s\" согласует другой сотрудник", current.StepType.ToHuman())
	}

	in := intent{
		kind:     models.TripRequestKind,
		decision: decision,
		reason:   reason,
		trip:     &trip,
	}
	if decision == models.DecisionApprove && current.StepType == models.ProjectManagerApprovalStep && trip.IsBudgetRelevant() {
		check, err := s.checkBudget(trip)
		if err != nil {
			return intent{}, err
		}
		in.check = check
	}
	in.transition, err = workflow.Advance(trip, steps, decision, s.view.UserID, reason, s.now)
	if err != nil {
		return intent{}, err
	}
	return in, nil
}

// checkBudget строка проекта блокируется, чтобы параллельные согласования видели один остаток
func (s *scope) checkBudget(trip dbmodels.TripRequest) (*budget.CheckResult, error) {
	project, err := s.projectStore.GetForUpdate(*trip.ProjectID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения проекта")
	}
	if project == nil {
		return nil, apperrors.NotFound("проект заявки не найден")
	}
	check, err := s.budget.CheckProject(project.ID, trip.Cost, trip.ID)
	if err != nil {
		return nil, err
	}
	if err = check.Err(); err != nil {
		return nil, err
	}
	return check, nil
}

func (s *scope) validateAdmin(req dbmodels.AdminRequest, decision models.Decision, reason string) (intent, error) {
	if !s.view.CanDecideAdmin(req) {
		return intent{}, apperrors.Forbidden("недостаточно прав для решения по административной заявке")
	}
	newStatus, err := workflow.AdminDecision(req.Status, decision)
	if err != nil {
		return intent{}, err
	}
	if decision == models.DecisionApprove {
		if err = s.checkAdminEffect(req); err != nil {
			return intent{}, err
		}
	}
	return intent{
		kind:        models.AdminRequestKind,
		decision:    decision,
		reason:      reason,
		admin:       &req,
		adminStatus: newStatus,
	}, nil
}

func (s *scope) checkAdminEffect(req dbmodels.AdminRequest) error {
	switch req.Category {
	case models.AdminBudgetIncrease:
		if req.Amount == nil || !req.Amount.IsPositive() {
			return apperrors.Validation("в заявке не указана сумма увеличения бюджета")
		}
		if req.TargetProjectID != nil {
			_, err := s.lockProject(*req.TargetProjectID)
			return err
		}
		if req.TargetDepartmentID != nil {
			_, err := s.lockDepartment(*req.TargetDepartmentID)
			return err
		}
		return apperrors.Validation("в заявке не указан проект или подразделение")
	case models.AdminNewProject:
		if req.TargetDepartmentID == nil {
			return apperrors.Validation("в заявке не указано подразделение нового проекта")
		}
		if req.Amount == nil || req.Amount.IsNegative() {
			return apperrors.Validation("в заявке не указан бюджет нового проекта")
		}
		_, err := s.lockDepartment(*req.TargetDepartmentID)
		return err
	}
	return nil
}

func (s *scope) lockProject(id string) (*dbmodels.Project, error) {
	project, err := s.projectStore.GetForUpdate(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения проекта")
	}
	if project == nil {
		return nil, apperrors.NotFound("проект не найден")
	}
	return project, nil
}

func (s *scope) lockDepartment(id string) (*dbmodels.Department, error) {
	department, err := s.departmentStore.GetForUpdate(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения подразделения")
	}
	if department == nil {
		return nil, apperrors.NotFound("подразделение не найдено")
	}
	return department, nil
}
