package rbac

import (
	"slices"

	"trip-approval-backend/lib/apperrors"
	orggraph "trip-approval-backend/lib/org-graph"
	tripreqstore "trip-approval-backend/lib/trip-req/store"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

var roleCapabilities = map[models.UserRole][]models.Capability{
	models.SuperAdminRole: models.AllCapabilities,
	models.FinanceAdminRole: {
		models.ManageFinanceCapability,
		models.ManageProjectsCapability,
		models.ManageRatesCapability,
		models.ManageSitesCapability,
	},
	models.ManagerRole:  {models.ManageSitesCapability},
	models.EmployeeRole: {},
}

// PermissionView права пользователя с учетом эффективной роли и текущих связей орг. структуры
type PermissionView struct {
	UserID               string
	DeclaredRole         models.UserRole
	EffectiveRole        models.UserRole
	Scope                models.VisibilityScope
	ManagedDepartmentIDs []string
	ManagedProjectIDs    []string
	graph                orggraph.Snapshot
}

// EffectiveRole временная роль, если задана и является понижением, иначе заявленная
func EffectiveRole(declared, active models.UserRole) (models.UserRole, error) {
	if !declared.IsValid() {
		return "", apperrors.Forbidden("неизвестная роль пользователя: %v", declared)
	}
	if active == "" || active == declared {
		return declared, nil
	}
	if !declared.CanDowngradeTo(active) {
		return "", apperrors.Forbidden("роль %v недоступна для пользователя с ролью %v", active, declared)
	}
	return active, nil
}

// Resolve чистая функция от строки пользователя и среза орг. структуры
func Resolve(user dbmodels.User, activeRole models.UserRole, graph orggraph.Snapshot) (PermissionView, error) {
	if !user.IsActive {
		return PermissionView{}, apperrors.Forbidden("пользователь заблокирован")
	}
	role, err := EffectiveRole(user.Role, activeRole)
	if err != nil {
		return PermissionView{}, err
	}
	view := PermissionView{
		UserID:        user.ID,
		DeclaredRole:  user.Role,
		EffectiveRole: role,
		graph:         graph,
	}
	switch {
	case role.IsSystemWide():
		view.Scope = models.SystemWideScope
	case role.IsManagerScoped():
		view.Scope = models.ManagedScope
		view.ManagedDepartmentIDs, view.ManagedProjectIDs = graph.ManagedBy(user.ID)
	default:
		view.Scope = models.OwnScope
	}
	return view, nil
}

func (v PermissionView) Can(capability models.Capability) bool {
	return slices.Contains(roleCapabilities[v.EffectiveRole], capability)
}

func (v PermissionView) CanAny(capabilities ...models.Capability) bool {
	for _, capability := range capabilities {
		if v.Can(capability) {
			return true
		}
	}
	return false
}

// Require отказ оформляется как Forbidden, а не как ошибка данных
func (v PermissionView) Require(capabilities ...models.Capability) error {
	if v.CanAny(capabilities...) {
		return nil
	}
	return apperrors.Forbidden("недостаточно прав для операции")
}

func (v PermissionView) Capabilities() []models.Capability {
	return slices.Clone(roleCapabilities[v.EffectiveRole])
}

func (v PermissionView) ManagesDepartment(departmentID string) bool {
	return v.Scope == models.ManagedScope && departmentID != "" && slices.Contains(v.ManagedDepartmentIDs, departmentID)
}

func (v PermissionView) ManagesProject(projectID string) bool {
	return v.Scope == models.ManagedScope && projectID != "" && slices.Contains(v.ManagedProjectIDs, projectID)
}

func (v PermissionView) CanSeeTrip(trip dbmodels.TripRequest) bool {
	switch v.Scope {
	case models.SystemWideScope:
		return true
	case models.ManagedScope:
		if trip.HasDepartment() && v.ManagesDepartment(*trip.DepartmentID) {
			return true
		}
		if trip.HasProject() && v.ManagesProject(*trip.ProjectID) {
			return true
		}
	}
	return trip.RequesterID == v.UserID
}

func (v PermissionView) CanSeeAdmin(req dbmodels.AdminRequest) bool {
	switch v.Scope {
	case models.SystemWideScope:
		return true
	case models.ManagedScope:
		if req.TargetDepartmentID != nil && v.ManagesDepartment(*req.TargetDepartmentID) {
			return true
		}
		if req.TargetProjectID != nil && v.ManagesProject(*req.TargetProjectID) {
			return true
		}
	}
	return req.RequesterID == v.UserID
}

// CanActOnStep может ли пользователь закрыть этап заявки.
// Системные роли закрывают любой этап, остальные - назначенный на них,
// этап по роли или этап подразделения / проекта, где они руководители.
func (v PermissionView) CanActOnStep(trip dbmodels.TripRequest, step dbmodels.WorkflowStep) bool {
	if !v.CanSeeTrip(trip) {
		return false
	}
	if v.Scope == models.SystemWideScope {
		return true
	}
	if step.Approver().Matches(v.UserID, v.EffectiveRole) {
		return true
	}
	if v.Scope != models.ManagedScope {
		return false
	}
	switch step.StepType {
	case models.DepartmentApprovalStep:
		return trip.HasDepartment() && v.ManagesDepartment(*trip.DepartmentID)
	case models.ProjectManagerApprovalStep:
		return trip.HasProject() && v.ManagesProject(*trip.ProjectID)
	}
	return false
}

// CanDecideAdmin неявный этап административной заявки закрывается по правам
func (v PermissionView) CanDecideAdmin(req dbmodels.AdminRequest) bool {
	return v.CanSeeAdmin(req) && v.CanAny(models.AdminRequestCapabilities...)
}

func (v PermissionView) VisibilityFilter() tripreqstore.VisibilityFilter {
	return tripreqstore.VisibilityFilter{
		All:           v.Scope == models.SystemWideScope,
		RequesterID:   v.UserID,
		DepartmentIDs: v.ManagedDepartmentIDs,
		ProjectIDs:    v.ManagedProjectIDs,
	}
}

func (v PermissionView) Graph() orggraph.Snapshot {
	return v.graph
}
