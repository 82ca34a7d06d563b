package rbac

import (
	"trip-approval-backend/models"
)

var (
	FinanceSet         = []models.Capability{models.ManageFinanceCapability}
	ProjectsSet        = []models.Capability{models.ManageProjectsCapability}
	SystemSettingsSet  = []models.Capability{models.ManageSystemSettingsCapability}
	AuditSet           = []models.Capability{models.ManageFinanceCapability, models.ManageSystemSettingsCapability}
	AdminDepartmentSet = []models.Capability{models.ManageDepartmentsCapability, models.ManageFinanceCapability}
)

// маршруты без правила доступны всем авторизованным, видимость проверяется в обработчиках
func (i *impl) initRules() {
	i.paymentRules()
	i.budgetRules()
	i.maintenanceRules()
	i.auditRules()
}

func (i *impl) paymentRules() {
	i.mustRegister(FinanceSet, "/api/v1/trip_request/{id}/paid [put]")
	i.mustRegister(FinanceSet, "/api/v1/trip_request/bulk_paid [put]")
}

func (i *impl) budgetRules() {
	i.mustRegister(ProjectsSet, "/api/v1/budget/project/{id}/adjustment [post]")
	i.mustRegister(FinanceSet, "/api/v1/budget/department/{id}/bonus [put]")
	i.mustRegister(AdminDepartmentSet, "/api/v1/budget/department/{id} [put]")
}

func (i *impl) maintenanceRules() {
	i.mustRegister(SystemSettingsSet, "/api/v1/maintenance/sweep [post]")
}

func (i *impl) auditRules() {
	i.mustRegister(AuditSet, "/api/v1/audit/list [post]")
	i.mustRegister(AuditSet, "/api/v1/audit/export [post]")
}

func (i *impl) mustRegister(capabilities []models.Capability, swaggerPattern string) {
	if err := i.RegisterRule(capabilities, swaggerPattern, nil); err != nil {
		panic(err.Error())
	}
}
