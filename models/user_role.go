package models

type UserRole string

const (
	SuperAdminRole   UserRole = "SUPER_ADMIN"
	FinanceAdminRole UserRole = "FINANCE_ADMIN"
	ManagerRole      UserRole = "MANAGER"
	EmployeeRole     UserRole = "EMPLOYEE"
)

var roleHumanName = map[UserRole]string{
	SuperAdminRole:   "Суперадмин системы",
	FinanceAdminRole: "Финансовый администратор",
	ManagerRole:      "Руководитель",
	EmployeeRole:     "Сотрудник",
}

// чем больше, тем выше привилегии
var roleRank = map[UserRole]int{
	SuperAdminRole:   40,
	FinanceAdminRole: 30,
	ManagerRole:      20,
	EmployeeRole:     10,
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// IsSystemWide две старшие роли видят и согласуют все заявки
func (r UserRole) IsSystemWide() bool {
	return r == SuperAdminRole || r == FinanceAdminRole
}

func (r UserRole) IsManagerScoped() bool {
	return r == ManagerRole
}

// CanDowngradeTo временная роль допустима только строго ниже заявленной
func (r UserRole) CanDowngradeTo(active UserRole) bool {
	if !r.IsValid() || !active.IsValid() {
		return false
	}
	return roleRank[active] < roleRank[r]
}

const SystemUser = "Система"

// CurrentUser данные пользователя из токена, роль из токена не является источником истины
type CurrentUser struct {
	ID           string
	DeclaredRole UserRole
	ActiveRole   UserRole
}
