package models

type Capability string

const (
	ManageUsersCapability          Capability = "MANAGE_USERS"
	ManageDepartmentsCapability    Capability = "MANAGE_DEPARTMENTS"
	ManageFinanceCapability        Capability = "MANAGE_FINANCE"
	ManageProjectsCapability       Capability = "MANAGE_PROJECTS"
	ManageSitesCapability          Capability = "MANAGE_SITES"
	ManageRatesCapability          Capability = "MANAGE_RATES"
	ManageSystemSettingsCapability Capability = "MANAGE_SYSTEM_SETTINGS"
)

var AllCapabilities = []Capability{
	ManageUsersCapability,
	ManageDepartmentsCapability,
	ManageFinanceCapability,
	ManageProjectsCapability,
	ManageSitesCapability,
	ManageRatesCapability,
	ManageSystemSettingsCapability,
}

// AdminRequestCapabilities любая из них закрывает неявный этап согласования административной заявки
var AdminRequestCapabilities = []Capability{
	ManageUsersCapability,
	ManageSystemSettingsCapability,
	ManageFinanceCapability,
}

type VisibilityScope string

const (
	SystemWideScope VisibilityScope = "SYSTEM_WIDE"
	ManagedScope    VisibilityScope = "MANAGED"
	OwnScope        VisibilityScope = "OWN"
)
