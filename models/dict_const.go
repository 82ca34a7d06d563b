package models

import "strings"

type TripCategory string

const (
	TripRoutine  TripCategory = "ROUTINE"
	TripTicketed TripCategory = "TICKETED"
	TripUrgent   TripCategory = "URGENT"
)

func (c TripCategory) IsValid() bool {
	switch c {
	case TripRoutine, TripTicketed, TripUrgent:
		return true
	}
	return false
}

// IsUrgent срочная поездка не проходит согласование подразделения и не расходует бюджет
func (c TripCategory) IsUrgent() bool {
	return c == TripUrgent
}

type StepType string

const (
	DepartmentApprovalStep     StepType = "DEPARTMENT_APPROVAL"
	ProjectManagerApprovalStep StepType = "PROJECT_MANAGER_APPROVAL"
	FinanceApprovalStep        StepType = "FINANCE_APPROVAL"
)

var stepTypeHumanName = map[StepType]string{
	DepartmentApprovalStep:     "Согласование подразделения",
	ProjectManagerApprovalStep: "Согласование руководителя проекта",
	FinanceApprovalStep:        "Финансовое согласование",
}

func (s StepType) ToHuman() string {
	if human, exist := stepTypeHumanName[s]; exist {
		return human
	}
	return string(s)
}

type StepStatus string

const (
	StepPending  StepStatus = "PENDING"
	StepApproved StepStatus = "APPROVED"
	StepRejected StepStatus = "REJECTED"
)

type ApproverKind string

const (
	ApproverAssigned  ApproverKind = "ASSIGNED"
	ApproverRoleGated ApproverKind = "ROLE_GATED"
)

// Approver кто может закрыть этап: конкретный сотрудник или любой обладатель роли
type Approver struct {
	Kind   ApproverKind
	UserID string
	Role   UserRole
}

func AssignedApprover(userID string) Approver {
	return Approver{Kind: ApproverAssigned, UserID: userID}
}

func RoleGatedApprover(role UserRole) Approver {
	return Approver{Kind: ApproverRoleGated, Role: role}
}

func (a Approver) Matches(userID string, role UserRole) bool {
	switch a.Kind {
	case ApproverAssigned:
		return a.UserID != "" && a.UserID == userID
	case ApproverRoleGated:
		return a.Role != "" && a.Role == role
	}
	return false
}

type RequestStatus string

const (
	pendingPrefix = "PENDING:"

	StatusApproved  RequestStatus = "APPROVED"
	StatusPaid      RequestStatus = "PAID"
	StatusRejected  RequestStatus = "REJECTED"
	StatusCancelled RequestStatus = "CANCELLED"
	// StatusPending административные заявки имеют один неявный этап
	StatusPending RequestStatus = "PENDING"
)

func PendingStatus(step StepType) RequestStatus {
	return RequestStatus(pendingPrefix + string(step))
}

func (s RequestStatus) IsPending() bool {
	return s == StatusPending || strings.HasPrefix(string(s), pendingPrefix)
}

// PendingStep этап, которого ожидает заявка; пусто для непараметризованных статусов
func (s RequestStatus) PendingStep() StepType {
	if !strings.HasPrefix(string(s), pendingPrefix) {
		return ""
	}
	return StepType(strings.TrimPrefix(string(s), pendingPrefix))
}

func (s RequestStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusPaid
}

// IsAllocated заявка в этом статусе расходует бюджет
func (s RequestStatus) IsAllocated() bool {
	return s.IsPending() || s == StatusApproved || s == StatusPaid
}

// AllocatedStatuses для фильтрации в запросах; ожидающие статусы фильтруются по префиксу
var AllocatedStatuses = []RequestStatus{StatusApproved, StatusPaid}

const PendingStatusPattern = pendingPrefix + "%"

type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}

type AdminRequestCategory string

const (
	AdminBudgetIncrease AdminRequestCategory = "BUDGET_INCREASE"
	AdminNewProject     AdminRequestCategory = "NEW_PROJECT"
	AdminGeneral        AdminRequestCategory = "GENERAL"
)

func (c AdminRequestCategory) IsValid() bool {
	switch c {
	case AdminBudgetIncrease, AdminNewProject, AdminGeneral:
		return true
	}
	return false
}

type RequestKind string

const (
	TripRequestKind  RequestKind = "TRIP"
	AdminRequestKind RequestKind = "ADMIN"
)

type AuditAction string

const (
	AuditTripCreated          AuditAction = "TRIP_CREATED"
	AuditTripStepApproved     AuditAction = "TRIP_STEP_APPROVED"
	AuditTripRejected         AuditAction = "TRIP_REJECTED"
	AuditTripCancelled        AuditAction = "TRIP_CANCELLED"
	AuditTripPaid             AuditAction = "TRIP_PAID"
	AuditAdminCreated         AuditAction = "ADMIN_REQUEST_CREATED"
	AuditAdminApproved        AuditAction = "ADMIN_REQUEST_APPROVED"
	AuditAdminRejected        AuditAction = "ADMIN_REQUEST_REJECTED"
	AuditAdminCancelled       AuditAction = "ADMIN_REQUEST_CANCELLED"
	AuditBulkApprovalSummary  AuditAction = "BULK_APPROVAL_SUMMARY"
	AuditBudgetAdjusted       AuditAction = "BUDGET_ADJUSTED"
	AuditDepartmentBudgetSet  AuditAction = "DEPARTMENT_BUDGET_CHANGED"
	AuditDepartmentBonusSet   AuditAction = "DEPARTMENT_BONUS_GRANTED"
	AuditDepartmentBonusReset AuditAction = "DEPARTMENT_BONUS_RESET"
	AuditProjectExpired       AuditAction = "PROJECT_EXPIRED"
)
