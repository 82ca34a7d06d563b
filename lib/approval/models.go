package approval

import (
	"github.com/shopspring/decimal"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/lib/budget"
	"trip-approval-backend/lib/workflow"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

// Outcome состояние заявки после примененного решения
type Outcome struct {
	RequestID   string
	Kind        models.RequestKind
	RequesterID string
	PrevStatus  models.RequestStatus
	Status      models.RequestStatus
	StepType    models.StepType
	BudgetCheck *budget.CheckResult
}

type BulkResult struct {
	Count     int
	Allocated decimal.Decimal
	Released  decimal.Decimal
	Results   []Outcome
}

type PaidItem struct {
	RequestID string
	Success   bool
	Status    models.RequestStatus
	ErrorKind apperrors.Kind
	Error     string
}

type BulkPaidResult struct {
	Count   int
	Results []PaidItem
}

// intent проверенное решение по одной заявке, записей в БД еще нет
type intent struct {
	kind        models.RequestKind
	decision    models.Decision
	reason      string
	trip        *dbmodels.TripRequest
	transition  workflow.Transition
	admin       *dbmodels.AdminRequest
	adminStatus models.RequestStatus
	check       *budget.CheckResult
}

func (in intent) requestID() string {
	if in.kind == models.TripRequestKind {
		return in.trip.ID
	}
	return in.admin.ID
}

func (in intent) outcome() Outcome {
	if in.kind == models.TripRequestKind {
		return Outcome{
			RequestID:   in.trip.ID,
			Kind:        in.kind,
			RequesterID: in.trip.RequesterID,
			PrevStatus:  in.transition.PrevStatus,
			Status:      in.transition.NewStatus,
			StepType:    in.transition.Step.StepType,
			BudgetCheck: in.check,
		}
	}
	return Outcome{
		RequestID:   in.admin.ID,
		Kind:        in.kind,
		RequesterID: in.admin.RequesterID,
		PrevStatus:  in.admin.Status,
		Status:      in.adminStatus,
	}
}

// allocated сумма, подтвержденная проверкой бюджета на этапе руководителя проекта
func (in intent) allocated() decimal.Decimal {
	if in.kind != models.TripRequestKind || in.check == nil || in.decision != models.DecisionApprove {
		return decimal.Zero
	}
	return in.trip.Cost
}

// released сумма, возвращаемая в бюджет при отклонении
func (in intent) released() decimal.Decimal {
	if in.kind != models.TripRequestKind || in.decision != models.DecisionReject {
		return decimal.Zero
	}
	return releasedCost(*in.trip)
}

func releasedCost(trip dbmodels.TripRequest) decimal.Decimal {
	if trip.Category.IsUrgent() || !trip.Status.IsAllocated() {
		return decimal.Zero
	}
	return trip.Cost
}

// ValidatedBatch результат фазы проверки массового решения.
// Создается только проверкой, фаза записи принимает только его.
type ValidatedBatch struct {
	actorID  string
	decision models.Decision
	reason   string
	intents  []intent
}

func (b *ValidatedBatch) Len() int {
	return len(b.intents)
}

func (b *ValidatedBatch) RequestIDs() []string {
	ids := make([]string, 0, len(b.intents))
	for _, in := range b.intents {
		ids = append(ids, in.requestID())
	}
	return ids
}
