package approval

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"trip-approval-backend/db/dbtest"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/lib/budget"
	orggraph "trip-approval-backend/lib/org-graph"
	stepstore "trip-approval-backend/lib/trip-req/step-store"
	"trip-approval-backend/lib/workflow"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time {
	return testNow
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func requireDec(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.True(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}

type env struct {
	conn       *gorm.DB
	h          Provider
	super      models.CurrentUser
	finance    models.CurrentUser
	manager    models.CurrentUser
	pm         models.CurrentUser
	employee   models.CurrentUser
	outsider   models.CurrentUser
	department dbmodels.Department
	other      dbmodels.Department
	project    dbmodels.Project
}

func newEnv(t *testing.T) env {
	conn := dbtest.Open(t)
	e := env{conn: conn}
	e.super = addUser(t, conn, "super@test", models.SuperAdminRole)
	e.finance = addUser(t, conn, "finance@test", models.FinanceAdminRole)
	e.manager = addUser(t, conn, "manager@test", models.ManagerRole)
	e.pm = addUser(t, conn, "pm@test", models.ManagerRole)
	e.employee = addUser(t, conn, "employee@test", models.EmployeeRole)
	e.outsider = addUser(t, conn, "outsider@test", models.ManagerRole)

	e.department = dbmodels.Department{Name: "D", Budget: dec("1000"), ManagerID: &e.manager.ID, IsActive: true}
	require.NoError(t, conn.Create(&e.department).Error)
	e.other = dbmodels.Department{Name: "Other", Budget: dec("1000"), ManagerID: &e.outsider.ID, IsActive: true}
	require.NoError(t, conn.Create(&e.other).Error)
	e.project = dbmodels.Project{
		Name:           "P",
		DepartmentID:   e.department.ID,
		Budget:         dec("600"),
		OriginalBudget: dec("500"),
		ManagerID:      &e.pm.ID,
		IsActive:       true,
	}
	require.NoError(t, conn.Create(&e.project).Error)
	require.NoError(t, conn.Create(&dbmodels.BudgetAdjustment{
		ProjectID:     e.project.ID,
		Amount:        dec("100"),
		Justification: "доп. финансирование",
		ActorID:       e.finance.ID,
	}).Error)
	e.h = NewHandlerWithTx(conn, clock, 10, nil)
	return e
}

func addUser(t *testing.T, conn *gorm.DB, email string, role models.UserRole) models.CurrentUser {
	user := dbmodels.User{FirstName: "Иван", LastName: "Иванов", Email: email, Role: role, IsActive: true}
	require.NoError(t, conn.Create(&user).Error)
	return models.CurrentUser{ID: user.ID, DeclaredRole: role}
}

// newTrip заявка со сгенерированными этапами, как при создании через API
func (e env) newTrip(t *testing.T, cost string, category models.TripCategory, departmentID, projectID *string) dbmodels.TripRequest {
	graph, err := orggraph.NewReader(e.conn).Load()
	require.NoError(t, err)
	trip := dbmodels.TripRequest{
		RequesterID:   e.employee.ID,
		Destination:   "Казань",
		DepartureDate: testNow.AddDate(0, 0, 7),
		ReturnDate:    testNow.AddDate(0, 0, 9),
		Cost:          dec(cost),
		DepartmentID:  departmentID,
		ProjectID:     projectID,
		Category:      category,
	}
	steps := workflow.GenerateSteps(trip, graph)
	trip.Status = workflow.InitialStatus(steps)
	require.NoError(t, e.conn.Create(&trip).Error)
	for idx := range steps {
		steps[idx].TripRequestID = trip.ID
	}
	require.NoError(t, stepstore.NewInstance(e.conn).CreateBatch(steps))
	return trip
}

func (e env) projectTrip(t *testing.T, cost string) dbmodels.TripRequest {
	return e.newTrip(t, cost, models.TripRoutine, &e.department.ID, &e.project.ID)
}

func (e env) trip(t *testing.T, id string) dbmodels.TripRequest {
	rec := dbmodels.TripRequest{}
	require.NoError(t, e.conn.Where("id = ?", id).First(&rec).Error)
	return rec
}

func (e env) auditCount(t *testing.T) int64 {
	var count int64
	require.NoError(t, e.conn.Model(&dbmodels.AuditLogEntry{}).Count(&count).Error)
	return count
}

func (e env) available(t *testing.T) decimal.Decimal {
	view, err := budget.NewHandlerWithClock(e.conn, clock).ProjectView(e.project.ID)
	require.NoError(t, err)
	return view.AvailableBudget
}

func (e env) approve(t *testing.T, user models.CurrentUser, id string) *Outcome {
	outcome, err := e.h.Approve(context.Background(), user, id, models.DecisionApprove, "")
	require.NoError(t, err)
	return outcome
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run(`full chain reaches approved`, func(t *testing.T) {
		e := newEnv(t)
		trip := e.projectTrip(t, "300")
		require.Equal(t, models.PendingStatus(models.DepartmentApprovalStep), trip.Status)

		outcome := e.approve(t, e.manager, trip.ID)
		require.Equal(t, models.PendingStatus(models.ProjectManagerApprovalStep), outcome.Status)
		require.Nil(t, outcome.BudgetCheck)

		outcome = e.approve(t, e.pm, trip.ID)
		require.Equal(t, models.PendingStatus(models.FinanceApprovalStep), outcome.Status)
		require.NotNil(t, outcome.BudgetCheck)
		require.True(t, outcome.BudgetCheck.CanApprove)
		requireDec(t, "600", outcome.BudgetCheck.AvailableBudget)

		outcome = e.approve(t, e.finance, trip.ID)
		require.Equal(t, models.StatusApproved, outcome.Status)
		require.Equal(t, models.StatusApproved, e.trip(t, trip.ID).Status)
		require.EqualValues(t, 3, e.auditCount(t))

		steps, err := stepstore.NewInstance(e.conn).List(trip.ID)
		require.NoError(t, err)
		for _, step := range steps {
			require.Equal(t, models.StepApproved, step.Status)
			require.NotNil(t, step.DecidedAt)
		}

		_, err = e.h.Approve(ctx, e.finance, trip.ID, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ConflictKind))
	})

	t.Run(`budget exceeded leaves no trace`, func(t *testing.T) {
		e := newEnv(t)
		approved := e.projectTrip(t, "200")
		require.NoError(t, e.conn.Model(&dbmodels.TripRequest{}).Where("id = ?", approved.ID).Update("status", models.StatusApproved).Error)

		trip := e.projectTrip(t, "450")
		e.approve(t, e.manager, trip.ID)
		auditBefore := e.auditCount(t)

		_, err := e.h.Approve(ctx, e.pm, trip.ID, models.DecisionApprove, "")
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		require.Equal(t, apperrors.BudgetExceededKind, appErr.Kind)
		requireDec(t, "50", *appErr.BudgetExcess)

		require.Equal(t, models.PendingStatus(models.ProjectManagerApprovalStep), e.trip(t, trip.ID).Status)
		require.Equal(t, auditBefore, e.auditCount(t))
		steps, err := stepstore.NewInstance(e.conn).List(trip.ID)
		require.NoError(t, err)
		require.Equal(t, models.StepPending, steps[1].Status)
		require.Nil(t, steps[1].DecidedByID)
	})

	t.Run(`rejection restores availability`, func(t *testing.T) {
		e := newEnv(t)
		before := e.available(t)
		trip := e.projectTrip(t, "250")
		e.approve(t, e.manager, trip.ID)
		e.approve(t, e.pm, trip.ID)
		require.True(t, before.Sub(dec("250")).Equal(e.available(t)))

		outcome, err := e.h.Approve(ctx, e.finance, trip.ID, models.DecisionReject, "нет обоснования")
		require.NoError(t, err)
		require.Equal(t, models.StatusRejected, outcome.Status)
		require.True(t, before.Equal(e.available(t)))
		require.Equal(t, "нет обоснования", e.trip(t, trip.ID).RejectionReason)
	})

	t.Run(`urgent trip is never budget checked`, func(t *testing.T) {
		e := newEnv(t)
		trip := e.newTrip(t, "100000", models.TripUrgent, &e.department.ID, &e.project.ID)
		require.Equal(t, models.PendingStatus(models.ProjectManagerApprovalStep), trip.Status)

		outcome := e.approve(t, e.pm, trip.ID)
		require.Nil(t, outcome.BudgetCheck)
		outcome = e.approve(t, e.finance, trip.ID)
		require.Equal(t, models.StatusApproved, outcome.Status)
		requireDec(t, "600", e.available(t))
	})

	t.Run(`department only trip is never budget checked`, func(t *testing.T) {
		e := newEnv(t)
		trip := e.newTrip(t, "5000", models.TripRoutine, &e.department.ID, nil)
		e.approve(t, e.manager, trip.ID)
		outcome := e.approve(t, e.finance, trip.ID)
		require.Equal(t, models.StatusApproved, outcome.Status)
	})

	t.Run(`expired project blocks approval`, func(t *testing.T) {
		e := newEnv(t)
		trip := e.projectTrip(t, "100")
		e.approve(t, e.manager, trip.ID)
		require.NoError(t, e.conn.Model(&dbmodels.Project{}).Where("id = ?", e.project.ID).Update("expires_at", testNow.Add(-time.Minute)).Error)

		_, err := e.h.Approve(ctx, e.pm, trip.ID, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ConflictKind))
	})

	t.Run(`repeated decision on a closed project manager step`, func(t *testing.T) {
		e := newEnv(t)
		trip := e.projectTrip(t, "100")
		e.approve(t, e.manager, trip.ID)
		e.approve(t, e.pm, trip.ID)
		auditBefore := e.auditCount(t)

		// этап руководителя проекта закрыт, текущий этап финансовый
		_, err := e.h.Approve(ctx, e.pm, trip.ID, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ForbiddenKind))
		require.Equal(t, auditBefore, e.auditCount(t))

		e.approve(t, e.finance, trip.ID)
		auditBefore = e.auditCount(t)
		_, err = e.h.Approve(ctx, e.pm, trip.ID, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ConflictKind))
		require.Equal(t, auditBefore, e.auditCount(t))
		require.Equal(t, models.StatusApproved, e.trip(t, trip.ID).Status)
	})

	t.Run(`second decision after project manager rejection`, func(t *testing.T) {
		e := newEnv(t)
		trip := e.projectTrip(t, "100")
		e.approve(t, e.manager, trip.ID)
		_, err := e.h.Approve(ctx, e.pm, trip.ID, models.DecisionReject, "нет в плане")
		require.NoError(t, err)
		auditBefore := e.auditCount(t)

		_, err = e.h.Approve(ctx, e.pm, trip.ID, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ConflictKind))
		require.Equal(t, auditBefore, e.auditCount(t))

		steps, err := stepstore.NewInstance(e.conn).List(trip.ID)
		require.NoError(t, err)
		require.Equal(t, models.StepRejected, steps[1].Status)
		require.Equal(t, "нет в плане", steps[1].Comment)
		require.Equal(t, models.StatusRejected, e.trip(t, trip.ID).Status)
	})

	t.Run(`permissions`, func(t *testing.T) {
		e := newEnv(t)
		trip := e.projectTrip(t, "100")

		_, err := e.h.Approve(ctx, e.employee, trip.ID, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ForbiddenKind))
		_, err = e.h.Approve(ctx, e.outsider, trip.ID, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ForbiddenKind))
		// руководитель проекта видит заявку, но этап подразделения не его
		_, err = e.h.Approve(ctx, e.pm, trip.ID, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ForbiddenKind))

		downgraded := e.finance
		downgraded.ActiveRole = models.EmployeeRole
		_, err = e.h.Approve(ctx, downgraded, trip.ID, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ForbiddenKind))

		elevated := e.employee
		elevated.ActiveRole = models.FinanceAdminRole
		_, err = e.h.Approve(ctx, elevated, trip.ID, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ForbiddenKind))

		_, err = e.h.Approve(ctx, e.manager, "missing", models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.NotFoundKind))

		// системная роль закрывает этап, назначенный на руководителя подразделения
		outcome := e.approve(t, e.super, trip.ID)
		require.Equal(t, models.PendingStatus(models.ProjectManagerApprovalStep), outcome.Status)
	})
}

func TestCanApprove(t *testing.T) {
	e := newEnv(t)
	trip := e.projectTrip(t, "100")

	ok, err := e.h.CanApprove(e.manager, trip.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = e.h.CanApprove(e.pm, trip.ID)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = e.h.CanApprove(e.finance, trip.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = e.h.CanApprove(e.employee, trip.ID)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = e.h.CanApprove(e.manager, "missing")
	require.True(t, apperrors.IsKind(err, apperrors.NotFoundKind))
}

func TestBulkApprove(t *testing.T) {
	ctx := context.Background()

	t.Run(`all items committed with summary`, func(t *testing.T) {
		e := newEnv(t)
		t1 := e.projectTrip(t, "100")
		t2 := e.projectTrip(t, "150")
		t3 := e.newTrip(t, "50", models.TripRoutine, &e.department.ID, nil)

		result, err := e.h.BulkApprove(ctx, e.manager, []string{t1.ID, t2.ID, t3.ID}, models.DecisionApprove, "")
		require.NoError(t, err)
		require.Equal(t, 3, result.Count)
		require.Equal(t, models.PendingStatus(models.ProjectManagerApprovalStep), e.trip(t, t1.ID).Status)
		require.Equal(t, models.PendingStatus(models.FinanceApprovalStep), e.trip(t, t3.ID).Status)

		var summary dbmodels.AuditLogEntry
		require.NoError(t, e.conn.Where("action = ?", models.AuditBulkApprovalSummary).First(&summary).Error)
		require.Equal(t, e.manager.ID, summary.ActorID)
		require.EqualValues(t, 4, e.auditCount(t))

		result, err = e.h.BulkApprove(ctx, e.pm, []string{t1.ID, t2.ID}, models.DecisionApprove, "")
		require.NoError(t, err)
		requireDec(t, "250", result.Allocated)
		requireDec(t, "0", result.Released)
	})

	t.Run(`forbidden item aborts whole batch`, func(t *testing.T) {
		e := newEnv(t)
		t1 := e.projectTrip(t, "100")
		t2 := e.newTrip(t, "100", models.TripRoutine, &e.other.ID, nil)
		t3 := e.projectTrip(t, "100")

		_, err := e.h.BulkApprove(ctx, e.manager, []string{t1.ID, t2.ID, t3.ID}, models.DecisionApprove, "")
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		require.Equal(t, apperrors.ForbiddenKind, appErr.Kind)
		require.Equal(t, t2.ID, appErr.RequestID)

		for _, id := range []string{t1.ID, t2.ID, t3.ID} {
			require.Equal(t, models.PendingStatus(models.DepartmentApprovalStep), e.trip(t, id).Status)
		}
		require.EqualValues(t, 0, e.auditCount(t))
	})

	t.Run(`budget failure aborts whole batch`, func(t *testing.T) {
		e := newEnv(t)
		small := dbmodels.Project{
			Name:           "P2",
			DepartmentID:   e.department.ID,
			Budget:         dec("100"),
			OriginalBudget: dec("100"),
			ManagerID:      &e.pm.ID,
			IsActive:       true,
		}
		require.NoError(t, e.conn.Create(&small).Error)
		t1 := e.projectTrip(t, "100")
		t2 := e.newTrip(t, "300", models.TripRoutine, &e.department.ID, &small.ID)
		t3 := e.projectTrip(t, "100")
		_, err := e.h.BulkApprove(ctx, e.manager, []string{t1.ID, t2.ID, t3.ID}, models.DecisionApprove, "")
		require.NoError(t, err)
		auditBefore := e.auditCount(t)

		_, err = e.h.BulkApprove(ctx, e.pm, []string{t1.ID, t2.ID, t3.ID}, models.DecisionApprove, "")
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		require.Equal(t, apperrors.BudgetExceededKind, appErr.Kind)
		require.Equal(t, t2.ID, appErr.RequestID)
		requireDec(t, "200", *appErr.BudgetExcess)
		require.Equal(t, auditBefore, e.auditCount(t))
		for _, id := range []string{t1.ID, t2.ID, t3.ID} {
			require.Equal(t, models.PendingStatus(models.ProjectManagerApprovalStep), e.trip(t, id).Status)
		}
	})

	t.Run(`not found and malformed batches`, func(t *testing.T) {
		e := newEnv(t)
		t1 := e.projectTrip(t, "100")

		_, err := e.h.BulkApprove(ctx, e.manager, []string{t1.ID, "missing"}, models.DecisionApprove, "")
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		require.Equal(t, apperrors.NotFoundKind, appErr.Kind)
		require.Equal(t, "missing", appErr.RequestID)
		require.Equal(t, models.PendingStatus(models.DepartmentApprovalStep), e.trip(t, t1.ID).Status)

		_, err = e.h.BulkApprove(ctx, e.manager, nil, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ValidationKind))
		_, err = e.h.BulkApprove(ctx, e.manager, []string{t1.ID, t1.ID}, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ValidationKind))
		ids := make([]string, 11)
		for idx := range ids {
			ids[idx] = string(rune('a' + idx))
		}
		_, err = e.h.BulkApprove(ctx, e.manager, ids, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ValidationKind))
	})

	t.Run(`bulk rejection releases allocation`, func(t *testing.T) {
		e := newEnv(t)
		before := e.available(t)
		t1 := e.projectTrip(t, "100")
		t2 := e.projectTrip(t, "200")

		result, err := e.h.BulkApprove(ctx, e.manager, []string{t1.ID, t2.ID}, models.DecisionReject, "отмена мероприятия")
		require.NoError(t, err)
		requireDec(t, "300", result.Released)
		require.True(t, before.Equal(e.available(t)))
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	trip := e.projectTrip(t, "100")

	_, err := e.h.Cancel(ctx, e.manager, trip.ID)
	require.True(t, apperrors.IsKind(err, apperrors.ForbiddenKind))

	outcome, err := e.h.Cancel(ctx, e.employee, trip.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, outcome.Status)
	requireDec(t, "600", e.available(t))

	_, err = e.h.Cancel(ctx, e.employee, trip.ID)
	require.True(t, apperrors.IsKind(err, apperrors.ConflictKind))
	_, err = e.h.Approve(ctx, e.manager, trip.ID, models.DecisionApprove, "")
	require.True(t, apperrors.IsKind(err, apperrors.ConflictKind))
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	approved := e.newTrip(t, "100", models.TripUrgent, &e.department.ID, nil)
	e.approve(t, e.finance, approved.ID)
	pending := e.projectTrip(t, "100")

	_, err := e.h.MarkPaid(ctx, e.manager, approved.ID)
	require.True(t, apperrors.IsKind(err, apperrors.ForbiddenKind))

	result, err := e.h.BulkMarkPaid(ctx, e.finance, []string{approved.ID, pending.ID, "missing"})
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	require.True(t, result.Results[0].Success)
	require.Equal(t, models.StatusPaid, result.Results[0].Status)
	require.Equal(t, apperrors.ConflictKind, result.Results[1].ErrorKind)
	require.Equal(t, apperrors.NotFoundKind, result.Results[2].ErrorKind)

	paid := e.trip(t, approved.ID)
	require.True(t, paid.Paid)
	require.NotNil(t, paid.PaidAt)
	require.Equal(t, models.StatusPaid, paid.Status)
}

func TestAdminRequests(t *testing.T) {
	ctx := context.Background()

	newAdmin := func(t *testing.T, e env, category models.AdminRequestCategory, amount string, projectID, departmentID *string) dbmodels.AdminRequest {
		value := dec(amount)
		req := dbmodels.AdminRequest{
			RequesterID:        e.manager.ID,
			Category:           category,
			Title:              "Расширение",
			TargetProjectID:    projectID,
			TargetDepartmentID: departmentID,
			Amount:             &value,
			Status:             models.StatusPending,
		}
		require.NoError(t, e.conn.Create(&req).Error)
		return req
	}

	t.Run(`budget increase on project appends adjustment`, func(t *testing.T) {
		e := newEnv(t)
		req := newAdmin(t, e, models.AdminBudgetIncrease, "250", &e.project.ID, nil)

		_, err := e.h.Approve(ctx, e.manager, req.ID, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ForbiddenKind))

		outcome, err := e.h.Approve(ctx, e.finance, req.ID, models.DecisionApprove, "")
		require.NoError(t, err)
		require.Equal(t, models.StatusApproved, outcome.Status)
		requireDec(t, "850", e.available(t))

		var count int64
		require.NoError(t, e.conn.Model(&dbmodels.BudgetAdjustment{}).Where("project_id = ?", e.project.ID).Count(&count).Error)
		require.EqualValues(t, 2, count)
		require.EqualValues(t, 1, e.auditCount(t))

		_, err = e.h.Approve(ctx, e.finance, req.ID, models.DecisionApprove, "")
		require.True(t, apperrors.IsKind(err, apperrors.ConflictKind))
	})

	t.Run(`budget increase on department`, func(t *testing.T) {
		e := newEnv(t)
		req := newAdmin(t, e, models.AdminBudgetIncrease, "500", nil, &e.department.ID)
		_, err := e.h.Approve(ctx, e.super, req.ID, models.DecisionApprove, "")
		require.NoError(t, err)

		rec := dbmodels.Department{}
		require.NoError(t, e.conn.Where("id = ?", e.department.ID).First(&rec).Error)
		requireDec(t, "1500", rec.Budget)
	})

	t.Run(`new project is created on approval`, func(t *testing.T) {
		e := newEnv(t)
		req := newAdmin(t, e, models.AdminNewProject, "300", nil, &e.department.ID)
		_, err := e.h.Approve(ctx, e.finance, req.ID, models.DecisionApprove, "")
		require.NoError(t, err)

		rec := dbmodels.Project{}
		require.NoError(t, e.conn.Where("name = ?", "Расширение").First(&rec).Error)
		requireDec(t, "300", rec.OriginalBudget)
		require.Equal(t, e.department.ID, rec.DepartmentID)
		require.True(t, rec.IsActive)
	})

	t.Run(`rejection has no effect`, func(t *testing.T) {
		e := newEnv(t)
		req := newAdmin(t, e, models.AdminBudgetIncrease, "250", &e.project.ID, nil)
		outcome, err := e.h.Approve(ctx, e.finance, req.ID, models.DecisionReject, "нет средств")
		require.NoError(t, err)
		require.Equal(t, models.StatusRejected, outcome.Status)
		requireDec(t, "600", e.available(t))
	})
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (f *fakeNotifier) NotifyDecision(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestNotifications(t *testing.T) {
	e := newEnv(t)
	notifier := &fakeNotifier{}
	h := NewHandlerWithTx(e.conn, clock, 10, notifier)
	trip := e.newTrip(t, "100", models.TripRoutine, &e.department.ID, nil)

	_, err := h.Approve(context.Background(), e.manager, trip.ID, models.DecisionApprove, "")
	require.NoError(t, err)
	_, err = h.Approve(context.Background(), e.finance, trip.ID, models.DecisionReject, "дубль")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, 10*time.Millisecond)
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Equal(t, models.StatusRejected, notifier.sent[0].Status)
	require.Equal(t, e.employee.ID, notifier.sent[0].RequesterID)
	require.Equal(t, "дубль", notifier.sent[0].Reason)
}

func TestDecisionMessage(t *testing.T) {
	subject, message := decisionMessage(Notification{
		RequestID: "req-1",
		Kind:      models.TripRequestKind,
		Status:    models.StatusApproved,
	}, "Иванов Иван")
	require.Equal(t, "Заявка согласована", subject)
	require.Contains(t, message, "Командировка req-1")
	require.NotContains(t, message, "Комментарий")
}
