package budget

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"trip-approval-backend/db/dbtest"
	"trip-approval-backend/lib/apperrors"
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

type fixture struct {
	conn       *gorm.DB
	department dbmodels.Department
	project    dbmodels.Project
}

func newFixture(t *testing.T) fixture {
	conn := dbtest.Open(t)
	department := dbmodels.Department{Name: "D", Budget: dec("1000"), IsActive: true}
	require.NoError(t, conn.Create(&department).Error)
	project := dbmodels.Project{
		Name:           "P",
		DepartmentID:   department.ID,
		Budget:         dec("600"),
		OriginalBudget: dec("500"),
		IsActive:       true,
	}
	require.NoError(t, conn.Create(&project).Error)
	require.NoError(t, conn.Create(&dbmodels.BudgetAdjustment{
		ProjectID:     project.ID,
		Amount:        dec("100"),
		Justification: "доп. финансирование",
		ActorID:       "fin",
	}).Error)
	return fixture{conn: conn, department: department, project: project}
}

func (f fixture) addTrip(t *testing.T, cost string, status models.RequestStatus, category models.TripCategory) dbmodels.TripRequest {
	trip := dbmodels.TripRequest{
		RequesterID:  "emp",
		Destination:  "Казань",
		Cost:         dec(cost),
		DepartmentID: &f.department.ID,
		ProjectID:    &f.project.ID,
		Category:     category,
		Status:       status,
	}
	require.NoError(t, f.conn.Create(&trip).Error)
	return trip
}

func TestCheckProject(t *testing.T) {
	t.Run(`excess reported when cost above available`, func(t *testing.T) {
		f := newFixture(t)
		f.addTrip(t, "200", models.StatusApproved, models.TripRoutine)
		h := NewHandlerWithClock(f.conn, clock)

		res, err := h.CheckProject(f.project.ID, dec("450"), "")
		require.NoError(t, err)
		require.False(t, res.CanApprove)
		requireDec(t, "50", res.BudgetExcess)
		requireDec(t, "400", res.AvailableBudget)
		requireDec(t, "200", res.TotalSpent)
		requireDec(t, "600", res.EffectiveBudget)
		require.True(t, apperrors.IsKind(res.Err(), apperrors.BudgetExceededKind))

		res, err = h.CheckProject(f.project.ID, dec("350"), "")
		require.NoError(t, err)
		require.True(t, res.CanApprove)
		requireDec(t, "0", res.BudgetExcess)
		require.NoError(t, res.Err())
	})

	t.Run(`allocation counts pending approved paid only`, func(t *testing.T) {
		f := newFixture(t)
		f.addTrip(t, "100", models.PendingStatus(models.DepartmentApprovalStep), models.TripRoutine)
		f.addTrip(t, "50", models.StatusApproved, models.TripTicketed)
		f.addTrip(t, "25", models.StatusPaid, models.TripRoutine)
		f.addTrip(t, "300", models.StatusRejected, models.TripRoutine)
		f.addTrip(t, "300", models.StatusCancelled, models.TripRoutine)
		f.addTrip(t, "300", models.PendingStatus(models.FinanceApprovalStep), models.TripUrgent)
		h := NewHandlerWithClock(f.conn, clock)

		view, err := h.ProjectView(f.project.ID)
		require.NoError(t, err)
		requireDec(t, "175", view.TotalAllocated)
		requireDec(t, "600", view.EffectiveBudget)
		require.True(t, view.AvailableBudget.Equal(view.EffectiveBudget.Sub(view.TotalAllocated)))
		requireDec(t, "425", view.AvailableBudget)
	})

	t.Run(`excluded request is not counted`, func(t *testing.T) {
		f := newFixture(t)
		pending := f.addTrip(t, "500", models.PendingStatus(models.ProjectManagerApprovalStep), models.TripRoutine)
		h := NewHandlerWithClock(f.conn, clock)

		res, err := h.CheckProject(f.project.ID, pending.Cost, "")
		require.NoError(t, err)
		require.False(t, res.CanApprove)

		res, err = h.CheckProject(f.project.ID, pending.Cost, pending.ID)
		require.NoError(t, err)
		require.True(t, res.CanApprove)
		requireDec(t, "600", res.AvailableBudget)
	})

	t.Run(`expired project never accepts allocations`, func(t *testing.T) {
		f := newFixture(t)
		expired := testNow.Add(-time.Hour)
		require.NoError(t, f.conn.Model(&dbmodels.Project{}).Where("id = ?", f.project.ID).Update("expires_at", expired).Error)
		h := NewHandlerWithClock(f.conn, clock)

		res, err := h.CheckProject(f.project.ID, dec("1"), "")
		require.NoError(t, err)
		require.False(t, res.CanApprove)
		require.NotEmpty(t, res.Reason)
		require.True(t, apperrors.IsKind(res.Err(), apperrors.ConflictKind))
	})

	t.Run(`unknown project and malformed amount`, func(t *testing.T) {
		f := newFixture(t)
		h := NewHandlerWithClock(f.conn, clock)
		_, err := h.CheckProject("missing", dec("1"), "")
		require.True(t, apperrors.IsKind(err, apperrors.NotFoundKind))
		_, err = h.CheckProject(f.project.ID, dec("-1"), "")
		require.True(t, apperrors.IsKind(err, apperrors.ValidationKind))
		_, err = h.CheckProject(f.project.ID, dec("1.001"), "")
		require.True(t, apperrors.IsKind(err, apperrors.ValidationKind))
	})
}

func TestDepartmentBudget(t *testing.T) {
	t.Run(`bonus counts inside its window`, func(t *testing.T) {
		f := newFixture(t)
		f.addTrip(t, "200", models.StatusApproved, models.TripRoutine)
		h := NewHandlerWithClock(f.conn, clock)

		view, err := h.GrantDepartmentBonus(context.Background(), "fin", f.department.ID, dec("300"))
		require.NoError(t, err)
		requireDec(t, "300", view.ActiveBonus)
		requireDec(t, "1300", view.EffectiveBudget)
		requireDec(t, "1100", view.AvailableBudget)

		later := NewHandlerWithClock(f.conn, func() time.Time { return testNow.AddDate(0, 1, 1) })
		view, err = later.DepartmentView(f.department.ID)
		require.NoError(t, err)
		requireDec(t, "0", view.ActiveBonus)
		requireDec(t, "1000", view.EffectiveBudget)

		res, err := h.CheckDepartment(f.department.ID, dec("1200"), "")
		require.NoError(t, err)
		require.False(t, res.CanApprove)
		requireDec(t, "100", res.BudgetExcess)
	})

	t.Run(`budget change is audited`, func(t *testing.T) {
		f := newFixture(t)
		h := NewHandlerWithClock(f.conn, clock)
		view, err := h.SetDepartmentBudget(context.Background(), "fin", f.department.ID, dec("1500"))
		require.NoError(t, err)
		requireDec(t, "1500", view.Budget)

		var count int64
		require.NoError(t, f.conn.Model(&dbmodels.AuditLogEntry{}).Where("action = ?", models.AuditDepartmentBudgetSet).Count(&count).Error)
		require.EqualValues(t, 1, count)
	})
}

func TestAdjustProject(t *testing.T) {
	t.Run(`adjustment raises effective and display budget`, func(t *testing.T) {
		f := newFixture(t)
		h := NewHandlerWithClock(f.conn, clock)
		view, err := h.AdjustProject(context.Background(), "fin", f.project.ID, dec("150"), "расширение работ")
		require.NoError(t, err)
		requireDec(t, "750", view.EffectiveBudget)
		requireDec(t, "750", view.Budget)
		requireDec(t, "250", view.Adjustments)
	})

	t.Run(`decrease below allocated is rejected without writes`, func(t *testing.T) {
		f := newFixture(t)
		f.addTrip(t, "400", models.StatusApproved, models.TripRoutine)
		h := NewHandlerWithClock(f.conn, clock)
		_, err := h.AdjustProject(context.Background(), "fin", f.project.ID, dec("-300"), "сокращение")
		require.True(t, apperrors.IsKind(err, apperrors.ValidationKind))

		var count int64
		require.NoError(t, f.conn.Model(&dbmodels.BudgetAdjustment{}).Count(&count).Error)
		require.EqualValues(t, 1, count)
	})

	t.Run(`adjustments are immutable`, func(t *testing.T) {
		f := newFixture(t)
		err := f.conn.Model(&dbmodels.BudgetAdjustment{}).Where("project_id = ?", f.project.ID).Update("amount", dec("1")).Error
		require.ErrorIs(t, err, dbmodels.ErrImmutableRecord)
	})
}
