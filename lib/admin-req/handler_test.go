package adminreqhandler

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"trip-approval-backend/db/dbtest"
	"trip-approval-backend/lib/apperrors"
	"trip-approval-backend/models"
	tripapimodels "trip-approval-backend/models/api/trip"
	dbmodels "trip-approval-backend/models/db"
)

func addUser(t *testing.T, conn *gorm.DB, email string, role models.UserRole) models.CurrentUser {
	user := dbmodels.User{FirstName: "Анна", LastName: "Смирнова", Email: email, Role: role, IsActive: true}
	require.NoError(t, conn.Create(&user).Error)
	return models.CurrentUser{ID: user.ID, DeclaredRole: role}
}

func TestAdminRequests(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	manager := addUser(t, conn, "manager@test", models.ManagerRole)
	finance := addUser(t, conn, "finance@test", models.FinanceAdminRole)
	employee := addUser(t, conn, "employee@test", models.EmployeeRole)
	department := dbmodels.Department{Name: "D", Budget: decimal.NewFromInt(1000), ManagerID: &manager.ID, IsActive: true}
	require.NoError(t, conn.Create(&department).Error)
	h := NewHandlerWithTx(conn)

	amount := decimal.NewFromInt(300)
	id, err := h.Create(ctx, manager, tripapimodels.AdminRequestData{
		Category:           models.AdminBudgetIncrease,
		Title:              "Увеличение бюджета",
		TargetDepartmentID: department.ID,
		Amount:             &amount,
	})
	require.NoError(t, err)

	view, err := h.GetByID(finance, id)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, view.Status)
	require.True(t, amount.Equal(*view.Amount))

	_, err = h.GetByID(employee, id)
	require.True(t, apperrors.IsKind(err, apperrors.ForbiddenKind))
	_, err = h.GetByID(finance, "missing")
	require.True(t, apperrors.IsKind(err, apperrors.NotFoundKind))

	list, err := h.List(employee)
	require.NoError(t, err)
	require.Len(t, list, 0)
	list, err = h.List(manager)
	require.NoError(t, err)
	require.Len(t, list, 1)

	t.Run(`unknown target`, func(t *testing.T) {
		_, err := h.Create(ctx, manager, tripapimodels.AdminRequestData{
			Category:        models.AdminBudgetIncrease,
			Title:           "Увеличение бюджета",
			TargetProjectID: "missing",
			Amount:          &amount,
		})
		require.True(t, apperrors.IsKind(err, apperrors.ValidationKind))
	})

	t.Run(`invalid payload`, func(t *testing.T) {
		_, err := h.Create(ctx, manager, tripapimodels.AdminRequestData{
			Category:           models.AdminBudgetIncrease,
			Title:              "Без суммы",
			TargetDepartmentID: department.ID,
		})
		require.True(t, apperrors.IsKind(err, apperrors.ValidationKind))
	})

	var count int64
	require.NoError(t, conn.Model(&dbmodels.AuditLogEntry{}).Where("action = ?", models.AuditAdminCreated).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
