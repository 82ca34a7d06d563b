package projectstore

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"trip-approval-backend/db/dbtest"
	"trip-approval-backend/lib/apperrors"
	dbmodels "trip-approval-backend/models/db"
)

func TestCreate(t *testing.T) {
	conn := dbtest.Open(t)
	s := NewInstance(conn)
	department := dbmodels.Department{Name: "D", IsActive: true}
	require.NoError(t, conn.Create(&department).Error)

	t.Run(`invalid project is a validation error`, func(t *testing.T) {
		for _, rec := range []dbmodels.Project{
			{DepartmentID: department.ID},
			{Name: "P"},
			{Name: "P", DepartmentID: department.ID, OriginalBudget: decimal.NewFromInt(-1)},
		} {
			_, err := s.Create(rec)
			require.True(t, apperrors.IsKind(err, apperrors.ValidationKind), err)
		}
		var count int64
		require.NoError(t, conn.Model(&dbmodels.Project{}).Count(&count).Error)
		require.Zero(t, count)
	})

	t.Run(`valid project is stored`, func(t *testing.T) {
		id, err := s.Create(dbmodels.Project{Name: "P", DepartmentID: department.ID, OriginalBudget: decimal.NewFromInt(300), IsActive: true})
		require.NoError(t, err)
		rec, err := s.GetByID(id)
		require.NoError(t, err)
		require.NotNil(t, rec)
		require.Equal(t, "P", rec.Name)

		missing, err := s.GetByID("missing")
		require.NoError(t, err)
		require.Nil(t, missing)
	})
}
