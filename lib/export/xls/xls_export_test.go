package xlsexport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"trip-approval-backend/models"
	dbmodels "trip-approval-backend/models/db"
)

func TestExportAuditLog(t *testing.T) {
	createdAt := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	list := []dbmodels.AuditLogEntry{
		{
			BaseModel: dbmodels.BaseModel{ID: "a1", CreatedAt: createdAt},
			ActorID:   "u1",
			Action:    models.AuditTripPaid,
			Details:   datatypes.JSON(`{"request_id":"t1"}`),
		},
		{
			BaseModel: dbmodels.BaseModel{ID: "a2", CreatedAt: createdAt},
			ActorID:   models.SystemUser,
			Action:    models.AuditProjectExpired,
		},
	}
	buf, err := impl{}.ExportAuditLog(list)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := auditSheet
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"Дата", "Пользователь", "Действие", "Подробности"}, rows[0])
	require.Equal(t, []string{"01.04.2026 09:30:00", "u1", "TRIP_PAID", `{"request_id":"t1"}`}, rows[1])
	require.Equal(t, []string{"01.04.2026 09:30:00", models.SystemUser, "PROJECT_EXPIRED"}, rows[2])
}

func TestExportEmptyAuditLog(t *testing.T) {
	buf, err := impl{}.ExportAuditLog(nil)
	require.NoError(t, err)
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Журнал аудита")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
