package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"trip-approval-backend/db"
	"trip-approval-backend/db/dbtest"
	"trip-approval-backend/lib/apperrors"
	dbmodels "trip-approval-backend/models/db"
)

func TestTransaction(t *testing.T) {
	conn := dbtest.Open(t)
	saved := db.TxTimeout
	t.Cleanup(func() { db.TxTimeout = saved })

	t.Run(`commit`, func(t *testing.T) {
		err := db.Transaction(context.Background(), conn, func(tx *gorm.DB) error {
			return tx.Create(&dbmodels.Department{Name: "D", IsActive: true}).Error
		})
		require.NoError(t, err)
		var count int64
		require.NoError(t, conn.Model(&dbmodels.Department{}).Where("name = ?", "D").Count(&count).Error)
		require.EqualValues(t, 1, count)
	})

	t.Run(`domain error rolls back unchanged`, func(t *testing.T) {
		err := db.Transaction(context.Background(), conn, func(tx *gorm.DB) error {
			if err := tx.Create(&dbmodels.Department{Name: "E", IsActive: true}).Error; err != nil {
				return err
			}
			return apperrors.Conflict("заявка уже закрыта")
		})
		require.True(t, apperrors.IsKind(err, apperrors.ConflictKind))
		var count int64
		require.NoError(t, conn.Model(&dbmodels.Department{}).Where("name = ?", "E").Count(&count).Error)
		require.Zero(t, count)
	})

	t.Run(`timeout is retryable`, func(t *testing.T) {
		db.TxTimeout = 50 * time.Millisecond
		err := db.Transaction(context.Background(), conn, func(tx *gorm.DB) error {
			time.Sleep(150 * time.Millisecond)
			return tx.Create(&dbmodels.Department{Name: "F", IsActive: true}).Error
		})
		appErr, ok := apperrors.As(err)
		require.True(t, ok, err)
		require.Equal(t, apperrors.UnavailableKind, appErr.Kind)
		require.True(t, appErr.Retryable())
		require.Equal(t, "операция не завершена за отведенное время, повторите запрос", appErr.Message)

		var count int64
		require.NoError(t, conn.Model(&dbmodels.Department{}).Where("name = ?", "F").Count(&count).Error)
		require.Zero(t, count)
	})
}
