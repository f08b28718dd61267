package services

import (
	"testing"
	"time"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLogService_SessionReuseAndIdleSplit(t *testing.T) {
	f := newFixture(t)
	clock := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	f.logs.now = func() time.Time { return clock }

	record := func() {
		require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
			return f.logs.Record(f.ctx, tx, f.actor(), Movement{Action: models.LogManualAdd, ProductCode: "SKU1", Quantity: 1})
		}))
	}

	record()
	clock = clock.Add(10 * time.Minute)
	record()

	sessions, err := f.logs.ListSessions(f.ctx, f.wid(), repositories.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	clock = clock.Add(45 * time.Minute)
	record()

	sessions, err = f.logs.ListSessions(f.ctx, f.wid(), repositories.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	open, err := f.logs.ListSessions(f.ctx, f.wid(), repositories.SessionFilter{OpenOnly: true})
	require.NoError(t, err)
	require.Len(t, open, 1)

	session, err := f.logs.GetSession(f.ctx, f.wid(), open[0].SessionID)
	require.NoError(t, err)
	assert.Len(t, session.Logs, 1)
}

func TestLogService_CloseIdleSessions(t *testing.T) {
	f := newFixture(t)
	clock := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	f.logs.now = func() time.Time { return clock }

	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		return f.logs.Record(f.ctx, tx, f.actor(), Movement{Action: models.LogManualAdd, ProductCode: "SKU1", Quantity: 1})
	}))

	closed, err := f.logs.CloseIdleSessions(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), closed)

	clock = clock.Add(31 * time.Minute)
	closed, err = f.logs.CloseIdleSessions(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)

	open, err := f.logs.ListSessions(f.ctx, f.wid(), repositories.SessionFilter{OpenOnly: true})
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestLogService_GetSessionNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.logs.GetSession(f.ctx, f.wid(), "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.logs.ListSessions(f.ctx, 0, repositories.SessionFilter{})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestLogService_OneOpenSessionPerAccount(t *testing.T) {
	f := newFixture(t)
	clock := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	f.logs.now = func() time.Time { return clock }

	// two sessions left open by racing writers
	for i := 0; i < 2; i++ {
		session := models.LogSession{
			AccountID:      f.admin.AccountID,
			WarehouseID:    f.wid(),
			StartedAt:      clock.Add(time.Duration(i-5) * time.Minute),
			LastActivityAt: clock.Add(time.Duration(i-5) * time.Minute),
		}
		require.NoError(t, f.db.Omit("Logs").Create(&session).Error)
	}

	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		return f.logs.Record(f.ctx, tx, f.actor(), Movement{Action: models.LogManualAdd, ProductCode: "SKU1", Quantity: 1})
	}))

	open, err := f.logs.ListSessions(f.ctx, f.wid(), repositories.SessionFilter{OpenOnly: true})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.True(t, clock.Add(-4*time.Minute).Equal(open[0].StartedAt))

	var account models.Account
	require.NoError(t, f.db.First(&account, "account_id = ?", f.admin.AccountID).Error)
	assert.Equal(t, 1, account.LockVersion)

	err = f.db.Transaction(func(tx *gorm.DB) error {
		return f.logs.Record(f.ctx, tx, Actor{AccountID: f.admin.AccountID + 100, WarehouseID: f.wid()}, Movement{Action: models.LogManualAdd, ProductCode: "SKU1", Quantity: 1})
	})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
