package repositories

import (
	"context"
	"time"

	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

type SessionFilter struct {
	AccountID *types.SnowflakeID
	OpenOnly  bool
}

type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// OpenSession returns the account's session that has not ended yet.
func (r *LogRepository) OpenSession(ctx context.Context, accountID types.SnowflakeID) (*models.LogSession, error) {
	var session models.LogSession
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND ended_at IS NULL", accountID).
		Order("started_at DESC").
		First(&session).Error
	return &session, err
}

func (r *LogRepository) CreateSession(ctx context.Context, session *models.LogSession) error {
	return r.db.WithContext(ctx).Omit("Logs").Create(session).Error
}

func (r *LogRepository) Touch(ctx context.Context, sessionID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.LogSession{}).
		Where("session_id = ?", sessionID).
		UpdateColumn("last_activity_at", at).Error
}

func (r *LogRepository) Append(ctx context.Context, entry *models.InventoryLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *LogRepository) GetSessions(ctx context.Context, warehouseID types.SnowflakeID, filter SessionFilter) ([]models.LogSession, error) {
	var sessions []models.LogSession
	q := r.db.WithContext(ctx).Where("warehouse_id = ?", warehouseID)
	if filter.AccountID != nil {
		q = q.Where("account_id = ?", *filter.AccountID)
	}
	if filter.OpenOnly {
		q = q.Where("ended_at IS NULL")
	}
	err := q.Order("started_at DESC").Find(&sessions).Error
	return sessions, err
}

func (r *LogRepository) GetSession(ctx context.Context, warehouseID types.SnowflakeID, sessionID string) (*models.LogSession, error) {
	var session models.LogSession
	err := r.db.WithContext(ctx).
		Preload("Logs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at").Order("log_id")
		}).
		Where("session_id = ? AND warehouse_id = ?", sessionID, warehouseID).
		First(&session).Error
	return &session, err
}

// CloseIdle ends every open session with no activity since cutoff.
func (r *LogRepository) CloseIdle(ctx context.Context, cutoff, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.LogSession{}).
		Where("ended_at IS NULL AND last_activity_at < ?", cutoff).
		UpdateColumn("ended_at", now)
	return res.RowsAffected, res.Error
}

// CloseOtherSessions ends every open session of the account except keepID.
func (r *LogRepository) CloseOtherSessions(ctx context.Context, accountID types.SnowflakeID, keepID string, now time.Time) error {
	return r.db.WithContext(ctx).Model(&models.LogSession{}).
		Where("account_id = ? AND session_id <> ? AND ended_at IS NULL", accountID, keepID).
		UpdateColumn("ended_at", now).Error
}
