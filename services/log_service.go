package services

import (
	"context"
	"errors"
	"time"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/repositories"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

// Movement is one ledger change to record in the activity log.
type Movement struct {
	Action           models.LogAction
	ProductCode      string
	Quantity         int
	SourceBinID      *types.SnowflakeID
	DestinationBinID *types.SnowflakeID
	TaskID           *types.SnowflakeID
	TransferID       *types.SnowflakeID
}

// LogService groups inventory movements into per-account sessions. A session
// ends after idleTimeout without activity or when the account switches
// warehouse.
type LogService struct {
	db          *gorm.DB
	idleTimeout time.Duration
	now         func() time.Time
}

func NewLogService(db *gorm.DB, idleTimeout time.Duration) *LogService {
	return &LogService{db: db, idleTimeout: idleTimeout, now: time.Now}
}

// Record appends movements under the actor's open session, opening one when
// needed. tx is the caller's transaction so the log commits with the change.
func (s *LogService) Record(ctx context.Context, tx *gorm.DB, actor Actor, movements ...Movement) error {
	if len(movements) == 0 {
		return nil
	}
	// Satu sesi terbuka per akun: kunci baris akun dulu
	if err := repositories.NewAccountRepository(tx).Lock(ctx, actor.AccountID); err != nil {
		return apperror.FromGorm(err, "Account")
	}
	repo := repositories.NewLogRepository(tx)
	now := s.now()

	session, err := s.currentSession(ctx, repo, actor, now)
	if err != nil {
		return err
	}

	for _, m := range movements {
		entry := models.InventoryLog{
			SessionID:        session.SessionID,
			AccountID:        actor.AccountID,
			Action:           m.Action,
			ProductCode:      m.ProductCode,
			Quantity:         m.Quantity,
			SourceBinID:      m.SourceBinID,
			DestinationBinID: m.DestinationBinID,
			TaskID:           m.TaskID,
			TransferID:       m.TransferID,
			CreatedAt:        now,
		}
		if err := repo.Append(ctx, &entry); err != nil {
			return err
		}
	}
	return repo.Touch(ctx, session.SessionID, now)
}

// currentSession returns the session to log under, leaving it as the
// account's only open one. Callers hold the account lock.
func (s *LogService) currentSession(ctx context.Context, repo *repositories.LogRepository, actor Actor, now time.Time) (*models.LogSession, error) {
	session, err := repo.OpenSession(ctx, actor.AccountID)
	switch {
	case err == nil:
		if session.WarehouseID == actor.WarehouseID && now.Sub(session.LastActivityAt) < s.idleTimeout {
			if err := repo.CloseOtherSessions(ctx, actor.AccountID, session.SessionID, now); err != nil {
				return nil, err
			}
			return session, nil
		}
		if err := repo.CloseOtherSessions(ctx, actor.AccountID, "", now); err != nil {
			return nil, err
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	session = &models.LogSession{
		AccountID:      actor.AccountID,
		WarehouseID:    actor.WarehouseID,
		StartedAt:      now,
		LastActivityAt: now,
	}
	if err := repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *LogService) ListSessions(ctx context.Context, warehouseID types.SnowflakeID, filter repositories.SessionFilter) ([]models.LogSession, error) {
	if err := requireWarehouse(warehouseID); err != nil {
		return nil, err
	}
	return repositories.NewLogRepository(s.db).GetSessions(ctx, warehouseID, filter)
}

// GetSession returns a session with its log entries in order.
func (s *LogService) GetSession(ctx context.Context, warehouseID types.SnowflakeID, sessionID string) (*models.LogSession, error) {
	if err := requireWarehouse(warehouseID); err != nil {
		return nil, err
	}
	session, err := repositories.NewLogRepository(s.db).GetSession(ctx, warehouseID, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Session not found")
	}
	return session, err
}

// CloseIdleSessions ends every session idle for longer than the timeout.
func (s *LogService) CloseIdleSessions(ctx context.Context) (int64, error) {
	now := s.now()
	return repositories.NewLogRepository(s.db).CloseIdle(ctx, now.Add(-s.idleTimeout), now)
}
