package models

import (
	"time"

	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LogAction string

const (
	LogTaskComplete     LogAction = "TASK_COMPLETE"
	LogTransferComplete LogAction = "TRANSFER_COMPLETE"
	LogManualAdd        LogAction = "MANUAL_ADD"
	LogManualSet        LogAction = "MANUAL_SET"
	LogManualDelete     LogAction = "MANUAL_DELETE"
	LogBulkUpload       LogAction = "BULK_UPLOAD"
)

// LogSession groups the movements one account made in one sitting.
type LogSession struct {
	SessionID      string            `json:"sessionID" gorm:"primaryKey;size:36"`
	AccountID      types.SnowflakeID `json:"accountID" gorm:"not null;index"`
	WarehouseID    types.SnowflakeID `json:"warehouseID" gorm:"not null;index"`
	StartedAt      time.Time         `json:"startedAt"`
	LastActivityAt time.Time         `json:"lastActivityAt"`
	EndedAt        *time.Time        `json:"endedAt" gorm:"index"`
	Logs           []InventoryLog    `json:"logs,omitempty" gorm:"foreignKey:SessionID;references:SessionID"`
}

func (LogSession) TableName() string { return "log_session" }

func (s *LogSession) BeforeCreate(tx *gorm.DB) error {
	if s.SessionID == "" {
		s.SessionID = uuid.NewString()
	}
	return nil
}

type InventoryLog struct {
	LogID            types.SnowflakeID  `json:"logID" gorm:"primaryKey;autoIncrement:false"`
	SessionID        string             `json:"sessionID" gorm:"size:36;not null;index"`
	AccountID        types.SnowflakeID  `json:"accountID" gorm:"not null"`
	Action           LogAction          `json:"action" gorm:"size:32;not null"`
	ProductCode      string             `json:"productCode" gorm:"size:64;not null"`
	Quantity         int                `json:"quantity"`
	SourceBinID      *types.SnowflakeID `json:"sourceBinID"`
	DestinationBinID *types.SnowflakeID `json:"destinationBinID"`
	TaskID           *types.SnowflakeID `json:"taskID"`
	TransferID       *types.SnowflakeID `json:"transferID"`
	CreatedAt        time.Time          `json:"createdAt"`
}

func (InventoryLog) TableName() string { return "inventory_log" }

func (l *InventoryLog) BeforeCreate(tx *gorm.DB) error {
	assignID(&l.LogID)
	return nil
}
