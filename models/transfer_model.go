package models

import (
	"time"

	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

type TransferStatus string

const (
	TransferPending   TransferStatus = "PENDING"
	TransferCompleted TransferStatus = "COMPLETED"
	TransferCanceled  TransferStatus = "CANCELED"
)

// Transfer moves stock between warehouses. It is tracked apart from tasks,
// which only move stock inside one warehouse.
type Transfer struct {
	TransferID             types.SnowflakeID  `json:"transferID" gorm:"primaryKey;autoIncrement:false"`
	SourceWarehouseID      types.SnowflakeID  `json:"sourceWarehouseID" gorm:"not null;index"`
	DestinationWarehouseID types.SnowflakeID  `json:"destinationWarehouseID" gorm:"not null;index"`
	SourceBinID            types.SnowflakeID  `json:"sourceBinID" gorm:"not null"`
	DestinationBinID       *types.SnowflakeID `json:"destinationBinID"`
	ProductCode            string             `json:"productCode" gorm:"size:64;not null"`
	Quantity               int                `json:"quantity" gorm:"not null"`
	Status                 TransferStatus     `json:"status" gorm:"size:20;not null;default:'PENDING'"`
	CreatedBy              types.SnowflakeID  `json:"createdBy" gorm:"not null"`
	CompletedBy            *types.SnowflakeID `json:"completedBy"`

	SourceBin      *Bin `json:"sourceBin,omitempty" gorm:"foreignKey:SourceBinID;references:BinID"`
	DestinationBin *Bin `json:"destinationBin,omitempty" gorm:"foreignKey:DestinationBinID;references:BinID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Transfer) TableName() string { return "transfer" }

func (t *Transfer) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.TransferID)
	return nil
}
