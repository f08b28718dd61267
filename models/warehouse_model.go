package models

import (
	"time"

	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

type Warehouse struct {
	WarehouseID   types.SnowflakeID `json:"warehouseID" gorm:"primaryKey;autoIncrement:false"`
	WarehouseCode string            `json:"warehouseCode" gorm:"size:64;not null;uniqueIndex"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func (Warehouse) TableName() string { return "warehouse" }

func (w *Warehouse) BeforeCreate(tx *gorm.DB) error {
	assignID(&w.WarehouseID)
	return nil
}
