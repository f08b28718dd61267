package models

import (
	"time"

	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

// Inventory is the quantity of one product held in one bin.
type Inventory struct {
	InventoryID types.SnowflakeID `json:"inventoryID" gorm:"primaryKey;autoIncrement:false"`
	BinID       types.SnowflakeID `json:"binID" gorm:"not null;uniqueIndex:idx_inventory_bin_product,priority:1"`
	ProductCode string            `json:"productCode" gorm:"size:64;not null;uniqueIndex:idx_inventory_bin_product,priority:2;index"`
	Quantity    int               `json:"quantity" gorm:"not null;default:0"`
	Bin         *Bin              `json:"bin,omitempty" gorm:"foreignKey:BinID;references:BinID"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (Inventory) TableName() string { return "inventory" }

func (i *Inventory) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.InventoryID)
	return nil
}
