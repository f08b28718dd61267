package models

import (
	"strings"
	"time"

	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

type Bin struct {
	BinID               types.SnowflakeID `json:"binID" gorm:"primaryKey;autoIncrement:false"`
	WarehouseID         types.SnowflakeID `json:"warehouseID" gorm:"not null;uniqueIndex:idx_bin_warehouse_code,priority:1"`
	BinCode             string            `json:"binCode" gorm:"size:64;not null;uniqueIndex:idx_bin_warehouse_code,priority:2"`
	Type                BinType           `json:"type" gorm:"size:20;not null;default:'INVENTORY'"`
	DefaultProductCodes *string           `json:"defaultProductCodes" gorm:"size:1024"`
	// LockVersion is bumped inside a transaction to take the bin's row lock.
	LockVersion int       `json:"-" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Bin) TableName() string { return "bin" }

func (b *Bin) BeforeCreate(tx *gorm.DB) error {
	assignID(&b.BinID)
	return nil
}

// DefaultProducts splits the comma-joined default product codes.
func (b *Bin) DefaultProducts() []string {
	if b.DefaultProductCodes == nil || *b.DefaultProductCodes == "" {
		return nil
	}
	var codes []string
	for _, code := range strings.Split(*b.DefaultProductCodes, ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
