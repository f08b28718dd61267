package models

import (
	"time"

	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

type Product struct {
	ProductID   types.SnowflakeID `json:"productID" gorm:"primaryKey;autoIncrement:false"`
	ProductCode string            `json:"productCode" gorm:"size:64;not null;uniqueIndex"`
	Barcode     string            `json:"barcode" gorm:"size:128"`
	BoxType     string            `json:"boxType" gorm:"size:64"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (Product) TableName() string { return "product" }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ProductID)
	return nil
}
