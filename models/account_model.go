package models

import (
	"time"

	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

type Account struct {
	AccountID   types.SnowflakeID  `json:"accountID" gorm:"primaryKey;autoIncrement:false"`
	Email       string             `json:"email" gorm:"size:191;not null;uniqueIndex"`
	Password    string             `json:"-" gorm:"not null"`
	FirstName   string             `json:"firstName"`
	LastName    string             `json:"lastName"`
	Role        Role               `json:"role" gorm:"size:32;not null"`
	WarehouseID *types.SnowflakeID `json:"warehouseID" gorm:"index"`
	Warehouse   *Warehouse         `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID;references:WarehouseID"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	// LockVersion is bumped to serialize activity logging of the account.
	LockVersion int `json:"-" gorm:"not null;default:0"`
}

func (Account) TableName() string { return "account" }

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.AccountID)
	return nil
}
