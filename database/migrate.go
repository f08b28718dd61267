package database

import (
	"github.com/Zmley/warehouse-admin-sub001/models"
	"gorm.io/gorm"
)

// Migrate creates or alters every table, parents before children.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Warehouse{},
		&models.Account{},
		&models.Product{},
		&models.Bin{},
		&models.Inventory{},
		&models.Task{},
		&models.Transfer{},
		&models.LogSession{},
		&models.InventoryLog{},
	)
}
