package database

import (
	"errors"
	"strings"

	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/Zmley/warehouse-admin-sub001/config"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunSeeders inserts the default warehouse and the first admin account when
// they do not exist yet. It is safe to run on every start.
func RunSeeders(db *gorm.DB, cfg config.SeedConfig, log *zap.Logger) error {
	warehouse, err := SeedWarehouse(db, cfg.WarehouseCode)
	if err != nil {
		return err
	}
	log.Info("seeded warehouse", zap.String("warehouse_code", warehouse.WarehouseCode))

	if cfg.AdminPassword == "" {
		log.Warn("SEED_ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}
	return SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword, warehouse)
}

func SeedWarehouse(db *gorm.DB, code string) (*models.Warehouse, error) {
	var existing models.Warehouse
	err := db.Where("warehouse_code = ?", code).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	warehouse := models.Warehouse{WarehouseCode: code}
	if err := db.Create(&warehouse).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func SeedAdmin(db *gorm.DB, email, password string, warehouse *models.Warehouse) error {
	email = strings.ToLower(strings.TrimSpace(email))
	var existing models.Account
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.Account{
		Email:       email,
		Password:    hashed,
		FirstName:   "Admin",
		Role:        models.RoleAdmin,
		WarehouseID: warehouse.WarehouseID.Ptr(),
	}
	return db.Create(&admin).Error
}
