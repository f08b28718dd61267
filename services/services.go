package services

import (
	"context"
	"errors"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/repositories"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/Zmley/warehouse-admin-sub001/upload"
	"gorm.io/gorm"
)

// Actor is the account a service call acts for, and the warehouse it acts in.
type Actor struct {
	AccountID   types.SnowflakeID
	WarehouseID types.SnowflakeID
}

func (a Actor) validate() error {
	return requireWarehouse(a.WarehouseID)
}

func requireWarehouse(warehouseID types.SnowflakeID) error {
	if warehouseID.IsZero() {
		return apperror.Validation("warehouseID is required")
	}
	return nil
}

// existingWarehouse fails with NotFound when no warehouse has warehouseID.
// Bins carry no foreign key to their warehouse, so writes that create them
// check here first.
func existingWarehouse(ctx context.Context, db *gorm.DB, warehouseID types.SnowflakeID) error {
	if err := requireWarehouse(warehouseID); err != nil {
		return err
	}
	_, err := repositories.NewWarehouseRepository(db).GetByID(ctx, warehouseID)
	return apperror.FromGorm(err, "Warehouse")
}

// ImportResult summarizes a bulk upload.
type ImportResult struct {
	Rows    int `json:"rows"`
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// rowErrors fails an upload with its per-row problems as details.
func rowErrors(errs []upload.RowError) error {
	return apperror.Validation("upload has %d invalid row(s)", len(errs)).WithDetails(errs)
}

func stockError(err error, productCode string) error {
	if errors.Is(err, repositories.ErrInsufficientStock) {
		return apperror.Validation("insufficient stock of %s", productCode)
	}
	return err
}
