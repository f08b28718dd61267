package repositories

import (
	"context"

	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

type WarehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

func (r *WarehouseRepository) Create(ctx context.Context, warehouse *models.Warehouse) error {
	return r.db.WithContext(ctx).Create(warehouse).Error
}

func (r *WarehouseRepository) GetByID(ctx context.Context, id types.SnowflakeID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	err := r.db.WithContext(ctx).First(&warehouse, "warehouse_id = ?", id).Error
	return &warehouse, err
}

func (r *WarehouseRepository) GetByCode(ctx context.Context, code string) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	err := r.db.WithContext(ctx).Where("warehouse_code = ?", code).First(&warehouse).Error
	return &warehouse, err
}

func (r *WarehouseRepository) GetAll(ctx context.Context) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	err := r.db.WithContext(ctx).Order("warehouse_code").Find(&warehouses).Error
	return warehouses, err
}

func (r *WarehouseRepository) Update(ctx context.Context, warehouse *models.Warehouse) error {
	return r.db.WithContext(ctx).Save(warehouse).Error
}

func (r *WarehouseRepository) Delete(ctx context.Context, id types.SnowflakeID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Warehouse{}, "warehouse_id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// InUse reports whether bins or accounts still reference the warehouse.
func (r *WarehouseRepository) InUse(ctx context.Context, id types.SnowflakeID) (bool, error) {
	var bins, accounts int64
	if err := r.db.WithContext(ctx).Model(&models.Bin{}).Where("warehouse_id = ?", id).Count(&bins).Error; err != nil {
		return false, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Account{}).Where("warehouse_id = ?", id).Count(&accounts).Error; err != nil {
		return false, err
	}
	return bins+accounts > 0, nil
}
