package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a decrement would leave a negative quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

type InventoryFilter struct {
	BinCode     string
	ProductCode string
}

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db}
}

func (r *InventoryRepository) GetByID(ctx context.Context, id types.SnowflakeID) (*models.Inventory, error) {
	var inventory models.Inventory
	err := r.db.WithContext(ctx).Preload("Bin").First(&inventory, "inventory_id = ?", id).Error
	return &inventory, err
}

func (r *InventoryRepository) GetByBinAndProduct(ctx context.Context, binID types.SnowflakeID, productCode string) (*models.Inventory, error) {
	var inventory models.Inventory
	err := r.db.WithContext(ctx).
		Where("bin_id = ? AND product_code = ?", binID, productCode).
		First(&inventory).Error
	return &inventory, err
}

// GetInventory lists the stock of a warehouse with each record's bin.
func (r *InventoryRepository) GetInventory(ctx context.Context, warehouseID types.SnowflakeID, filter InventoryFilter) ([]models.Inventory, error) {
	bins := r.db.Model(&models.Bin{}).Select("bin_id").Where("warehouse_id = ?", warehouseID)
	if filter.BinCode != "" {
		bins = bins.Where("bin_code = ?", filter.BinCode)
	}

	q := r.db.WithContext(ctx).Preload("Bin").Where("bin_id IN (?)", bins)
	if filter.ProductCode != "" {
		q = q.Where("product_code = ?", filter.ProductCode)
	}

	var inventories []models.Inventory
	err := q.Order("product_code").Order("bin_id").Find(&inventories).Error
	return inventories, err
}

// AddQuantity adds delta to the (binID, productCode) record, creating it
// when missing. A concurrent insert of the same key turns into an increment;
// the insert runs in its own savepoint when r.db is inside a transaction.
// A decrement never leaves a negative quantity; it fails with
// ErrInsufficientStock instead.
func (r *InventoryRepository) AddQuantity(ctx context.Context, binID types.SnowflakeID, productCode string, delta int) (*models.Inventory, error) {
	for attempt := 0; attempt < 2; attempt++ {
		q := r.db.WithContext(ctx).Model(&models.Inventory{}).
			Where("bin_id = ? AND product_code = ?", binID, productCode)
		if delta < 0 {
			q = q.Where("quantity + ? >= 0", delta)
		}
		res := q.UpdateColumns(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			return r.GetByBinAndProduct(ctx, binID, productCode)
		}
		if delta < 0 {
			return nil, ErrInsufficientStock
		}

		// Insert di dalam savepoint: di postgres insert yang gagal membatalkan
		// seluruh transaksi, jadi update ulang di bawah harus tetap bisa jalan.
		inventory := models.Inventory{BinID: binID, ProductCode: productCode, Quantity: delta}
		err := r.db.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
			return sp.Create(&inventory).Error
		})
		if err == nil {
			return &inventory, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, gorm.ErrDuplicatedKey
}

func (r *InventoryRepository) SetQuantity(ctx context.Context, id types.SnowflakeID, quantity int) error {
	return r.db.WithContext(ctx).Model(&models.Inventory{}).
		Where("inventory_id = ?", id).
		Updates(map[string]interface{}{"quantity": quantity, "updated_at": time.Now()}).Error
}

// Delete removes the record and reports whether it existed.
func (r *InventoryRepository) Delete(ctx context.Context, id types.SnowflakeID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Inventory{}, "inventory_id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// DeleteEmpty removes the (binID, productCode) record when its quantity is zero.
func (r *InventoryRepository) DeleteEmpty(ctx context.Context, binID types.SnowflakeID, productCode string) error {
	return r.db.WithContext(ctx).
		Where("bin_id = ? AND product_code = ? AND quantity <= 0", binID, productCode).
		Delete(&models.Inventory{}).Error
}
