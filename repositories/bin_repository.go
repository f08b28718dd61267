package repositories

import (
	"context"

	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

// BinStock is the quantity of one product held in one bin.
type BinStock struct {
	BinID    types.SnowflakeID `json:"binID"`
	BinCode  string            `json:"binCode"`
	Quantity int               `json:"quantity"`
}

type BinRepository struct {
	db *gorm.DB
}

func NewBinRepository(db *gorm.DB) *BinRepository {
	return &BinRepository{db: db}
}

func (r *BinRepository) Create(ctx context.Context, bin *models.Bin) error {
	return r.db.WithContext(ctx).Create(bin).Error
}

// Get finds a bin in any warehouse.
func (r *BinRepository) Get(ctx context.Context, binID types.SnowflakeID) (*models.Bin, error) {
	var bin models.Bin
	err := r.db.WithContext(ctx).First(&bin, "bin_id = ?", binID).Error
	return &bin, err
}

func (r *BinRepository) GetByID(ctx context.Context, warehouseID, binID types.SnowflakeID) (*models.Bin, error) {
	var bin models.Bin
	err := r.db.WithContext(ctx).
		Where("bin_id = ? AND warehouse_id = ?", binID, warehouseID).
		First(&bin).Error
	return &bin, err
}

func (r *BinRepository) GetByCode(ctx context.Context, warehouseID types.SnowflakeID, binCode string) (*models.Bin, error) {
	var bin models.Bin
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND bin_code = ?", warehouseID, binCode).
		First(&bin).Error
	return &bin, err
}

// GetAll lists a warehouse's bins, optionally of a single type.
func (r *BinRepository) GetAll(ctx context.Context, warehouseID types.SnowflakeID, binType models.BinType) ([]models.Bin, error) {
	var bins []models.Bin
	q := r.db.WithContext(ctx).Where("warehouse_id = ?", warehouseID).Order("bin_code")
	if binType != "" {
		q = q.Where("type = ?", binType)
	}
	err := q.Find(&bins).Error
	return bins, err
}

func (r *BinRepository) Codes(ctx context.Context, warehouseID types.SnowflakeID) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&models.Bin{}).
		Where("warehouse_id = ?", warehouseID).
		Order("bin_code").
		Pluck("bin_code", &codes).Error
	return codes, err
}

// StockForProduct lists the bins of a warehouse holding productCode, largest
// quantity first. binTypes narrows the bins considered when given.
func (r *BinRepository) StockForProduct(ctx context.Context, warehouseID types.SnowflakeID, productCode string, binTypes ...models.BinType) ([]BinStock, error) {
	var stock []BinStock
	q := r.db.WithContext(ctx).Table("inventory").
		Select("bin.bin_id, bin.bin_code, inventory.quantity").
		Joins("JOIN bin ON bin.bin_id = inventory.bin_id").
		Where("bin.warehouse_id = ? AND inventory.product_code = ? AND inventory.quantity > 0", warehouseID, productCode)
	if len(binTypes) > 0 {
		q = q.Where("bin.type IN ?", binTypes)
	}
	err := q.Order("inventory.quantity DESC").Order("bin.bin_code").Scan(&stock).Error
	return stock, err
}

func (r *BinRepository) UpdateDefaultProductCodes(ctx context.Context, binID types.SnowflakeID, codes *string) error {
	return r.db.WithContext(ctx).Model(&models.Bin{}).
		Where("bin_id = ?", binID).
		Update("default_product_codes", codes).Error
}

func (r *BinRepository) Update(ctx context.Context, bin *models.Bin) error {
	return r.db.WithContext(ctx).Save(bin).Error
}

func (r *BinRepository) Delete(ctx context.Context, binID types.SnowflakeID) error {
	return r.db.WithContext(ctx).Delete(&models.Bin{}, "bin_id = ?", binID).Error
}

// Lock takes the bin's row lock for the rest of the transaction by bumping
// its lock_version. Competing transactions block on the same row until commit.
func (r *BinRepository) Lock(ctx context.Context, binID types.SnowflakeID) error {
	res := r.db.WithContext(ctx).Model(&models.Bin{}).
		Where("bin_id = ?", binID).
		UpdateColumn("lock_version", gorm.Expr("lock_version + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// InUse reports whether stock or unfinished tasks still reference the bin.
func (r *BinRepository) InUse(ctx context.Context, binID types.SnowflakeID) (bool, error) {
	var stock, tasks int64
	if err := r.db.WithContext(ctx).Model(&models.Inventory{}).
		Where("bin_id = ?", binID).Count(&stock).Error; err != nil {
		return false, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("(source_bin_id = ? OR destination_bin_id = ?) AND status IN ?", binID, binID,
			[]models.TaskStatus{models.TaskPending, models.TaskInProcess}).
		Count(&tasks).Error; err != nil {
		return false, err
	}
	return stock+tasks > 0, nil
}
