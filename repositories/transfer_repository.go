package repositories

import (
	"context"

	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

type TransferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	return r.db.WithContext(ctx).Omit("SourceBin", "DestinationBin").Create(transfer).Error
}

// GetByID finds a transfer leaving or entering the warehouse.
func (r *TransferRepository) GetByID(ctx context.Context, warehouseID, transferID types.SnowflakeID) (*models.Transfer, error) {
	var transfer models.Transfer
	err := r.db.WithContext(ctx).
		Preload("SourceBin").
		Preload("DestinationBin").
		Where("transfer_id = ?", transferID).
		Where("source_warehouse_id = ? OR destination_warehouse_id = ?", warehouseID, warehouseID).
		First(&transfer).Error
	return &transfer, err
}

func (r *TransferRepository) GetTransfers(ctx context.Context, warehouseID types.SnowflakeID, status models.TransferStatus) ([]models.Transfer, error) {
	var transfers []models.Transfer
	q := r.db.WithContext(ctx).
		Preload("SourceBin").
		Preload("DestinationBin").
		Where("source_warehouse_id = ? OR destination_warehouse_id = ?", warehouseID, warehouseID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Find(&transfers).Error
	return transfers, err
}

// UpdateStatus moves a transfer out of PENDING. It reports false when
// another request already did.
func (r *TransferRepository) UpdateStatus(ctx context.Context, transfer *models.Transfer) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Transfer{}).
		Where("transfer_id = ? AND status = ?", transfer.TransferID, models.TransferPending).
		Updates(map[string]interface{}{
			"status":             transfer.Status,
			"completed_by":       transfer.CompletedBy,
			"destination_bin_id": transfer.DestinationBinID,
		})
	return res.RowsAffected > 0, res.Error
}
