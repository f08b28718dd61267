package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/metrics"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/repositories"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/Zmley/warehouse-admin-sub001/upload"
	"gorm.io/gorm"
)

// InventoryService is the ledger of per-bin, per-product quantities.
type InventoryService struct {
	db      *gorm.DB
	logs    *LogService
	metrics *metrics.Metrics
}

func NewInventoryService(db *gorm.DB, logs *LogService, m *metrics.Metrics) *InventoryService {
	return &InventoryService{db: db, logs: logs, metrics: m}
}

// UpsertQuantity adds delta to the (binID, productCode) record, creating it
// when missing. A record brought to zero is removed; a result below zero is
// rejected.
func (s *InventoryService) UpsertQuantity(ctx context.Context, binID types.SnowflakeID, productCode string, delta int) (*models.Inventory, error) {
	var inventory *models.Inventory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repositories.NewBinRepository(tx).Get(ctx, binID); err != nil {
			return apperror.FromGorm(err, "Bin")
		}
		var err error
		inventory, err = upsertQuantity(ctx, tx, binID, productCode, delta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return inventory, nil
}

func upsertQuantity(ctx context.Context, tx *gorm.DB, binID types.SnowflakeID, productCode string, delta int) (*models.Inventory, error) {
	productCode = strings.TrimSpace(productCode)
	if productCode == "" {
		return nil, apperror.Validation("productCode is required")
	}
	if delta == 0 {
		return nil, apperror.Validation("quantity must not be zero")
	}

	repo := repositories.NewInventoryRepository(tx)
	inventory, err := repo.AddQuantity(ctx, binID, productCode, delta)
	if err != nil {
		return nil, stockError(err, productCode)
	}
	if inventory.Quantity == 0 {
		if err := repo.DeleteEmpty(ctx, binID, productCode); err != nil {
			return nil, err
		}
	}
	return inventory, nil
}

// AddByCode adds stock to the bin with binCode and logs it as a manual addition.
func (s *InventoryService) AddByCode(ctx context.Context, actor Actor, binCode, productCode string, quantity int) (*models.Inventory, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, apperror.Validation("quantity must be greater than zero")
	}

	var inventory *models.Inventory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bin, err := resolveBin(ctx, repositories.NewBinRepository(tx), actor.WarehouseID, binCode)
		if err != nil {
			return err
		}
		inventory, err = upsertQuantity(ctx, tx, bin.BinID, productCode, quantity)
		if err != nil {
			return err
		}
		inventory.Bin = bin
		return s.logs.Record(ctx, tx, actor, Movement{
			Action:           models.LogManualAdd,
			ProductCode:      inventory.ProductCode,
			Quantity:         quantity,
			DestinationBinID: bin.BinID.Ptr(),
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.StockMoved(string(models.LogManualAdd), quantity)
	return inventory, nil
}

// SetQuantity overwrites the quantity of a record. Zero removes the record.
func (s *InventoryService) SetQuantity(ctx context.Context, actor Actor, inventoryID types.SnowflakeID, quantity int) (*models.Inventory, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, apperror.Validation("quantity must not be negative")
	}

	var inventory *models.Inventory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewInventoryRepository(tx)
		var err error
		inventory, err = s.getInWarehouse(ctx, repo, actor.WarehouseID, inventoryID)
		if err != nil {
			return err
		}

		previous := inventory.Quantity
		if quantity == 0 {
			if _, err := repo.Delete(ctx, inventoryID); err != nil {
				return err
			}
		} else if err := repo.SetQuantity(ctx, inventoryID, quantity); err != nil {
			return err
		}
		inventory.Quantity = quantity

		return s.logs.Record(ctx, tx, actor, Movement{
			Action:           models.LogManualSet,
			ProductCode:      inventory.ProductCode,
			Quantity:         quantity - previous,
			DestinationBinID: inventory.BinID.Ptr(),
		})
	})
	if err != nil {
		return nil, err
	}
	return inventory, nil
}

// DeleteRecord removes a record outright.
func (s *InventoryService) DeleteRecord(ctx context.Context, actor Actor, inventoryID types.SnowflakeID) error {
	if err := actor.validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewInventoryRepository(tx)
		inventory, err := s.getInWarehouse(ctx, repo, actor.WarehouseID, inventoryID)
		if err != nil {
			return err
		}
		deleted, err := repo.Delete(ctx, inventoryID)
		if err != nil {
			return err
		}
		if !deleted {
			return apperror.NotFound("Inventory item not found")
		}
		return s.logs.Record(ctx, tx, actor, Movement{
			Action:      models.LogManualDelete,
			ProductCode: inventory.ProductCode,
			Quantity:    -inventory.Quantity,
			SourceBinID: inventory.BinID.Ptr(),
		})
	})
}

func (s *InventoryService) getInWarehouse(ctx context.Context, repo *repositories.InventoryRepository, warehouseID, inventoryID types.SnowflakeID) (*models.Inventory, error) {
	inventory, err := repo.GetByID(ctx, inventoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Inventory item not found")
	}
	if err != nil {
		return nil, err
	}
	if inventory.Bin == nil || inventory.Bin.WarehouseID != warehouseID {
		return nil, apperror.NotFound("Inventory item not found")
	}
	return inventory, nil
}

func (s *InventoryService) List(ctx context.Context, warehouseID types.SnowflakeID, filter repositories.InventoryFilter) ([]models.Inventory, error) {
	if err := requireWarehouse(warehouseID); err != nil {
		return nil, err
	}
	inventories, err := repositories.NewInventoryRepository(s.db).GetInventory(ctx, warehouseID, filter)
	if inventories == nil {
		inventories = []models.Inventory{}
	}
	return inventories, err
}

// Import adds every row's quantity to its bin. Unknown bins fail the whole
// upload and nothing is written.
func (s *InventoryService) Import(ctx context.Context, actor Actor, rows []upload.InventoryRow) (*ImportResult, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	result := &ImportResult{Rows: len(rows)}
	total := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bins := repositories.NewBinRepository(tx)
		resolved := map[string]*models.Bin{}
		var rowErrs []upload.RowError
		for _, row := range rows {
			if _, ok := resolved[row.BinCode]; ok {
				continue
			}
			bin, err := resolveBin(ctx, bins, actor.WarehouseID, row.BinCode)
			if apperror.Is(err, apperror.KindNotFound) {
				rowErrs = append(rowErrs, upload.RowError{Row: row.Row, Field: "binCode", Message: err.Error()})
				continue
			}
			if err != nil {
				return err
			}
			resolved[row.BinCode] = bin
		}
		if len(rowErrs) > 0 {
			return rowErrors(rowErrs)
		}

		inventories := repositories.NewInventoryRepository(tx)
		movements := make([]Movement, 0, len(rows))
		for _, row := range rows {
			bin := resolved[row.BinCode]
			_, err := inventories.GetByBinAndProduct(ctx, bin.BinID, row.ProductCode)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				result.Created++
			case err != nil:
				return err
			default:
				result.Updated++
			}
			if _, err := upsertQuantity(ctx, tx, bin.BinID, row.ProductCode, row.Quantity); err != nil {
				return err
			}
			total += row.Quantity
			movements = append(movements, Movement{
				Action:           models.LogBulkUpload,
				ProductCode:      row.ProductCode,
				Quantity:         row.Quantity,
				DestinationBinID: bin.BinID.Ptr(),
			})
		}
		return s.logs.Record(ctx, tx, actor, movements...)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.StockMoved(string(models.LogBulkUpload), total)
	return result, nil
}

// Export writes the warehouse's stock as an xlsx workbook.
func (s *InventoryService) Export(ctx context.Context, warehouseID types.SnowflakeID, w io.Writer) error {
	inventories, err := s.List(ctx, warehouseID, repositories.InventoryFilter{})
	if err != nil {
		return err
	}
	rows := make([]upload.InventoryExportRow, 0, len(inventories))
	for _, inv := range inventories {
		row := upload.InventoryExportRow{
			ProductCode: inv.ProductCode,
			Quantity:    inv.Quantity,
			UpdatedAt:   inv.UpdatedAt,
		}
		if inv.Bin != nil {
			row.BinCode = inv.Bin.BinCode
			row.BinType = string(inv.Bin.Type)
		}
		rows = append(rows, row)
	}
	return upload.WriteInventory(w, rows)
}
