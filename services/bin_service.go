package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/repositories"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/Zmley/warehouse-admin-sub001/upload"
	"gorm.io/gorm"
)

type CreateBinInput struct {
	BinCode             string
	Type                models.BinType
	DefaultProductCodes []string
}

// BinService is the bin directory of every warehouse.
type BinService struct {
	db *gorm.DB
}

func NewBinService(db *gorm.DB) *BinService {
	return &BinService{db: db}
}

// ResolveBinByCode finds the bin with code inside the warehouse.
func (s *BinService) ResolveBinByCode(ctx context.Context, warehouseID types.SnowflakeID, code string) (*models.Bin, error) {
	return resolveBin(ctx, repositories.NewBinRepository(s.db), warehouseID, code)
}

func resolveBin(ctx context.Context, repo *repositories.BinRepository, warehouseID types.SnowflakeID, code string) (*models.Bin, error) {
	if err := requireWarehouse(warehouseID); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.Validation("binCode is required")
	}
	bin, err := repo.GetByCode(ctx, warehouseID, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Bin %s not found", code)
	}
	if err != nil {
		return nil, err
	}
	return bin, nil
}

func (s *BinService) ListBinCodes(ctx context.Context, warehouseID types.SnowflakeID) ([]string, error) {
	if err := requireWarehouse(warehouseID); err != nil {
		return nil, err
	}
	codes, err := repositories.NewBinRepository(s.db).Codes(ctx, warehouseID)
	if codes == nil {
		codes = []string{}
	}
	return codes, err
}

// ListBinCodesHoldingProduct lists every bin of the warehouse that holds
// productCode, largest quantity first.
func (s *BinService) ListBinCodesHoldingProduct(ctx context.Context, warehouseID types.SnowflakeID, productCode string) ([]repositories.BinStock, error) {
	if err := requireWarehouse(warehouseID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(productCode) == "" {
		return nil, apperror.Validation("productCode is required")
	}
	stock, err := repositories.NewBinRepository(s.db).StockForProduct(ctx, warehouseID, strings.TrimSpace(productCode))
	if stock == nil {
		stock = []repositories.BinStock{}
	}
	return stock, err
}

func (s *BinService) ListBins(ctx context.Context, warehouseID types.SnowflakeID, binType models.BinType) ([]models.Bin, error) {
	if err := requireWarehouse(warehouseID); err != nil {
		return nil, err
	}
	if binType != "" && !binType.Valid() {
		return nil, apperror.Validation("unknown bin type %s", binType)
	}
	return repositories.NewBinRepository(s.db).GetAll(ctx, warehouseID, binType)
}

func (s *BinService) CreateBin(ctx context.Context, warehouseID types.SnowflakeID, in CreateBinInput) (*models.Bin, error) {
	if err := existingWarehouse(ctx, s.db, warehouseID); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.BinCode)
	if code == "" {
		return nil, apperror.Validation("binCode is required")
	}
	binType := in.Type
	if binType == "" {
		binType = models.BinTypeInventory
	}
	if !binType.Valid() {
		return nil, apperror.Validation("unknown bin type %s", in.Type)
	}

	repo := repositories.NewBinRepository(s.db)
	if _, err := repo.GetByCode(ctx, warehouseID, code); err == nil {
		return nil, apperror.Conflict("Bin %s already exists", code)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	bin := &models.Bin{
		WarehouseID:         warehouseID,
		BinCode:             code,
		Type:                binType,
		DefaultProductCodes: joinCodes(in.DefaultProductCodes),
	}
	if err := repo.Create(ctx, bin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("Bin %s already exists", code)
		}
		return nil, err
	}
	return bin, nil
}

// UpdateDefaultProductCodes replaces the bin's default products. Codes are
// trimmed and de-duplicated; an empty list clears them.
func (s *BinService) UpdateDefaultProductCodes(ctx context.Context, warehouseID, binID types.SnowflakeID, codes []string) (*models.Bin, error) {
	if err := requireWarehouse(warehouseID); err != nil {
		return nil, err
	}
	repo := repositories.NewBinRepository(s.db)
	bin, err := repo.GetByID(ctx, warehouseID, binID)
	if err != nil {
		return nil, apperror.FromGorm(err, "Bin")
	}

	bin.DefaultProductCodes = joinCodes(codes)
	if err := repo.UpdateDefaultProductCodes(ctx, bin.BinID, bin.DefaultProductCodes); err != nil {
		return nil, err
	}
	return bin, nil
}

// DeleteBin removes an empty bin that no unfinished task references.
func (s *BinService) DeleteBin(ctx context.Context, warehouseID, binID types.SnowflakeID) error {
	if err := requireWarehouse(warehouseID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewBinRepository(tx)
		bin, err := repo.GetByID(ctx, warehouseID, binID)
		if err != nil {
			return apperror.FromGorm(err, "Bin")
		}
		if err := repo.Lock(ctx, bin.BinID); err != nil {
			return err
		}
		inUse, err := repo.InUse(ctx, bin.BinID)
		if err != nil {
			return err
		}
		if inUse {
			return apperror.Conflict("Bin %s still holds stock or has open tasks", bin.BinCode)
		}
		if err := repo.Delete(ctx, bin.BinID); err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperror.Conflict("Bin %s is referenced by task or transfer history", bin.BinCode)
			}
			return err
		}
		return nil
	})
}

// ImportBins creates missing bins and updates the type and default products
// of existing ones. Nothing is written when a row is invalid.
func (s *BinService) ImportBins(ctx context.Context, warehouseID types.SnowflakeID, rows []upload.BinRow) (*ImportResult, error) {
	if err := existingWarehouse(ctx, s.db, warehouseID); err != nil {
		return nil, err
	}
	result := &ImportResult{Rows: len(rows)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewBinRepository(tx)
		for _, row := range rows {
			bin, err := repo.GetByCode(ctx, warehouseID, row.BinCode)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				bin = &models.Bin{
					WarehouseID:         warehouseID,
					BinCode:             row.BinCode,
					Type:                row.Type,
					DefaultProductCodes: joinCodes(row.DefaultProductCodes),
				}
				if err := repo.Create(ctx, bin); err != nil {
					return err
				}
				result.Created++
			case err != nil:
				return err
			default:
				bin.Type = row.Type
				if len(row.DefaultProductCodes) > 0 {
					bin.DefaultProductCodes = joinCodes(row.DefaultProductCodes)
				}
				if err := repo.Update(ctx, bin); err != nil {
					return err
				}
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func joinCodes(codes []string) *string {
	cleaned := upload.SplitCodes(strings.Join(codes, ","))
	if len(cleaned) == 0 {
		return nil
	}
	joined := strings.Join(cleaned, ",")
	return &joined
}
