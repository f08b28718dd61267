package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/metrics"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/notify"
	"github.com/Zmley/warehouse-admin-sub001/repositories"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateTransferInput struct {
	DestinationWarehouseID types.SnowflakeID
	SourceBinCode          string
	ProductCode            string
	Quantity               int
}

// TransferService moves stock between warehouses. Stock leaves the source
// bin only when the destination completes the transfer.
type TransferService struct {
	db       *gorm.DB
	logs     *LogService
	notifier notify.Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewTransferService(db *gorm.DB, logs *LogService, notifier notify.Notifier, m *metrics.Metrics, logger *zap.Logger) *TransferService {
	return &TransferService{db: db, logs: logs, notifier: notifier, metrics: m, logger: logger}
}

func (s *TransferService) Create(ctx context.Context, actor Actor, in CreateTransferInput) (*models.Transfer, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if in.DestinationWarehouseID.IsZero() {
		return nil, apperror.Validation("destinationWarehouseID is required")
	}
	if in.DestinationWarehouseID == actor.WarehouseID {
		return nil, apperror.Validation("destination warehouse must differ from the source warehouse")
	}
	productCode := strings.TrimSpace(in.ProductCode)
	if productCode == "" {
		return nil, apperror.Validation("productCode is required")
	}
	if in.Quantity <= 0 {
		return nil, apperror.Validation("quantity must be greater than zero")
	}

	transfer := &models.Transfer{
		SourceWarehouseID:      actor.WarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		ProductCode:            productCode,
		Quantity:               in.Quantity,
		Status:                 models.TransferPending,
		CreatedBy:              actor.AccountID,
	}
	var notice notify.TransferNotice

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		warehouses := repositories.NewWarehouseRepository(tx)
		source, err := warehouses.GetByID(ctx, actor.WarehouseID)
		if err != nil {
			return apperror.FromGorm(err, "Warehouse")
		}
		destination, err := warehouses.GetByID(ctx, in.DestinationWarehouseID)
		if err != nil {
			return apperror.FromGorm(err, "Destination warehouse")
		}

		bin, err := resolveBin(ctx, repositories.NewBinRepository(tx), actor.WarehouseID, in.SourceBinCode)
		if err != nil {
			return err
		}
		stock, err := repositories.NewInventoryRepository(tx).GetByBinAndProduct(ctx, bin.BinID, productCode)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err != nil || stock.Quantity < in.Quantity {
			return apperror.Validation("insufficient stock of %s in bin %s", productCode, bin.BinCode)
		}

		transfer.SourceBinID = bin.BinID
		transfer.SourceBin = bin
		if err := repositories.NewTransferRepository(tx).Create(ctx, transfer); err != nil {
			return err
		}

		recipients, err := repositories.NewAccountRepository(tx).AdminEmails(ctx, destination.WarehouseID)
		if err != nil {
			return err
		}
		notice = notify.TransferNotice{
			Transfer:             *transfer,
			SourceWarehouse:      source.WarehouseCode,
			DestinationWarehouse: destination.WarehouseCode,
			SourceBinCode:        bin.BinCode,
			Recipients:           recipients,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// the transfer stands even when the mail cannot be sent
	if err := s.notifier.TransferCreated(ctx, notice); err != nil {
		s.logger.Warn("transfer notice failed",
			zap.String("transfer_id", transfer.TransferID.String()),
			zap.Error(err))
	}
	return transfer, nil
}

// List returns transfers leaving or entering the warehouse.
func (s *TransferService) List(ctx context.Context, warehouseID types.SnowflakeID, status models.TransferStatus) ([]models.Transfer, error) {
	if err := requireWarehouse(warehouseID); err != nil {
		return nil, err
	}
	transfers, err := repositories.NewTransferRepository(s.db).GetTransfers(ctx, warehouseID, status)
	if transfers == nil {
		transfers = []models.Transfer{}
	}
	return transfers, err
}

// Cancel withdraws a PENDING transfer. Either warehouse may cancel it.
func (s *TransferService) Cancel(ctx context.Context, actor Actor, transferID types.SnowflakeID) (*models.Transfer, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	var transfer *models.Transfer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewTransferRepository(tx)
		var err error
		transfer, err = s.pending(ctx, repo, actor.WarehouseID, transferID)
		if err != nil {
			return err
		}
		transfer.Status = models.TransferCanceled
		return s.save(ctx, repo, transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// Complete receives a PENDING transfer into destinationBinCode of the
// destination warehouse, moving the stock out of the source bin.
func (s *TransferService) Complete(ctx context.Context, actor Actor, transferID types.SnowflakeID, destinationBinCode string) (*models.Transfer, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	var transfer *models.Transfer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewTransferRepository(tx)
		var err error
		transfer, err = s.pending(ctx, repo, actor.WarehouseID, transferID)
		if err != nil {
			return err
		}
		if transfer.DestinationWarehouseID != actor.WarehouseID {
			return apperror.Forbidden("only the destination warehouse can complete a transfer")
		}

		bin, err := resolveBin(ctx, repositories.NewBinRepository(tx), actor.WarehouseID, destinationBinCode)
		if err != nil {
			return err
		}
		if _, err := upsertQuantity(ctx, tx, transfer.SourceBinID, transfer.ProductCode, -transfer.Quantity); err != nil {
			return err
		}
		if _, err := upsertQuantity(ctx, tx, bin.BinID, transfer.ProductCode, transfer.Quantity); err != nil {
			return err
		}

		transfer.Status = models.TransferCompleted
		transfer.CompletedBy = actor.AccountID.Ptr()
		transfer.DestinationBinID = bin.BinID.Ptr()
		transfer.DestinationBin = bin
		if err := s.save(ctx, repo, transfer); err != nil {
			return err
		}

		return s.logs.Record(ctx, tx, actor, Movement{
			Action:           models.LogTransferComplete,
			ProductCode:      transfer.ProductCode,
			Quantity:         transfer.Quantity,
			SourceBinID:      transfer.SourceBinID.Ptr(),
			DestinationBinID: bin.BinID.Ptr(),
			TransferID:       transfer.TransferID.Ptr(),
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.StockMoved(string(models.LogTransferComplete), transfer.Quantity)
	return transfer, nil
}

func (s *TransferService) pending(ctx context.Context, repo *repositories.TransferRepository, warehouseID, transferID types.SnowflakeID) (*models.Transfer, error) {
	transfer, err := repo.GetByID(ctx, warehouseID, transferID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Transfer not found")
	}
	if err != nil {
		return nil, err
	}
	if transfer.Status != models.TransferPending {
		return nil, apperror.Conflict("transfer is already %s", transfer.Status)
	}
	return transfer, nil
}

func (s *TransferService) save(ctx context.Context, repo *repositories.TransferRepository, transfer *models.Transfer) error {
	updated, err := repo.UpdateStatus(ctx, transfer)
	if err != nil {
		return err
	}
	if !updated {
		return apperror.Conflict("transfer was changed by another request")
	}
	return nil
}
