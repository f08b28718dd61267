package controllers

import (
	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/services"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/gofiber/fiber/v2"
)

type TransferController struct {
	transfers *services.TransferService
}

func NewTransferController(transfers *services.TransferService) *TransferController {
	return &TransferController{transfers: transfers}
}

type createTransferInput struct {
	DestinationWarehouseID types.SnowflakeID `json:"destinationWarehouseID" validate:"required"`
	SourceBinCode          string            `json:"sourceBinCode" validate:"required"`
	ProductCode            string            `json:"productCode" validate:"required"`
	Quantity               int               `json:"quantity" validate:"min=1"`
}

type completeTransferInput struct {
	DestinationBinCode string `json:"destinationBinCode" validate:"required"`
}

// GetTransfers lists transfers leaving or entering the caller's warehouse.
func (c *TransferController) GetTransfers(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	status := models.TransferStatus(ctx.Query("status"))
	switch status {
	case "", models.TransferPending, models.TransferCompleted, models.TransferCanceled:
	default:
		return apperror.Validation("Invalid transfer status %s", status)
	}

	transfers, err := c.transfers.List(ctx.UserContext(), warehouseID, status)
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Transfers retrieved successfully", transfers)
}

func (c *TransferController) CreateTransfer(ctx *fiber.Ctx) error {
	act, err := actor(ctx)
	if err != nil {
		return err
	}
	var input createTransferInput
	if err := bindJSON(ctx, &input); err != nil {
		return err
	}
	transfer, err := c.transfers.Create(ctx.UserContext(), act, services.CreateTransferInput{
		DestinationWarehouseID: input.DestinationWarehouseID,
		SourceBinCode:          input.SourceBinCode,
		ProductCode:            input.ProductCode,
		Quantity:               input.Quantity,
	})
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusCreated, "Transfer created successfully", transfer)
}

func (c *TransferController) CancelTransfer(ctx *fiber.Ctx) error {
	act, err := actor(ctx)
	if err != nil {
		return err
	}
	transferID, err := paramID(ctx, "transferID")
	if err != nil {
		return err
	}
	transfer, err := c.transfers.Cancel(ctx.UserContext(), act, transferID)
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Transfer canceled successfully", transfer)
}

func (c *TransferController) CompleteTransfer(ctx *fiber.Ctx) error {
	act, err := actor(ctx)
	if err != nil {
		return err
	}
	transferID, err := paramID(ctx, "transferID")
	if err != nil {
		return err
	}
	var input completeTransferInput
	if err := bindJSON(ctx, &input); err != nil {
		return err
	}
	transfer, err := c.transfers.Complete(ctx.UserContext(), act, transferID, input.DestinationBinCode)
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Transfer completed successfully", transfer)
}
