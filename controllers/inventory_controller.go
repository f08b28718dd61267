package controllers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/Zmley/warehouse-admin-sub001/repositories"
	"github.com/Zmley/warehouse-admin-sub001/services"
	"github.com/Zmley/warehouse-admin-sub001/upload"
	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type InventoryController struct {
	inventory *services.InventoryService
	uploader  Uploader
}

func NewInventoryController(inventory *services.InventoryService, uploader Uploader) *InventoryController {
	return &InventoryController{inventory: inventory, uploader: uploader}
}

type addInventoryInput struct {
	BinCode     string `json:"binCode" validate:"required"`
	ProductCode string `json:"productCode" validate:"required"`
	Quantity    int    `json:"quantity" validate:"min=1"`
}

type setQuantityInput struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

func (c *InventoryController) GetInventories(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	inventories, err := c.inventory.List(ctx.UserContext(), warehouseID, repositories.InventoryFilter{
		BinCode:     ctx.Query("binCode"),
		ProductCode: ctx.Query("productCode"),
	})
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Inventory retrieved successfully", inventories)
}

func (c *InventoryController) AddInventory(ctx *fiber.Ctx) error {
	act, err := actor(ctx)
	if err != nil {
		return err
	}
	var input addInventoryInput
	if err := bindJSON(ctx, &input); err != nil {
		return err
	}
	inventory, err := c.inventory.AddByCode(ctx.UserContext(), act, input.BinCode, input.ProductCode, input.Quantity)
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusCreated, "Inventory added successfully", inventory)
}

func (c *InventoryController) UpdateInventory(ctx *fiber.Ctx) error {
	act, err := actor(ctx)
	if err != nil {
		return err
	}
	inventoryID, err := paramID(ctx, "inventoryID")
	if err != nil {
		return err
	}
	var input setQuantityInput
	if err := bindJSON(ctx, &input); err != nil {
		return err
	}
	inventory, err := c.inventory.SetQuantity(ctx.UserContext(), act, inventoryID, input.Quantity)
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Inventory updated successfully", inventory)
}

func (c *InventoryController) DeleteInventory(ctx *fiber.Ctx) error {
	act, err := actor(ctx)
	if err != nil {
		return err
	}
	inventoryID, err := paramID(ctx, "inventoryID")
	if err != nil {
		return err
	}
	if err := c.inventory.DeleteRecord(ctx.UserContext(), act, inventoryID); err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Inventory item deleted successfully", nil)
}

//==============================================================================
// Begin Upload / Export Inventory Excel
//==============================================================================

func (c *InventoryController) UploadInventories(ctx *fiber.Ctx) error {
	act, err := actor(ctx)
	if err != nil {
		return err
	}
	records, total, err := c.uploader.records(ctx, upload.KindInventory)
	if err != nil {
		return err
	}
	rows, rowErrs := upload.InventoryRows(records)
	if len(rowErrs) > 0 {
		return c.uploader.rejected(upload.KindInventory, total, rowErrs)
	}

	result, err := c.inventory.Import(ctx.UserContext(), act, rows)
	if err != nil {
		return err
	}
	c.uploader.accepted(upload.KindInventory, len(rows))
	return ok(ctx, fiber.StatusOK, "Inventory uploaded successfully", result)
}

func (c *InventoryController) ExportInventories(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := c.inventory.Export(ctx.UserContext(), warehouseID, &buf); err != nil {
		return err
	}

	filename := fmt.Sprintf("inventory_%s.xlsx", time.Now().Format("20060102_150405"))
	ctx.Set(fiber.HeaderContentType, xlsxContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Send(buf.Bytes())
}

//==============================================================================
// End Upload / Export Inventory Excel
//==============================================================================
