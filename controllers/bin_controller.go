package controllers

import (
	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/services"
	"github.com/Zmley/warehouse-admin-sub001/upload"
	"github.com/gofiber/fiber/v2"
)

type BinController struct {
	bins     *services.BinService
	uploader Uploader
}

func NewBinController(bins *services.BinService, uploader Uploader) *BinController {
	return &BinController{bins: bins, uploader: uploader}
}

type createBinInput struct {
	BinCode             string   `json:"binCode" validate:"required"`
	Type                string   `json:"type"`
	DefaultProductCodes []string `json:"defaultProductCodes"`
}

type defaultProductsInput struct {
	DefaultProductCodes []string `json:"defaultProductCodes"`
}

// GetBinCodes returns every bin code of the caller's warehouse.
func (c *BinController) GetBinCodes(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	codes, err := c.bins.ListBinCodes(ctx.UserContext(), warehouseID)
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Bin codes retrieved successfully", codes)
}

func (c *BinController) GetBins(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	var binType models.BinType
	if raw := ctx.Query("type"); raw != "" {
		t, valid := models.ParseBinType(raw)
		if !valid {
			return apperror.Validation("Invalid bin type %s", raw)
		}
		binType = t
	}
	bins, err := c.bins.ListBins(ctx.UserContext(), warehouseID, binType)
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Bins retrieved successfully", bins)
}

// GetBinCodesByProduct lists the bins holding a product, fullest first.
func (c *BinController) GetBinCodesByProduct(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	stocks, err := c.bins.ListBinCodesHoldingProduct(ctx.UserContext(), warehouseID, ctx.Params("productCode"))
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Bins retrieved successfully", stocks)
}

func (c *BinController) GetBinByCode(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	bin, err := c.bins.ResolveBinByCode(ctx.UserContext(), warehouseID, ctx.Params("binCode"))
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Bin retrieved successfully", bin)
}

func (c *BinController) CreateBin(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	var input createBinInput
	if err := bindJSON(ctx, &input); err != nil {
		return err
	}

	binType := models.BinTypeInventory
	if input.Type != "" {
		t, valid := models.ParseBinType(input.Type)
		if !valid {
			return apperror.Validation("Invalid bin type %s", input.Type)
		}
		binType = t
	}

	bin, err := c.bins.CreateBin(ctx.UserContext(), warehouseID, services.CreateBinInput{
		BinCode:             input.BinCode,
		Type:                binType,
		DefaultProductCodes: input.DefaultProductCodes,
	})
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusCreated, "Bin created successfully", bin)
}

func (c *BinController) UpdateDefaultProducts(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	binID, err := paramID(ctx, "binID")
	if err != nil {
		return err
	}
	var input defaultProductsInput
	if err := bindJSON(ctx, &input); err != nil {
		return err
	}
	bin, err := c.bins.UpdateDefaultProductCodes(ctx.UserContext(), warehouseID, binID, input.DefaultProductCodes)
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Default products updated successfully", bin)
}

func (c *BinController) DeleteBin(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	binID, err := paramID(ctx, "binID")
	if err != nil {
		return err
	}
	if err := c.bins.DeleteBin(ctx.UserContext(), warehouseID, binID); err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Bin deleted successfully", nil)
}

func (c *BinController) UploadBins(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	records, total, err := c.uploader.records(ctx, upload.KindBin)
	if err != nil {
		return err
	}
	rows, rowErrs := upload.BinRows(records)
	if len(rowErrs) > 0 {
		return c.uploader.rejected(upload.KindBin, total, rowErrs)
	}

	result, err := c.bins.ImportBins(ctx.UserContext(), warehouseID, rows)
	if err != nil {
		return err
	}
	c.uploader.accepted(upload.KindBin, len(rows))
	return ok(ctx, fiber.StatusOK, "Bins uploaded successfully", result)
}
