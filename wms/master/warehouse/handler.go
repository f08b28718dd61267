package warehouse

import (
	"errors"
	"strings"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/repositories"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WarehouseHandler struct {
	repo *repositories.WarehouseRepository
}

func NewWarehouseHandler(db *gorm.DB) *WarehouseHandler {
	return &WarehouseHandler{repo: repositories.NewWarehouseRepository(db)}
}

type warehouseInput struct {
	WarehouseCode string `json:"warehouseCode"`
}

func (in warehouseInput) code() (string, error) {
	code := strings.TrimSpace(in.WarehouseCode)
	if code == "" {
		return "", apperror.Validation("warehouseCode is required")
	}
	return code, nil
}

func (h *WarehouseHandler) GetAllWarehouses(ctx *fiber.Ctx) error {
	warehouses, err := h.repo.GetAll(ctx.UserContext())
	if err != nil {
		return err
	}
	if warehouses == nil {
		warehouses = []models.Warehouse{}
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Warehouses retrieved successfully",
		"data":    warehouses,
	})
}

func (h *WarehouseHandler) GetWarehouseByID(ctx *fiber.Ctx) error {
	id, err := types.ParseSnowflakeID(ctx.Params("warehouseID"))
	if err != nil {
		return apperror.Validation("Invalid warehouseID")
	}
	warehouse, err := h.repo.GetByID(ctx.UserContext(), id)
	if err != nil {
		return apperror.FromGorm(err, "Warehouse")
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Warehouse retrieved successfully",
		"data":    warehouse,
	})
}

func (h *WarehouseHandler) CreateWarehouse(ctx *fiber.Ctx) error {
	var input warehouseInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperror.Validation("Invalid request body")
	}
	code, err := input.code()
	if err != nil {
		return err
	}

	if _, err := h.repo.GetByCode(ctx.UserContext(), code); err == nil {
		return apperror.Conflict("Warehouse %s already exists", code)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	warehouse := models.Warehouse{WarehouseCode: code}
	if err := h.repo.Create(ctx.UserContext(), &warehouse); err != nil {
		return apperror.FromGorm(err, "Warehouse")
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Warehouse created successfully",
		"data":    warehouse,
	})
}

func (h *WarehouseHandler) UpdateWarehouse(ctx *fiber.Ctx) error {
	id, err := types.ParseSnowflakeID(ctx.Params("warehouseID"))
	if err != nil {
		return apperror.Validation("Invalid warehouseID")
	}
	var input warehouseInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperror.Validation("Invalid request body")
	}
	code, err := input.code()
	if err != nil {
		return err
	}

	warehouse, err := h.repo.GetByID(ctx.UserContext(), id)
	if err != nil {
		return apperror.FromGorm(err, "Warehouse")
	}
	if existing, err := h.repo.GetByCode(ctx.UserContext(), code); err == nil && existing.WarehouseID != id {
		return apperror.Conflict("Warehouse %s already exists", code)
	}

	warehouse.WarehouseCode = code
	if err := h.repo.Update(ctx.UserContext(), warehouse); err != nil {
		return apperror.FromGorm(err, "Warehouse")
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Warehouse updated successfully",
		"data":    warehouse,
	})
}

// DeleteWarehouse menolak gudang yang masih punya bin atau akun
func (h *WarehouseHandler) DeleteWarehouse(ctx *fiber.Ctx) error {
	id, err := types.ParseSnowflakeID(ctx.Params("warehouseID"))
	if err != nil {
		return apperror.Validation("Invalid warehouseID")
	}
	inUse, err := h.repo.InUse(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	if inUse {
		return apperror.Conflict("Warehouse still has bins or accounts")
	}

	deleted, err := h.repo.Delete(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("Warehouse not found")
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Warehouse deleted successfully",
	})
}
