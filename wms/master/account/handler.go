package account

import (
	"errors"
	"strings"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/repositories"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type AccountHandler struct {
	accounts   *repositories.AccountRepository
	warehouses *repositories.WarehouseRepository
}

func NewAccountHandler(db *gorm.DB) *AccountHandler {
	return &AccountHandler{
		accounts:   repositories.NewAccountRepository(db),
		warehouses: repositories.NewWarehouseRepository(db),
	}
}

type createAccountInput struct {
	Email       string             `json:"email" validate:"required,email"`
	Password    string             `json:"password" validate:"required,min=8"`
	FirstName   string             `json:"firstName"`
	LastName    string             `json:"lastName"`
	Role        models.Role        `json:"role" validate:"required"`
	WarehouseID *types.SnowflakeID `json:"warehouseID"`
}

// updateAccountInput leaves the e-mail fixed; an empty password keeps the
// current one.
type updateAccountInput struct {
	Password    string             `json:"password" validate:"omitempty,min=8"`
	FirstName   string             `json:"firstName"`
	LastName    string             `json:"lastName"`
	Role        models.Role        `json:"role" validate:"required"`
	WarehouseID *types.SnowflakeID `json:"warehouseID"`
}

func (h *AccountHandler) parse(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return apperror.Validation("%s", err.Error())
	}
	return nil
}

// checkAssignment validates the role and the warehouse it is bound to.
// Every role except ADMIN must belong to a warehouse.
func (h *AccountHandler) checkAssignment(ctx *fiber.Ctx, role models.Role, warehouseID *types.SnowflakeID) error {
	if !role.Valid() {
		return apperror.Validation("Invalid role %s", role)
	}
	if warehouseID == nil || warehouseID.IsZero() {
		if role != models.RoleAdmin {
			return apperror.Validation("warehouseID is required for role %s", role)
		}
		return nil
	}
	if _, err := h.warehouses.GetByID(ctx.UserContext(), *warehouseID); err != nil {
		return apperror.FromGorm(err, "Warehouse")
	}
	return nil
}

func (h *AccountHandler) GetAllAccounts(ctx *fiber.Ctx) error {
	var warehouseID *types.SnowflakeID
	if raw := ctx.Query("warehouseID"); raw != "" {
		id, err := types.ParseSnowflakeID(raw)
		if err != nil {
			return apperror.Validation("Invalid warehouseID")
		}
		warehouseID = &id
	}
	accounts, err := h.accounts.GetAll(ctx.UserContext(), warehouseID)
	if err != nil {
		return err
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Accounts retrieved successfully",
		"data":    accounts,
	})
}

func (h *AccountHandler) GetAccountByID(ctx *fiber.Ctx) error {
	id, err := types.ParseSnowflakeID(ctx.Params("accountID"))
	if err != nil {
		return apperror.Validation("Invalid accountID")
	}
	account, err := h.accounts.GetByID(ctx.UserContext(), id)
	if err != nil {
		return apperror.FromGorm(err, "Account")
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Account retrieved successfully",
		"data":    account,
	})
}

func (h *AccountHandler) CreateAccount(ctx *fiber.Ctx) error {
	var input createAccountInput
	if err := h.parse(ctx, &input); err != nil {
		return err
	}
	if err := h.checkAssignment(ctx, input.Role, input.WarehouseID); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := h.accounts.GetByEmail(ctx.UserContext(), email); err == nil {
		return apperror.Conflict("Email %s is already registered", email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// Hash password
	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return apperror.Internal(err, "Failed to hash password")
	}

	account := models.Account{
		Email:       email,
		Password:    hashed,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Role:        input.Role,
		WarehouseID: input.WarehouseID,
	}
	if err := h.accounts.Create(ctx.UserContext(), &account); err != nil {
		return apperror.FromGorm(err, "Account")
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Account created successfully",
		"data":    account,
	})
}

func (h *AccountHandler) UpdateAccount(ctx *fiber.Ctx) error {
	id, err := types.ParseSnowflakeID(ctx.Params("accountID"))
	if err != nil {
		return apperror.Validation("Invalid accountID")
	}
	var input updateAccountInput
	if err := h.parse(ctx, &input); err != nil {
		return err
	}
	if err := h.checkAssignment(ctx, input.Role, input.WarehouseID); err != nil {
		return err
	}

	account, err := h.accounts.GetByID(ctx.UserContext(), id)
	if err != nil {
		return apperror.FromGorm(err, "Account")
	}
	account.FirstName = input.FirstName
	account.LastName = input.LastName
	account.Role = input.Role
	account.WarehouseID = input.WarehouseID
	account.Warehouse = nil
	if input.Password != "" {
		hashed, err := auth.HashPassword(input.Password)
		if err != nil {
			return apperror.Internal(err, "Failed to hash password")
		}
		account.Password = hashed
	}

	if err := h.accounts.Update(ctx.UserContext(), account); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Account updated successfully",
		"data":    account,
	})
}

func (h *AccountHandler) DeleteAccount(ctx *fiber.Ctx) error {
	id, err := types.ParseSnowflakeID(ctx.Params("accountID"))
	if err != nil {
		return apperror.Validation("Invalid accountID")
	}
	principal, err := auth.PrincipalFrom(ctx)
	if err != nil {
		return err
	}
	if principal.AccountID == id {
		return apperror.Conflict("You cannot delete your own account")
	}

	deleted, err := h.accounts.Delete(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("Account not found")
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Account deleted successfully",
	})
}
