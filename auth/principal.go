package auth

import (
	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slices"
)

const principalKey = "principal"

// WarehouseHeader lets an admin act on a warehouse other than their own.
const WarehouseHeader = "X-Warehouse-ID"

// Principal is the authenticated caller of one request.
type Principal struct {
	AccountID   types.SnowflakeID
	Role        models.Role
	WarehouseID *types.SnowflakeID
}

func (p Principal) HasRole(roles ...models.Role) bool {
	return slices.Contains(roles, p.Role)
}

// Warehouse returns the warehouse the caller acts on.
func (p Principal) Warehouse() (types.SnowflakeID, error) {
	if p.WarehouseID == nil || p.WarehouseID.IsZero() {
		return 0, apperror.Validation("warehouseID is required")
	}
	return *p.WarehouseID, nil
}

func SetPrincipal(c *fiber.Ctx, p Principal) {
	c.Locals(principalKey, p)
}

// PrincipalFrom reads the principal stored by the auth middleware.
func PrincipalFrom(c *fiber.Ctx) (Principal, error) {
	p, ok := c.Locals(principalKey).(Principal)
	if !ok {
		return Principal{}, apperror.Unauthorized("Unauthorized")
	}
	return p, nil
}

// Scope resolves the caller and the warehouse the request acts on. Admins
// may override their warehouse with the X-Warehouse-ID header.
func Scope(c *fiber.Ctx) (Principal, types.SnowflakeID, error) {
	p, err := PrincipalFrom(c)
	if err != nil {
		return p, 0, err
	}

	if raw := c.Get(WarehouseHeader); raw != "" && p.Role == models.RoleAdmin {
		id, err := types.ParseSnowflakeID(raw)
		if err != nil {
			return p, 0, apperror.Validation("invalid %s header", WarehouseHeader)
		}
		return p, id, nil
	}

	warehouseID, err := p.Warehouse()
	return p, warehouseID, err
}
