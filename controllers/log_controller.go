package controllers

import (
	"strconv"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/Zmley/warehouse-admin-sub001/repositories"
	"github.com/Zmley/warehouse-admin-sub001/services"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/gofiber/fiber/v2"
)

type LogController struct {
	logs *services.LogService
}

func NewLogController(logs *services.LogService) *LogController {
	return &LogController{logs: logs}
}

// GetSessions lists activity sessions; ?accountID= and ?open=true narrow it.
func (c *LogController) GetSessions(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}

	var filter repositories.SessionFilter
	if raw := ctx.Query("accountID"); raw != "" {
		accountID, err := types.ParseSnowflakeID(raw)
		if err != nil {
			return apperror.Validation("Invalid accountID")
		}
		filter.AccountID = &accountID
	}
	if raw := ctx.Query("open"); raw != "" {
		open, err := strconv.ParseBool(raw)
		if err != nil {
			return apperror.Validation("Invalid open flag")
		}
		filter.OpenOnly = open
	}

	sessions, err := c.logs.ListSessions(ctx.UserContext(), warehouseID, filter)
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Sessions retrieved successfully", sessions)
}

func (c *LogController) GetSession(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	session, err := c.logs.GetSession(ctx.UserContext(), warehouseID, ctx.Params("sessionID"))
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Session retrieved successfully", session)
}
