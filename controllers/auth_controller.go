package controllers

import (
	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/Zmley/warehouse-admin-sub001/services"
	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	auth   *services.AuthService
	issuer *auth.TokenIssuer
}

func NewAuthController(authService *services.AuthService, issuer *auth.TokenIssuer) *AuthController {
	return &AuthController{auth: authService, issuer: issuer}
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var input loginInput
	if err := bindJSON(ctx, &input); err != nil {
		return err
	}

	token, account, err := c.auth.Login(ctx.UserContext(), input.Email, input.Password)
	if err != nil {
		return err
	}

	return ok(ctx, fiber.StatusOK, "Login successful", fiber.Map{
		"token":     token,
		"expiresIn": int(c.issuer.TTL().Seconds()),
		"account":   account,
	})
}

func (c *AuthController) Me(ctx *fiber.Ctx) error {
	principal, err := auth.PrincipalFrom(ctx)
	if err != nil {
		return err
	}
	account, err := c.auth.Me(ctx.UserContext(), principal.AccountID)
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Account retrieved successfully", account)
}
