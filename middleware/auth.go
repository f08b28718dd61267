package middleware

import (
	"strings"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token and stores the caller in the request locals.
func RequireAuth(issuer *auth.TokenIssuer) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// Ambil token dari "Bearer <token>"
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperror.Unauthorized("Missing Authorization header")
		}
		tokenParts := strings.Fields(authHeader)
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "bearer") {
			return apperror.Unauthorized("Invalid Authorization header format")
		}

		principal, err := issuer.Parse(tokenParts[1])
		if err != nil {
			return err
		}
		auth.SetPrincipal(ctx, principal)
		return ctx.Next()
	}
}

// RequireRole rejects callers whose role is not listed.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		principal, err := auth.PrincipalFrom(ctx)
		if err != nil {
			return err
		}
		if !principal.HasRole(roles...) {
			return apperror.Forbidden("Forbidden: You do not have permission")
		}
		return ctx.Next()
	}
}
