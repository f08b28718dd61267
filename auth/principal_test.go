package auth

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scopeApp answers with the resolved warehouse id or the error kind.
func scopeApp(p *Principal) *fiber.App {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if p != nil {
			SetPrincipal(c, *p)
		}
		_, warehouseID, err := Scope(c)
		if err != nil {
			return c.Status(apperror.KindOf(err).Status()).SendString(err.Error())
		}
		return c.SendString(warehouseID.String())
	})
	return app
}

func doScope(t *testing.T, app *fiber.App, header string) (int, string) {
	req := httptest.NewRequest("GET", "/", nil)
	if header != "" {
		req.Header.Set(WarehouseHeader, header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestScope(t *testing.T) {
	own := types.SnowflakeID(5)

	status, body := doScope(t, scopeApp(&Principal{AccountID: 1, Role: models.RolePicker, WarehouseID: &own}), "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "5", body)

	// pickers cannot switch warehouse
	status, body = doScope(t, scopeApp(&Principal{AccountID: 1, Role: models.RolePicker, WarehouseID: &own}), "9")
	assert.Equal(t, 200, status)
	assert.Equal(t, "5", body)

	status, body = doScope(t, scopeApp(&Principal{AccountID: 1, Role: models.RoleAdmin, WarehouseID: &own}), "9")
	assert.Equal(t, 200, status)
	assert.Equal(t, "9", body)

	status, body = doScope(t, scopeApp(&Principal{AccountID: 1, Role: models.RoleAdmin}), "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "warehouseID is required", body)

	status, _ = doScope(t, scopeApp(&Principal{AccountID: 1, Role: models.RoleAdmin}), "abc")
	assert.Equal(t, 400, status)

	status, _ = doScope(t, scopeApp(nil), "")
	assert.Equal(t, 401, status)
}

func TestPrincipal_HasRole(t *testing.T) {
	p := Principal{Role: models.RoleTransportWorker}
	assert.True(t, p.HasRole(models.RoleAdmin, models.RoleTransportWorker))
	assert.False(t, p.HasRole(models.RoleAdmin))
}
