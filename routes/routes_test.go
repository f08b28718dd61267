package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/Zmley/warehouse-admin-sub001/config"
	"github.com/Zmley/warehouse-admin-sub001/database"
	"github.com/Zmley/warehouse-admin-sub001/metrics"
	"github.com/Zmley/warehouse-admin-sub001/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-secret"
)

type testServer struct {
	t   *testing.T
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dbCfg := config.DatabaseConfig{
		Driver: "sqlite",
		Name:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}
	db, err := database.Open(dbCfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))

	warehouse, err := database.SeedWarehouse(db, "MAIN")
	require.NoError(t, err)
	require.NoError(t, database.SeedAdmin(db, adminEmail, adminPassword, warehouse))

	cfg := &config.Config{
		App:       config.AppConfig{Env: "test", MainRoutes: "/api"},
		Database:  dbCfg,
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Scheduler: config.SchedulerConfig{SessionIdleTimeout: 30 * time.Minute},
		Upload:    config.UploadConfig{MaxFileSize: 1024 * 1024},
	}
	app := NewApp(Deps{
		Config:  cfg,
		DB:      db,
		Metrics: metrics.New(),
		Issuer:  auth.NewTokenIssuer("routes-test-secret-0123", time.Hour),
		Logs:    services.NewLogService(db, 30*time.Minute),
	})
	return &testServer{t: t, app: app}
}

func (s *testServer) do(req *http.Request) (int, map[string]interface{}) {
	s.t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	body := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func (s *testServer) call(method, path, token string, payload interface{}) (int, map[string]interface{}) {
	s.t.Helper()
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return s.do(req)
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	status, body := s.call(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, status, body)
	data := body["data"].(map[string]interface{})
	return data["token"].(string)
}

// seedStock creates bins A1 (inventory) and P1 (pick up) and puts 5 SKU1 in A1.
func (s *testServer) seedStock(token string) {
	s.t.Helper()
	status, body := s.call(http.MethodPost, "/api/bins", token, fiber.Map{"binCode": "A1", "type": "INVENTORY"})
	require.Equal(s.t, http.StatusCreated, status, body)
	status, body = s.call(http.MethodPost, "/api/bins", token, fiber.Map{"binCode": "P1", "type": "pick up"})
	require.Equal(s.t, http.StatusCreated, status, body)
	status, body = s.call(http.MethodPost, "/api/inventories", token, fiber.Map{"binCode": "A1", "productCode": "SKU1", "quantity": 5})
	require.Equal(s.t, http.StatusCreated, status, body)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body := s.call(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newTestServer(t)
	status, body := s.call(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": adminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid email or password", body["message"])

	status, body = s.call(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["errors"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	status, body := s.call(http.MethodGet, "/api/bins/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])

	status, _ = s.call(http.MethodGet, "/api/bins/", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	token := s.login(adminEmail, adminPassword)

	status, body := s.call(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, adminEmail, data["email"])
	assert.NotContains(t, data, "password")
}

func TestDeleteMissingInventory(t *testing.T) {
	s := newTestServer(t)
	token := s.login(adminEmail, adminPassword)

	status, body := s.call(http.MethodDelete, "/api/inventories/123456789", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, map[string]interface{}{"success": false, "message": "Inventory item not found"}, body)
}

func TestTaskFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login(adminEmail, adminPassword)
	s.seedStock(token)

	input := fiber.Map{"sourceBinCode": "A1", "destinationBinCode": "P1", "productCode": "SKU1"}
	status, task := s.call(http.MethodPost, "/api/tasks/createAsAdmin", token, input)
	require.Equal(t, http.StatusCreated, status, task)
	assert.Equal(t, "PENDING", task["status"])
	taskID := task["taskID"].(string)

	// A second PENDING task on the same bin is allowed.
	status, _ = s.call(http.MethodPost, "/api/tasks/createAsAdmin", token, input)
	require.Equal(t, http.StatusCreated, status)

	status, body := s.call(http.MethodPost, "/api/tasks/acceptTask/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "IN_PROCESS", body["task"].(map[string]interface{})["status"])

	status, body = s.call(http.MethodPost, "/api/tasks/createAsAdmin", token, input)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, services.MsgBinCommitted, body["message"])

	status, body = s.call(http.MethodPost, "/api/tasks/getTasks", token, fiber.Map{"status": []string{"IN_PROCESS"}})
	require.Equal(t, http.StatusOK, status)
	tasks := body["tasks"].([]interface{})
	require.Len(t, tasks, 1)
	view := tasks[0].(map[string]interface{})
	assert.Equal(t, "P1", view["destinationBinCode"])
	assert.Len(t, view["sourceBins"], 1)

	status, body = s.call(http.MethodPost, "/api/tasks/completeTask/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, status, body)

	status, body = s.call(http.MethodGet, "/api/inventories?binCode=P1", token, nil)
	require.Equal(t, http.StatusOK, status)
	records := body["data"].([]interface{})
	require.Len(t, records, 1)
	assert.Equal(t, float64(5), records[0].(map[string]interface{})["quantity"])

	status, body = s.call(http.MethodPost, "/api/tasks/cancelTask/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "CANCELED", body["task"].(map[string]interface{})["status"])

	status, body = s.call(http.MethodPost, "/api/tasks/acceptTask/"+taskID, token, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "cannot move task from CANCELED to IN_PROCESS", body["message"])

	status, body = s.call(http.MethodGet, "/api/logs/sessions", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)
}

func TestCreateAsAdmin_Errors(t *testing.T) {
	s := newTestServer(t)
	token := s.login(adminEmail, adminPassword)
	s.seedStock(token)

	status, body := s.call(http.MethodPost, "/api/tasks/createAsAdmin", token, fiber.Map{"sourceBinCode": "A1", "destinationBinCode": "NOPE", "productCode": "SKU1"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Bin NOPE not found", body["message"])

	status, body = s.call(http.MethodPost, "/api/tasks/createAsAdmin", token, fiber.Map{"sourceBinCode": "A1", "destinationBinCode": "P1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "productCode is required", body["message"])
}

func TestPickerCannotCreateAsAdmin(t *testing.T) {
	s := newTestServer(t)
	token := s.login(adminEmail, adminPassword)
	s.seedStock(token)

	_, me := s.call(http.MethodGet, "/api/auth/me", token, nil)
	warehouseID := me["data"].(map[string]interface{})["warehouseID"]

	status, body := s.call(http.MethodPost, "/api/accounts", token, fiber.Map{
		"email":       "Picker@Example.com",
		"password":    "picker-secret",
		"role":        "PICKER",
		"warehouseID": warehouseID,
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "picker@example.com", body["data"].(map[string]interface{})["email"])

	picker := s.login("picker@example.com", "picker-secret")
	status, body = s.call(http.MethodPost, "/api/tasks/createAsAdmin", picker, fiber.Map{"sourceBinCode": "A1", "destinationBinCode": "P1", "productCode": "SKU1"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Forbidden: You do not have permission", body["message"])

	status, body = s.call(http.MethodPost, "/api/tasks/createAsPicker", picker, fiber.Map{"destinationBinCode": "P1", "productCode": "SKU1"})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Nil(t, body["sourceBinID"])

	status, _ = s.call(http.MethodGet, "/api/accounts", picker, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestUploadAndExportInventory(t *testing.T) {
	s := newTestServer(t)
	token := s.login(adminEmail, adminPassword)
	s.seedStock(token)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Bin Code", "SKU", "Qty"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"A1", "SKU1", 2}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"P1", "SKU2", 4}))
	xlsx, err := f.WriteToBuffer()
	require.NoError(t, err)

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "stock.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/inventories/upload", &form)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	status, body := s.do(req)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, float64(2), body["data"].(map[string]interface{})["rows"])

	status, body = s.call(http.MethodGet, "/api/inventories?binCode=A1", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(7), body["data"].([]interface{})[0].(map[string]interface{})["quantity"])

	req = httptest.NewRequest(http.MethodGet, "/api/inventories/export", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")

	exported, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	rows, err := exported.GetRows("Inventory")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.call(http.MethodGet, "/health", "", nil)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "http_requests_total")
}
