package services

import (
	"context"
	"testing"
	"time"

	"github.com/Zmley/warehouse-admin-sub001/config"
	"github.com/Zmley/warehouse-admin-sub001/database"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory database with every table migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite",
		Name:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

type fixture struct {
	t         *testing.T
	ctx       context.Context
	db        *gorm.DB
	warehouse models.Warehouse
	admin     models.Account
	picker    models.Account
	logs      *LogService
	bins      *BinService
	inventory *InventoryService
	tasks     *TaskService
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	f := &fixture{t: t, ctx: context.Background(), db: db}

	f.warehouse = models.Warehouse{WarehouseCode: "MAIN"}
	require.NoError(t, db.Create(&f.warehouse).Error)
	f.admin = models.Account{Email: "admin@example.com", Password: "x", Role: models.RoleAdmin, WarehouseID: f.warehouse.WarehouseID.Ptr()}
	require.NoError(t, db.Create(&f.admin).Error)
	f.picker = models.Account{Email: "picker@example.com", Password: "x", Role: models.RolePicker, WarehouseID: f.warehouse.WarehouseID.Ptr()}
	require.NoError(t, db.Create(&f.picker).Error)

	f.logs = NewLogService(db, 30*time.Minute)
	f.bins = NewBinService(db)
	f.inventory = NewInventoryService(db, f.logs, nil)
	f.tasks = NewTaskService(db, f.logs, nil)
	return f
}

func (f *fixture) wid() types.SnowflakeID {
	return f.warehouse.WarehouseID
}

func (f *fixture) actor() Actor {
	return Actor{AccountID: f.admin.AccountID, WarehouseID: f.wid()}
}

func (f *fixture) bin(code string, binType models.BinType) *models.Bin {
	f.t.Helper()
	bin, err := f.bins.CreateBin(f.ctx, f.wid(), CreateBinInput{BinCode: code, Type: binType})
	require.NoError(f.t, err)
	return bin
}

func (f *fixture) stock(bin *models.Bin, productCode string, qty int) {
	f.t.Helper()
	_, err := f.inventory.UpsertQuantity(f.ctx, bin.BinID, productCode, qty)
	require.NoError(f.t, err)
}

// quantity returns the stock of productCode in bin, 0 when there is no record.
func (f *fixture) quantity(bin *models.Bin, productCode string) int {
	f.t.Helper()
	var inv models.Inventory
	err := f.db.Where("bin_id = ? AND product_code = ?", bin.BinID, productCode).First(&inv).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(f.t, err)
	return inv.Quantity
}

func (f *fixture) countTasks() int64 {
	var n int64
	require.NoError(f.t, f.db.Model(&models.Task{}).Count(&n).Error)
	return n
}

func (f *fixture) createTask(source, destination, productCode string) (*models.Task, error) {
	return f.tasks.CreateTask(f.ctx, CreateTaskInput{
		WarehouseID:        f.wid(),
		CreatorID:          f.admin.AccountID,
		SourceBinCode:      source,
		DestinationBinCode: destination,
		ProductCode:        productCode,
	})
}
