package services

import (
	"testing"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinService_ResolveBinByCode(t *testing.T) {
	f := newFixture(t)
	a1 := f.bin("A1", models.BinTypeInventory)

	bin, err := f.bins.ResolveBinByCode(f.ctx, f.wid(), "A1")
	require.NoError(t, err)
	assert.Equal(t, a1.BinID, bin.BinID)

	_, err = f.bins.ResolveBinByCode(f.ctx, f.wid(), "ZZ")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.bins.ResolveBinByCode(f.ctx, 0, "A1")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.EqualError(t, err, "warehouseID is required")
}

func TestBinService_CodeIsScopedToWarehouse(t *testing.T) {
	f := newFixture(t)
	f.bin("A1", models.BinTypeInventory)

	other := models.Warehouse{WarehouseCode: "EAST"}
	require.NoError(t, f.db.Create(&other).Error)

	_, err := f.bins.ResolveBinByCode(f.ctx, other.WarehouseID, "A1")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	// the same code may exist once per warehouse
	_, err = f.bins.CreateBin(f.ctx, other.WarehouseID, CreateBinInput{BinCode: "A1"})
	require.NoError(t, err)

	_, err = f.bins.CreateBin(f.ctx, f.wid(), CreateBinInput{BinCode: "A1"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestBinService_Listings(t *testing.T) {
	f := newFixture(t)
	a1 := f.bin("A1", models.BinTypeInventory)
	a2 := f.bin("A2", models.BinTypeInventory)
	p1 := f.bin("P1", models.BinTypePickUp)
	f.stock(a1, "SKU1", 3)
	f.stock(a2, "SKU1", 8)
	f.stock(p1, "SKU1", 1)
	f.stock(a1, "SKU2", 5)

	codes, err := f.bins.ListBinCodes(f.ctx, f.wid())
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2", "P1"}, codes)

	stock, err := f.bins.ListBinCodesHoldingProduct(f.ctx, f.wid(), "SKU1")
	require.NoError(t, err)
	require.Len(t, stock, 3)
	assert.Equal(t, "A2", stock[0].BinCode)
	assert.Equal(t, 8, stock[0].Quantity)
	assert.Equal(t, "A1", stock[1].BinCode)
	assert.Equal(t, "P1", stock[2].BinCode)

	empty, err := f.bins.ListBinCodesHoldingProduct(f.ctx, f.wid(), "NOPE")
	require.NoError(t, err)
	assert.Empty(t, empty)

	pickUps, err := f.bins.ListBins(f.ctx, f.wid(), models.BinTypePickUp)
	require.NoError(t, err)
	require.Len(t, pickUps, 1)
	assert.Equal(t, "P1", pickUps[0].BinCode)
}

func TestBinService_UpdateDefaultProductCodes(t *testing.T) {
	f := newFixture(t)
	a1 := f.bin("A1", models.BinTypeInventory)

	bin, err := f.bins.UpdateDefaultProductCodes(f.ctx, f.wid(), a1.BinID, []string{" SKU1 ", "SKU2", "SKU1", ""})
	require.NoError(t, err)
	require.NotNil(t, bin.DefaultProductCodes)
	assert.Equal(t, "SKU1,SKU2", *bin.DefaultProductCodes)

	resolved, err := f.bins.ResolveBinByCode(f.ctx, f.wid(), "A1")
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU1", "SKU2"}, resolved.DefaultProducts())

	bin, err = f.bins.UpdateDefaultProductCodes(f.ctx, f.wid(), a1.BinID, nil)
	require.NoError(t, err)
	assert.Nil(t, bin.DefaultProductCodes)

	_, err = f.bins.UpdateDefaultProductCodes(f.ctx, f.wid(), 12345, []string{"SKU1"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestBinService_DeleteBin(t *testing.T) {
	f := newFixture(t)
	a1 := f.bin("A1", models.BinTypeInventory)
	empty := f.bin("E1", models.BinTypeCart)
	f.stock(a1, "SKU1", 2)

	err := f.bins.DeleteBin(f.ctx, f.wid(), a1.BinID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	require.NoError(t, f.bins.DeleteBin(f.ctx, f.wid(), empty.BinID))
	_, err = f.bins.ResolveBinByCode(f.ctx, f.wid(), "E1")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = f.bins.DeleteBin(f.ctx, f.wid(), empty.BinID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestBinService_ImportBins(t *testing.T) {
	f := newFixture(t)
	f.bin("A1", models.BinTypeInventory)

	result, err := f.bins.ImportBins(f.ctx, f.wid(), []upload.BinRow{
		{Row: 2, BinCode: "A1", Type: models.BinTypeAisle, DefaultProductCodes: []string{"SKU9"}},
		{Row: 3, BinCode: "C1", Type: models.BinTypeCart},
	})
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Rows: 2, Created: 1, Updated: 1}, result)

	a1, err := f.bins.ResolveBinByCode(f.ctx, f.wid(), "A1")
	require.NoError(t, err)
	assert.Equal(t, models.BinTypeAisle, a1.Type)
	assert.Equal(t, []string{"SKU9"}, a1.DefaultProducts())

	c1, err := f.bins.ResolveBinByCode(f.ctx, f.wid(), "C1")
	require.NoError(t, err)
	assert.Equal(t, models.BinTypeCart, c1.Type)
}

func TestBinService_UnknownWarehouse(t *testing.T) {
	f := newFixture(t)
	phantom := f.wid() + 1

	_, err := f.bins.CreateBin(f.ctx, phantom, CreateBinInput{BinCode: "A1"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Contains(t, err.Error(), "Warehouse not found")

	_, err = f.bins.ImportBins(f.ctx, phantom, []upload.BinRow{{Row: 2, BinCode: "A1", Type: models.BinTypeInventory}})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	var n int64
	require.NoError(t, f.db.Model(&models.Bin{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}
