package service

import (
	"testing"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItemRejectsDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	svc := env.inventoryService()

	require.NoError(t, svc.CreateItem(&model.InventoryItem{Name: "Flag Beer", Quantity: 10}, "Gérant"))

	err := svc.CreateItem(&model.InventoryItem{Name: "flag beer", Quantity: 5}, "Gérant")
	assert.ErrorIs(t, err, ErrDuplicateItem)
}

func TestCreateItemWritesHistory(t *testing.T) {
	env := newTestEnv(t)
	svc := env.inventoryService()

	item := &model.InventoryItem{Name: "Rum", Quantity: 6}
	require.NoError(t, svc.CreateItem(item, "Gérant"))

	entries, err := svc.ItemHistory(item.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionCreated, entries[0].Action)
	assert.Equal(t, "Gérant", entries[0].Actor)
}

func TestUpdateItemQuantityChangeIsStockAdjustment(t *testing.T) {
	env := newTestEnv(t)
	svc := env.inventoryService()
	item := env.seedItem(t, "Vodka", 10, 3, 5000, 9000)

	upd := *item
	upd.Quantity = 15
	_, err := svc.UpdateItem(item.ID, &upd, "Awa")
	require.NoError(t, err)

	entries, err := svc.ItemHistory(item.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionStockAdjusted, entries[0].Action)
	assert.EqualValues(t, 10, entries[0].Changes["quantity"].From)
	assert.EqualValues(t, 15, entries[0].Changes["quantity"].To)
}

func TestUpdateItemPriceChangeIsPlainUpdate(t *testing.T) {
	env := newTestEnv(t)
	svc := env.inventoryService()
	item := env.seedItem(t, "Vodka", 10, 3, 5000, 9000)

	upd := *item
	upd.SalePrice = 9500
	_, err := svc.UpdateItem(item.ID, &upd, "Awa")
	require.NoError(t, err)

	entries, _ := svc.ItemHistory(item.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionUpdated, entries[0].Action)
	change := entries[0].Changes["sale_price"]
	assert.EqualValues(t, 9000, change.From)
	assert.EqualValues(t, 9500, change.To)
}

func TestUpdateItemNoChangesNoHistory(t *testing.T) {
	env := newTestEnv(t)
	svc := env.inventoryService()
	item := env.seedItem(t, "Vodka", 10, 3, 5000, 9000)

	upd := *item
	_, err := svc.UpdateItem(item.ID, &upd, "Awa")
	require.NoError(t, err)

	entries, _ := svc.ItemHistory(item.ID)
	assert.Empty(t, entries)
}

func TestRestock(t *testing.T) {
	env := newTestEnv(t)
	svc := env.inventoryService()
	item := env.seedItem(t, "Tonic", 2, 5, 300, 700)

	got, err := svc.Restock(item.ID, 24, "weekly delivery", "Gérant")
	require.NoError(t, err)
	assert.Equal(t, 26, got.Quantity)

	_, err = svc.Restock(item.ID, 0, "", "Gérant")
	assert.ErrorIs(t, err, ErrBadQuantity)

	entries, _ := svc.ItemHistory(item.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, "weekly delivery", entries[0].Reason)
}

func TestReportDamageClampsAtZero(t *testing.T) {
	env := newTestEnv(t)
	svc := env.inventoryService()
	item := env.seedItem(t, "Wine", 3, 2, 2500, 5000)

	got, err := svc.ReportDamage(item.ID, 10, "dropped crate", "Awa")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
	assert.Equal(t, model.StockOut, got.Level())

	entries, _ := svc.ItemHistory(item.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionDamageReported, entries[0].Action)
	assert.EqualValues(t, 3, entries[0].Changes["quantity"].From)
	assert.EqualValues(t, 0, entries[0].Changes["quantity"].To)
}

func TestLowStockItems(t *testing.T) {
	env := newTestEnv(t)
	svc := env.inventoryService()

	env.seedItem(t, "Plenty", 20, 5, 100, 200)
	atThreshold := env.seedItem(t, "AtThreshold", 5, 5, 100, 200)
	empty := env.seedItem(t, "Empty", 0, 5, 100, 200)

	low, err := svc.LowStockItems()
	require.NoError(t, err)
	require.Len(t, low, 2)

	names := []string{low[0].Name, low[1].Name}
	assert.Contains(t, names, atThreshold.Name)
	assert.Contains(t, names, empty.Name)
}

func TestStockLevelBoundaries(t *testing.T) {
	item := model.InventoryItem{Quantity: 0, Threshold: 5}
	assert.Equal(t, model.StockOut, item.Level())

	item.Quantity = 5
	assert.Equal(t, model.StockLow, item.Level())

	item.Quantity = 6
	assert.Equal(t, model.StockOK, item.Level())

	// Zero threshold: any stock counts as in stock
	item = model.InventoryItem{Quantity: 1, Threshold: 0}
	assert.Equal(t, model.StockOK, item.Level())
}

func TestDeleteItemRecordsDeletion(t *testing.T) {
	env := newTestEnv(t)
	svc := env.inventoryService()
	item := env.seedItem(t, "Cola", 10, 2, 150, 400)

	require.NoError(t, svc.DeleteItem(item.ID, "Gérant"))

	_, err := svc.GetItem(item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	entries, _ := svc.ItemHistory(item.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionDeleted, entries[0].Action)
}
