package service

import (
	"sync"
	"testing"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSaleUpdatesEverySide(t *testing.T) {
	env := newTestEnv(t)
	svc := env.salesService()

	item := env.seedItem(t, "Flag Beer", 24, 6, 350, 600)
	seller := env.seedStaff(t, "Awa", model.RoleBartender, true)
	table := env.seedTable(t, "T1", model.TableAvailable)

	require.NoError(t, env.cash.SaveBalance(&model.CashBalance{InitialAmount: 50000, CurrentAmount: 50000}))

	sale, err := svc.RecordSale(&SaleRequest{
		ItemID:   item.ID,
		Quantity: 20,
		SellerID: seller.ID,
		TableID:  &table.ID,
	})
	require.NoError(t, err)

	// Sale record: price snapshotted from the item
	assert.Equal(t, int64(600), sale.UnitPrice)
	assert.Equal(t, int64(12000), sale.Total)
	assert.Equal(t, "Flag Beer", sale.ItemName)
	assert.Equal(t, "Awa", sale.SellerName)

	// Stock decremented
	got, err := env.items.FindByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
	assert.Equal(t, model.StockLow, got.Level())

	// Cash: income transaction linked to the sale, balance moved
	tx, err := env.cash.FindTransactionBySale(sale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CashIncome, tx.Type)
	assert.Equal(t, int64(12000), tx.Amount)

	balance, err := env.cash.GetBalance()
	require.NoError(t, err)
	assert.Equal(t, int64(62000), balance.CurrentAmount)

	// Table occupied
	seated, err := env.tables.FindByID(table.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TableOccupied, seated.Status)

	// Stock adjustment landed in history
	entries, err := env.history.FindByItem(item.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionStockAdjusted, entries[0].Action)
	assert.EqualValues(t, 24, entries[0].Changes["quantity"].From)
	assert.EqualValues(t, 4, entries[0].Changes["quantity"].To)
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	svc := env.salesService()

	item := env.seedItem(t, "Gin", 2, 1, 4000, 7000)
	seller := env.seedStaff(t, "Marc", model.RoleBartender, true)

	_, err := svc.RecordSale(&SaleRequest{ItemID: item.ID, Quantity: 3, SellerID: seller.ID})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing moved
	got, _ := env.items.FindByID(item.ID)
	assert.Equal(t, 2, got.Quantity)
	sales, _ := env.sales.FindAll()
	assert.Empty(t, sales)
}

func TestRecordSaleInactiveSeller(t *testing.T) {
	env := newTestEnv(t)
	svc := env.salesService()

	item := env.seedItem(t, "Gin", 10, 1, 4000, 7000)
	seller := env.seedStaff(t, "Marc", model.RoleBartender, false)

	_, err := svc.RecordSale(&SaleRequest{ItemID: item.ID, Quantity: 1, SellerID: seller.ID})
	assert.ErrorIs(t, err, ErrSellerInactive)
}

func TestRecordSaleUnknownItem(t *testing.T) {
	env := newTestEnv(t)
	svc := env.salesService()
	seller := env.seedStaff(t, "Marc", model.RoleBartender, true)

	_, err := svc.RecordSale(&SaleRequest{ItemID: uuid.New(), Quantity: 1, SellerID: seller.ID})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteSaleReversesEverything(t *testing.T) {
	env := newTestEnv(t)
	svc := env.salesService()

	item := env.seedItem(t, "Whisky", 12, 2, 8000, 15000)
	seller := env.seedStaff(t, "Awa", model.RoleBartender, true)
	table := env.seedTable(t, "T2", model.TableAvailable)
	require.NoError(t, env.cash.SaveBalance(&model.CashBalance{InitialAmount: 10000, CurrentAmount: 10000}))

	sale, err := svc.RecordSale(&SaleRequest{ItemID: item.ID, Quantity: 2, SellerID: seller.ID, TableID: &table.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSale(sale.ID, "Gérant"))

	// Stock restored
	got, _ := env.items.FindByID(item.ID)
	assert.Equal(t, 12, got.Quantity)

	// Cash transaction gone, balance back to the float
	_, err = env.cash.FindTransactionBySale(sale.ID)
	assert.Error(t, err)
	balance, _ := env.cash.GetBalance()
	assert.Equal(t, int64(10000), balance.CurrentAmount)

	// Table freed, record gone
	freed, _ := env.tables.FindByID(table.ID)
	assert.Equal(t, model.TableAvailable, freed.Status)
	_, err = svc.GetSale(sale.ID)
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestDeleteSaleKeepsTableWhenOthersRemain(t *testing.T) {
	env := newTestEnv(t)
	svc := env.salesService()

	item := env.seedItem(t, "Soda", 50, 5, 200, 500)
	seller := env.seedStaff(t, "Awa", model.RoleBartender, true)
	table := env.seedTable(t, "T3", model.TableAvailable)

	first, err := svc.RecordSale(&SaleRequest{ItemID: item.ID, Quantity: 1, SellerID: seller.ID, TableID: &table.ID})
	require.NoError(t, err)
	_, err = svc.RecordSale(&SaleRequest{ItemID: item.ID, Quantity: 2, SellerID: seller.ID, TableID: &table.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSale(first.ID, "Gérant"))

	still, _ := env.tables.FindByID(table.ID)
	assert.Equal(t, model.TableOccupied, still.Status)
}

func TestDeleteSaleUnknown(t *testing.T) {
	env := newTestEnv(t)
	svc := env.salesService()

	err := svc.DeleteSale(uuid.New(), "Gérant")
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestConcurrentSalesAndTransactionsKeepBalanceExact(t *testing.T) {
	env := newTestEnv(t)
	salesSvc := env.salesService()
	cashSvc := env.cashService()

	const n = 50

	item := env.seedItem(t, "Flag Beer", 10*n, 5, 50, 100)
	seller := env.seedStaff(t, "Awa", model.RoleBartender, true)
	require.NoError(t, env.cash.SaveBalance(&model.CashBalance{InitialAmount: 0, CurrentAmount: 0}))

	errs := make(chan error, 2*n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := salesSvc.RecordSale(&SaleRequest{ItemID: item.ID, Quantity: 1, SellerID: seller.ID})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := cashSvc.AddTransaction(model.CashIncome, 100, "supplier refund")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// Every one of the 2n writes of 100 must land: no read-modify-write
	// cycle may overwrite another.
	summary, err := cashSvc.Summary()
	require.NoError(t, err)
	assert.Equal(t, int64(2*n*100), summary.Balance.CurrentAmount)
	assert.Equal(t, summary.Balance.InitialAmount+summary.TotalIncome-summary.TotalExpense, summary.Balance.CurrentAmount)

	got, err := env.items.FindByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 9*n, got.Quantity)
}
