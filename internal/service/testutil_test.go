package service

import (
	"sync"
	"testing"
	"time"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/repository"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/store"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/ws"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// testEnv wires every repository over a throwaway on-disk store, the
// way main wires the real thing.
type testEnv struct {
	mu         sync.Mutex
	store      *store.Store
	hub        *ws.Hub
	items      repository.InventoryRepository
	staff      repository.StaffRepository
	sales      repository.SaleRepository
	tables     repository.TableRepository
	cash       repository.CashRepository
	history    repository.HistoryRepository
	settings   repository.SettingsRepository
	categories repository.CategoryRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)

	hub := ws.NewHub()
	go hub.Run()

	return &testEnv{
		store:      st,
		hub:        hub,
		items:      repository.NewInventoryRepo(st),
		staff:      repository.NewStaffRepo(st),
		sales:      repository.NewSaleRepo(st),
		tables:     repository.NewTableRepo(st),
		cash:       repository.NewCashRepo(st),
		history:    repository.NewHistoryRepo(st),
		settings:   repository.NewSettingsRepo(st),
		categories: repository.NewCategoryRepo(st),
	}
}

func (e *testEnv) seedItem(t *testing.T, name string, qty, threshold int, purchase, sale int64) *model.InventoryItem {
	t.Helper()
	item := &model.InventoryItem{
		ID:            uuid.New(),
		Name:          name,
		Category:      "Drinks",
		Quantity:      qty,
		Threshold:     threshold,
		PurchasePrice: purchase,
		SalePrice:     sale,
		Unit:          "bottle",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, e.items.Insert(item))
	return item
}

func (e *testEnv) seedStaff(t *testing.T, name, role string, active bool) *model.StaffMember {
	t.Helper()
	member := &model.StaffMember{
		ID:        uuid.New(),
		Name:      name,
		Role:      role,
		IsActive:  active,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, member.SetPIN("1234"))
	require.NoError(t, e.staff.Insert(member))
	return member
}

func (e *testEnv) seedTable(t *testing.T, name string, status model.TableStatus) *model.Table {
	t.Helper()
	table := &model.Table{
		ID:        uuid.New(),
		Name:      name,
		Capacity:  4,
		Status:    status,
		UpdatedAt: time.Now(),
	}
	require.NoError(t, e.tables.Insert(table))
	return table
}

func (e *testEnv) salesService() SalesService {
	return NewSalesService(&e.mu, e.sales, e.items, e.staff, e.tables, e.cash, e.history, e.hub)
}

func (e *testEnv) inventoryService() InventoryService {
	return NewInventoryService(&e.mu, e.items, e.history, e.hub)
}

func (e *testEnv) cashService() CashService {
	return NewCashService(&e.mu, e.cash, e.hub)
}

func (e *testEnv) exportService() ExportService {
	return NewExportService(&e.mu, e.store, e.items, e.staff, e.sales, e.tables, e.cash, e.categories, e.settings)
}
