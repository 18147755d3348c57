package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/repository"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/store"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var ErrEmptyDump = errors.New("nothing to import")

const exportVersion = "2.0"

// ExportInfo is the metadata block at the top of every export document.
type ExportInfo struct {
	ExportedAt    time.Time `json:"exported_at"`
	Version       string    `json:"version"`
	Establishment string    `json:"establishment"`
}

// DataDump is the complete keyed dump: every storage blob exactly as
// stored, so export then import reproduces collections byte for byte.
type DataDump struct {
	ExportInfo ExportInfo                 `json:"exportInfo"`
	Data       map[string]json.RawMessage `json:"completeLocalStorage"`
}

// EntityExport is the per-entity breakdown shape. Imports of this shape
// merge by name instead of replacing wholesale.
type EntityExport struct {
	ExportInfo ExportInfo            `json:"exportInfo"`
	Inventory  []model.InventoryItem `json:"inventory,omitempty"`
	Staff      []model.StaffMember   `json:"staff,omitempty"`
}

type ExportService interface {
	ExportDump() (*DataDump, error)
	ImportDump(dump *DataDump) error
	ImportEntities(export *EntityExport) error
	ExportWorkbook() (*excelize.File, error)
}

type exportService struct {
	mu           *sync.Mutex
	store        *store.Store
	itemRepo     repository.InventoryRepository
	staffRepo    repository.StaffRepository
	saleRepo     repository.SaleRepository
	tableRepo    repository.TableRepository
	cashRepo     repository.CashRepository
	categoryRepo repository.CategoryRepository
	settingsRepo repository.SettingsRepository
}

func NewExportService(
	mu *sync.Mutex,
	s *store.Store,
	itemRepo repository.InventoryRepository,
	staffRepo repository.StaffRepository,
	saleRepo repository.SaleRepository,
	tableRepo repository.TableRepository,
	cashRepo repository.CashRepository,
	categoryRepo repository.CategoryRepository,
	settingsRepo repository.SettingsRepository,
) ExportService {
	return &exportService{
		mu:           mu,
		store:        s,
		itemRepo:     itemRepo,
		staffRepo:    staffRepo,
		saleRepo:     saleRepo,
		tableRepo:    tableRepo,
		cashRepo:     cashRepo,
		categoryRepo: categoryRepo,
		settingsRepo: settingsRepo,
	}
}

func (s *exportService) exportInfo() ExportInfo {
	info := ExportInfo{ExportedAt: time.Now(), Version: exportVersion}
	if settings, err := s.settingsRepo.Get(); err == nil {
		info.Establishment = settings.EstablishmentName
	}
	return info
}

// ExportDump snapshots under the command mutex so a dump never
// captures a multi-entity command halfway through.
func (s *exportService) ExportDump() (*DataDump, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &DataDump{
		ExportInfo: s.exportInfo(),
		Data:       s.store.Dump(),
	}, nil
}

// ImportDump replaces the whole store with the dump's keys.
func (s *exportService) ImportDump(dump *DataDump) error {
	if dump == nil || len(dump.Data) == 0 {
		return ErrEmptyDump
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearAll(); err != nil {
		return err
	}
	return s.store.Restore(dump.Data)
}

// ImportEntities merges the per-entity shape: records matching an
// existing name update it in place, everything else is appended.
func (s *exportService) ImportEntities(export *EntityExport) error {
	if export == nil || (len(export.Inventory) == 0 && len(export.Staff) == 0) {
		return ErrEmptyDump
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, incoming := range export.Inventory {
		existing, err := s.itemRepo.FindByName(incoming.Name)
		if err == nil {
			incoming.ID = existing.ID
			incoming.CreatedAt = existing.CreatedAt
			incoming.UpdatedAt = time.Now()
			if err := s.itemRepo.Update(&incoming); err != nil {
				return fmt.Errorf("merge item %q: %w", incoming.Name, err)
			}
			continue
		}
		if incoming.ID == uuid.Nil {
			incoming.ID = uuid.New()
		}
		if incoming.CreatedAt.IsZero() {
			incoming.CreatedAt = time.Now()
		}
		if err := s.itemRepo.Insert(&incoming); err != nil {
			return fmt.Errorf("import item %q: %w", incoming.Name, err)
		}
	}

	for _, incoming := range export.Staff {
		existing, err := s.staffRepo.FindByName(incoming.Name)
		if err == nil {
			incoming.ID = existing.ID
			incoming.CreatedAt = existing.CreatedAt
			incoming.UpdatedAt = time.Now()
			if err := s.staffRepo.Update(&incoming); err != nil {
				return fmt.Errorf("merge staff %q: %w", incoming.Name, err)
			}
			continue
		}
		if incoming.ID == uuid.Nil {
			incoming.ID = uuid.New()
		}
		if err := s.staffRepo.Insert(&incoming); err != nil {
			return fmt.Errorf("import staff %q: %w", incoming.Name, err)
		}
	}

	return nil
}

// ExportWorkbook builds the spreadsheet export: one sheet per entity
// plus a sales summary.
func (s *exportService) ExportWorkbook() (*excelize.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := excelize.NewFile()

	if err := s.inventorySheet(f); err != nil {
		return nil, err
	}
	if err := s.salesSheet(f); err != nil {
		return nil, err
	}
	if err := s.staffSheet(f); err != nil {
		return nil, err
	}
	if err := s.tablesSheet(f); err != nil {
		return nil, err
	}
	if err := s.cashSheet(f); err != nil {
		return nil, err
	}
	if err := s.summarySheet(f); err != nil {
		return nil, err
	}

	// The default sheet is replaced by our first real one
	f.DeleteSheet("Sheet1")
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func (s *exportService) inventorySheet(f *excelize.File) error {
	const sheet = "Inventory"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, []interface{}{"Name", "Category", "Quantity", "Threshold", "Purchase Price", "Sale Price", "Unit", "Level"}); err != nil {
		return err
	}
	items, err := s.itemRepo.FindAll()
	if err != nil {
		return err
	}
	for i, item := range items {
		err := writeRow(f, sheet, i+2, []interface{}{
			item.Name, item.Category, item.Quantity, item.Threshold,
			item.PurchasePrice, item.SalePrice, item.Unit, string(item.Level()),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *exportService) salesSheet(f *excelize.File) error {
	const sheet = "Sales"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, []interface{}{"Date", "Item", "Quantity", "Unit Price", "Total", "Seller", "Table"}); err != nil {
		return err
	}
	sales, err := s.saleRepo.FindAll()
	if err != nil {
		return err
	}
	for i, sale := range sales {
		tableID := ""
		if sale.TableID != nil {
			tableID = sale.TableID.String()
		}
		err := writeRow(f, sheet, i+2, []interface{}{
			sale.Date, sale.ItemName, sale.Quantity, sale.UnitPrice, sale.Total, sale.SellerName, tableID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *exportService) staffSheet(f *excelize.File) error {
	const sheet = "Staff"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, []interface{}{"Name", "Role", "Active"}); err != nil {
		return err
	}
	members, err := s.staffRepo.FindAll()
	if err != nil {
		return err
	}
	for i, member := range members {
		if err := writeRow(f, sheet, i+2, []interface{}{member.Name, member.Role, member.IsActive}); err != nil {
			return err
		}
	}
	return nil
}

func (s *exportService) tablesSheet(f *excelize.File) error {
	const sheet = "Tables"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, []interface{}{"Name", "Capacity", "Status"}); err != nil {
		return err
	}
	tables, err := s.tableRepo.FindAll()
	if err != nil {
		return err
	}
	for i, table := range tables {
		if err := writeRow(f, sheet, i+2, []interface{}{table.Name, table.Capacity, string(table.Status)}); err != nil {
			return err
		}
	}
	return nil
}

func (s *exportService) cashSheet(f *excelize.File) error {
	const sheet = "Cash"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, []interface{}{"Date", "Type", "Amount", "Description", "Related Sale"}); err != nil {
		return err
	}
	txs, err := s.cashRepo.FindTransactions()
	if err != nil {
		return err
	}
	for i, tx := range txs {
		related := ""
		if tx.RelatedSaleID != nil {
			related = tx.RelatedSaleID.String()
		}
		err := writeRow(f, sheet, i+2, []interface{}{
			tx.CreatedAt.Format(model.DateLayout), string(tx.Type), tx.Amount, tx.Description, related,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *exportService) summarySheet(f *excelize.File) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	sales, err := s.saleRepo.FindAll()
	if err != nil {
		return err
	}
	balance, err := s.cashRepo.GetBalance()
	if err != nil {
		return err
	}
	totals := Totals(sales)

	rows := [][]interface{}{
		{"Exported", time.Now().Format(time.RFC3339)},
		{"Total revenue", totals.Revenue},
		{"Sales count", totals.Count},
		{"Units sold", totals.Quantity},
		{"Cash balance", balance.CurrentAmount},
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}
