package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/repository"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/ws"
	"github.com/MahounanRomain/barflowbj-22-sub000/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrSaleNotFound      = errors.New("sale not found")
	ErrSellerNotFound    = errors.New("seller not found")
	ErrSellerInactive    = errors.New("seller account is inactive")
	ErrTableNotFound     = errors.New("table not found")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
)

// SaleRequest is the input for recording a sale. Price is resolved from
// the item at sale time, never trusted from the caller.
type SaleRequest struct {
	ItemID   uuid.UUID  `json:"item_id" validate:"uuid_required"`
	Quantity int        `json:"quantity" validate:"required,gt=0"`
	SellerID uuid.UUID  `json:"seller_id" validate:"uuid_required"`
	TableID  *uuid.UUID `json:"table_id,omitempty"`
}

type SalesService interface {
	RecordSale(req *SaleRequest) (*model.SaleRecord, error)
	DeleteSale(id uuid.UUID, actor string) error
	GetSale(id uuid.UUID) (*model.SaleRecord, error)
	ListSales() ([]model.SaleRecord, error)
}

// salesService coordinates the entities a sale touches: inventory,
// cash drawer, table status, sale log, history. The command mutex is
// shared with the other writing services, making each command a
// single critical section over the store.
type salesService struct {
	mu          *sync.Mutex
	saleRepo    repository.SaleRepository
	itemRepo    repository.InventoryRepository
	staffRepo   repository.StaffRepository
	tableRepo   repository.TableRepository
	cashRepo    repository.CashRepository
	historyRepo repository.HistoryRepository
	wsHub       *ws.Hub
}

func NewSalesService(
	mu *sync.Mutex,
	saleRepo repository.SaleRepository,
	itemRepo repository.InventoryRepository,
	staffRepo repository.StaffRepository,
	tableRepo repository.TableRepository,
	cashRepo repository.CashRepository,
	historyRepo repository.HistoryRepository,
	hub *ws.Hub,
) SalesService {
	return &salesService{
		mu:          mu,
		saleRepo:    saleRepo,
		itemRepo:    itemRepo,
		staffRepo:   staffRepo,
		tableRepo:   tableRepo,
		cashRepo:    cashRepo,
		historyRepo: historyRepo,
		wsHub:       hub,
	}
}

// RecordSale performs the whole point-of-sale write as one command:
// stock decrement, history entry, cash income + balance update, table
// occupation, then the sale record itself.
func (s *salesService) RecordSale(req *SaleRequest) (*model.SaleRecord, error) {
	if err := validator.FirstError(validator.ValidateStruct(req)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.itemRepo.FindByID(req.ItemID)
	if err != nil {
		return nil, ErrItemNotFound
	}
	if item.Quantity < req.Quantity {
		return nil, ErrInsufficientStock
	}

	seller, err := s.staffRepo.FindByID(req.SellerID)
	if err != nil {
		return nil, ErrSellerNotFound
	}
	if !seller.IsActive {
		return nil, ErrSellerInactive
	}

	var table *model.Table
	if req.TableID != nil {
		table, err = s.tableRepo.FindByID(*req.TableID)
		if err != nil {
			return nil, ErrTableNotFound
		}
	}

	now := time.Now()
	sale := &model.SaleRecord{
		ID:         uuid.New(),
		ItemID:     item.ID,
		ItemName:   item.Name,
		Quantity:   req.Quantity,
		UnitPrice:  item.SalePrice,
		Total:      item.SalePrice * int64(req.Quantity),
		SellerID:   seller.ID,
		SellerName: seller.Name,
		TableID:    req.TableID,
		Date:       now.Format(model.DateLayout),
		CreatedAt:  now,
	}

	// 1. Decrement stock
	oldQty := item.Quantity
	item.Quantity -= req.Quantity
	item.UpdatedAt = now
	if err := s.itemRepo.Update(item); err != nil {
		return nil, err
	}
	s.appendSaleHistory(item, oldQty, item.Quantity, fmt.Sprintf("sale %s", sale.ID))

	// 2. Cash drawer: income transaction paired with the balance update
	tx := &model.CashTransaction{
		ID:            uuid.New(),
		Type:          model.CashIncome,
		Amount:        sale.Total,
		Description:   fmt.Sprintf("Sale of %d x %s", sale.Quantity, sale.ItemName),
		RelatedSaleID: &sale.ID,
		CreatedAt:     now,
	}
	if err := s.cashRepo.InsertTransaction(tx); err != nil {
		return nil, err
	}
	balance, err := s.cashRepo.GetBalance()
	if err != nil {
		return nil, err
	}
	balance.CurrentAmount += sale.Total
	if err := s.cashRepo.SaveBalance(balance); err != nil {
		return nil, err
	}

	// 3. Table goes occupied when the sale is seated
	if table != nil && table.Status != model.TableOccupied {
		table.Status = model.TableOccupied
		table.UpdatedAt = now
		if err := s.tableRepo.Update(table); err != nil {
			return nil, err
		}
	}

	// 4. The sale record itself
	if err := s.saleRepo.Insert(sale); err != nil {
		return nil, err
	}

	go s.wsHub.Publish(ws.Event{
		Entity: repository.KeySales,
		Action: "sale_recorded",
		Data: map[string]interface{}{
			"id":        sale.ID,
			"item":      sale.ItemName,
			"quantity":  sale.Quantity,
			"total":     sale.Total,
			"seller":    sale.SellerName,
			"new_stock": item.Quantity,
		},
		Message: fmt.Sprintf("%s sold %d x %s", sale.SellerName, sale.Quantity, sale.ItemName),
	})

	return sale, nil
}

// DeleteSale is the compensating command: it restores stock, removes
// the paired cash transaction and its balance effect, frees the table
// when no other sale holds it, then drops the record. Steps run in a
// fixed order so a mid-command failure leaves the earlier reversals in
// place and reports which step failed.
func (s *salesService) DeleteSale(id uuid.UUID, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		return ErrSaleNotFound
	}

	// 1. Restore inventory
	if item, err := s.itemRepo.FindByID(sale.ItemID); err == nil {
		oldQty := item.Quantity
		item.Quantity += sale.Quantity
		item.UpdatedAt = time.Now()
		if err := s.itemRepo.Update(item); err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
		s.appendSaleHistory(item, oldQty, item.Quantity, fmt.Sprintf("sale %s deleted by %s", sale.ID, actor))
	}

	// 2. Reverse the cash side
	if tx, err := s.cashRepo.FindTransactionBySale(sale.ID); err == nil {
		if err := s.cashRepo.DeleteTransaction(tx.ID); err != nil {
			return fmt.Errorf("remove cash transaction: %w", err)
		}
		balance, err := s.cashRepo.GetBalance()
		if err != nil {
			return fmt.Errorf("load balance: %w", err)
		}
		balance.CurrentAmount -= tx.Amount
		if err := s.cashRepo.SaveBalance(balance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
	}

	// 3. Drop the sale record before deciding the table's fate, so the
	// occupancy check does not count the sale being deleted
	if err := s.saleRepo.Delete(sale.ID); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}

	// 4. Free the table if nothing else holds it
	if sale.TableID != nil {
		remaining, err := s.saleRepo.FindByTable(*sale.TableID)
		if err != nil {
			return fmt.Errorf("check table occupancy: %w", err)
		}
		if len(remaining) == 0 {
			if table, err := s.tableRepo.FindByID(*sale.TableID); err == nil && table.Status == model.TableOccupied {
				table.Status = model.TableAvailable
				table.UpdatedAt = time.Now()
				if err := s.tableRepo.Update(table); err != nil {
					return fmt.Errorf("free table: %w", err)
				}
			}
		}
	}

	go s.wsHub.Publish(ws.Event{
		Entity:  repository.KeySales,
		Action:  "sale_deleted",
		Data:    map[string]interface{}{"id": sale.ID, "item": sale.ItemName, "total": sale.Total},
		Message: fmt.Sprintf("%s deleted a sale of %d x %s", actor, sale.Quantity, sale.ItemName),
	})

	return nil
}

func (s *salesService) GetSale(id uuid.UUID) (*model.SaleRecord, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	return sale, nil
}

func (s *salesService) ListSales() ([]model.SaleRecord, error) {
	return s.saleRepo.FindAll()
}

func (s *salesService) appendSaleHistory(item *model.InventoryItem, from, to int, reason string) {
	_ = s.historyRepo.Append(&model.InventoryHistoryEntry{
		ID:       uuid.New(),
		ItemID:   item.ID,
		ItemName: item.Name,
		Action:   model.ActionStockAdjusted,
		Changes: map[string]model.FieldChange{
			"quantity": {From: from, To: to},
		},
		Reason:    reason,
		CreatedAt: time.Now(),
	})
}
