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
	ErrItemNotFound  = errors.New("inventory item not found")
	ErrDuplicateItem = errors.New("an item with this name already exists")
	ErrBadQuantity   = errors.New("quantity must be positive")
)

type InventoryService interface {
	CreateItem(req *model.InventoryItem, actor string) error
	UpdateItem(id uuid.UUID, req *model.InventoryItem, actor string) (*model.InventoryItem, error)
	Restock(id uuid.UUID, quantity int, reason, actor string) (*model.InventoryItem, error)
	ReportDamage(id uuid.UUID, quantity int, reason, actor string) (*model.InventoryItem, error)
	DeleteItem(id uuid.UUID, actor string) error
	GetItem(id uuid.UUID) (*model.InventoryItem, error)
	ListItems() ([]model.InventoryItem, error)
	LowStockItems() ([]model.InventoryItem, error)
	ItemHistory(id uuid.UUID) ([]model.InventoryHistoryEntry, error)
}

type inventoryService struct {
	mu          *sync.Mutex
	itemRepo    repository.InventoryRepository
	historyRepo repository.HistoryRepository
	wsHub       *ws.Hub
}

// NewInventoryService takes the command mutex shared by every service
// that writes the store, so read-modify-write cycles on the same keys
// never interleave.
func NewInventoryService(mu *sync.Mutex, itemRepo repository.InventoryRepository, historyRepo repository.HistoryRepository, hub *ws.Hub) InventoryService {
	return &inventoryService{
		mu:          mu,
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
		wsHub:       hub,
	}
}

func (s *inventoryService) CreateItem(req *model.InventoryItem, actor string) error {
	if err := validator.FirstError(validator.ValidateStruct(req)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Names are the natural key used by partial imports; keep them unique
	if existing, _ := s.itemRepo.FindByName(req.Name); existing != nil {
		return ErrDuplicateItem
	}

	req.ID = uuid.New()
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now

	if err := s.itemRepo.Insert(req); err != nil {
		return err
	}

	s.appendHistory(req, model.ActionCreated, nil, "", actor)
	s.publish("item_created", req, fmt.Sprintf("%s added item '%s'", actor, req.Name))
	return nil
}

func (s *inventoryService) UpdateItem(id uuid.UUID, req *model.InventoryItem, actor string) (*model.InventoryItem, error) {
	if err := validator.FirstError(validator.ValidateStruct(req)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.itemRepo.FindByID(id)
	if err != nil {
		return nil, ErrItemNotFound
	}

	changes := diffItems(existing, req)

	updated := *existing
	updated.Name = req.Name
	updated.Category = req.Category
	updated.Quantity = req.Quantity
	updated.Threshold = req.Threshold
	updated.PurchasePrice = req.PurchasePrice
	updated.SalePrice = req.SalePrice
	updated.Unit = req.Unit
	updated.UpdatedAt = time.Now()

	if err := s.itemRepo.Update(&updated); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		// A quantity change is a stock adjustment; anything else is a
		// plain update.
		action := model.ActionUpdated
		if _, ok := changes["quantity"]; ok {
			action = model.ActionStockAdjusted
		}
		s.appendHistory(&updated, action, changes, "", actor)
	}

	s.publish("item_updated", &updated, fmt.Sprintf("%s updated item '%s'", actor, updated.Name))
	return &updated, nil
}

// Restock increases stock and records a stock_adjusted entry.
func (s *inventoryService) Restock(id uuid.UUID, quantity int, reason, actor string) (*model.InventoryItem, error) {
	if quantity <= 0 {
		return nil, ErrBadQuantity
	}
	return s.adjustStock(id, quantity, reason, actor, "item_restocked")
}

// ReportDamage decreases stock for breakage/spoilage, recording the
// reason alongside the adjustment.
func (s *inventoryService) ReportDamage(id uuid.UUID, quantity int, reason, actor string) (*model.InventoryItem, error) {
	if quantity <= 0 {
		return nil, ErrBadQuantity
	}
	return s.adjustStock(id, -quantity, reason, actor, "damage_reported")
}

func (s *inventoryService) adjustStock(id uuid.UUID, delta int, reason, actor, event string) (*model.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		return nil, ErrItemNotFound
	}

	oldQty := item.Quantity
	newQty := oldQty + delta
	if newQty < 0 {
		newQty = 0
	}
	item.Quantity = newQty
	item.UpdatedAt = time.Now()

	if err := s.itemRepo.Update(item); err != nil {
		return nil, err
	}

	action := model.ActionStockAdjusted
	if event == "damage_reported" {
		action = model.ActionDamageReported
	}
	s.appendHistory(item, action, map[string]model.FieldChange{
		"quantity": {From: oldQty, To: newQty},
	}, reason, actor)

	s.publish(event, item, fmt.Sprintf("%s adjusted stock of '%s' (%d -> %d)", actor, item.Name, oldQty, newQty))
	return item, nil
}

func (s *inventoryService) DeleteItem(id uuid.UUID, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		return ErrItemNotFound
	}
	if err := s.itemRepo.Delete(id); err != nil {
		return err
	}

	s.appendHistory(item, model.ActionDeleted, nil, "", actor)
	s.publish("item_deleted", item, fmt.Sprintf("%s deleted item '%s'", actor, item.Name))
	return nil
}

func (s *inventoryService) GetItem(id uuid.UUID) (*model.InventoryItem, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (s *inventoryService) ListItems() ([]model.InventoryItem, error) {
	return s.itemRepo.FindAll()
}

func (s *inventoryService) LowStockItems() ([]model.InventoryItem, error) {
	items, err := s.itemRepo.FindAll()
	if err != nil {
		return nil, err
	}
	low := []model.InventoryItem{}
	for _, item := range items {
		if item.Level() != model.StockOK {
			low = append(low, item)
		}
	}
	return low, nil
}

func (s *inventoryService) ItemHistory(id uuid.UUID) ([]model.InventoryHistoryEntry, error) {
	return s.historyRepo.FindByItem(id)
}

// appendHistory writes the audit record. The mutation has already
// persisted at this point, so an append failure does not roll it back.
func (s *inventoryService) appendHistory(item *model.InventoryItem, action string, changes map[string]model.FieldChange, reason, actor string) {
	entry := &model.InventoryHistoryEntry{
		ID:        uuid.New(),
		ItemID:    item.ID,
		ItemName:  item.Name,
		Action:    action,
		Changes:   changes,
		Reason:    reason,
		Actor:     actor,
		CreatedAt: time.Now(),
	}
	_ = s.historyRepo.Append(entry)
}

func (s *inventoryService) publish(action string, item *model.InventoryItem, message string) {
	go s.wsHub.Publish(ws.Event{
		Entity: repository.KeyInventory,
		Action: action,
		Data: map[string]interface{}{
			"id":       item.ID,
			"name":     item.Name,
			"quantity": item.Quantity,
			"level":    item.Level(),
		},
		Message: message,
	})
}

// diffItems builds the change map persisted with update history.
func diffItems(old, upd *model.InventoryItem) map[string]model.FieldChange {
	changes := map[string]model.FieldChange{}
	if old.Name != upd.Name {
		changes["name"] = model.FieldChange{From: old.Name, To: upd.Name}
	}
	if old.Category != upd.Category {
		changes["category"] = model.FieldChange{From: old.Category, To: upd.Category}
	}
	if old.Quantity != upd.Quantity {
		changes["quantity"] = model.FieldChange{From: old.Quantity, To: upd.Quantity}
	}
	if old.Threshold != upd.Threshold {
		changes["threshold"] = model.FieldChange{From: old.Threshold, To: upd.Threshold}
	}
	if old.PurchasePrice != upd.PurchasePrice {
		changes["purchase_price"] = model.FieldChange{From: old.PurchasePrice, To: upd.PurchasePrice}
	}
	if old.SalePrice != upd.SalePrice {
		changes["sale_price"] = model.FieldChange{From: old.SalePrice, To: upd.SalePrice}
	}
	if old.Unit != upd.Unit {
		changes["unit"] = model.FieldChange{From: old.Unit, To: upd.Unit}
	}
	return changes
}
