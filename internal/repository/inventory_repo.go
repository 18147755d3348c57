package repository

import (
	"errors"
	"strings"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/store"

	"github.com/google/uuid"
)

type InventoryRepository interface {
	FindAll() ([]model.InventoryItem, error)
	FindByID(id uuid.UUID) (*model.InventoryItem, error)
	FindByName(name string) (*model.InventoryItem, error)
	Insert(item *model.InventoryItem) error
	Update(item *model.InventoryItem) error
	Delete(id uuid.UUID) error
}

type inventoryRepo struct {
	store *store.Store
}

func NewInventoryRepo(s *store.Store) InventoryRepository {
	return &inventoryRepo{store: s}
}

func (r *inventoryRepo) FindAll() ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.store.Load(KeyInventory, &items)
	if errors.Is(err, store.ErrKeyNotFound) {
		return []model.InventoryItem{}, nil
	}
	return items, err
}

func (r *inventoryRepo) FindByID(id uuid.UUID) (*model.InventoryItem, error) {
	items, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

// FindByName matches case-insensitively; item names act as a natural
// key for imports.
func (r *inventoryRepo) FindByName(name string) (*model.InventoryItem, error) {
	items, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if strings.EqualFold(items[i].Name, name) {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *inventoryRepo) Insert(item *model.InventoryItem) error {
	items, err := r.FindAll()
	if err != nil {
		return err
	}
	items = append(items, *item)
	return r.store.Save(KeyInventory, items)
}

func (r *inventoryRepo) Update(item *model.InventoryItem) error {
	items, err := r.FindAll()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = *item
			return r.store.Save(KeyInventory, items)
		}
	}
	return ErrNotFound
}

func (r *inventoryRepo) Delete(id uuid.UUID) error {
	items, err := r.FindAll()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			items = append(items[:i], items[i+1:]...)
			return r.store.Save(KeyInventory, items)
		}
	}
	return ErrNotFound
}
