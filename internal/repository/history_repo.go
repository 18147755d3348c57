package repository

import (
	"errors"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/store"

	"github.com/google/uuid"
)

// HistoryRepository is append-only; entries are never updated or
// removed once written.
type HistoryRepository interface {
	FindAll() ([]model.InventoryHistoryEntry, error)
	FindByItem(itemID uuid.UUID) ([]model.InventoryHistoryEntry, error)
	Append(entry *model.InventoryHistoryEntry) error
}

type historyRepo struct {
	store *store.Store
}

func NewHistoryRepo(s *store.Store) HistoryRepository {
	return &historyRepo{store: s}
}

func (r *historyRepo) FindAll() ([]model.InventoryHistoryEntry, error) {
	var entries []model.InventoryHistoryEntry
	err := r.store.Load(KeyInventoryHistory, &entries)
	if errors.Is(err, store.ErrKeyNotFound) {
		return []model.InventoryHistoryEntry{}, nil
	}
	return entries, err
}

func (r *historyRepo) FindByItem(itemID uuid.UUID) ([]model.InventoryHistoryEntry, error) {
	entries, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	matched := []model.InventoryHistoryEntry{}
	for _, entry := range entries {
		if entry.ItemID == itemID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func (r *historyRepo) Append(entry *model.InventoryHistoryEntry) error {
	entries, err := r.FindAll()
	if err != nil {
		return err
	}
	entries = append(entries, *entry)
	return r.store.Save(KeyInventoryHistory, entries)
}
