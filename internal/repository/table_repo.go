package repository

import (
	"errors"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/store"

	"github.com/google/uuid"
)

type TableRepository interface {
	FindAll() ([]model.Table, error)
	FindByID(id uuid.UUID) (*model.Table, error)
	Insert(table *model.Table) error
	Update(table *model.Table) error
	Delete(id uuid.UUID) error
}

type tableRepo struct {
	store *store.Store
}

func NewTableRepo(s *store.Store) TableRepository {
	return &tableRepo{store: s}
}

func (r *tableRepo) FindAll() ([]model.Table, error) {
	var tables []model.Table
	err := r.store.Load(KeyTables, &tables)
	if errors.Is(err, store.ErrKeyNotFound) {
		return []model.Table{}, nil
	}
	return tables, err
}

func (r *tableRepo) FindByID(id uuid.UUID) (*model.Table, error) {
	tables, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	for i := range tables {
		if tables[i].ID == id {
			return &tables[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *tableRepo) Insert(table *model.Table) error {
	tables, err := r.FindAll()
	if err != nil {
		return err
	}
	tables = append(tables, *table)
	return r.store.Save(KeyTables, tables)
}

func (r *tableRepo) Update(table *model.Table) error {
	tables, err := r.FindAll()
	if err != nil {
		return err
	}
	for i := range tables {
		if tables[i].ID == table.ID {
			tables[i] = *table
			return r.store.Save(KeyTables, tables)
		}
	}
	return ErrNotFound
}

func (r *tableRepo) Delete(id uuid.UUID) error {
	tables, err := r.FindAll()
	if err != nil {
		return err
	}
	for i := range tables {
		if tables[i].ID == id {
			tables = append(tables[:i], tables[i+1:]...)
			return r.store.Save(KeyTables, tables)
		}
	}
	return ErrNotFound
}
