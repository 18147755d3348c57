package repository

import (
	"errors"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/store"

	"github.com/google/uuid"
)

type SaleRepository interface {
	FindAll() ([]model.SaleRecord, error)
	FindByID(id uuid.UUID) (*model.SaleRecord, error)
	FindByTable(tableID uuid.UUID) ([]model.SaleRecord, error)
	Insert(sale *model.SaleRecord) error
	Delete(id uuid.UUID) error
}

type saleRepo struct {
	store *store.Store
}

func NewSaleRepo(s *store.Store) SaleRepository {
	return &saleRepo{store: s}
}

func (r *saleRepo) FindAll() ([]model.SaleRecord, error) {
	var sales []model.SaleRecord
	err := r.store.Load(KeySales, &sales)
	if errors.Is(err, store.ErrKeyNotFound) {
		return []model.SaleRecord{}, nil
	}
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.SaleRecord, error) {
	sales, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	for i := range sales {
		if sales[i].ID == id {
			return &sales[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *saleRepo) FindByTable(tableID uuid.UUID) ([]model.SaleRecord, error) {
	sales, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	matched := []model.SaleRecord{}
	for _, sale := range sales {
		if sale.TableID != nil && *sale.TableID == tableID {
			matched = append(matched, sale)
		}
	}
	return matched, nil
}

func (r *saleRepo) Insert(sale *model.SaleRecord) error {
	sales, err := r.FindAll()
	if err != nil {
		return err
	}
	sales = append(sales, *sale)
	return r.store.Save(KeySales, sales)
}

func (r *saleRepo) Delete(id uuid.UUID) error {
	sales, err := r.FindAll()
	if err != nil {
		return err
	}
	for i := range sales {
		if sales[i].ID == id {
			sales = append(sales[:i], sales[i+1:]...)
			return r.store.Save(KeySales, sales)
		}
	}
	return ErrNotFound
}
