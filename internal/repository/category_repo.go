package repository

import (
	"errors"
	"strings"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/store"

	"github.com/google/uuid"
)

type CategoryRepository interface {
	FindAll() ([]model.Category, error)
	FindByID(id uuid.UUID) (*model.Category, error)
	FindByName(name string) (*model.Category, error)
	Insert(category *model.Category) error
	Delete(id uuid.UUID) error
}

type categoryRepo struct {
	store *store.Store
}

func NewCategoryRepo(s *store.Store) CategoryRepository {
	return &categoryRepo{store: s}
}

func (r *categoryRepo) FindAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.store.Load(KeyCategories, &categories)
	if errors.Is(err, store.ErrKeyNotFound) {
		return []model.Category{}, nil
	}
	return categories, err
}

func (r *categoryRepo) FindByID(id uuid.UUID) (*model.Category, error) {
	categories, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *categoryRepo) FindByName(name string) (*model.Category, error) {
	categories, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if strings.EqualFold(categories[i].Name, name) {
			return &categories[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *categoryRepo) Insert(category *model.Category) error {
	categories, err := r.FindAll()
	if err != nil {
		return err
	}
	categories = append(categories, *category)
	return r.store.Save(KeyCategories, categories)
}

// Delete removes the category only; children keep their ParentID and
// items keep their category name (no cascade).
func (r *categoryRepo) Delete(id uuid.UUID) error {
	categories, err := r.FindAll()
	if err != nil {
		return err
	}
	for i := range categories {
		if categories[i].ID == id {
			categories = append(categories[:i], categories[i+1:]...)
			return r.store.Save(KeyCategories, categories)
		}
	}
	return ErrNotFound
}
