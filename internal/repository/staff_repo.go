package repository

import (
	"errors"
	"strings"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/store"

	"github.com/google/uuid"
)

type StaffRepository interface {
	FindAll() ([]model.StaffMember, error)
	FindByID(id uuid.UUID) (*model.StaffMember, error)
	FindByName(name string) (*model.StaffMember, error)
	Insert(member *model.StaffMember) error
	Update(member *model.StaffMember) error
	Delete(id uuid.UUID) error
}

type staffRepo struct {
	store *store.Store
}

func NewStaffRepo(s *store.Store) StaffRepository {
	return &staffRepo{store: s}
}

func (r *staffRepo) FindAll() ([]model.StaffMember, error) {
	var members []model.StaffMember
	err := r.store.Load(KeyStaff, &members)
	if errors.Is(err, store.ErrKeyNotFound) {
		return []model.StaffMember{}, nil
	}
	return members, err
}

func (r *staffRepo) FindByID(id uuid.UUID) (*model.StaffMember, error) {
	members, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	for i := range members {
		if members[i].ID == id {
			return &members[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *staffRepo) FindByName(name string) (*model.StaffMember, error) {
	members, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	for i := range members {
		if strings.EqualFold(members[i].Name, name) {
			return &members[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *staffRepo) Insert(member *model.StaffMember) error {
	members, err := r.FindAll()
	if err != nil {
		return err
	}
	members = append(members, *member)
	return r.store.Save(KeyStaff, members)
}

func (r *staffRepo) Update(member *model.StaffMember) error {
	members, err := r.FindAll()
	if err != nil {
		return err
	}
	for i := range members {
		if members[i].ID == member.ID {
			members[i] = *member
			return r.store.Save(KeyStaff, members)
		}
	}
	return ErrNotFound
}

func (r *staffRepo) Delete(id uuid.UUID) error {
	members, err := r.FindAll()
	if err != nil {
		return err
	}
	for i := range members {
		if members[i].ID == id {
			members = append(members[:i], members[i+1:]...)
			return r.store.Save(KeyStaff, members)
		}
	}
	return ErrNotFound
}
