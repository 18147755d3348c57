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
	ErrInvalidStatus     = errors.New("unknown table status")
	ErrInvalidTransition = errors.New("invalid table status transition")
)

type TableService interface {
	CreateTable(req *model.Table) error
	UpdateTable(id uuid.UUID, req *model.Table) (*model.Table, error)
	DeleteTable(id uuid.UUID) error
	SetStatus(id uuid.UUID, status model.TableStatus) (*model.Table, error)
	ListTables() ([]model.Table, error)
}

type tableService struct {
	mu        *sync.Mutex
	tableRepo repository.TableRepository
	wsHub     *ws.Hub
}

func NewTableService(mu *sync.Mutex, tableRepo repository.TableRepository, hub *ws.Hub) TableService {
	return &tableService{mu: mu, tableRepo: tableRepo, wsHub: hub}
}

func (s *tableService) CreateTable(req *model.Table) error {
	if err := validator.FirstError(validator.ValidateStruct(req)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req.ID = uuid.New()
	req.Status = model.TableAvailable
	req.UpdatedAt = time.Now()
	if err := s.tableRepo.Insert(req); err != nil {
		return err
	}

	s.publish("table_created", req)
	return nil
}

func (s *tableService) UpdateTable(id uuid.UUID, req *model.Table) (*model.Table, error) {
	if err := validator.FirstError(validator.ValidateStruct(req)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.tableRepo.FindByID(id)
	if err != nil {
		return nil, ErrTableNotFound
	}

	existing.Name = req.Name
	existing.Capacity = req.Capacity
	existing.UpdatedAt = time.Now()
	if err := s.tableRepo.Update(existing); err != nil {
		return nil, err
	}

	s.publish("table_updated", existing)
	return existing, nil
}

func (s *tableService) DeleteTable(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.tableRepo.FindByID(id)
	if err != nil {
		return ErrTableNotFound
	}
	if err := s.tableRepo.Delete(id); err != nil {
		return err
	}
	s.publish("table_deleted", table)
	return nil
}

// SetStatus applies an explicit transition. Reserved is only reachable
// from available; a reserved table can be seated or released.
func (s *tableService) SetStatus(id uuid.UUID, status model.TableStatus) (*model.Table, error) {
	if !model.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.tableRepo.FindByID(id)
	if err != nil {
		return nil, ErrTableNotFound
	}

	if !allowedTransition(table.Status, status) {
		return nil, ErrInvalidTransition
	}

	table.Status = status
	table.UpdatedAt = time.Now()
	if err := s.tableRepo.Update(table); err != nil {
		return nil, err
	}

	s.publish("table_status_changed", table)
	return table, nil
}

func (s *tableService) ListTables() ([]model.Table, error) {
	return s.tableRepo.FindAll()
}

func allowedTransition(from, to model.TableStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case model.TableAvailable:
		return to == model.TableOccupied || to == model.TableReserved
	case model.TableOccupied:
		return to == model.TableAvailable
	case model.TableReserved:
		return to == model.TableOccupied || to == model.TableAvailable
	}
	return false
}

func (s *tableService) publish(action string, table *model.Table) {
	go s.wsHub.Publish(ws.Event{
		Entity:  repository.KeyTables,
		Action:  action,
		Data:    table,
		Message: fmt.Sprintf("Table '%s' is %s", table.Name, table.Status),
	})
}
