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
	ErrStaffNotFound  = errors.New("staff member not found")
	ErrDuplicateStaff = errors.New("a staff member with this name already exists")
	ErrWeakPIN        = errors.New("PIN must be at least 4 characters")
)

// CreateStaffRequest is the input for onboarding a staff member.
type CreateStaffRequest struct {
	Name string `json:"name" validate:"required"`
	Role string `json:"role" validate:"required,oneof=manager bartender"`
	PIN  string `json:"pin" validate:"required,min=4"`
}

type StaffService interface {
	CreateMember(req *CreateStaffRequest) (*model.StaffMember, error)
	UpdateMember(id uuid.UUID, name, role string) (*model.StaffMember, error)
	SetPIN(id uuid.UUID, pin string) error
	Deactivate(id uuid.UUID) error
	Reactivate(id uuid.UUID) error
	DeleteMember(id uuid.UUID) error
	ListMembers(includeInactive bool) ([]model.StaffResponse, error)
	GetMember(id uuid.UUID) (*model.StaffMember, error)
}

type staffService struct {
	mu        *sync.Mutex
	staffRepo repository.StaffRepository
	wsHub     *ws.Hub
}

func NewStaffService(mu *sync.Mutex, staffRepo repository.StaffRepository, hub *ws.Hub) StaffService {
	return &staffService{mu: mu, staffRepo: staffRepo, wsHub: hub}
}

func (s *staffService) CreateMember(req *CreateStaffRequest) (*model.StaffMember, error) {
	if err := validator.FirstError(validator.ValidateStruct(req)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, _ := s.staffRepo.FindByName(req.Name); existing != nil {
		return nil, ErrDuplicateStaff
	}

	now := time.Now()
	member := &model.StaffMember{
		ID:        uuid.New(),
		Name:      req.Name,
		Role:      req.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := member.SetPIN(req.PIN); err != nil {
		return nil, err
	}

	if err := s.staffRepo.Insert(member); err != nil {
		return nil, err
	}

	s.publish("member_created", member)
	return member, nil
}

func (s *staffService) UpdateMember(id uuid.UUID, name, role string) (*model.StaffMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, err := s.staffRepo.FindByID(id)
	if err != nil {
		return nil, ErrStaffNotFound
	}
	if role != model.RoleManager && role != model.RoleBartender {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	member.Name = name
	member.Role = role
	member.UpdatedAt = time.Now()
	if err := s.staffRepo.Update(member); err != nil {
		return nil, err
	}

	s.publish("member_updated", member)
	return member, nil
}

func (s *staffService) SetPIN(id uuid.UUID, pin string) error {
	if len(pin) < 4 {
		return ErrWeakPIN
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	member, err := s.staffRepo.FindByID(id)
	if err != nil {
		return ErrStaffNotFound
	}
	if err := member.SetPIN(pin); err != nil {
		return err
	}
	member.UpdatedAt = time.Now()
	return s.staffRepo.Update(member)
}

// Deactivate is the soft path: the member keeps their sale history but
// can no longer log in or be attributed new sales.
func (s *staffService) Deactivate(id uuid.UUID) error {
	return s.setActive(id, false)
}

func (s *staffService) Reactivate(id uuid.UUID) error {
	return s.setActive(id, true)
}

func (s *staffService) setActive(id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, err := s.staffRepo.FindByID(id)
	if err != nil {
		return ErrStaffNotFound
	}
	member.IsActive = active
	member.UpdatedAt = time.Now()
	if err := s.staffRepo.Update(member); err != nil {
		return err
	}
	s.publish("member_updated", member)
	return nil
}

// DeleteMember is the hard path; existing sales keep the seller name
// snapshot but their seller id will no longer resolve.
func (s *staffService) DeleteMember(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, err := s.staffRepo.FindByID(id)
	if err != nil {
		return ErrStaffNotFound
	}
	if err := s.staffRepo.Delete(id); err != nil {
		return err
	}
	s.publish("member_deleted", member)
	return nil
}

func (s *staffService) ListMembers(includeInactive bool) ([]model.StaffResponse, error) {
	members, err := s.staffRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := []model.StaffResponse{}
	for _, member := range members {
		if !includeInactive && !member.IsActive {
			continue
		}
		responses = append(responses, member.ToResponse())
	}
	return responses, nil
}

func (s *staffService) GetMember(id uuid.UUID) (*model.StaffMember, error) {
	member, err := s.staffRepo.FindByID(id)
	if err != nil {
		return nil, ErrStaffNotFound
	}
	return member, nil
}

func (s *staffService) publish(action string, member *model.StaffMember) {
	go s.wsHub.Publish(ws.Event{
		Entity:  repository.KeyStaff,
		Action:  action,
		Data:    member.ToResponse(),
		Message: fmt.Sprintf("Staff member '%s' %s", member.Name, action),
	})
}
