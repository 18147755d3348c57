package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Staff roles as constants
const (
	RoleManager   = "manager"
	RoleBartender = "bartender"
)

// StaffMember represents an employee who can record sales.
type StaffMember struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Role      string    `json:"role" validate:"required,oneof=manager bartender"`
	PINHash   string    `json:"pin_hash"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPIN hashes and sets the member's login PIN
func (m *StaffMember) SetPIN(pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.PINHash = string(hash)
	return nil
}

// CheckPIN verifies the provided PIN against the stored hash
func (m *StaffMember) CheckPIN(pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(m.PINHash), []byte(pin)) == nil
}

// StaffResponse is used for API responses (without the PIN hash)
type StaffResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts StaffMember to StaffResponse
func (m *StaffMember) ToResponse() StaffResponse {
	return StaffResponse{
		ID:        m.ID,
		Name:      m.Name,
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}
