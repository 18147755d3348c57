package model

import (
	"time"

	"github.com/google/uuid"
)

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
)

type Table struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name" validate:"required"`
	Capacity  int         `json:"capacity" validate:"gte=0"`
	Status    TableStatus `json:"status"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ValidStatus reports whether s is one of the known table states.
func ValidStatus(s TableStatus) bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved:
		return true
	}
	return false
}
