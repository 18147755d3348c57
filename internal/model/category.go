package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups inventory items. Categories may nest one level via
// ParentID; deleting a parent does not cascade to its children.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name" validate:"required"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	IsParent  bool       `json:"is_parent"`
	CreatedAt time.Time  `json:"created_at"`
}
