package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventory history actions
const (
	ActionCreated        = "created"
	ActionUpdated        = "updated"
	ActionStockAdjusted  = "stock_adjusted"
	ActionDamageReported = "damage_reported"
	ActionDeleted        = "deleted"
)

// FieldChange records a before/after pair for a single item field.
type FieldChange struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// InventoryHistoryEntry is an append-only audit record; entries are
// never mutated after being written.
type InventoryHistoryEntry struct {
	ID        uuid.UUID              `json:"id"`
	ItemID    uuid.UUID              `json:"item_id"`
	ItemName  string                 `json:"item_name"`
	Action    string                 `json:"action"`
	Changes   map[string]FieldChange `json:"changes,omitempty"`
	Reason    string                 `json:"reason,omitempty"`
	Actor     string                 `json:"actor,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
