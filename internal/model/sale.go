package model

import (
	"time"

	"github.com/google/uuid"
)

// SaleRecord is a point-of-sale entry. Items and sellers are referenced
// by id; ItemName and SellerName are display snapshots taken at sale
// time, so later renames do not rewrite history.
type SaleRecord struct {
	ID         uuid.UUID  `json:"id"`
	ItemID     uuid.UUID  `json:"item_id" validate:"uuid_required"`
	ItemName   string     `json:"item_name"`
	Quantity   int        `json:"quantity" validate:"required,gt=0"`
	UnitPrice  int64      `json:"unit_price"`
	Total      int64      `json:"total"`
	SellerID   uuid.UUID  `json:"seller_id" validate:"uuid_required"`
	SellerName string     `json:"seller_name"`
	TableID    *uuid.UUID `json:"table_id,omitempty"`
	// Date is the sale day in YYYY-MM-DD; range filters compare it
	// lexicographically.
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// DateLayout is the day format used for SaleRecord.Date and range filters.
const DateLayout = "2006-01-02"
