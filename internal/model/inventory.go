package model

import (
	"time"

	"github.com/google/uuid"
)

// StockLevel classifies an item's current stock against its threshold.
type StockLevel string

const (
	StockOut StockLevel = "out_of_stock"
	StockLow StockLevel = "low_stock"
	StockOK  StockLevel = "in_stock"
)

type InventoryItem struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name" validate:"required"`
	Category      string    `json:"category"`
	Quantity      int       `json:"quantity" validate:"gte=0"`
	Threshold     int       `json:"threshold" validate:"gte=0"`
	PurchasePrice int64     `json:"purchase_price" validate:"gte=0"`
	SalePrice     int64     `json:"sale_price" validate:"gte=0"`
	Unit          string    `json:"unit"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Level returns the stock classification. Zero quantity is always
// out-of-stock, whatever the threshold; quantity at or below the
// threshold is low stock.
func (i *InventoryItem) Level() StockLevel {
	switch {
	case i.Quantity == 0:
		return StockOut
	case i.Quantity <= i.Threshold:
		return StockLow
	default:
		return StockOK
	}
}
