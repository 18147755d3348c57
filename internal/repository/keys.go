package repository

import "errors"

// Storage keys, one per logical entity. These names are part of the
// export/import format and must stay stable.
const (
	KeyInventory        = "inventory"
	KeyCategories       = "categories"
	KeyStaff            = "staff"
	KeySales            = "sales"
	KeyTables           = "tables"
	KeyCashBalance      = "cashBalance"
	KeyCashTransactions = "cashTransactions"
	KeySettings         = "settings"
	KeyInventoryHistory = "inventoryHistory"
)

var ErrNotFound = errors.New("record not found")
