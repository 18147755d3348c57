package model

import "time"

// Settings holds installation-wide preferences. One record per install.
type Settings struct {
	EstablishmentName string    `json:"establishment_name"`
	Currency          string    `json:"currency"`
	LowStockAlerts    bool      `json:"low_stock_alerts"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings used until the owner changes them.
func DefaultSettings() Settings {
	return Settings{
		EstablishmentName: "Mon Bar",
		Currency:          "XOF",
		LowStockAlerts:    true,
	}
}
