package model

import (
	"time"

	"github.com/google/uuid"
)

type CashTransactionType string

const (
	CashIncome  CashTransactionType = "income"
	CashExpense CashTransactionType = "expense"
)

// CashBalance is the drawer singleton. The intended invariant is
// CurrentAmount == InitialAmount + Σincome − Σexpense; every balance
// change is paired with a CashTransaction write in the same critical
// section.
type CashBalance struct {
	InitialAmount int64     `json:"initial_amount"`
	CurrentAmount int64     `json:"current_amount"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CashTransaction struct {
	ID            uuid.UUID           `json:"id"`
	Type          CashTransactionType `json:"type" validate:"required,oneof=income expense"`
	Amount        int64               `json:"amount" validate:"required,gt=0"`
	Description   string              `json:"description"`
	RelatedSaleID *uuid.UUID          `json:"related_sale_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}
