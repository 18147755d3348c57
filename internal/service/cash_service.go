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
	ErrTransactionNotFound = errors.New("cash transaction not found")
	ErrSaleTransaction     = errors.New("sale-linked transactions are removed by deleting the sale")
	ErrBadAmount           = errors.New("amount must be positive")
)

// CashSummary pairs the drawer balance with ledger totals so callers
// can check the balance invariant at a glance.
type CashSummary struct {
	Balance      model.CashBalance `json:"balance"`
	TotalIncome  int64             `json:"total_income"`
	TotalExpense int64             `json:"total_expense"`
	Count        int               `json:"count"`
}

type CashService interface {
	Initialize(amount int64) (*model.CashBalance, error)
	GetBalance() (*model.CashBalance, error)
	AddTransaction(txType model.CashTransactionType, amount int64, description string) (*model.CashTransaction, error)
	DeleteTransaction(id uuid.UUID) error
	ListTransactions() ([]model.CashTransaction, error)
	Summary() (*CashSummary, error)
}

type cashService struct {
	mu       *sync.Mutex
	cashRepo repository.CashRepository
	wsHub    *ws.Hub
}

func NewCashService(mu *sync.Mutex, cashRepo repository.CashRepository, hub *ws.Hub) CashService {
	return &cashService{mu: mu, cashRepo: cashRepo, wsHub: hub}
}

// Initialize sets the drawer float and clears the ledger. Re-running it
// is the "reset drawer" operation.
func (s *cashService) Initialize(amount int64) (*model.CashBalance, error) {
	if amount < 0 {
		return nil, ErrBadAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balance := &model.CashBalance{
		InitialAmount: amount,
		CurrentAmount: amount,
	}
	if err := s.cashRepo.SaveBalance(balance); err != nil {
		return nil, err
	}
	if err := s.cashRepo.ClearTransactions(); err != nil {
		return nil, err
	}

	go s.wsHub.Publish(ws.Event{
		Entity:  repository.KeyCashBalance,
		Action:  "drawer_initialized",
		Data:    balance,
		Message: fmt.Sprintf("Cash drawer initialized at %d", amount),
	})
	return balance, nil
}

func (s *cashService) GetBalance() (*model.CashBalance, error) {
	return s.cashRepo.GetBalance()
}

// AddTransaction records a manual income or expense and moves the
// balance in the same critical section.
func (s *cashService) AddTransaction(txType model.CashTransactionType, amount int64, description string) (*model.CashTransaction, error) {
	tx := &model.CashTransaction{
		ID:          uuid.New(),
		Type:        txType,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := validator.FirstError(validator.ValidateStruct(tx)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cashRepo.InsertTransaction(tx); err != nil {
		return nil, err
	}
	balance, err := s.cashRepo.GetBalance()
	if err != nil {
		return nil, err
	}
	if txType == model.CashIncome {
		balance.CurrentAmount += amount
	} else {
		balance.CurrentAmount -= amount
	}
	if err := s.cashRepo.SaveBalance(balance); err != nil {
		return nil, err
	}

	go s.wsHub.Publish(ws.Event{
		Entity:  repository.KeyCashTransactions,
		Action:  "transaction_added",
		Data:    tx,
		Message: fmt.Sprintf("Cash %s of %d recorded", txType, amount),
	})
	return tx, nil
}

// DeleteTransaction removes a manual entry and reverses its balance
// effect. Sale-linked entries must go through DeleteSale so the other
// side effects are reversed too.
func (s *cashService) DeleteTransaction(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.cashRepo.FindTransactionByID(id)
	if err != nil {
		return ErrTransactionNotFound
	}
	if tx.RelatedSaleID != nil {
		return ErrSaleTransaction
	}

	if err := s.cashRepo.DeleteTransaction(id); err != nil {
		return err
	}
	balance, err := s.cashRepo.GetBalance()
	if err != nil {
		return err
	}
	if tx.Type == model.CashIncome {
		balance.CurrentAmount -= tx.Amount
	} else {
		balance.CurrentAmount += tx.Amount
	}
	if err := s.cashRepo.SaveBalance(balance); err != nil {
		return err
	}

	go s.wsHub.Publish(ws.Event{
		Entity:  repository.KeyCashTransactions,
		Action:  "transaction_deleted",
		Data:    map[string]interface{}{"id": id},
		Message: fmt.Sprintf("Cash %s of %d reversed", tx.Type, tx.Amount),
	})
	return nil
}

func (s *cashService) ListTransactions() ([]model.CashTransaction, error) {
	return s.cashRepo.FindTransactions()
}

func (s *cashService) Summary() (*CashSummary, error) {
	balance, err := s.cashRepo.GetBalance()
	if err != nil {
		return nil, err
	}
	txs, err := s.cashRepo.FindTransactions()
	if err != nil {
		return nil, err
	}

	summary := &CashSummary{Balance: *balance, Count: len(txs)}
	for _, tx := range txs {
		if tx.Type == model.CashIncome {
			summary.TotalIncome += tx.Amount
		} else {
			summary.TotalExpense += tx.Amount
		}
	}
	return summary, nil
}
