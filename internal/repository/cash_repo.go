package repository

import (
	"errors"
	"time"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/store"

	"github.com/google/uuid"
)

type CashRepository interface {
	GetBalance() (*model.CashBalance, error)
	SaveBalance(balance *model.CashBalance) error
	FindTransactions() ([]model.CashTransaction, error)
	FindTransactionByID(id uuid.UUID) (*model.CashTransaction, error)
	FindTransactionBySale(saleID uuid.UUID) (*model.CashTransaction, error)
	InsertTransaction(tx *model.CashTransaction) error
	DeleteTransaction(id uuid.UUID) error
	ClearTransactions() error
}

type cashRepo struct {
	store *store.Store
}

func NewCashRepo(s *store.Store) CashRepository {
	return &cashRepo{store: s}
}

// GetBalance returns the drawer singleton, defaulting to a zero balance
// before the drawer has been initialized.
func (r *cashRepo) GetBalance() (*model.CashBalance, error) {
	var balance model.CashBalance
	err := r.store.Load(KeyCashBalance, &balance)
	if errors.Is(err, store.ErrKeyNotFound) {
		return &model.CashBalance{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *cashRepo) SaveBalance(balance *model.CashBalance) error {
	balance.UpdatedAt = time.Now()
	return r.store.Save(KeyCashBalance, balance)
}

func (r *cashRepo) FindTransactions() ([]model.CashTransaction, error) {
	var txs []model.CashTransaction
	err := r.store.Load(KeyCashTransactions, &txs)
	if errors.Is(err, store.ErrKeyNotFound) {
		return []model.CashTransaction{}, nil
	}
	return txs, err
}

func (r *cashRepo) FindTransactionByID(id uuid.UUID) (*model.CashTransaction, error) {
	txs, err := r.FindTransactions()
	if err != nil {
		return nil, err
	}
	for i := range txs {
		if txs[i].ID == id {
			return &txs[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *cashRepo) FindTransactionBySale(saleID uuid.UUID) (*model.CashTransaction, error) {
	txs, err := r.FindTransactions()
	if err != nil {
		return nil, err
	}
	for i := range txs {
		if txs[i].RelatedSaleID != nil && *txs[i].RelatedSaleID == saleID {
			return &txs[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *cashRepo) InsertTransaction(tx *model.CashTransaction) error {
	txs, err := r.FindTransactions()
	if err != nil {
		return err
	}
	txs = append(txs, *tx)
	return r.store.Save(KeyCashTransactions, txs)
}

func (r *cashRepo) DeleteTransaction(id uuid.UUID) error {
	txs, err := r.FindTransactions()
	if err != nil {
		return err
	}
	for i := range txs {
		if txs[i].ID == id {
			txs = append(txs[:i], txs[i+1:]...)
			return r.store.Save(KeyCashTransactions, txs)
		}
	}
	return ErrNotFound
}

// ClearTransactions wipes the ledger; used by drawer reset.
func (r *cashRepo) ClearTransactions() error {
	return r.store.Save(KeyCashTransactions, []model.CashTransaction{})
}
