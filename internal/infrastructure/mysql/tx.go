package mysql

import (
	"context"
	"database/sql"
)

// Querier is the query surface shared by *sql.DB and *sql.Tx. Repositories
// accept it so the same method works inside and outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx is the transactional slice of *sql.Tx that services depend on.
type Tx interface {
	Querier
	Commit() error
	Rollback() error
}

// TransactionManager hands out transactions without exposing *sql.DB.
type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

type txManager struct {
	db *sql.DB
}

func NewTransactionManager(db *sql.DB) TransactionManager {
	return &txManager{db: db}
}

func (m *txManager) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	return m.db.BeginTx(ctx, opts)
}
