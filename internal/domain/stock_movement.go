package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement is one immutable ledger entry. Entries are never updated or
// deleted once written. For ADJUSTMENT entries Quantity holds the absolute
// post-movement balance, not a delta.
type StockMovement struct {
	ID           int64
	ProductID    int64
	MovementType MovementType
	Quantity     decimal.Decimal
	Reference    *string
	Notes        *string
	MovementDate time.Time
	CreatedBy    *int64
}

// Apply returns the balance after this movement. Replaying every movement of a
// product over a zero starting balance must reproduce the product's current
// stock exactly.
func (m StockMovement) Apply(balance decimal.Decimal) decimal.Decimal {
	switch m.MovementType {
	case MovementIn:
		return balance.Add(m.Quantity)
	case MovementOut:
		return balance.Sub(m.Quantity)
	case MovementAdjustment:
		return m.Quantity
	}
	return balance
}

// ReplayBalance folds a chronologically ordered ledger into the final balance.
func ReplayBalance(movements []StockMovement) decimal.Decimal {
	balance := decimal.Zero
	for _, m := range movements {
		balance = m.Apply(balance)
	}
	return balance
}
