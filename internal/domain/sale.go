package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an append-only record. Every sale has exactly one correlated OUT
// stock movement written in the same transaction.
type Sale struct {
	ID            int64
	ProductID     int64
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	TotalAmount   decimal.Decimal
	SaleDate      time.Time
	CustomerName  *string
	InvoiceNumber *string
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
