package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"costbook/internal/domain"
)

type RecordMovementCommand struct {
	ProductID    int64
	MovementType domain.MovementType
	Quantity     decimal.Decimal
	Reference    *string
	Notes        *string
}

// MovementResult carries the applied movement together with the balance
// transition so callers can render previous/new stock without a second read.
type MovementResult struct {
	Movement      domain.StockMovement
	ProductName   string
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
}

type RecordSaleCommand struct {
	ProductID     int64
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	SaleDate      time.Time
	CustomerName  *string
	InvoiceNumber *string
	Notes         *string
}

type SaleResult struct {
	Sale          domain.Sale
	MovementID    int64
	ProductName   string
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
}

type MovementFilter struct {
	MovementType *domain.MovementType
	Limit        int
	Offset       int
}

type SaleFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// StockSummary aggregates a user's active products by stock position.
type StockSummary struct {
	TotalProducts     int
	TotalStock        decimal.Decimal
	TotalOpeningStock decimal.Decimal
	LowStockCount     int
	OutOfStockCount   int
}

type LowStockProduct struct {
	ProductID    int64
	Name         string
	Unit         string
	CurrentStock decimal.Decimal
	OpeningStock decimal.Decimal
}
