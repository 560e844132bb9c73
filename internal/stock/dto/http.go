package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecordMovementRequest struct {
	ProductID    int64           `json:"productId"`
	MovementType string          `json:"movementType"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reference    *string         `json:"reference"`
	Notes        *string         `json:"notes"`
}

type RecordSaleRequest struct {
	ProductID     int64           `json:"productId"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	SaleDate      string          `json:"saleDate"`
	CustomerName  *string         `json:"customerName"`
	InvoiceNumber *string         `json:"invoiceNumber"`
	Notes         *string         `json:"notes"`
}

type MovementDTO struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productId"`
	MovementType string          `json:"movementType"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reference    *string         `json:"reference"`
	Notes        *string         `json:"notes"`
	MovementDate time.Time       `json:"movementDate"`
}

type StockUpdateDTO struct {
	PreviousStock decimal.Decimal `json:"previousStock"`
	NewStock      decimal.Decimal `json:"newStock"`
	Change        decimal.Decimal `json:"change"`
}

type RecordMovementResponse struct {
	Movement    MovementDTO    `json:"movement"`
	StockUpdate StockUpdateDTO `json:"stockUpdate"`
}

type SaleDTO struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"productId"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	SaleDate      string          `json:"saleDate"`
	CustomerName  *string         `json:"customerName"`
	InvoiceNumber *string         `json:"invoiceNumber"`
	Notes         *string         `json:"notes"`
}

type RecordSaleResponse struct {
	Sale        SaleDTO        `json:"sale"`
	StockUpdate StockUpdateDTO `json:"stockUpdate"`
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

type ListMovementsResponse struct {
	Movements  []MovementDTO `json:"movements"`
	Pagination Pagination    `json:"pagination"`
}

type ListSalesResponse struct {
	Sales      []SaleDTO  `json:"sales"`
	Pagination Pagination `json:"pagination"`
}

type StockSummaryResponse struct {
	TotalProducts     int             `json:"totalProducts"`
	TotalStock        decimal.Decimal `json:"totalStock"`
	TotalOpeningStock decimal.Decimal `json:"totalOpeningStock"`
	LowStockCount     int             `json:"lowStockCount"`
	OutOfStockCount   int             `json:"outOfStockCount"`
}

type LowStockProductDTO struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	OpeningStock decimal.Decimal `json:"openingStock"`
}

type LowStockResponse struct {
	LowStockProducts []LowStockProductDTO `json:"lowStockProducts"`
}
