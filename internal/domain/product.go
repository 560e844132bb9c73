package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                  int64
	UserID              int64
	Name                string
	Description         string
	Unit                string
	ScrapValue          decimal.Decimal
	OpeningStock        decimal.Decimal
	CurrentStock        decimal.Decimal
	SellingPrice        *decimal.Decimal
	TargetMarginPercent *decimal.Decimal
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasSellingPrice reports whether profitability figures can be derived for the
// product.
func (p Product) HasSellingPrice() bool {
	return p.SellingPrice != nil
}
