package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material is a raw-material cost line. TotalCost is derived as
// quantity x unit cost when the line is written and persisted alongside the
// inputs; updates rewrite all three in the same statement.
type Material struct {
	ID           int64
	ProductID    int64
	MaterialName string
	Quantity     decimal.Decimal
	Unit         string
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// JobWork is an outsourced-labour cost line with a flat cost.
type JobWork struct {
	ID          int64
	ProductID   int64
	Description string
	Cost        decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AdditionalCost covers transport, packing and similar flat charges.
type AdditionalCost struct {
	ID          int64
	ProductID   int64
	CostType    string
	Description string
	Cost        decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
