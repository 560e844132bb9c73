package costing

import (
	"github.com/shopspring/decimal"

	"costbook/internal/domain"
)

type AddMaterialCommand struct {
	ProductID    int64
	MaterialName string
	Quantity     decimal.Decimal
	Unit         string
	UnitCost     decimal.Decimal
}

type UpdateMaterialCommand struct {
	MaterialID   int64
	ProductID    int64
	MaterialName string
	Quantity     decimal.Decimal
	Unit         string
	UnitCost     decimal.Decimal
}

type AddJobWorkCommand struct {
	ProductID   int64
	Description string
	Cost        decimal.Decimal
}

type AddAdditionalCostCommand struct {
	ProductID   int64
	CostType    string
	Description string
	Cost        decimal.Decimal
}

// BreakdownResult is the full costing view of a product: the lines and the
// rollup derived from them.
type BreakdownResult struct {
	Product         *domain.Product
	Materials       []domain.Material
	JobWork         []domain.JobWork
	AdditionalCosts []domain.AdditionalCost
	Breakdown       CostBreakdown
}

type AddMaterialRequest struct {
	ProductID    int64           `json:"productId"`
	MaterialName string          `json:"materialName"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	UnitCost     decimal.Decimal `json:"unitCost"`
}

type UpdateMaterialRequest struct {
	MaterialName string          `json:"materialName"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	UnitCost     decimal.Decimal `json:"unitCost"`
}

type AddJobWorkRequest struct {
	ProductID   int64           `json:"productId"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

type AddAdditionalCostRequest struct {
	ProductID   int64           `json:"productId"`
	CostType    string          `json:"costType"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

type MaterialDTO struct {
	ID           int64           `json:"id"`
	MaterialName string          `json:"materialName"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	TotalCost    decimal.Decimal `json:"totalCost"`
}

type JobWorkDTO struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

type AdditionalCostDTO struct {
	ID          int64           `json:"id"`
	CostType    string          `json:"costType"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

type BreakdownDTO struct {
	MaterialsTotal       decimal.Decimal  `json:"materialsTotal"`
	JobWorkTotal         decimal.Decimal  `json:"jobWorkTotal"`
	AdditionalCostsTotal decimal.Decimal  `json:"additionalCostsTotal"`
	TotalProductCost     decimal.Decimal  `json:"totalProductCost"`
	NetCost              decimal.Decimal  `json:"netCost"`
	Profit               *decimal.Decimal `json:"profit,omitempty"`
	MarginPercent        *decimal.Decimal `json:"marginPercent,omitempty"`
}

type BreakdownResponse struct {
	ProductID       int64               `json:"productId"`
	ProductName     string              `json:"productName"`
	Materials       []MaterialDTO       `json:"materials"`
	JobWork         []JobWorkDTO        `json:"jobWork"`
	AdditionalCosts []AdditionalCostDTO `json:"additionalCosts"`
	CostBreakdown   BreakdownDTO        `json:"costBreakdown"`
}

func NewBreakdownDTO(b CostBreakdown) BreakdownDTO {
	return BreakdownDTO{
		MaterialsTotal:       b.MaterialsTotal,
		JobWorkTotal:         b.JobWorkTotal,
		AdditionalCostsTotal: b.AdditionalCostsTotal,
		TotalProductCost:     b.TotalProductCost,
		NetCost:              b.NetCost,
		Profit:               b.Profit,
		MarginPercent:        b.MarginPercent,
	}
}
