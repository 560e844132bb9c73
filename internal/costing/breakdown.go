package costing

import (
	"github.com/shopspring/decimal"

	"costbook/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// CostBreakdown is the deterministic rollup of a product's cost lines.
// Profit and MarginPercent are present only when the product has a selling
// price.
type CostBreakdown struct {
	MaterialsTotal       decimal.Decimal
	JobWorkTotal         decimal.Decimal
	AdditionalCostsTotal decimal.Decimal
	TotalProductCost     decimal.Decimal
	NetCost              decimal.Decimal
	Profit               *decimal.Decimal
	MarginPercent        *decimal.Decimal
}

// ComputeBreakdown aggregates cost lines into a breakdown. It trusts each
// material line's persisted TotalCost instead of re-deriving it from quantity
// and unit cost; the write boundary guarantees the two agree, and re-deriving
// here would mask a stale write.
//
// NetCost may go negative when the scrap value exceeds the total cost. Scrap
// value is recoverable value rather than a consumable credit, so the figure is
// surfaced as-is and never clamped.
func ComputeBreakdown(
	materials []domain.Material,
	jobWork []domain.JobWork,
	additionalCosts []domain.AdditionalCost,
	scrapValue decimal.Decimal,
	sellingPrice *decimal.Decimal,
) CostBreakdown {
	materialsTotal := decimal.Zero
	for _, m := range materials {
		materialsTotal = materialsTotal.Add(m.TotalCost)
	}

	jobWorkTotal := decimal.Zero
	for _, j := range jobWork {
		jobWorkTotal = jobWorkTotal.Add(j.Cost)
	}

	additionalCostsTotal := decimal.Zero
	for _, a := range additionalCosts {
		additionalCostsTotal = additionalCostsTotal.Add(a.Cost)
	}

	totalProductCost := materialsTotal.Add(jobWorkTotal).Add(additionalCostsTotal)
	netCost := totalProductCost.Sub(scrapValue)

	breakdown := CostBreakdown{
		MaterialsTotal:       materialsTotal.Round(2),
		JobWorkTotal:         jobWorkTotal.Round(2),
		AdditionalCostsTotal: additionalCostsTotal.Round(2),
		TotalProductCost:     totalProductCost.Round(2),
		NetCost:              netCost.Round(2),
	}

	if sellingPrice != nil {
		profit := sellingPrice.Sub(netCost).Round(2)
		margin := decimal.Zero
		if sellingPrice.IsPositive() {
			margin = profit.Div(*sellingPrice).Mul(hundred).Round(2)
		}
		breakdown.Profit = &profit
		breakdown.MarginPercent = &margin
	}

	return breakdown
}
