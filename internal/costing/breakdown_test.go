package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleLines() ([]domain.Material, []domain.JobWork, []domain.AdditionalCost) {
	materials := []domain.Material{
		{MaterialName: "steel sheet", Quantity: dec("2"), UnitCost: dec("150.00"), TotalCost: dec("300.00")},
		{MaterialName: "paint", Quantity: dec("0.5"), UnitCost: dec("80.00"), TotalCost: dec("40.00")},
	}
	jobWork := []domain.JobWork{
		{Description: "powder coating", Cost: dec("120.00")},
	}
	additionalCosts := []domain.AdditionalCost{
		{CostType: "Transport", Cost: dec("35.00")},
		{CostType: "Packing", Cost: dec("15.00")},
	}
	return materials, jobWork, additionalCosts
}

func TestComputeBreakdown_Totals(t *testing.T) {
	materials, jobWork, additionalCosts := sampleLines()

	b := ComputeBreakdown(materials, jobWork, additionalCosts, dec("25.00"), nil)

	assert.True(t, b.MaterialsTotal.Equal(dec("340.00")))
	assert.True(t, b.JobWorkTotal.Equal(dec("120.00")))
	assert.True(t, b.AdditionalCostsTotal.Equal(dec("50.00")))
	assert.True(t, b.TotalProductCost.Equal(dec("510.00")))
	assert.True(t, b.NetCost.Equal(dec("485.00")))
	assert.Nil(t, b.Profit)
	assert.Nil(t, b.MarginPercent)
}

func TestComputeBreakdown_Deterministic(t *testing.T) {
	materials, jobWork, additionalCosts := sampleLines()

	first := ComputeBreakdown(materials, jobWork, additionalCosts, dec("25.00"), decPtr("600.00"))
	second := ComputeBreakdown(materials, jobWork, additionalCosts, dec("25.00"), decPtr("600.00"))

	assert.Equal(t, first, second)
}

func TestComputeBreakdown_UsesPersistedMaterialTotals(t *testing.T) {
	// A material's stored total wins over quantity x unit cost. The write
	// boundary keeps them in sync; the rollup must not second-guess it.
	materials := []domain.Material{
		{Quantity: dec("3"), UnitCost: dec("10.00"), TotalCost: dec("999.00")},
	}

	b := ComputeBreakdown(materials, nil, nil, decimal.Zero, nil)

	assert.True(t, b.MaterialsTotal.Equal(dec("999.00")))
}

func TestComputeBreakdown_QuantityChangeMovesTotalByDelta(t *testing.T) {
	base := []domain.Material{
		{Quantity: dec("2"), UnitCost: dec("50.00"), TotalCost: dec("100.00")},
		{Quantity: dec("1"), UnitCost: dec("30.00"), TotalCost: dec("30.00")},
	}
	before := ComputeBreakdown(base, nil, nil, decimal.Zero, nil)

	// Raise the first line's quantity by 1 unit at 50.00.
	changed := []domain.Material{
		{Quantity: dec("3"), UnitCost: dec("50.00"), TotalCost: dec("150.00")},
		base[1],
	}
	after := ComputeBreakdown(changed, nil, nil, decimal.Zero, nil)

	assert.True(t, after.TotalProductCost.Sub(before.TotalProductCost).Equal(dec("50.00")))
}

func TestComputeBreakdown_NegativeNetCostSurfacedAsIs(t *testing.T) {
	materials := []domain.Material{
		{TotalCost: dec("100.00")},
	}

	b := ComputeBreakdown(materials, nil, nil, dec("150.00"), nil)

	assert.True(t, b.NetCost.Equal(dec("-50.00")))
}

func TestComputeBreakdown_ProfitAndMargin(t *testing.T) {
	materials := []domain.Material{
		{TotalCost: dec("400.00")},
	}

	b := ComputeBreakdown(materials, nil, nil, decimal.Zero, decPtr("500.00"))

	require.NotNil(t, b.Profit)
	require.NotNil(t, b.MarginPercent)
	assert.True(t, b.Profit.Equal(dec("100.00")))
	assert.True(t, b.MarginPercent.Equal(dec("20.00")))
}

func TestComputeBreakdown_ZeroSellingPriceGuardsMargin(t *testing.T) {
	materials := []domain.Material{
		{TotalCost: dec("400.00")},
	}

	b := ComputeBreakdown(materials, nil, nil, decimal.Zero, decPtr("0"))

	require.NotNil(t, b.Profit)
	require.NotNil(t, b.MarginPercent)
	assert.True(t, b.Profit.Equal(dec("-400.00")))
	assert.True(t, b.MarginPercent.IsZero())
}

func TestComputeBreakdown_EmptyLines(t *testing.T) {
	b := ComputeBreakdown(nil, nil, nil, decimal.Zero, nil)

	assert.True(t, b.TotalProductCost.IsZero())
	assert.True(t, b.NetCost.IsZero())
}
