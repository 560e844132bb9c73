package report

import (
	"github.com/shopspring/decimal"
)

// ProductProfitability pairs a product's sales aggregate with its costing
// rollup over the same window.
type ProductProfitability struct {
	ProductID   int64
	Name        string
	UnitsSold   decimal.Decimal
	Revenue     decimal.Decimal
	NetUnitCost decimal.Decimal
	TotalCost   decimal.Decimal
	Profit      decimal.Decimal
	// MarginPercent is zero when the window has no revenue.
	MarginPercent decimal.Decimal
}

type ProductCostReportResponse struct {
	Product         ProductReportDTO   `json:"product"`
	Materials       []CostLineDTO      `json:"materials"`
	JobWork         []CostLineDTO      `json:"jobWork"`
	AdditionalCosts []CostLineDTO      `json:"additionalCosts"`
	CostBreakdown   BreakdownReportDTO `json:"costBreakdown"`
}

type ProductReportDTO struct {
	ID                  int64            `json:"id"`
	Name                string           `json:"name"`
	Unit                string           `json:"unit"`
	CurrentStock        decimal.Decimal  `json:"currentStock"`
	ScrapValue          decimal.Decimal  `json:"scrapValue"`
	SellingPrice        *decimal.Decimal `json:"sellingPrice,omitempty"`
	TargetMarginPercent *decimal.Decimal `json:"targetMarginPercent,omitempty"`
}

type CostLineDTO struct {
	ID          int64            `json:"id"`
	Description string           `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	UnitCost    *decimal.Decimal `json:"unitCost,omitempty"`
	Cost        decimal.Decimal  `json:"cost"`
}

type BreakdownReportDTO struct {
	MaterialsTotal       decimal.Decimal `json:"materialsTotal"`
	JobWorkTotal         decimal.Decimal `json:"jobWorkTotal"`
	AdditionalCostsTotal decimal.Decimal `json:"additionalCostsTotal"`
	TotalProductCost     decimal.Decimal `json:"totalProductCost"`
	NetCost              decimal.Decimal `json:"netCost"`
	// Profit and MarginPercent are omitted when the product has no selling price.
	Profit        *decimal.Decimal `json:"profit,omitempty"`
	MarginPercent *decimal.Decimal `json:"marginPercent,omitempty"`
}

type ProfitabilityRowDTO struct {
	ProductID     int64           `json:"productId"`
	Name          string          `json:"name"`
	UnitsSold     decimal.Decimal `json:"unitsSold"`
	Revenue       decimal.Decimal `json:"revenue"`
	NetUnitCost   decimal.Decimal `json:"netUnitCost"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"marginPercent"`
}

type ProfitabilityResponse struct {
	Products []ProfitabilityRowDTO  `json:"products"`
	Totals   ProfitabilityTotalsDTO `json:"totals"`
}

type ProfitabilityTotalsDTO struct {
	Revenue       decimal.Decimal `json:"revenue"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"marginPercent"`
}

type DashboardKPIsResponse struct {
	TotalProducts        int                `json:"totalProducts"`
	TotalStock           decimal.Decimal    `json:"totalStock"`
	TotalSales           int                `json:"totalSales"`
	TotalRevenue         decimal.Decimal    `json:"totalRevenue"`
	TotalOverheads       decimal.Decimal    `json:"totalOverheads"`
	OverallProfit        decimal.Decimal    `json:"overallProfit"`
	OverallMarginPercent decimal.Decimal    `json:"overallMarginPercent"`
	LowStockCount        int                `json:"lowStockCount"`
	LowStockProducts     []LowStockAlertDTO `json:"lowStockProducts"`
}

type LowStockAlertDTO struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"currentStock"`
}
