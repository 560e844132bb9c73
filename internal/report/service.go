package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"costbook/internal/costing"
	apperrors "costbook/internal/errors"
	reportrepo "costbook/internal/report/repository"
	"costbook/internal/stock/dto"
)

var hundred = decimal.NewFromInt(100)

type StockReader interface {
	LowStock(ctx context.Context, userID int64, threshold decimal.Decimal) ([]dto.LowStockProduct, error)
}

type Aggregator interface {
	SalesByProduct(ctx context.Context, userID int64, start, end *time.Time) ([]reportrepo.ProductSalesAggregate, error)
	FetchDashboardTotals(ctx context.Context, userID int64, lowStockThreshold decimal.Decimal) (*reportrepo.DashboardTotals, error)
}

type Service interface {
	ProductCost(ctx context.Context, userID, productID int64) (*costing.BreakdownResult, error)
	Profitability(ctx context.Context, userID int64, start, end *time.Time) ([]ProductProfitability, error)
	DashboardKPIs(ctx context.Context, userID int64) (*DashboardKPIsResponse, error)
}

// defaultLowStockThreshold mirrors the stock module's alert default so the
// dashboard and the alerts endpoint agree on what counts as low.
var defaultLowStockThreshold = decimal.NewFromInt(10)

type reportService struct {
	costing costing.Service
	lines   costing.CostLineRepository
	reports Aggregator
	stocks  StockReader
	logger  *zap.Logger
}

func NewService(
	costingService costing.Service,
	lines costing.CostLineRepository,
	reports Aggregator,
	stocks StockReader,
	logger *zap.Logger,
) Service {
	return &reportService{
		costing: costingService,
		lines:   lines,
		reports: reports,
		stocks:  stocks,
		logger:  logger,
	}
}

func (s *reportService) ProductCost(ctx context.Context, userID, productID int64) (*costing.BreakdownResult, error) {
	return s.costing.GetCostBreakdown(ctx, userID, productID)
}

// Profitability joins each product's sales window aggregate with its current
// cost rollup. Cost lines have no history, so the net unit cost reflects the
// product's costing as of now, not as of the sale.
func (s *reportService) Profitability(ctx context.Context, userID int64, start, end *time.Time) ([]ProductProfitability, error) {
	if start != nil && end != nil && end.Before(*start) {
		return nil, apperrors.NewValidationError("invalid date range", apperrors.ValidationDetail{
			Field:   "endDate",
			Message: "endDate must not be before startDate",
		})
	}

	aggregates, err := s.reports.SalesByProduct(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	rows := make([]ProductProfitability, 0, len(aggregates))
	for _, a := range aggregates {
		materials, err := s.lines.FindMaterialsByProduct(ctx, a.ProductID)
		if err != nil {
			return nil, err
		}
		jobWork, err := s.lines.FindJobWorkByProduct(ctx, a.ProductID)
		if err != nil {
			return nil, err
		}
		additionalCosts, err := s.lines.FindAdditionalCostsByProduct(ctx, a.ProductID)
		if err != nil {
			return nil, err
		}

		breakdown := costing.ComputeBreakdown(materials, jobWork, additionalCosts, a.ScrapValue, nil)

		totalCost := breakdown.NetCost.Mul(a.UnitsSold).Round(2)
		profit := a.Revenue.Sub(totalCost).Round(2)
		margin := decimal.Zero
		if a.Revenue.IsPositive() {
			margin = profit.Div(a.Revenue).Mul(hundred).Round(2)
		}

		rows = append(rows, ProductProfitability{
			ProductID:     a.ProductID,
			Name:          a.Name,
			UnitsSold:     a.UnitsSold,
			Revenue:       a.Revenue,
			NetUnitCost:   breakdown.NetCost,
			TotalCost:     totalCost,
			Profit:        profit,
			MarginPercent: margin,
		})
	}

	return rows, nil
}

func (s *reportService) DashboardKPIs(ctx context.Context, userID int64) (*DashboardKPIsResponse, error) {
	totals, err := s.reports.FetchDashboardTotals(ctx, userID, defaultLowStockThreshold)
	if err != nil {
		return nil, err
	}

	profitability, err := s.Profitability(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}

	overallProfit := decimal.Zero
	for _, row := range profitability {
		overallProfit = overallProfit.Add(row.Profit)
	}
	overallMargin := decimal.Zero
	if totals.TotalRevenue.IsPositive() {
		overallMargin = overallProfit.Div(totals.TotalRevenue).Mul(hundred).Round(2)
	}

	lowStock, err := s.stocks.LowStock(ctx, userID, defaultLowStockThreshold)
	if err != nil {
		return nil, err
	}

	alerts := make([]LowStockAlertDTO, 0, len(lowStock))
	for _, p := range lowStock {
		alerts = append(alerts, LowStockAlertDTO{
			ID:           p.ProductID,
			Name:         p.Name,
			Unit:         p.Unit,
			CurrentStock: p.CurrentStock,
		})
	}

	return &DashboardKPIsResponse{
		TotalProducts:        totals.TotalProducts,
		TotalStock:           totals.TotalStock,
		TotalSales:           totals.TotalSales,
		TotalRevenue:         totals.TotalRevenue,
		TotalOverheads:       totals.TotalOverheads,
		OverallProfit:        overallProfit.Round(2),
		OverallMarginPercent: overallMargin,
		LowStockCount:        totals.LowStockCount,
		LowStockProducts:     alerts,
	}, nil
}
