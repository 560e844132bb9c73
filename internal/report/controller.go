package report

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"costbook/internal/commons"
	"costbook/internal/costing"
	apperrors "costbook/internal/errors"
)

type Controller struct {
	service Service
	logger  *zap.Logger
}

func NewController(service Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) Routes(r chi.Router) {
	r.Get("/reports/product-cost/{productId}", c.HandleProductCost)
	r.Get("/reports/profitability", c.HandleProfitability)
	r.Get("/dashboard/kpis", c.HandleDashboardKPIs)
}

func (c *Controller) HandleProductCost(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || productID <= 0 {
		commons.WriteValidationError(w, "invalid productId", apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
		return
	}

	result, err := c.service.ProductCost(r.Context(), commons.MustUserID(r.Context()), productID)
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, newProductCostReport(result))
}

func (c *Controller) HandleProfitability(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	start, ok := parseDateQuery(w, r, "startDate")
	if !ok {
		return
	}
	end, ok := parseDateQuery(w, r, "endDate")
	if !ok {
		return
	}

	rows, err := c.service.Profitability(r.Context(), commons.MustUserID(r.Context()), start, end)
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, newProfitabilityResponse(rows))
}

func (c *Controller) HandleDashboardKPIs(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	kpis, err := c.service.DashboardKPIs(r.Context(), commons.MustUserID(r.Context()))
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, kpis)
}

func newProductCostReport(result *costing.BreakdownResult) ProductCostReportResponse {
	resp := ProductCostReportResponse{
		Product: ProductReportDTO{
			ID:                  result.Product.ID,
			Name:                result.Product.Name,
			Unit:                result.Product.Unit,
			CurrentStock:        result.Product.CurrentStock,
			ScrapValue:          result.Product.ScrapValue,
			SellingPrice:        result.Product.SellingPrice,
			TargetMarginPercent: result.Product.TargetMarginPercent,
		},
		Materials:       make([]CostLineDTO, 0, len(result.Materials)),
		JobWork:         make([]CostLineDTO, 0, len(result.JobWork)),
		AdditionalCosts: make([]CostLineDTO, 0, len(result.AdditionalCosts)),
		CostBreakdown: BreakdownReportDTO{
			MaterialsTotal:       result.Breakdown.MaterialsTotal,
			JobWorkTotal:         result.Breakdown.JobWorkTotal,
			AdditionalCostsTotal: result.Breakdown.AdditionalCostsTotal,
			TotalProductCost:     result.Breakdown.TotalProductCost,
			NetCost:              result.Breakdown.NetCost,
			Profit:               result.Breakdown.Profit,
			MarginPercent:        result.Breakdown.MarginPercent,
		},
	}

	for _, m := range result.Materials {
		quantity := m.Quantity
		unit := m.Unit
		unitCost := m.UnitCost
		resp.Materials = append(resp.Materials, CostLineDTO{
			ID:          m.ID,
			Description: m.MaterialName,
			Quantity:    &quantity,
			Unit:        &unit,
			UnitCost:    &unitCost,
			Cost:        m.TotalCost,
		})
	}
	for _, j := range result.JobWork {
		resp.JobWork = append(resp.JobWork, CostLineDTO{
			ID:          j.ID,
			Description: j.Description,
			Cost:        j.Cost,
		})
	}
	for _, a := range result.AdditionalCosts {
		description := a.CostType
		if a.Description != "" {
			description = a.Description
		}
		resp.AdditionalCosts = append(resp.AdditionalCosts, CostLineDTO{
			ID:          a.ID,
			Description: description,
			Cost:        a.Cost,
		})
	}

	return resp
}

func newProfitabilityResponse(rows []ProductProfitability) ProfitabilityResponse {
	resp := ProfitabilityResponse{
		Products: make([]ProfitabilityRowDTO, 0, len(rows)),
	}

	revenue := decimal.Zero
	totalCost := decimal.Zero
	for _, row := range rows {
		resp.Products = append(resp.Products, ProfitabilityRowDTO{
			ProductID:     row.ProductID,
			Name:          row.Name,
			UnitsSold:     row.UnitsSold,
			Revenue:       row.Revenue,
			NetUnitCost:   row.NetUnitCost,
			TotalCost:     row.TotalCost,
			Profit:        row.Profit,
			MarginPercent: row.MarginPercent,
		})
		revenue = revenue.Add(row.Revenue)
		totalCost = totalCost.Add(row.TotalCost)
	}

	profit := revenue.Sub(totalCost).Round(2)
	margin := decimal.Zero
	if revenue.IsPositive() {
		margin = profit.Div(revenue).Mul(hundred).Round(2)
	}

	resp.Totals = ProfitabilityTotalsDTO{
		Revenue:       revenue.Round(2),
		TotalCost:     totalCost.Round(2),
		Profit:        profit,
		MarginPercent: margin,
	}

	return resp
}

func parseDateQuery(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		commons.WriteValidationError(w, "invalid "+name, apperrors.ValidationDetail{
			Field:   name,
			Message: name + " must be in YYYY-MM-DD format",
		})
		return nil, false
	}
	return &t, true
}
