package controller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"costbook/internal/commons"
	"costbook/internal/domain"
	apperrors "costbook/internal/errors"
	"costbook/internal/stock/dto"
	"costbook/internal/stock/usecase"
)

const defaultLowStockThreshold = "10"

const maxPageLimit = 100

type StockController struct {
	ledger *usecase.LedgerUsecase
	logger *zap.Logger
}

func NewStockController(ledger *usecase.LedgerUsecase, logger *zap.Logger) *StockController {
	return &StockController{
		ledger: ledger,
		logger: logger,
	}
}

func (c *StockController) Routes(r chi.Router) {
	r.Post("/stock/movements", c.HandleRecordMovement)
	r.Get("/stock/movements/{productId}", c.HandleListMovements)
	r.Post("/stock/sales", c.HandleRecordSale)
	r.Get("/stock/sales/{productId}", c.HandleListSales)
	r.Get("/stock/summary", c.HandleSummary)
	r.Get("/stock/alerts/low-stock", c.HandleLowStock)
}

func (c *StockController) HandleRecordMovement(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	var req dto.RecordMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.ProductID <= 0 {
		commons.WriteValidationError(w, "invalid productId", apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
		return
	}

	result, err := c.ledger.RecordMovement(r.Context(), commons.MustUserID(r.Context()), dto.RecordMovementCommand{
		ProductID:    req.ProductID,
		MovementType: domain.MovementType(req.MovementType),
		Quantity:     req.Quantity,
		Reference:    req.Reference,
		Notes:        req.Notes,
	})
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.RecordMovementResponse{
		Movement: newMovementDTO(result.Movement),
		StockUpdate: dto.StockUpdateDTO{
			PreviousStock: result.PreviousStock,
			NewStock:      result.NewStock,
			Change:        result.NewStock.Sub(result.PreviousStock),
		},
	})
}

func (c *StockController) HandleListMovements(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryLimit(r, 20)

	filter := dto.MovementFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		movementType := domain.MovementType(raw)
		if !movementType.Valid() {
			commons.WriteValidationError(w, "invalid movement type", apperrors.ValidationDetail{
				Field:   "type",
				Message: "type must be one of IN, OUT, ADJUSTMENT",
			})
			return
		}
		filter.MovementType = &movementType
	}

	movements, total, err := c.ledger.ListMovements(r.Context(), commons.MustUserID(r.Context()), productID, filter)
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	dtos := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		dtos = append(dtos, newMovementDTO(m))
	}

	commons.WriteJSON(w, http.StatusOK, dto.ListMovementsResponse{
		Movements:  dtos,
		Pagination: newPagination(page, limit, total),
	})
}

func (c *StockController) HandleRecordSale(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	var req dto.RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.ProductID <= 0 {
		commons.WriteValidationError(w, "invalid productId", apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
		return
	}

	saleDate, err := time.Parse("2006-01-02", req.SaleDate)
	if err != nil {
		commons.WriteValidationError(w, "invalid saleDate", apperrors.ValidationDetail{
			Field:   "saleDate",
			Message: "saleDate must be in YYYY-MM-DD format",
		})
		return
	}

	result, err := c.ledger.RecordSale(r.Context(), commons.MustUserID(r.Context()), dto.RecordSaleCommand{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		SaleDate:      saleDate,
		CustomerName:  req.CustomerName,
		InvoiceNumber: req.InvoiceNumber,
		Notes:         req.Notes,
	})
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.RecordSaleResponse{
		Sale: newSaleDTO(result.Sale),
		StockUpdate: dto.StockUpdateDTO{
			PreviousStock: result.PreviousStock,
			NewStock:      result.NewStock,
			Change:        result.NewStock.Sub(result.PreviousStock),
		},
	})
}

func (c *StockController) HandleListSales(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryLimit(r, 20)

	filter := dto.SaleFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	var ok2 bool
	if filter.StartDate, ok2 = parseDateQuery(w, r, "startDate"); !ok2 {
		return
	}
	if filter.EndDate, ok2 = parseDateQuery(w, r, "endDate"); !ok2 {
		return
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		commons.WriteValidationError(w, "invalid date range", apperrors.ValidationDetail{
			Field:   "endDate",
			Message: "endDate must not be before startDate",
		})
		return
	}

	sales, total, err := c.ledger.ListSales(r.Context(), commons.MustUserID(r.Context()), productID, filter)
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	dtos := make([]dto.SaleDTO, 0, len(sales))
	for _, s := range sales {
		dtos = append(dtos, newSaleDTO(s))
	}

	commons.WriteJSON(w, http.StatusOK, dto.ListSalesResponse{
		Sales:      dtos,
		Pagination: newPagination(page, limit, total),
	})
}

func (c *StockController) HandleSummary(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	threshold, ok := parseThreshold(w, r)
	if !ok {
		return
	}

	summary, err := c.ledger.Summary(r.Context(), commons.MustUserID(r.Context()), threshold)
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.StockSummaryResponse{
		TotalProducts:     summary.TotalProducts,
		TotalStock:        summary.TotalStock,
		TotalOpeningStock: summary.TotalOpeningStock,
		LowStockCount:     summary.LowStockCount,
		OutOfStockCount:   summary.OutOfStockCount,
	})
}

func (c *StockController) HandleLowStock(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	threshold, ok := parseThreshold(w, r)
	if !ok {
		return
	}

	products, err := c.ledger.LowStock(r.Context(), commons.MustUserID(r.Context()), threshold)
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	dtos := make([]dto.LowStockProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, dto.LowStockProductDTO{
			ID:           p.ProductID,
			Name:         p.Name,
			Unit:         p.Unit,
			CurrentStock: p.CurrentStock,
			OpeningStock: p.OpeningStock,
		})
	}

	commons.WriteJSON(w, http.StatusOK, dto.LowStockResponse{LowStockProducts: dtos})
}

func newMovementDTO(m domain.StockMovement) dto.MovementDTO {
	return dto.MovementDTO{
		ID:           m.ID,
		ProductID:    m.ProductID,
		MovementType: string(m.MovementType),
		Quantity:     m.Quantity,
		Reference:    m.Reference,
		Notes:        m.Notes,
		MovementDate: m.MovementDate,
	}
}

func newSaleDTO(s domain.Sale) dto.SaleDTO {
	return dto.SaleDTO{
		ID:            s.ID,
		ProductID:     s.ProductID,
		Quantity:      s.Quantity,
		UnitPrice:     s.UnitPrice,
		TotalAmount:   s.TotalAmount,
		SaleDate:      s.SaleDate.Format("2006-01-02"),
		CustomerName:  s.CustomerName,
		InvoiceNumber: s.InvoiceNumber,
		Notes:         s.Notes,
	}
}

func newPagination(page, limit, total int) dto.Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return dto.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

func parseProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || id <= 0 {
		commons.WriteValidationError(w, "invalid productId", apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
		return 0, false
	}
	return id, true
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

func parseThreshold(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	raw := r.URL.Query().Get("threshold")
	if raw == "" {
		raw = defaultLowStockThreshold
	}
	threshold, err := decimal.NewFromString(raw)
	if err != nil {
		commons.WriteValidationError(w, "invalid threshold", apperrors.ValidationDetail{
			Field:   "threshold",
			Message: "threshold must be a decimal number",
		})
		return decimal.Decimal{}, false
	}
	return threshold, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// queryLimit falls back on out-of-range values so a client cannot request an
// unbounded page.
func queryLimit(r *http.Request, fallback int) int {
	v := queryInt(r, "limit", fallback)
	if v > maxPageLimit {
		return fallback
	}
	return v
}
