package overhead

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
)

var hundred = decimal.NewFromInt(100)

const maxPageLimit = 100

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
	r.Post("/overheads", c.HandleCreate)
	r.Get("/overheads", c.HandleList)
	r.Get("/overheads/summary", c.HandleSummary)
	r.Get("/overheads/{overheadId}", c.HandleGet)
	r.Put("/overheads/{overheadId}", c.HandleUpdate)
	r.Delete("/overheads/{overheadId}", c.HandleDelete)
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	cmd, ok := c.decodeCommand(w, r)
	if !ok {
		return
	}

	overhead, err := c.service.Create(r.Context(), commons.MustUserID(r.Context()), CreateCommand{
		Category:           cmd.Category,
		Subcategory:        cmd.Subcategory,
		Description:        cmd.Description,
		Amount:             cmd.Amount,
		ExpenseDate:        cmd.ExpenseDate,
		IsRecurring:        cmd.IsRecurring,
		RecurringFrequency: cmd.RecurringFrequency,
	})
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, map[string]OverheadDTO{"overhead": NewOverheadDTO(*overhead)})
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	overheadID, ok := c.parseOverheadID(w, r)
	if !ok {
		return
	}

	overhead, err := c.service.Get(r.Context(), commons.MustUserID(r.Context()), overheadID)
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, map[string]OverheadDTO{"overhead": NewOverheadDTO(*overhead)})
}

func (c *Controller) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	overheadID, ok := c.parseOverheadID(w, r)
	if !ok {
		return
	}

	cmd, ok := c.decodeCommand(w, r)
	if !ok {
		return
	}

	overhead, err := c.service.Update(r.Context(), commons.MustUserID(r.Context()), UpdateCommand{
		OverheadID:         overheadID,
		Category:           cmd.Category,
		Subcategory:        cmd.Subcategory,
		Description:        cmd.Description,
		Amount:             cmd.Amount,
		ExpenseDate:        cmd.ExpenseDate,
		IsRecurring:        cmd.IsRecurring,
		RecurringFrequency: cmd.RecurringFrequency,
	})
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, map[string]OverheadDTO{"overhead": NewOverheadDTO(*overhead)})
}

func (c *Controller) HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	overheadID, ok := c.parseOverheadID(w, r)
	if !ok {
		return
	}

	if err := c.service.Delete(r.Context(), commons.MustUserID(r.Context()), overheadID); err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, map[string]string{"message": "overhead deleted"})
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	page := queryInt(r, "page", 1)
	limit := queryLimit(r, 20)

	filter := ListFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	var ok bool
	if filter.Category, ok = parseCategoryQuery(w, r); !ok {
		return
	}
	if filter.StartDate, ok = parseDateQuery(w, r, "startDate"); !ok {
		return
	}
	if filter.EndDate, ok = parseDateQuery(w, r, "endDate"); !ok {
		return
	}

	overheads, total, err := c.service.List(r.Context(), commons.MustUserID(r.Context()), filter)
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	dtos := make([]OverheadDTO, 0, len(overheads))
	for _, o := range overheads {
		dtos = append(dtos, NewOverheadDTO(o))
	}

	commons.WriteJSON(w, http.StatusOK, ListOverheadsResponse{
		Overheads:  dtos,
		Pagination: NewPagination(page, limit, total),
	})
}

func (c *Controller) HandleSummary(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	filter := SummaryFilter{}

	var ok bool
	if filter.Category, ok = parseCategoryQuery(w, r); !ok {
		return
	}
	if filter.StartDate, ok = parseDateQuery(w, r, "startDate"); !ok {
		return
	}
	if filter.EndDate, ok = parseDateQuery(w, r, "endDate"); !ok {
		return
	}

	summary, err := c.service.Summary(r.Context(), commons.MustUserID(r.Context()), filter)
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, newSummaryResponse(summary))
}

// newSummaryResponse derives each category's percent share. A zero grand
// total yields zero shares rather than a division error.
func newSummaryResponse(summary *domain.OverheadSummary) SummaryResponse {
	resp := SummaryResponse{
		TotalAmount: summary.TotalAmount,
		ByCategory:  make([]CategoryTotalDTO, 0, len(summary.ByCategory)),
		Monthly:     make([]MonthlyTotalDTO, 0, len(summary.Monthly)),
	}

	for _, ct := range summary.ByCategory {
		percent := decimal.Zero
		if summary.TotalAmount.IsPositive() {
			percent = ct.Total.Div(summary.TotalAmount).Mul(hundred).Round(2)
		}
		resp.ByCategory = append(resp.ByCategory, CategoryTotalDTO{
			Category: string(ct.Category),
			Total:    ct.Total,
			Count:    ct.Count,
			Percent:  percent,
		})
	}

	for _, mt := range summary.Monthly {
		resp.Monthly = append(resp.Monthly, MonthlyTotalDTO{
			Month: mt.Month,
			Total: mt.Total,
		})
	}

	return resp
}

type decodedCommand struct {
	Category           domain.OverheadCategory
	Subcategory        *string
	Description        string
	Amount             decimal.Decimal
	ExpenseDate        time.Time
	IsRecurring        bool
	RecurringFrequency *domain.RecurringFrequency
}

func (c *Controller) decodeCommand(w http.ResponseWriter, r *http.Request) (*decodedCommand, bool) {
	var req OverheadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return nil, false
	}

	expenseDate, err := time.Parse("2006-01-02", req.ExpenseDate)
	if err != nil {
		commons.WriteValidationError(w, "invalid expenseDate", apperrors.ValidationDetail{
			Field:   "expenseDate",
			Message: "expenseDate must be in YYYY-MM-DD format",
		})
		return nil, false
	}

	cmd := &decodedCommand{
		Category:    domain.OverheadCategory(req.Category),
		Subcategory: req.Subcategory,
		Description: req.Description,
		Amount:      req.Amount,
		ExpenseDate: expenseDate,
		IsRecurring: req.IsRecurring,
	}
	if req.RecurringFrequency != nil {
		freq := domain.RecurringFrequency(*req.RecurringFrequency)
		cmd.RecurringFrequency = &freq
	}

	return cmd, true
}

func (c *Controller) parseOverheadID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "overheadId"), 10, 64)
	if err != nil || id <= 0 {
		commons.WriteValidationError(w, "invalid overheadId", apperrors.ValidationDetail{
			Field:   "overheadId",
			Message: "overheadId must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

func parseCategoryQuery(w http.ResponseWriter, r *http.Request) (*domain.OverheadCategory, bool) {
	raw := r.URL.Query().Get("category")
	if raw == "" {
		return nil, true
	}
	category := domain.OverheadCategory(raw)
	if !category.Valid() {
		commons.WriteValidationError(w, "invalid category", apperrors.ValidationDetail{
			Field:   "category",
			Message: "category must be one of Fixed, Variable, Recurring, One-time",
		})
		return nil, false
	}
	return &category, true
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
