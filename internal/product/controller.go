package product

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"costbook/internal/commons"
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
	r.Post("/products", c.HandleCreate)
	r.Get("/products", c.HandleList)
	r.Get("/products/{productId}", c.HandleGet)
	r.Put("/products/{productId}", c.HandleUpdate)
	r.Delete("/products/{productId}", c.HandleDelete)
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	product, err := c.service.Create(r.Context(), commons.MustUserID(r.Context()), CreateCommand{
		Name:                req.Name,
		Description:         req.Description,
		Unit:                req.Unit,
		ScrapValue:          req.ScrapValue,
		OpeningStock:        req.OpeningStock,
		SellingPrice:        req.SellingPrice,
		TargetMarginPercent: req.TargetMarginPercent,
	})
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, map[string]ProductDTO{"product": NewProductDTO(*product)})
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	search := r.URL.Query().Get("search")

	products, total, err := c.service.List(r.Context(), commons.MustUserID(r.Context()), search, page, limit)
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, NewProductDTO(p))
	}

	commons.WriteJSON(w, http.StatusOK, ListProductsResponse{
		Products:   dtos,
		Pagination: NewPagination(page, limit, total),
	})
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	productID, ok := c.parseProductID(w, r)
	if !ok {
		return
	}

	product, err := c.service.Get(r.Context(), commons.MustUserID(r.Context()), productID)
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, map[string]ProductDTO{"product": NewProductDTO(*product)})
}

func (c *Controller) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	productID, ok := c.parseProductID(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	product, err := c.service.Update(r.Context(), commons.MustUserID(r.Context()), UpdateCommand{
		ProductID:           productID,
		Name:                req.Name,
		Description:         req.Description,
		Unit:                req.Unit,
		ScrapValue:          req.ScrapValue,
		OpeningStock:        req.OpeningStock,
		SellingPrice:        req.SellingPrice,
		TargetMarginPercent: req.TargetMarginPercent,
	})
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, map[string]ProductDTO{"product": NewProductDTO(*product)})
}

func (c *Controller) HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	productID, ok := c.parseProductID(w, r)
	if !ok {
		return
	}

	if err := c.service.Deactivate(r.Context(), commons.MustUserID(r.Context()), productID); err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, map[string]string{"message": "product deactivated"})
}

func (c *Controller) parseProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
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
