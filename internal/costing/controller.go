package costing

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"costbook/internal/commons"
	"costbook/internal/domain"
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
	r.Post("/products/{productId}/materials", c.HandleAddMaterial)
	r.Put("/products/{productId}/materials/{materialId}", c.HandleUpdateMaterial)
	r.Delete("/products/{productId}/materials/{materialId}", c.HandleDeleteMaterial)
	r.Post("/products/{productId}/job-work", c.HandleAddJobWork)
	r.Delete("/products/{productId}/job-work/{jobWorkId}", c.HandleDeleteJobWork)
	r.Post("/products/{productId}/additional-costs", c.HandleAddAdditionalCost)
	r.Delete("/products/{productId}/additional-costs/{costId}", c.HandleDeleteAdditionalCost)
	r.Get("/products/{productId}/cost-breakdown", c.HandleGetCostBreakdown)
}

func (c *Controller) HandleAddMaterial(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	productID, ok := parsePathID(w, r, "productId")
	if !ok {
		return
	}

	var req AddMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	material, err := c.service.AddMaterial(r.Context(), commons.MustUserID(r.Context()), AddMaterialCommand{
		ProductID:    productID,
		MaterialName: req.MaterialName,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		UnitCost:     req.UnitCost,
	})
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, map[string]MaterialDTO{"material": newMaterialDTO(*material)})
}

func (c *Controller) HandleUpdateMaterial(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	productID, ok := parsePathID(w, r, "productId")
	if !ok {
		return
	}
	materialID, ok := parsePathID(w, r, "materialId")
	if !ok {
		return
	}

	var req UpdateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	material, err := c.service.UpdateMaterial(r.Context(), commons.MustUserID(r.Context()), UpdateMaterialCommand{
		MaterialID:   materialID,
		ProductID:    productID,
		MaterialName: req.MaterialName,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		UnitCost:     req.UnitCost,
	})
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, map[string]MaterialDTO{"material": newMaterialDTO(*material)})
}

func (c *Controller) HandleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	c.handleDeleteLine(w, r, "materialId", c.service.DeleteMaterial)
}

func (c *Controller) HandleAddJobWork(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	productID, ok := parsePathID(w, r, "productId")
	if !ok {
		return
	}

	var req AddJobWorkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	jobWork, err := c.service.AddJobWork(r.Context(), commons.MustUserID(r.Context()), AddJobWorkCommand{
		ProductID:   productID,
		Description: req.Description,
		Cost:        req.Cost,
	})
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, map[string]JobWorkDTO{"jobWork": newJobWorkDTO(*jobWork)})
}

func (c *Controller) HandleDeleteJobWork(w http.ResponseWriter, r *http.Request) {
	c.handleDeleteLine(w, r, "jobWorkId", c.service.DeleteJobWork)
}

func (c *Controller) HandleAddAdditionalCost(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	productID, ok := parsePathID(w, r, "productId")
	if !ok {
		return
	}

	var req AddAdditionalCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	cost, err := c.service.AddAdditionalCost(r.Context(), commons.MustUserID(r.Context()), AddAdditionalCostCommand{
		ProductID:   productID,
		CostType:    req.CostType,
		Description: req.Description,
		Cost:        req.Cost,
	})
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, map[string]AdditionalCostDTO{"additionalCost": newAdditionalCostDTO(*cost)})
}

func (c *Controller) HandleDeleteAdditionalCost(w http.ResponseWriter, r *http.Request) {
	c.handleDeleteLine(w, r, "costId", c.service.DeleteAdditionalCost)
}

func (c *Controller) HandleGetCostBreakdown(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	productID, ok := parsePathID(w, r, "productId")
	if !ok {
		return
	}

	result, err := c.service.GetCostBreakdown(r.Context(), commons.MustUserID(r.Context()), productID)
	if err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	materials := make([]MaterialDTO, 0, len(result.Materials))
	for _, m := range result.Materials {
		materials = append(materials, newMaterialDTO(m))
	}

	jobWork := make([]JobWorkDTO, 0, len(result.JobWork))
	for _, j := range result.JobWork {
		jobWork = append(jobWork, newJobWorkDTO(j))
	}

	additionalCosts := make([]AdditionalCostDTO, 0, len(result.AdditionalCosts))
	for _, a := range result.AdditionalCosts {
		additionalCosts = append(additionalCosts, newAdditionalCostDTO(a))
	}

	commons.WriteJSON(w, http.StatusOK, BreakdownResponse{
		ProductID:       result.Product.ID,
		ProductName:     result.Product.Name,
		Materials:       materials,
		JobWork:         jobWork,
		AdditionalCosts: additionalCosts,
		CostBreakdown:   NewBreakdownDTO(result.Breakdown),
	})
}

func (c *Controller) handleDeleteLine(
	w http.ResponseWriter,
	r *http.Request,
	param string,
	deleteFn func(ctx context.Context, userID, productID, lineID int64) error,
) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	productID, ok := parsePathID(w, r, "productId")
	if !ok {
		return
	}
	lineID, ok := parsePathID(w, r, param)
	if !ok {
		return
	}

	if err := deleteFn(r.Context(), commons.MustUserID(r.Context()), productID, lineID); err != nil {
		commons.WriteError(w, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func parsePathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		commons.WriteValidationError(w, "invalid "+param, apperrors.ValidationDetail{
			Field:   param,
			Message: param + " must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

func newMaterialDTO(m domain.Material) MaterialDTO {
	return MaterialDTO{
		ID:           m.ID,
		MaterialName: m.MaterialName,
		Quantity:     m.Quantity,
		Unit:         m.Unit,
		UnitCost:     m.UnitCost,
		TotalCost:    m.TotalCost,
	}
}

func newJobWorkDTO(j domain.JobWork) JobWorkDTO {
	return JobWorkDTO{
		ID:          j.ID,
		Description: j.Description,
		Cost:        j.Cost,
	}
}

func newAdditionalCostDTO(a domain.AdditionalCost) AdditionalCostDTO {
	return AdditionalCostDTO{
		ID:          a.ID,
		CostType:    a.CostType,
		Description: a.Description,
		Cost:        a.Cost,
	}
}
