package costing

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"costbook/internal/domain"
	apperrors "costbook/internal/errors"
)

type costingService struct {
	products ProductReader
	lines    CostLineRepository
	logger   *zap.Logger
}

func NewService(products ProductReader, lines CostLineRepository, logger *zap.Logger) Service {
	return &costingService{
		products: products,
		lines:    lines,
		logger:   logger,
	}
}

func (s *costingService) AddMaterial(ctx context.Context, userID int64, cmd AddMaterialCommand) (*domain.Material, error) {
	if err := validateMaterialFields(cmd.MaterialName, cmd.Quantity, cmd.Unit, cmd.UnitCost); err != nil {
		return nil, err
	}

	if _, err := s.products.FindByIDAndUser(ctx, cmd.ProductID, userID); err != nil {
		return nil, err
	}

	material := domain.Material{
		ProductID:    cmd.ProductID,
		MaterialName: cmd.MaterialName,
		Quantity:     cmd.Quantity,
		Unit:         cmd.Unit,
		UnitCost:     cmd.UnitCost,
		TotalCost:    cmd.Quantity.Mul(cmd.UnitCost).Round(2),
	}

	id, err := s.lines.InsertMaterial(ctx, material)
	if err != nil {
		return nil, err
	}
	material.ID = id

	s.logger.Info("material added",
		zap.Int64("productId", cmd.ProductID),
		zap.Int64("materialId", id),
		zap.String("totalCost", material.TotalCost.String()))

	return &material, nil
}

func (s *costingService) UpdateMaterial(ctx context.Context, userID int64, cmd UpdateMaterialCommand) (*domain.Material, error) {
	if err := validateMaterialFields(cmd.MaterialName, cmd.Quantity, cmd.Unit, cmd.UnitCost); err != nil {
		return nil, err
	}

	if _, err := s.products.FindByIDAndUser(ctx, cmd.ProductID, userID); err != nil {
		return nil, err
	}

	// The derived total is rewritten in the same statement as quantity and
	// unit cost so a stale total can never be observed.
	totalCost := cmd.Quantity.Mul(cmd.UnitCost).Round(2)
	err := s.lines.UpdateMaterial(ctx, cmd.MaterialID, cmd.ProductID, cmd.MaterialName, cmd.Quantity, cmd.Unit, cmd.UnitCost, totalCost)
	if err != nil {
		return nil, err
	}

	return &domain.Material{
		ID:           cmd.MaterialID,
		ProductID:    cmd.ProductID,
		MaterialName: cmd.MaterialName,
		Quantity:     cmd.Quantity,
		Unit:         cmd.Unit,
		UnitCost:     cmd.UnitCost,
		TotalCost:    totalCost,
	}, nil
}

func (s *costingService) DeleteMaterial(ctx context.Context, userID, productID, materialID int64) error {
	if _, err := s.products.FindByIDAndUser(ctx, productID, userID); err != nil {
		return err
	}
	return s.lines.DeleteMaterial(ctx, materialID, productID)
}

func (s *costingService) AddJobWork(ctx context.Context, userID int64, cmd AddJobWorkCommand) (*domain.JobWork, error) {
	var details []apperrors.ValidationDetail
	if len(cmd.Description) < 2 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "description",
			Message: "description must be at least 2 characters",
		})
	}
	if cmd.Cost.IsNegative() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "cost",
			Message: "cost must be non-negative",
		})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	if _, err := s.products.FindByIDAndUser(ctx, cmd.ProductID, userID); err != nil {
		return nil, err
	}

	jobWork := domain.JobWork{
		ProductID:   cmd.ProductID,
		Description: cmd.Description,
		Cost:        cmd.Cost.Round(2),
	}

	id, err := s.lines.InsertJobWork(ctx, jobWork)
	if err != nil {
		return nil, err
	}
	jobWork.ID = id

	return &jobWork, nil
}

func (s *costingService) DeleteJobWork(ctx context.Context, userID, productID, jobWorkID int64) error {
	if _, err := s.products.FindByIDAndUser(ctx, productID, userID); err != nil {
		return err
	}
	return s.lines.DeleteJobWork(ctx, jobWorkID, productID)
}

func (s *costingService) AddAdditionalCost(ctx context.Context, userID int64, cmd AddAdditionalCostCommand) (*domain.AdditionalCost, error) {
	var details []apperrors.ValidationDetail
	if cmd.CostType == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "costType",
			Message: "costType is required",
		})
	}
	if cmd.Cost.IsNegative() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "cost",
			Message: "cost must be non-negative",
		})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	if _, err := s.products.FindByIDAndUser(ctx, cmd.ProductID, userID); err != nil {
		return nil, err
	}

	cost := domain.AdditionalCost{
		ProductID:   cmd.ProductID,
		CostType:    cmd.CostType,
		Description: cmd.Description,
		Cost:        cmd.Cost.Round(2),
	}

	id, err := s.lines.InsertAdditionalCost(ctx, cost)
	if err != nil {
		return nil, err
	}
	cost.ID = id

	return &cost, nil
}

func (s *costingService) DeleteAdditionalCost(ctx context.Context, userID, productID, costID int64) error {
	if _, err := s.products.FindByIDAndUser(ctx, productID, userID); err != nil {
		return err
	}
	return s.lines.DeleteAdditionalCost(ctx, costID, productID)
}

func (s *costingService) GetCostBreakdown(ctx context.Context, userID, productID int64) (*BreakdownResult, error) {
	product, err := s.products.FindByIDAndUser(ctx, productID, userID)
	if err != nil {
		return nil, err
	}

	materials, err := s.lines.FindMaterialsByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	jobWork, err := s.lines.FindJobWorkByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	additionalCosts, err := s.lines.FindAdditionalCostsByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &BreakdownResult{
		Product:         product,
		Materials:       materials,
		JobWork:         jobWork,
		AdditionalCosts: additionalCosts,
		Breakdown:       ComputeBreakdown(materials, jobWork, additionalCosts, product.ScrapValue, product.SellingPrice),
	}, nil
}

func validateMaterialFields(name string, quantity decimal.Decimal, unit string, unitCost decimal.Decimal) error {
	var details []apperrors.ValidationDetail

	if len(name) < 2 || len(name) > 255 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "materialName",
			Message: "materialName must be between 2 and 255 characters",
		})
	}
	if quantity.IsNegative() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be non-negative",
		})
	}
	if unit == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "unit",
			Message: "unit is required",
		})
	}
	if unitCost.IsNegative() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "unitCost",
			Message: "unitCost must be non-negative",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
