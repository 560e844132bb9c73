package product

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"costbook/internal/domain"
	apperrors "costbook/internal/errors"
	"costbook/internal/infrastructure/mysql"
)

var openingStockReference = "Opening Stock"
var openingStockNotes = "Initial stock entry"

type productService struct {
	txManager mysql.TransactionManager
	repo      Repository
	movements MovementWriter
	logger    *zap.Logger
}

func NewService(txManager mysql.TransactionManager, repo Repository, movements MovementWriter, logger *zap.Logger) Service {
	return &productService{
		txManager: txManager,
		repo:      repo,
		movements: movements,
		logger:    logger,
	}
}

// Create inserts the product and, when it starts with stock on hand, the
// opening IN movement in the same transaction. The ledger is therefore
// complete from the first row: replaying it from zero yields current stock.
func (s *productService) Create(ctx context.Context, userID int64, cmd CreateCommand) (*domain.Product, error) {
	if err := validateProductFields(cmd.Name, cmd.Unit, cmd.ScrapValue, cmd.OpeningStock, cmd.SellingPrice, cmd.TargetMarginPercent); err != nil {
		return nil, err
	}

	product := domain.Product{
		UserID:              userID,
		Name:                cmd.Name,
		Description:         cmd.Description,
		Unit:                cmd.Unit,
		ScrapValue:          cmd.ScrapValue.Round(2),
		OpeningStock:        cmd.OpeningStock,
		CurrentStock:        cmd.OpeningStock,
		SellingPrice:        cmd.SellingPrice,
		TargetMarginPercent: cmd.TargetMarginPercent,
		IsActive:            true,
	}

	tx, err := s.txManager.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, apperrors.NewInternalError("beginning transaction", err)
	}
	defer tx.Rollback()

	id, err := s.repo.Insert(ctx, tx, product)
	if err != nil {
		return nil, err
	}
	product.ID = id

	if product.OpeningStock.IsPositive() {
		_, err = s.movements.Insert(ctx, tx, domain.StockMovement{
			ProductID:    id,
			MovementType: domain.MovementIn,
			Quantity:     product.OpeningStock,
			Reference:    &openingStockReference,
			Notes:        &openingStockNotes,
			MovementDate: time.Now().UTC(),
			CreatedBy:    &userID,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewInternalError("committing product creation", err)
	}

	s.logger.Info("product created",
		zap.Int64("productId", id),
		zap.Int64("userId", userID),
		zap.String("name", product.Name))

	return &product, nil
}

func (s *productService) Get(ctx context.Context, userID, productID int64) (*domain.Product, error) {
	return s.repo.FindByIDAndUser(ctx, productID, userID)
}

func (s *productService) List(ctx context.Context, userID int64, search string, page, limit int) ([]domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	return s.repo.ListByUser(ctx, userID, search, limit, offset)
}

// Update rewrites descriptive fields only. Current stock is owned by the
// stock ledger and is not touched here.
func (s *productService) Update(ctx context.Context, userID int64, cmd UpdateCommand) (*domain.Product, error) {
	if err := validateProductFields(cmd.Name, cmd.Unit, cmd.ScrapValue, cmd.OpeningStock, cmd.SellingPrice, cmd.TargetMarginPercent); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByIDAndUser(ctx, cmd.ProductID, userID)
	if err != nil {
		return nil, err
	}

	existing.Name = cmd.Name
	existing.Description = cmd.Description
	existing.Unit = cmd.Unit
	existing.ScrapValue = cmd.ScrapValue.Round(2)
	existing.OpeningStock = cmd.OpeningStock
	existing.SellingPrice = cmd.SellingPrice
	existing.TargetMarginPercent = cmd.TargetMarginPercent

	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *productService) Deactivate(ctx context.Context, userID, productID int64) error {
	if err := s.repo.Deactivate(ctx, productID, userID); err != nil {
		return err
	}

	s.logger.Info("product deactivated", zap.Int64("productId", productID), zap.Int64("userId", userID))
	return nil
}

func validateProductFields(
	name, unit string,
	scrapValue, openingStock decimal.Decimal,
	sellingPrice, targetMargin *decimal.Decimal,
) error {
	var details []apperrors.ValidationDetail

	if len(name) < 2 || len(name) > 255 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "name",
			Message: "name must be between 2 and 255 characters",
		})
	}
	if unit == "" || len(unit) > 50 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "unit",
			Message: "unit is required and must be at most 50 characters",
		})
	}
	if scrapValue.IsNegative() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "scrapValue",
			Message: "scrapValue must be non-negative",
		})
	}
	if openingStock.IsNegative() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "openingStock",
			Message: "openingStock must be non-negative",
		})
	}
	if sellingPrice != nil && sellingPrice.IsNegative() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "sellingPrice",
			Message: "sellingPrice must be non-negative",
		})
	}
	if targetMargin != nil && (targetMargin.IsNegative() || targetMargin.GreaterThan(decimal.NewFromInt(100))) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "targetMarginPercent",
			Message: "targetMarginPercent must be between 0 and 100",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
