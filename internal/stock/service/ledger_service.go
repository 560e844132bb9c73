package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"costbook/internal/domain"
	apperrors "costbook/internal/errors"
	"costbook/internal/infrastructure/mysql"
	"costbook/internal/stock/dto"
)

type ProductRepository interface {
	FindByIDForUpdate(ctx context.Context, tx mysql.Querier, productID, userID int64) (*domain.Product, error)
	UpdateCurrentStock(ctx context.Context, tx mysql.Querier, productID int64, newStock decimal.Decimal) error
}

type MovementRepository interface {
	Insert(ctx context.Context, q mysql.Querier, m domain.StockMovement) (int64, error)
	ListByProduct(ctx context.Context, productID int64, filter dto.MovementFilter) ([]domain.StockMovement, int, error)
}

type SaleRepository interface {
	Insert(ctx context.Context, q mysql.Querier, s domain.Sale) (int64, error)
	ListByProduct(ctx context.Context, productID int64, filter dto.SaleFilter) ([]domain.Sale, int, error)
}

type ProductReader interface {
	FindByIDAndUser(ctx context.Context, productID, userID int64) (*domain.Product, error)
}

type StockReader interface {
	Summary(ctx context.Context, userID int64, lowStockThreshold decimal.Decimal) (*dto.StockSummary, error)
	LowStock(ctx context.Context, userID int64, threshold decimal.Decimal) ([]dto.LowStockProduct, error)
}

// LedgerService owns every write to product stock balances. A movement and
// its balance update always commit in one transaction behind a row lock on
// the product, so no interleaving can apply one without the other or let two
// writers act on the same pre-update balance.
type LedgerService struct {
	txManager mysql.TransactionManager
	products  ProductRepository
	reader    ProductReader
	movements MovementRepository
	sales     SaleRepository
	stocks    StockReader
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewLedgerService(
	txManager mysql.TransactionManager,
	products ProductRepository,
	reader ProductReader,
	movements MovementRepository,
	sales SaleRepository,
	stocks StockReader,
	logger *zap.Logger,
	txTimeout time.Duration,
) *LedgerService {
	return &LedgerService{
		txManager: txManager,
		products:  products,
		reader:    reader,
		movements: movements,
		sales:     sales,
		stocks:    stocks,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

func (s *LedgerService) RecordMovement(ctx context.Context, userID int64, cmd dto.RecordMovementCommand) (*dto.MovementResult, error) {
	if err := validateMovement(cmd); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.txManager.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// Rollback is a no-op after a successful commit.
	defer tx.Rollback()

	product, err := s.products.FindByIDForUpdate(txCtx, tx, cmd.ProductID, userID)
	if err != nil {
		return nil, err
	}

	newBalance, err := nextBalance(product, cmd.MovementType, cmd.Quantity)
	if err != nil {
		return nil, err
	}

	movement := domain.StockMovement{
		ProductID:    cmd.ProductID,
		MovementType: cmd.MovementType,
		Quantity:     cmd.Quantity,
		Reference:    cmd.Reference,
		Notes:        cmd.Notes,
		MovementDate: time.Now().UTC(),
		CreatedBy:    &userID,
	}

	movementID, err := s.movements.Insert(txCtx, tx, movement)
	if err != nil {
		return nil, err
	}
	movement.ID = movementID

	if err := s.products.UpdateCurrentStock(txCtx, tx, cmd.ProductID, newBalance); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit movement", zap.Int64("productId", cmd.ProductID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("stock movement recorded",
		zap.Int64("productId", cmd.ProductID),
		zap.Int64("movementId", movementID),
		zap.String("type", string(cmd.MovementType)),
		zap.String("quantity", cmd.Quantity.String()),
		zap.String("newBalance", newBalance.String()))

	return &dto.MovementResult{
		Movement:      movement,
		ProductName:   product.Name,
		PreviousStock: product.CurrentStock,
		NewStock:      newBalance,
	}, nil
}

// RecordSale applies an OUT movement and inserts the sale row in one unit of
// work. Either all three effects land (sale, movement, balance) or none do.
func (s *LedgerService) RecordSale(ctx context.Context, userID int64, cmd dto.RecordSaleCommand) (*dto.SaleResult, error) {
	if err := validateSale(cmd); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.txManager.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	product, err := s.products.FindByIDForUpdate(txCtx, tx, cmd.ProductID, userID)
	if err != nil {
		return nil, err
	}

	newBalance, err := nextBalance(product, domain.MovementOut, cmd.Quantity)
	if err != nil {
		return nil, err
	}

	sale := domain.Sale{
		ProductID:     cmd.ProductID,
		Quantity:      cmd.Quantity,
		UnitPrice:     cmd.UnitPrice,
		TotalAmount:   cmd.Quantity.Mul(cmd.UnitPrice).Round(2),
		SaleDate:      cmd.SaleDate,
		CustomerName:  cmd.CustomerName,
		InvoiceNumber: cmd.InvoiceNumber,
		Notes:         cmd.Notes,
	}

	saleID, err := s.sales.Insert(txCtx, tx, sale)
	if err != nil {
		return nil, err
	}
	sale.ID = saleID

	reference := "Sale"
	if cmd.InvoiceNumber != nil && *cmd.InvoiceNumber != "" {
		reference = *cmd.InvoiceNumber
	}
	notes := "Sale transaction"
	if cmd.Notes != nil && *cmd.Notes != "" {
		notes = *cmd.Notes
	}

	movementID, err := s.movements.Insert(txCtx, tx, domain.StockMovement{
		ProductID:    cmd.ProductID,
		MovementType: domain.MovementOut,
		Quantity:     cmd.Quantity,
		Reference:    &reference,
		Notes:        &notes,
		MovementDate: time.Now().UTC(),
		CreatedBy:    &userID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.products.UpdateCurrentStock(txCtx, tx, cmd.ProductID, newBalance); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit sale", zap.Int64("productId", cmd.ProductID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("sale recorded",
		zap.Int64("productId", cmd.ProductID),
		zap.Int64("saleId", saleID),
		zap.Int64("movementId", movementID),
		zap.String("quantity", cmd.Quantity.String()),
		zap.String("totalAmount", sale.TotalAmount.String()))

	return &dto.SaleResult{
		Sale:          sale,
		MovementID:    movementID,
		ProductName:   product.Name,
		PreviousStock: product.CurrentStock,
		NewStock:      newBalance,
	}, nil
}

func (s *LedgerService) ListMovements(ctx context.Context, userID, productID int64, filter dto.MovementFilter) ([]domain.StockMovement, int, error) {
	if _, err := s.reader.FindByIDAndUser(ctx, productID, userID); err != nil {
		return nil, 0, err
	}
	return s.movements.ListByProduct(ctx, productID, filter)
}

func (s *LedgerService) ListSales(ctx context.Context, userID, productID int64, filter dto.SaleFilter) ([]domain.Sale, int, error) {
	if _, err := s.reader.FindByIDAndUser(ctx, productID, userID); err != nil {
		return nil, 0, err
	}
	return s.sales.ListByProduct(ctx, productID, filter)
}

func (s *LedgerService) Summary(ctx context.Context, userID int64, lowStockThreshold decimal.Decimal) (*dto.StockSummary, error) {
	if lowStockThreshold.IsNegative() {
		return nil, apperrors.NewValidationError("threshold must be non-negative", apperrors.ValidationDetail{
			Field:   "threshold",
			Message: "threshold must be non-negative",
		})
	}
	return s.stocks.Summary(ctx, userID, lowStockThreshold)
}

func (s *LedgerService) LowStock(ctx context.Context, userID int64, threshold decimal.Decimal) ([]dto.LowStockProduct, error) {
	if threshold.IsNegative() {
		return nil, apperrors.NewValidationError("threshold must be non-negative", apperrors.ValidationDetail{
			Field:   "threshold",
			Message: "threshold must be non-negative",
		})
	}
	return s.stocks.LowStock(ctx, userID, threshold)
}

// nextBalance is the stock state machine. IN adds, OUT subtracts but never
// below zero, ADJUSTMENT overrides the balance with the given quantity.
func nextBalance(product *domain.Product, movementType domain.MovementType, quantity decimal.Decimal) (decimal.Decimal, error) {
	switch movementType {
	case domain.MovementIn:
		return product.CurrentStock.Add(quantity), nil
	case domain.MovementOut:
		if quantity.GreaterThan(product.CurrentStock) {
			return decimal.Zero, apperrors.NewInsufficientStockError(product.ID,
				fmt.Sprintf("insufficient stock: requested %s, available %s", quantity, product.CurrentStock))
		}
		return product.CurrentStock.Sub(quantity), nil
	case domain.MovementAdjustment:
		return quantity, nil
	}
	return decimal.Zero, apperrors.NewValidationError("invalid movement type")
}

func validateMovement(cmd dto.RecordMovementCommand) error {
	var details []apperrors.ValidationDetail

	if !cmd.MovementType.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "movementType",
			Message: "movementType must be one of IN, OUT, ADJUSTMENT",
		})
	}

	switch cmd.MovementType {
	case domain.MovementIn, domain.MovementOut:
		if !cmd.Quantity.IsPositive() {
			details = append(details, apperrors.ValidationDetail{
				Field:   "quantity",
				Message: "quantity must be positive",
			})
		}
	case domain.MovementAdjustment:
		if cmd.Quantity.IsNegative() {
			details = append(details, apperrors.ValidationDetail{
				Field:   "quantity",
				Message: "quantity must be non-negative for adjustments",
			})
		}
	}

	if cmd.Reference != nil && len(*cmd.Reference) > 100 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "reference",
			Message: "reference must be at most 100 characters",
		})
	}
	if cmd.Notes != nil && len(*cmd.Notes) > 500 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "notes",
			Message: "notes must be at most 500 characters",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func validateSale(cmd dto.RecordSaleCommand) error {
	var details []apperrors.ValidationDetail

	if !cmd.Quantity.IsPositive() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be positive",
		})
	}
	if cmd.UnitPrice.IsNegative() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "unitPrice",
			Message: "unitPrice must be non-negative",
		})
	}
	if cmd.SaleDate.IsZero() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "saleDate",
			Message: "saleDate is required",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
