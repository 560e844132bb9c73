package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"costbook/internal/domain"
	apperrors "costbook/internal/errors"
	"costbook/internal/stock/dto"
)

type LedgerService interface {
	RecordMovement(ctx context.Context, userID int64, cmd dto.RecordMovementCommand) (*dto.MovementResult, error)
	RecordSale(ctx context.Context, userID int64, cmd dto.RecordSaleCommand) (*dto.SaleResult, error)
	ListMovements(ctx context.Context, userID, productID int64, filter dto.MovementFilter) ([]domain.StockMovement, int, error)
	ListSales(ctx context.Context, userID, productID int64, filter dto.SaleFilter) ([]domain.Sale, int, error)
	Summary(ctx context.Context, userID int64, lowStockThreshold decimal.Decimal) (*dto.StockSummary, error)
	LowStock(ctx context.Context, userID int64, threshold decimal.Decimal) ([]dto.LowStockProduct, error)
}

// retryBackoffs are the waits before each attempt. The first attempt runs
// immediately.
var retryBackoffs = []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

// LedgerUsecase retries ledger writes that lose a lock contest. Two
// transactions locking overlapping product rows in opposite order can
// deadlock in InnoDB; the victim is rolled back and is safe to replay.
type LedgerUsecase struct {
	service     LedgerService
	logger      *zap.Logger
	maxAttempts int
}

func NewLedgerUsecase(service LedgerService, logger *zap.Logger, maxAttempts int) *LedgerUsecase {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &LedgerUsecase{
		service:     service,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

func (u *LedgerUsecase) RecordMovement(ctx context.Context, userID int64, cmd dto.RecordMovementCommand) (*dto.MovementResult, error) {
	var result *dto.MovementResult
	err := u.withRetry(ctx, "record movement", func() error {
		var err error
		result, err = u.service.RecordMovement(ctx, userID, cmd)
		return err
	})
	return result, err
}

func (u *LedgerUsecase) RecordSale(ctx context.Context, userID int64, cmd dto.RecordSaleCommand) (*dto.SaleResult, error) {
	var result *dto.SaleResult
	err := u.withRetry(ctx, "record sale", func() error {
		var err error
		result, err = u.service.RecordSale(ctx, userID, cmd)
		return err
	})
	return result, err
}

func (u *LedgerUsecase) ListMovements(ctx context.Context, userID, productID int64, filter dto.MovementFilter) ([]domain.StockMovement, int, error) {
	return u.service.ListMovements(ctx, userID, productID, filter)
}

func (u *LedgerUsecase) ListSales(ctx context.Context, userID, productID int64, filter dto.SaleFilter) ([]domain.Sale, int, error) {
	return u.service.ListSales(ctx, userID, productID, filter)
}

func (u *LedgerUsecase) Summary(ctx context.Context, userID int64, lowStockThreshold decimal.Decimal) (*dto.StockSummary, error) {
	return u.service.Summary(ctx, userID, lowStockThreshold)
}

func (u *LedgerUsecase) LowStock(ctx context.Context, userID int64, threshold decimal.Decimal) ([]dto.LowStockProduct, error) {
	return u.service.LowStock(ctx, userID, threshold)
}

func (u *LedgerUsecase) withRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < u.maxAttempts; attempt++ {
		if wait := backoffFor(attempt); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isDeadlockError(lastErr) {
			return lastErr
		}

		u.logger.Warn("ledger write hit deadlock, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr))
	}

	u.logger.Error("ledger write exhausted deadlock retries",
		zap.String("operation", operation),
		zap.Int("attempts", u.maxAttempts),
		zap.Error(lastErr))

	return apperrors.NewDeadlockError("operation failed after retries, please try again")
}

// backoffFor adds up to 20% jitter so retrying victims do not collide again
// on the same schedule.
func backoffFor(attempt int) time.Duration {
	if attempt >= len(retryBackoffs) {
		attempt = len(retryBackoffs) - 1
	}
	base := retryBackoffs[attempt]
	if base == 0 {
		return 0
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 5))
	return base + jitter
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	// 1213 is a deadlock victim rollback, 1205 a lock wait timeout.
	return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
}
