package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"costbook/internal/domain"
	apperrors "costbook/internal/errors"
	"costbook/internal/infrastructure/mysql"
	productrepo "costbook/internal/product/repository"
	"costbook/internal/stock/dto"
	stockrepo "costbook/internal/stock/repository"
	"costbook/internal/stock/usecase"
	"costbook/internal/testutil"
)

func TestConcurrentOutMovements_OnlyOneSucceeds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	userID := testutil.SeedUser(t, db, "ledger-race@example.com")

	result, err := db.Exec(`
		INSERT INTO products (user_id, name, unit, current_stock, opening_stock)
		VALUES (?, 'Race Widget', 'pcs', 1.000, 1.000)
	`, userID)
	require.NoError(t, err)
	productID, err := result.LastInsertId()
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO stock_movements (product_id, movement_type, quantity, reference, created_by)
		VALUES (?, 'IN', 1.000, 'Opening Stock', ?)
	`, productID, userID)
	require.NoError(t, err)

	products := productrepo.NewMySQLProductRepository(db)
	movements := stockrepo.NewMySQLMovementRepository(db)
	sales := stockrepo.NewMySQLSaleRepository(db)
	stocks := stockrepo.NewMySQLStockRepository(db)

	svc := NewLedgerService(
		mysql.NewTransactionManager(db),
		products, products, movements, sales, stocks,
		zap.NewNop(), 5*time.Second,
	)
	ledger := usecase.NewLedgerUsecase(svc, zap.NewNop(), 3)

	cmd := dto.RecordMovementCommand{
		ProductID:    productID,
		MovementType: domain.MovementOut,
		Quantity:     decimal.NewFromInt(1),
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.RecordMovement(context.Background(), userID, cmd)
		}(i)
	}
	wg.Wait()

	var successes, rejections int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		if _, ok := apperrors.IsInsufficientStockError(err); ok {
			rejections++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, rejections)

	var currentStock decimal.Decimal
	err = db.QueryRow(`SELECT current_stock FROM products WHERE id = ?`, productID).Scan(&currentStock)
	require.NoError(t, err)
	assert.True(t, currentStock.IsZero())

	// Opening IN plus exactly one OUT; replaying the ledger reproduces the
	// stored balance.
	ledgerEntries, err := movements.FindAllByProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.Len(t, ledgerEntries, 2)
	assert.True(t, domain.ReplayBalance(ledgerEntries).Equal(currentStock))
}

func TestRecordSale_PersistsSaleAndCorrelatedMovement(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	userID := testutil.SeedUser(t, db, "ledger-sale@example.com")

	result, err := db.Exec(`
		INSERT INTO products (user_id, name, unit, current_stock, opening_stock)
		VALUES (?, 'Sale Widget', 'pcs', 5.000, 5.000)
	`, userID)
	require.NoError(t, err)
	productID, err := result.LastInsertId()
	require.NoError(t, err)

	products := productrepo.NewMySQLProductRepository(db)
	movements := stockrepo.NewMySQLMovementRepository(db)
	sales := stockrepo.NewMySQLSaleRepository(db)
	stocks := stockrepo.NewMySQLStockRepository(db)

	svc := NewLedgerService(
		mysql.NewTransactionManager(db),
		products, products, movements, sales, stocks,
		zap.NewNop(), 5*time.Second,
	)

	saleResult, err := svc.RecordSale(context.Background(), userID, dto.RecordSaleCommand{
		ProductID: productID,
		Quantity:  decimal.NewFromInt(2),
		UnitPrice: decimal.RequireFromString("149.99"),
		SaleDate:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, saleResult.NewStock.Equal(decimal.NewFromInt(3)))
	assert.True(t, saleResult.Sale.TotalAmount.Equal(decimal.RequireFromString("299.98")))

	entries, err := movements.FindAllByProduct(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.MovementOut, entries[0].MovementType)

	var currentStock decimal.Decimal
	err = db.QueryRow(`SELECT current_stock FROM products WHERE id = ?`, productID).Scan(&currentStock)
	require.NoError(t, err)
	assert.True(t, currentStock.Equal(decimal.NewFromInt(3)))
}
