package product

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"costbook/internal/domain"
	apperrors "costbook/internal/errors"
	"costbook/internal/infrastructure/mysql"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback() error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type mockTxManager struct {
	tx *fakeTx
}

func (m *mockTxManager) BeginTx(ctx context.Context, opts *sql.TxOptions) (mysql.Tx, error) {
	return m.tx, nil
}

type mockRepository struct {
	InsertFunc          func(ctx context.Context, q mysql.Querier, p domain.Product) (int64, error)
	FindByIDAndUserFunc func(ctx context.Context, productID, userID int64) (*domain.Product, error)
	UpdateFunc          func(ctx context.Context, p domain.Product) error
	DeactivateFunc      func(ctx context.Context, productID, userID int64) error
	ListByUserFunc      func(ctx context.Context, userID int64, search string, limit, offset int) ([]domain.Product, int, error)
}

func (m *mockRepository) Insert(ctx context.Context, q mysql.Querier, p domain.Product) (int64, error) {
	return m.InsertFunc(ctx, q, p)
}

func (m *mockRepository) FindByIDAndUser(ctx context.Context, productID, userID int64) (*domain.Product, error) {
	return m.FindByIDAndUserFunc(ctx, productID, userID)
}

func (m *mockRepository) Update(ctx context.Context, p domain.Product) error {
	return m.UpdateFunc(ctx, p)
}

func (m *mockRepository) Deactivate(ctx context.Context, productID, userID int64) error {
	return m.DeactivateFunc(ctx, productID, userID)
}

func (m *mockRepository) ListByUser(ctx context.Context, userID int64, search string, limit, offset int) ([]domain.Product, int, error) {
	return m.ListByUserFunc(ctx, userID, search, limit, offset)
}

type mockMovementWriter struct {
	InsertFunc func(ctx context.Context, q mysql.Querier, m domain.StockMovement) (int64, error)
}

func (m *mockMovementWriter) Insert(ctx context.Context, q mysql.Querier, mv domain.StockMovement) (int64, error) {
	return m.InsertFunc(ctx, q, mv)
}

func TestCreate_WithOpeningStockWritesOpeningMovement(t *testing.T) {
	tx := &fakeTx{}
	repo := &mockRepository{
		InsertFunc: func(ctx context.Context, q mysql.Querier, p domain.Product) (int64, error) {
			assert.True(t, p.CurrentStock.Equal(p.OpeningStock))
			return 7, nil
		},
	}

	var movement domain.StockMovement
	movements := &mockMovementWriter{
		InsertFunc: func(ctx context.Context, q mysql.Querier, m domain.StockMovement) (int64, error) {
			movement = m
			return 1, nil
		},
	}

	svc := NewService(&mockTxManager{tx: tx}, repo, movements, zap.NewNop())

	product, err := svc.Create(context.Background(), 1, CreateCommand{
		Name:         "Steel Table",
		Unit:         "pcs",
		ScrapValue:   dec("25.00"),
		OpeningStock: dec("10.000"),
	})

	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.Equal(t, int64(7), product.ID)
	assert.Equal(t, domain.MovementIn, movement.MovementType)
	assert.True(t, movement.Quantity.Equal(dec("10.000")))
	require.NotNil(t, movement.Reference)
	assert.Equal(t, "Opening Stock", *movement.Reference)
	require.NotNil(t, movement.Notes)
	assert.Equal(t, "Initial stock entry", *movement.Notes)
	// The repository writes movement_date explicitly, so the service must
	// stamp it; a zero time is below MySQL's DATETIME range.
	assert.False(t, movement.MovementDate.IsZero())
}

func TestCreate_ZeroOpeningStockSkipsMovement(t *testing.T) {
	tx := &fakeTx{}
	repo := &mockRepository{
		InsertFunc: func(ctx context.Context, q mysql.Querier, p domain.Product) (int64, error) {
			return 8, nil
		},
	}
	movements := &mockMovementWriter{
		InsertFunc: func(ctx context.Context, q mysql.Querier, m domain.StockMovement) (int64, error) {
			t.Fatal("no opening movement expected for zero opening stock")
			return 0, nil
		},
	}

	svc := NewService(&mockTxManager{tx: tx}, repo, movements, zap.NewNop())

	_, err := svc.Create(context.Background(), 1, CreateCommand{
		Name: "Empty Shelf",
		Unit: "pcs",
	})

	require.NoError(t, err)
	assert.True(t, tx.committed)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(&mockTxManager{tx: &fakeTx{}}, &mockRepository{}, &mockMovementWriter{}, zap.NewNop())

	badMargin := dec("120")
	_, err := svc.Create(context.Background(), 1, CreateCommand{
		Name:                "x",
		Unit:                "",
		ScrapValue:          dec("-1"),
		OpeningStock:        dec("-2"),
		TargetMarginPercent: &badMargin,
	})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 5)
}

func TestCreate_InsertFailureRollsBack(t *testing.T) {
	tx := &fakeTx{}
	repo := &mockRepository{
		InsertFunc: func(ctx context.Context, q mysql.Querier, p domain.Product) (int64, error) {
			return 0, apperrors.NewInternalError("insert failed", nil)
		},
	}

	svc := NewService(&mockTxManager{tx: tx}, repo, &mockMovementWriter{}, zap.NewNop())

	_, err := svc.Create(context.Background(), 1, CreateCommand{
		Name: "Steel Table",
		Unit: "pcs",
	})

	require.Error(t, err)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestUpdate_DoesNotTouchCurrentStock(t *testing.T) {
	existing := &domain.Product{
		ID:           7,
		UserID:       1,
		Name:         "Steel Table",
		Unit:         "pcs",
		CurrentStock: dec("42.000"),
	}

	var updated domain.Product
	repo := &mockRepository{
		FindByIDAndUserFunc: func(ctx context.Context, productID, userID int64) (*domain.Product, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, p domain.Product) error {
			updated = p
			return nil
		},
	}

	svc := NewService(&mockTxManager{tx: &fakeTx{}}, repo, &mockMovementWriter{}, zap.NewNop())

	product, err := svc.Update(context.Background(), 1, UpdateCommand{
		ProductID: 7,
		Name:      "Steel Table v2",
		Unit:      "pcs",
	})

	require.NoError(t, err)
	assert.Equal(t, "Steel Table v2", updated.Name)
	assert.True(t, updated.CurrentStock.Equal(dec("42.000")))
	assert.True(t, product.CurrentStock.Equal(dec("42.000")))
}

func TestList_ClampsPagination(t *testing.T) {
	var gotLimit, gotOffset int
	repo := &mockRepository{
		ListByUserFunc: func(ctx context.Context, userID int64, search string, limit, offset int) ([]domain.Product, int, error) {
			gotLimit = limit
			gotOffset = offset
			return nil, 0, nil
		},
	}

	svc := NewService(&mockTxManager{tx: &fakeTx{}}, repo, &mockMovementWriter{}, zap.NewNop())

	_, _, err := svc.List(context.Background(), 1, "", -3, 500)

	require.NoError(t, err)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 0, gotOffset)
}
