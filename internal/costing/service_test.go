package costing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"costbook/internal/domain"
	apperrors "costbook/internal/errors"
)

type mockProductReader struct {
	FindByIDAndUserFunc func(ctx context.Context, productID, userID int64) (*domain.Product, error)
}

func (m *mockProductReader) FindByIDAndUser(ctx context.Context, productID, userID int64) (*domain.Product, error) {
	return m.FindByIDAndUserFunc(ctx, productID, userID)
}

type mockCostLineRepository struct {
	InsertMaterialFunc func(ctx context.Context, m domain.Material) (int64, error)
	UpdateMaterialFunc func(ctx context.Context, id, productID int64, name string, quantity decimal.Decimal, unit string, unitCost, totalCost decimal.Decimal) error
	DeleteMaterialFunc func(ctx context.Context, id, productID int64) error
	FindMaterialsFunc  func(ctx context.Context, productID int64) ([]domain.Material, error)

	InsertJobWorkFunc func(ctx context.Context, j domain.JobWork) (int64, error)
	DeleteJobWorkFunc func(ctx context.Context, id, productID int64) error
	FindJobWorkFunc   func(ctx context.Context, productID int64) ([]domain.JobWork, error)

	InsertAdditionalCostFunc func(ctx context.Context, a domain.AdditionalCost) (int64, error)
	DeleteAdditionalCostFunc func(ctx context.Context, id, productID int64) error
	FindAdditionalCostsFunc  func(ctx context.Context, productID int64) ([]domain.AdditionalCost, error)
}

func (m *mockCostLineRepository) InsertMaterial(ctx context.Context, mat domain.Material) (int64, error) {
	return m.InsertMaterialFunc(ctx, mat)
}

func (m *mockCostLineRepository) UpdateMaterial(ctx context.Context, id, productID int64, name string, quantity decimal.Decimal, unit string, unitCost, totalCost decimal.Decimal) error {
	return m.UpdateMaterialFunc(ctx, id, productID, name, quantity, unit, unitCost, totalCost)
}

func (m *mockCostLineRepository) DeleteMaterial(ctx context.Context, id, productID int64) error {
	return m.DeleteMaterialFunc(ctx, id, productID)
}

func (m *mockCostLineRepository) FindMaterialsByProduct(ctx context.Context, productID int64) ([]domain.Material, error) {
	return m.FindMaterialsFunc(ctx, productID)
}

func (m *mockCostLineRepository) InsertJobWork(ctx context.Context, j domain.JobWork) (int64, error) {
	return m.InsertJobWorkFunc(ctx, j)
}

func (m *mockCostLineRepository) DeleteJobWork(ctx context.Context, id, productID int64) error {
	return m.DeleteJobWorkFunc(ctx, id, productID)
}

func (m *mockCostLineRepository) FindJobWorkByProduct(ctx context.Context, productID int64) ([]domain.JobWork, error) {
	return m.FindJobWorkFunc(ctx, productID)
}

func (m *mockCostLineRepository) InsertAdditionalCost(ctx context.Context, a domain.AdditionalCost) (int64, error) {
	return m.InsertAdditionalCostFunc(ctx, a)
}

func (m *mockCostLineRepository) DeleteAdditionalCost(ctx context.Context, id, productID int64) error {
	return m.DeleteAdditionalCostFunc(ctx, id, productID)
}

func (m *mockCostLineRepository) FindAdditionalCostsByProduct(ctx context.Context, productID int64) ([]domain.AdditionalCost, error) {
	return m.FindAdditionalCostsFunc(ctx, productID)
}

func ownedProduct() *domain.Product {
	return &domain.Product{
		ID:         7,
		UserID:     1,
		Name:       "Steel Table",
		Unit:       "pcs",
		ScrapValue: dec("25.00"),
	}
}

func TestAddMaterial_DerivesTotalCostAtWrite(t *testing.T) {
	products := &mockProductReader{
		FindByIDAndUserFunc: func(ctx context.Context, productID, userID int64) (*domain.Product, error) {
			return ownedProduct(), nil
		},
	}

	var inserted domain.Material
	lines := &mockCostLineRepository{
		InsertMaterialFunc: func(ctx context.Context, m domain.Material) (int64, error) {
			inserted = m
			return 42, nil
		},
	}

	svc := NewService(products, lines, zap.NewNop())

	material, err := svc.AddMaterial(context.Background(), 1, AddMaterialCommand{
		ProductID:    7,
		MaterialName: "steel sheet",
		Quantity:     dec("2.5"),
		Unit:         "kg",
		UnitCost:     dec("150.10"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), material.ID)
	assert.True(t, inserted.TotalCost.Equal(dec("375.25")))
	assert.True(t, material.TotalCost.Equal(dec("375.25")))
}

func TestAddMaterial_ValidationBeforeAnyIO(t *testing.T) {
	products := &mockProductReader{
		FindByIDAndUserFunc: func(ctx context.Context, productID, userID int64) (*domain.Product, error) {
			t.Fatal("product lookup must not run for invalid input")
			return nil, nil
		},
	}
	lines := &mockCostLineRepository{}

	svc := NewService(products, lines, zap.NewNop())

	_, err := svc.AddMaterial(context.Background(), 1, AddMaterialCommand{
		ProductID:    7,
		MaterialName: "x",
		Quantity:     dec("-1"),
		Unit:         "",
		UnitCost:     dec("-5"),
	})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 4)
}

func TestAddMaterial_UnknownProduct(t *testing.T) {
	products := &mockProductReader{
		FindByIDAndUserFunc: func(ctx context.Context, productID, userID int64) (*domain.Product, error) {
			return nil, apperrors.NewNotFoundError("product with id 7 not found")
		},
	}
	lines := &mockCostLineRepository{
		InsertMaterialFunc: func(ctx context.Context, m domain.Material) (int64, error) {
			t.Fatal("insert must not run when ownership check fails")
			return 0, nil
		},
	}

	svc := NewService(products, lines, zap.NewNop())

	_, err := svc.AddMaterial(context.Background(), 1, AddMaterialCommand{
		ProductID:    7,
		MaterialName: "steel sheet",
		Quantity:     dec("1"),
		Unit:         "kg",
		UnitCost:     dec("10"),
	})

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestUpdateMaterial_RewritesTotalWithInputs(t *testing.T) {
	products := &mockProductReader{
		FindByIDAndUserFunc: func(ctx context.Context, productID, userID int64) (*domain.Product, error) {
			return ownedProduct(), nil
		},
	}

	var gotTotal decimal.Decimal
	lines := &mockCostLineRepository{
		UpdateMaterialFunc: func(ctx context.Context, id, productID int64, name string, quantity decimal.Decimal, unit string, unitCost, totalCost decimal.Decimal) error {
			gotTotal = totalCost
			return nil
		},
	}

	svc := NewService(products, lines, zap.NewNop())

	material, err := svc.UpdateMaterial(context.Background(), 1, UpdateMaterialCommand{
		ProductID:    7,
		MaterialID:   42,
		MaterialName: "steel sheet",
		Quantity:     dec("4"),
		Unit:         "kg",
		UnitCost:     dec("149.99"),
	})

	require.NoError(t, err)
	assert.True(t, gotTotal.Equal(dec("599.96")))
	assert.True(t, material.TotalCost.Equal(dec("599.96")))
}

func TestAddJobWork_Validation(t *testing.T) {
	svc := NewService(&mockProductReader{}, &mockCostLineRepository{}, zap.NewNop())

	_, err := svc.AddJobWork(context.Background(), 1, AddJobWorkCommand{
		ProductID:   7,
		Description: "p",
		Cost:        dec("-10"),
	})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 2)
}

func TestGetCostBreakdown_ComposesLinesAndProduct(t *testing.T) {
	product := ownedProduct()
	price := dec("600.00")
	product.SellingPrice = &price

	products := &mockProductReader{
		FindByIDAndUserFunc: func(ctx context.Context, productID, userID int64) (*domain.Product, error) {
			return product, nil
		},
	}
	lines := &mockCostLineRepository{
		FindMaterialsFunc: func(ctx context.Context, productID int64) ([]domain.Material, error) {
			return []domain.Material{{TotalCost: dec("340.00")}}, nil
		},
		FindJobWorkFunc: func(ctx context.Context, productID int64) ([]domain.JobWork, error) {
			return []domain.JobWork{{Cost: dec("120.00")}}, nil
		},
		FindAdditionalCostsFunc: func(ctx context.Context, productID int64) ([]domain.AdditionalCost, error) {
			return []domain.AdditionalCost{{Cost: dec("50.00")}}, nil
		},
	}

	svc := NewService(products, lines, zap.NewNop())

	result, err := svc.GetCostBreakdown(context.Background(), 1, 7)

	require.NoError(t, err)
	assert.True(t, result.Breakdown.NetCost.Equal(dec("485.00")))
	require.NotNil(t, result.Breakdown.Profit)
	assert.True(t, result.Breakdown.Profit.Equal(dec("115.00")))
}
