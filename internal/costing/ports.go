package costing

import (
	"context"

	"github.com/shopspring/decimal"

	"costbook/internal/domain"
)

// ProductReader resolves product ownership before any cost-line write or read.
type ProductReader interface {
	FindByIDAndUser(ctx context.Context, productID, userID int64) (*domain.Product, error)
}

type CostLineRepository interface {
	InsertMaterial(ctx context.Context, m domain.Material) (int64, error)
	UpdateMaterial(ctx context.Context, id, productID int64, name string, quantity decimal.Decimal, unit string, unitCost, totalCost decimal.Decimal) error
	DeleteMaterial(ctx context.Context, id, productID int64) error
	FindMaterialsByProduct(ctx context.Context, productID int64) ([]domain.Material, error)

	InsertJobWork(ctx context.Context, j domain.JobWork) (int64, error)
	DeleteJobWork(ctx context.Context, id, productID int64) error
	FindJobWorkByProduct(ctx context.Context, productID int64) ([]domain.JobWork, error)

	InsertAdditionalCost(ctx context.Context, a domain.AdditionalCost) (int64, error)
	DeleteAdditionalCost(ctx context.Context, id, productID int64) error
	FindAdditionalCostsByProduct(ctx context.Context, productID int64) ([]domain.AdditionalCost, error)
}

type Service interface {
	AddMaterial(ctx context.Context, userID int64, cmd AddMaterialCommand) (*domain.Material, error)
	UpdateMaterial(ctx context.Context, userID int64, cmd UpdateMaterialCommand) (*domain.Material, error)
	DeleteMaterial(ctx context.Context, userID, productID, materialID int64) error

	AddJobWork(ctx context.Context, userID int64, cmd AddJobWorkCommand) (*domain.JobWork, error)
	DeleteJobWork(ctx context.Context, userID, productID, jobWorkID int64) error

	AddAdditionalCost(ctx context.Context, userID int64, cmd AddAdditionalCostCommand) (*domain.AdditionalCost, error)
	DeleteAdditionalCost(ctx context.Context, userID, productID, costID int64) error

	GetCostBreakdown(ctx context.Context, userID, productID int64) (*BreakdownResult, error)
}
