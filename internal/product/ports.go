package product

import (
	"context"

	"github.com/shopspring/decimal"

	"costbook/internal/domain"
	"costbook/internal/infrastructure/mysql"
)

type Repository interface {
	Insert(ctx context.Context, q mysql.Querier, p domain.Product) (int64, error)
	FindByIDAndUser(ctx context.Context, productID, userID int64) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) error
	Deactivate(ctx context.Context, productID, userID int64) error
	ListByUser(ctx context.Context, userID int64, search string, limit, offset int) ([]domain.Product, int, error)
}

// MovementWriter appends the opening-stock entry when a product is created
// with stock on hand. Implemented by the stock ledger's movement repository.
type MovementWriter interface {
	Insert(ctx context.Context, q mysql.Querier, m domain.StockMovement) (int64, error)
}

type Service interface {
	Create(ctx context.Context, userID int64, cmd CreateCommand) (*domain.Product, error)
	Get(ctx context.Context, userID, productID int64) (*domain.Product, error)
	List(ctx context.Context, userID int64, search string, page, limit int) ([]domain.Product, int, error)
	Update(ctx context.Context, userID int64, cmd UpdateCommand) (*domain.Product, error)
	Deactivate(ctx context.Context, userID, productID int64) error
}

type CreateCommand struct {
	Name                string
	Description         string
	Unit                string
	ScrapValue          decimal.Decimal
	OpeningStock        decimal.Decimal
	SellingPrice        *decimal.Decimal
	TargetMarginPercent *decimal.Decimal
}

type UpdateCommand struct {
	ProductID           int64
	Name                string
	Description         string
	Unit                string
	ScrapValue          decimal.Decimal
	OpeningStock        decimal.Decimal
	SellingPrice        *decimal.Decimal
	TargetMarginPercent *decimal.Decimal
}
