package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"costbook/internal/infrastructure/mysql"
	"costbook/internal/stock/dto"
)

// MySQLStockRepository serves the read-only aggregate views over product
// stock positions.
type MySQLStockRepository struct {
	db mysql.Querier
}

func NewMySQLStockRepository(db mysql.Querier) *MySQLStockRepository {
	return &MySQLStockRepository{db: db}
}

func (r *MySQLStockRepository) Summary(ctx context.Context, userID int64, lowStockThreshold decimal.Decimal) (*dto.StockSummary, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(current_stock), 0),
		       COALESCE(SUM(opening_stock), 0),
		       COALESCE(SUM(CASE WHEN current_stock > 0 AND current_stock < ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN current_stock <= 0 THEN 1 ELSE 0 END), 0)
		FROM products
		WHERE user_id = ? AND is_active = 1
	`

	var summary dto.StockSummary
	err := r.db.QueryRowContext(ctx, query, lowStockThreshold, userID).Scan(
		&summary.TotalProducts, &summary.TotalStock, &summary.TotalOpeningStock,
		&summary.LowStockCount, &summary.OutOfStockCount,
	)
	if err != nil {
		return nil, fmt.Errorf("querying stock summary: %w", err)
	}

	return &summary, nil
}

func (r *MySQLStockRepository) LowStock(ctx context.Context, userID int64, threshold decimal.Decimal) ([]dto.LowStockProduct, error) {
	query := `
		SELECT id, name, unit, current_stock, opening_stock
		FROM products
		WHERE user_id = ? AND is_active = 1 AND current_stock < ?
		ORDER BY current_stock ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, threshold)
	if err != nil {
		return nil, fmt.Errorf("querying low stock products: %w", err)
	}
	defer rows.Close()

	var products []dto.LowStockProduct
	for rows.Next() {
		var p dto.LowStockProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Unit, &p.CurrentStock, &p.OpeningStock); err != nil {
			return nil, fmt.Errorf("scanning low stock row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating low stock rows: %w", err)
	}

	return products, nil
}
