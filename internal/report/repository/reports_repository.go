package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"costbook/internal/infrastructure/mysql"
)

// ProductSalesAggregate is one product's sales activity inside a window,
// straight from the sales table.
type ProductSalesAggregate struct {
	ProductID  int64
	Name       string
	Unit       string
	ScrapValue decimal.Decimal
	UnitsSold  decimal.Decimal
	Revenue    decimal.Decimal
}

type DashboardTotals struct {
	TotalProducts  int
	TotalStock     decimal.Decimal
	TotalSales     int
	TotalRevenue   decimal.Decimal
	TotalOverheads decimal.Decimal
	LowStockCount  int
}

type MySQLReportRepository struct {
	db mysql.Querier
}

func NewMySQLReportRepository(db mysql.Querier) *MySQLReportRepository {
	return &MySQLReportRepository{db: db}
}

// SalesByProduct aggregates units sold and revenue per product inside the
// window. Products with no sales in the window are omitted.
func (r *MySQLReportRepository) SalesByProduct(ctx context.Context, userID int64, start, end *time.Time) ([]ProductSalesAggregate, error) {
	query := `
		SELECT p.id, p.name, p.unit, p.scrap_value,
		       COALESCE(SUM(s.quantity), 0), COALESCE(SUM(s.total_amount), 0)
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE p.user_id = ?
	`
	args := []interface{}{userID}

	if start != nil {
		query += ` AND s.sale_date >= ?`
		args = append(args, *start)
	}
	if end != nil {
		query += ` AND s.sale_date <= ?`
		args = append(args, *end)
	}

	query += ` GROUP BY p.id, p.name, p.unit, p.scrap_value ORDER BY SUM(s.total_amount) DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sales by product: %w", err)
	}
	defer rows.Close()

	var aggregates []ProductSalesAggregate
	for rows.Next() {
		var a ProductSalesAggregate
		if err := rows.Scan(&a.ProductID, &a.Name, &a.Unit, &a.ScrapValue, &a.UnitsSold, &a.Revenue); err != nil {
			return nil, fmt.Errorf("scanning sales aggregate: %w", err)
		}
		aggregates = append(aggregates, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sales aggregates: %w", err)
	}

	return aggregates, nil
}

// FetchDashboardTotals gathers the headline counters in one round trip per table.
func (r *MySQLReportRepository) FetchDashboardTotals(ctx context.Context, userID int64, lowStockThreshold decimal.Decimal) (*DashboardTotals, error) {
	totals := &DashboardTotals{}

	productQuery := `
		SELECT COUNT(*),
		       COALESCE(SUM(current_stock), 0),
		       COALESCE(SUM(CASE WHEN current_stock < ? THEN 1 ELSE 0 END), 0)
		FROM products
		WHERE user_id = ? AND is_active = 1
	`
	err := r.db.QueryRowContext(ctx, productQuery, lowStockThreshold, userID).
		Scan(&totals.TotalProducts, &totals.TotalStock, &totals.LowStockCount)
	if err != nil {
		return nil, fmt.Errorf("querying product totals: %w", err)
	}

	salesQuery := `
		SELECT COUNT(*), COALESCE(SUM(s.total_amount), 0)
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE p.user_id = ?
	`
	err = r.db.QueryRowContext(ctx, salesQuery, userID).Scan(&totals.TotalSales, &totals.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("querying sales totals: %w", err)
	}

	overheadQuery := `SELECT COALESCE(SUM(amount), 0) FROM overheads WHERE user_id = ?`
	err = r.db.QueryRowContext(ctx, overheadQuery, userID).Scan(&totals.TotalOverheads)
	if err != nil {
		return nil, fmt.Errorf("querying overhead totals: %w", err)
	}

	return totals, nil
}
