package repository

import (
	"context"
	"database/sql"
	"fmt"

	"costbook/internal/domain"
	"costbook/internal/infrastructure/mysql"
	"costbook/internal/stock/dto"
)

const saleColumns = `id, product_id, quantity, unit_price, total_amount, sale_date,
       customer_name, invoice_number, notes, created_at, updated_at`

type MySQLSaleRepository struct {
	db mysql.Querier
}

func NewMySQLSaleRepository(db mysql.Querier) *MySQLSaleRepository {
	return &MySQLSaleRepository{db: db}
}

func (r *MySQLSaleRepository) Insert(ctx context.Context, q mysql.Querier, s domain.Sale) (int64, error) {
	query := `
		INSERT INTO sales (product_id, quantity, unit_price, total_amount, sale_date,
		                   customer_name, invoice_number, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := q.ExecContext(ctx, query,
		s.ProductID, s.Quantity, s.UnitPrice, s.TotalAmount, s.SaleDate,
		nullString(s.CustomerName), nullString(s.InvoiceNumber), nullString(s.Notes),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting sale: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting sale insert id: %w", err)
	}

	return id, nil
}

func (r *MySQLSaleRepository) ListByProduct(ctx context.Context, productID int64, filter dto.SaleFilter) ([]domain.Sale, int, error) {
	where := `WHERE product_id = ?`
	args := []interface{}{productID}

	if filter.StartDate != nil {
		where += ` AND sale_date >= ?`
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		where += ` AND sale_date <= ?`
		args = append(args, *filter.EndDate)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM sales ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting sales: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM sales %s ORDER BY sale_date DESC, id DESC LIMIT ? OFFSET ?`,
		saleColumns, where)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		sales = append(sales, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating sale rows: %w", err)
	}

	return sales, total, nil
}

func scanSale(rows *sql.Rows) (*domain.Sale, error) {
	var s domain.Sale
	var customerName, invoiceNumber, notes sql.NullString

	err := rows.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.UnitPrice, &s.TotalAmount,
		&s.SaleDate, &customerName, &invoiceNumber, &notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning sale row: %w", err)
	}

	if customerName.Valid {
		s.CustomerName = &customerName.String
	}
	if invoiceNumber.Valid {
		s.InvoiceNumber = &invoiceNumber.String
	}
	if notes.Valid {
		s.Notes = &notes.String
	}

	return &s, nil
}
