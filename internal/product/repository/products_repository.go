package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"costbook/internal/domain"
	apperrors "costbook/internal/errors"
	"costbook/internal/infrastructure/mysql"
)

const productColumns = `id, user_id, name, description, unit, scrap_value, opening_stock,
       current_stock, selling_price, target_margin_percent, is_active, created_at, updated_at`

type MySQLProductRepository struct {
	db mysql.Querier
}

func NewMySQLProductRepository(db mysql.Querier) *MySQLProductRepository {
	return &MySQLProductRepository{db: db}
}

func (r *MySQLProductRepository) Insert(ctx context.Context, q mysql.Querier, p domain.Product) (int64, error) {
	query := `
		INSERT INTO products (user_id, name, description, unit, scrap_value, opening_stock,
		                      current_stock, selling_price, target_margin_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := q.ExecContext(ctx, query,
		p.UserID, p.Name, p.Description, p.Unit, p.ScrapValue, p.OpeningStock,
		p.CurrentStock, nullDecimal(p.SellingPrice), nullDecimal(p.TargetMarginPercent),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting product insert id: %w", err)
	}

	return id, nil
}

func (r *MySQLProductRepository) FindByIDAndUser(ctx context.Context, productID, userID int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = ? AND user_id = ? AND is_active = 1`, productColumns)

	row := r.db.QueryRowContext(ctx, query, productID, userID)
	return scanProduct(row, productID)
}

// FindByIDForUpdate locks the product row for the duration of the surrounding
// transaction. All stock-balance writes go through this lock so concurrent
// movements against the same product serialize.
func (r *MySQLProductRepository) FindByIDForUpdate(ctx context.Context, tx mysql.Querier, productID, userID int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = ? AND user_id = ? AND is_active = 1 FOR UPDATE`, productColumns)

	row := tx.QueryRowContext(ctx, query, productID, userID)
	return scanProduct(row, productID)
}

// UpdateCurrentStock is the only statement in the codebase that writes
// current_stock. It must run inside the transaction that wrote the
// corresponding ledger entry.
func (r *MySQLProductRepository) UpdateCurrentStock(ctx context.Context, tx mysql.Querier, productID int64, newStock decimal.Decimal) error {
	query := `UPDATE products SET current_stock = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, newStock, productID)
	if err != nil {
		return fmt.Errorf("updating current stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}

	return nil
}

func (r *MySQLProductRepository) Update(ctx context.Context, p domain.Product) error {
	query := `
		UPDATE products
		SET name = ?, description = ?, unit = ?, scrap_value = ?, opening_stock = ?,
		    selling_price = ?, target_margin_percent = ?
		WHERE id = ? AND user_id = ? AND is_active = 1
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Unit, p.ScrapValue, p.OpeningStock,
		nullDecimal(p.SellingPrice), nullDecimal(p.TargetMarginPercent),
		p.ID, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", p.ID))
	}

	return nil
}

// Deactivate soft-deletes a product. Movements and sales keep referencing it,
// so the row itself is never removed.
func (r *MySQLProductRepository) Deactivate(ctx context.Context, productID, userID int64) error {
	query := `UPDATE products SET is_active = 0 WHERE id = ? AND user_id = ? AND is_active = 1`

	result, err := r.db.ExecContext(ctx, query, productID, userID)
	if err != nil {
		return fmt.Errorf("deactivating product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}

	return nil
}

func (r *MySQLProductRepository) ListByUser(ctx context.Context, userID int64, search string, limit, offset int) ([]domain.Product, int, error) {
	where := `WHERE user_id = ? AND is_active = 1`
	args := []interface{}{userID}

	if search != "" {
		where += ` AND (name LIKE ? OR description LIKE ?)`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM products ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY name LIMIT ? OFFSET ?`, productColumns, where)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row *sql.Row, productID int64) (*domain.Product, error) {
	p, err := scanProductInto(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}
	return p, nil
}

func scanProductRow(rows *sql.Rows) (*domain.Product, error) {
	p, err := scanProductInto(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning product row: %w", err)
	}
	return p, nil
}

func scanProductInto(s rowScanner) (*domain.Product, error) {
	var p domain.Product
	var description sql.NullString
	var sellingPrice, targetMargin decimal.NullDecimal

	err := s.Scan(
		&p.ID, &p.UserID, &p.Name, &description, &p.Unit, &p.ScrapValue,
		&p.OpeningStock, &p.CurrentStock, &sellingPrice, &targetMargin,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	if sellingPrice.Valid {
		p.SellingPrice = &sellingPrice.Decimal
	}
	if targetMargin.Valid {
		p.TargetMarginPercent = &targetMargin.Decimal
	}

	return &p, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
