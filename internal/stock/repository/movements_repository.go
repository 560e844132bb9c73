package repository

import (
	"context"
	"database/sql"
	"fmt"

	"costbook/internal/domain"
	"costbook/internal/infrastructure/mysql"
	"costbook/internal/stock/dto"
)

const movementColumns = `id, product_id, movement_type, quantity, reference, notes, movement_date, created_by`

type MySQLMovementRepository struct {
	db mysql.Querier
}

func NewMySQLMovementRepository(db mysql.Querier) *MySQLMovementRepository {
	return &MySQLMovementRepository{db: db}
}

// Insert appends one ledger entry. There is deliberately no Update or Delete
// on this repository.
func (r *MySQLMovementRepository) Insert(ctx context.Context, q mysql.Querier, m domain.StockMovement) (int64, error) {
	query := `
		INSERT INTO stock_movements (product_id, movement_type, quantity, reference, notes, movement_date, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := q.ExecContext(ctx, query,
		m.ProductID, string(m.MovementType), m.Quantity,
		nullString(m.Reference), nullString(m.Notes), m.MovementDate, m.CreatedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting stock movement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting movement insert id: %w", err)
	}

	return id, nil
}

func (r *MySQLMovementRepository) ListByProduct(ctx context.Context, productID int64, filter dto.MovementFilter) ([]domain.StockMovement, int, error) {
	where := `WHERE product_id = ?`
	args := []interface{}{productID}

	if filter.MovementType != nil {
		where += ` AND movement_type = ?`
		args = append(args, string(*filter.MovementType))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM stock_movements ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting stock movements: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM stock_movements %s ORDER BY movement_date DESC, id DESC LIMIT ? OFFSET ?`,
		movementColumns, where)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying stock movements: %w", err)
	}
	defer rows.Close()

	movements, err := scanMovements(rows)
	if err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}

// FindAllByProduct returns the full ledger for a product in application
// order, oldest first. Replaying the result over a zero balance reproduces
// the product's current stock.
func (r *MySQLMovementRepository) FindAllByProduct(ctx context.Context, productID int64) ([]domain.StockMovement, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_movements WHERE product_id = ? ORDER BY id ASC`, movementColumns)

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying stock movements: %w", err)
	}
	defer rows.Close()

	return scanMovements(rows)
}

func scanMovements(rows *sql.Rows) ([]domain.StockMovement, error) {
	var movements []domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		var movementType string
		var reference, notes sql.NullString
		var createdBy sql.NullInt64

		err := rows.Scan(&m.ID, &m.ProductID, &movementType, &m.Quantity,
			&reference, &notes, &m.MovementDate, &createdBy)
		if err != nil {
			return nil, fmt.Errorf("scanning movement row: %w", err)
		}

		m.MovementType = domain.MovementType(movementType)
		if reference.Valid {
			m.Reference = &reference.String
		}
		if notes.Valid {
			m.Notes = &notes.String
		}
		if createdBy.Valid {
			m.CreatedBy = &createdBy.Int64
		}

		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movement rows: %w", err)
	}

	return movements, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
