package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"costbook/internal/domain"
	apperrors "costbook/internal/errors"
	"costbook/internal/infrastructure/mysql"
)

const overheadColumns = `id, user_id, category, subcategory, description, amount,
       expense_date, is_recurring, recurring_frequency, created_at, updated_at`

type MySQLOverheadRepository struct {
	db mysql.Querier
}

func NewMySQLOverheadRepository(db mysql.Querier) *MySQLOverheadRepository {
	return &MySQLOverheadRepository{db: db}
}

func (r *MySQLOverheadRepository) Insert(ctx context.Context, o domain.Overhead) (int64, error) {
	query := `
		INSERT INTO overheads (user_id, category, subcategory, description, amount,
		                       expense_date, is_recurring, recurring_frequency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		o.UserID, string(o.Category), nullString(o.Subcategory), o.Description,
		o.Amount, o.ExpenseDate, o.IsRecurring, nullFrequency(o.RecurringFrequency),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting overhead: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting overhead insert id: %w", err)
	}

	return id, nil
}

func (r *MySQLOverheadRepository) FindByIDAndUser(ctx context.Context, overheadID, userID int64) (*domain.Overhead, error) {
	query := fmt.Sprintf(`SELECT %s FROM overheads WHERE id = ? AND user_id = ?`, overheadColumns)

	row := r.db.QueryRowContext(ctx, query, overheadID, userID)
	o, err := scanOverhead(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("overhead with id %d not found", overheadID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying overhead by id: %w", err)
	}

	return o, nil
}

func (r *MySQLOverheadRepository) Update(ctx context.Context, o domain.Overhead) error {
	query := `
		UPDATE overheads
		SET category = ?, subcategory = ?, description = ?, amount = ?,
		    expense_date = ?, is_recurring = ?, recurring_frequency = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		string(o.Category), nullString(o.Subcategory), o.Description, o.Amount,
		o.ExpenseDate, o.IsRecurring, nullFrequency(o.RecurringFrequency),
		o.ID, o.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating overhead: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("overhead with id %d not found", o.ID))
	}

	return nil
}

func (r *MySQLOverheadRepository) Delete(ctx context.Context, overheadID, userID int64) error {
	query := `DELETE FROM overheads WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, overheadID, userID)
	if err != nil {
		return fmt.Errorf("deleting overhead: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("overhead with id %d not found", overheadID))
	}

	return nil
}

func (r *MySQLOverheadRepository) ListByUser(ctx context.Context, userID int64, category *domain.OverheadCategory, start, end *time.Time, limit, offset int) ([]domain.Overhead, int, error) {
	where, args := overheadFilter(userID, category, start, end)

	var total int
	countQuery := `SELECT COUNT(*) FROM overheads ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting overheads: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM overheads %s ORDER BY expense_date DESC, id DESC LIMIT ? OFFSET ?`,
		overheadColumns, where)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying overheads: %w", err)
	}
	defer rows.Close()

	var overheads []domain.Overhead
	for rows.Next() {
		o, err := scanOverhead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning overhead row: %w", err)
		}
		overheads = append(overheads, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating overhead rows: %w", err)
	}

	return overheads, total, nil
}

// Aggregate computes the summary in three grouped queries rather than pulling
// every row into memory.
func (r *MySQLOverheadRepository) Aggregate(ctx context.Context, userID int64, category *domain.OverheadCategory, start, end *time.Time) (*domain.OverheadSummary, error) {
	where, args := overheadFilter(userID, category, start, end)

	summary := &domain.OverheadSummary{}

	totalQuery := `SELECT COALESCE(SUM(amount), 0) FROM overheads ` + where
	if err := r.db.QueryRowContext(ctx, totalQuery, args...).Scan(&summary.TotalAmount); err != nil {
		return nil, fmt.Errorf("querying overhead total: %w", err)
	}

	categoryQuery := `
		SELECT category, COALESCE(SUM(amount), 0), COUNT(*)
		FROM overheads ` + where + `
		GROUP BY category
		ORDER BY SUM(amount) DESC
	`
	rows, err := r.db.QueryContext(ctx, categoryQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying overhead category totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ct domain.OverheadCategoryTotal
		var rawCategory string
		if err := rows.Scan(&rawCategory, &ct.Total, &ct.Count); err != nil {
			return nil, fmt.Errorf("scanning category total: %w", err)
		}
		ct.Category = domain.OverheadCategory(rawCategory)
		summary.ByCategory = append(summary.ByCategory, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category totals: %w", err)
	}

	monthlyQuery := `
		SELECT DATE_FORMAT(expense_date, '%Y-%m'), COALESCE(SUM(amount), 0)
		FROM overheads ` + where + `
		GROUP BY DATE_FORMAT(expense_date, '%Y-%m')
		ORDER BY DATE_FORMAT(expense_date, '%Y-%m')
	`
	monthRows, err := r.db.QueryContext(ctx, monthlyQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying overhead monthly totals: %w", err)
	}
	defer monthRows.Close()

	for monthRows.Next() {
		var mt domain.OverheadMonthlyTotal
		if err := monthRows.Scan(&mt.Month, &mt.Total); err != nil {
			return nil, fmt.Errorf("scanning monthly total: %w", err)
		}
		summary.Monthly = append(summary.Monthly, mt)
	}
	if err := monthRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating monthly totals: %w", err)
	}

	return summary, nil
}

func overheadFilter(userID int64, category *domain.OverheadCategory, start, end *time.Time) (string, []interface{}) {
	where := `WHERE user_id = ?`
	args := []interface{}{userID}

	if category != nil {
		where += ` AND category = ?`
		args = append(args, string(*category))
	}
	if start != nil {
		where += ` AND expense_date >= ?`
		args = append(args, *start)
	}
	if end != nil {
		where += ` AND expense_date <= ?`
		args = append(args, *end)
	}

	return where, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOverhead(s rowScanner) (*domain.Overhead, error) {
	var o domain.Overhead
	var category string
	var subcategory, frequency sql.NullString

	err := s.Scan(&o.ID, &o.UserID, &category, &subcategory, &o.Description, &o.Amount,
		&o.ExpenseDate, &o.IsRecurring, &frequency, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	o.Category = domain.OverheadCategory(category)
	if subcategory.Valid {
		o.Subcategory = &subcategory.String
	}
	if frequency.Valid {
		f := domain.RecurringFrequency(frequency.String)
		o.RecurringFrequency = &f
	}

	return &o, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFrequency(f *domain.RecurringFrequency) sql.NullString {
	if f == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*f), Valid: true}
}
