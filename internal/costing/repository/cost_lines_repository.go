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

type MySQLCostLineRepository struct {
	db mysql.Querier
}

func NewMySQLCostLineRepository(db mysql.Querier) *MySQLCostLineRepository {
	return &MySQLCostLineRepository{db: db}
}

func (r *MySQLCostLineRepository) InsertMaterial(ctx context.Context, m domain.Material) (int64, error) {
	query := `
		INSERT INTO product_materials (product_id, material_name, quantity, unit, unit_cost, total_cost)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		m.ProductID, m.MaterialName, m.Quantity, m.Unit, m.UnitCost, m.TotalCost)
	if err != nil {
		return 0, fmt.Errorf("inserting material: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting material insert id: %w", err)
	}

	return id, nil
}

func (r *MySQLCostLineRepository) UpdateMaterial(
	ctx context.Context,
	id, productID int64,
	name string,
	quantity decimal.Decimal,
	unit string,
	unitCost, totalCost decimal.Decimal,
) error {
	query := `
		UPDATE product_materials
		SET material_name = ?, quantity = ?, unit = ?, unit_cost = ?, total_cost = ?
		WHERE id = ? AND product_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, name, quantity, unit, unitCost, totalCost, id, productID)
	if err != nil {
		return fmt.Errorf("updating material: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("material with id %d not found", id))
	}

	return nil
}

func (r *MySQLCostLineRepository) DeleteMaterial(ctx context.Context, id, productID int64) error {
	return r.deleteLine(ctx, "product_materials", "material", id, productID)
}

func (r *MySQLCostLineRepository) FindMaterialsByProduct(ctx context.Context, productID int64) ([]domain.Material, error) {
	query := `
		SELECT id, product_id, material_name, quantity, unit, unit_cost, total_cost, created_at, updated_at
		FROM product_materials
		WHERE product_id = ?
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying materials: %w", err)
	}
	defer rows.Close()

	var materials []domain.Material
	for rows.Next() {
		var m domain.Material
		err := rows.Scan(
			&m.ID, &m.ProductID, &m.MaterialName, &m.Quantity, &m.Unit,
			&m.UnitCost, &m.TotalCost, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning material row: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating material rows: %w", err)
	}

	return materials, nil
}

func (r *MySQLCostLineRepository) InsertJobWork(ctx context.Context, j domain.JobWork) (int64, error) {
	query := `
		INSERT INTO product_job_work (product_id, description, cost)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, j.ProductID, j.Description, j.Cost)
	if err != nil {
		return 0, fmt.Errorf("inserting job work: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting job work insert id: %w", err)
	}

	return id, nil
}

func (r *MySQLCostLineRepository) DeleteJobWork(ctx context.Context, id, productID int64) error {
	return r.deleteLine(ctx, "product_job_work", "job work", id, productID)
}

func (r *MySQLCostLineRepository) FindJobWorkByProduct(ctx context.Context, productID int64) ([]domain.JobWork, error) {
	query := `
		SELECT id, product_id, description, cost, created_at, updated_at
		FROM product_job_work
		WHERE product_id = ?
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying job work: %w", err)
	}
	defer rows.Close()

	var lines []domain.JobWork
	for rows.Next() {
		var j domain.JobWork
		if err := rows.Scan(&j.ID, &j.ProductID, &j.Description, &j.Cost, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning job work row: %w", err)
		}
		lines = append(lines, j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job work rows: %w", err)
	}

	return lines, nil
}

func (r *MySQLCostLineRepository) InsertAdditionalCost(ctx context.Context, a domain.AdditionalCost) (int64, error) {
	query := `
		INSERT INTO product_additional_costs (product_id, cost_type, description, cost)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, a.ProductID, a.CostType, a.Description, a.Cost)
	if err != nil {
		return 0, fmt.Errorf("inserting additional cost: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting additional cost insert id: %w", err)
	}

	return id, nil
}

func (r *MySQLCostLineRepository) DeleteAdditionalCost(ctx context.Context, id, productID int64) error {
	return r.deleteLine(ctx, "product_additional_costs", "additional cost", id, productID)
}

func (r *MySQLCostLineRepository) FindAdditionalCostsByProduct(ctx context.Context, productID int64) ([]domain.AdditionalCost, error) {
	query := `
		SELECT id, product_id, cost_type, description, cost, created_at, updated_at
		FROM product_additional_costs
		WHERE product_id = ?
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying additional costs: %w", err)
	}
	defer rows.Close()

	var lines []domain.AdditionalCost
	for rows.Next() {
		var a domain.AdditionalCost
		var description sql.NullString
		if err := rows.Scan(&a.ID, &a.ProductID, &a.CostType, &description, &a.Cost, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning additional cost row: %w", err)
		}
		a.Description = description.String
		lines = append(lines, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating additional cost rows: %w", err)
	}

	return lines, nil
}

func (r *MySQLCostLineRepository) deleteLine(ctx context.Context, table, kind string, id, productID int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ? AND product_id = ?", table)

	result, err := r.db.ExecContext(ctx, query, id, productID)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %d not found", kind, id))
	}

	return nil
}
