package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stockroom-io/stockroom/internal/models"
)

type PostgresMovementRepository struct {
	db *sql.DB
}

func NewPostgresMovementRepository(db *sql.DB) *PostgresMovementRepository {
	return &PostgresMovementRepository{db: db}
}

const defaultLimit = 100

// GetByProductID returns movements for a specific product, newest first,
// optionally filtered by date range and paginated.
func (r *PostgresMovementRepository) GetByProductID(productID int, mf MovementFilter) ([]models.Movement, int, error) {
	whereClause, args := r.buildWhereClause(productID, mf)

	// Handle special case: limit = 0 means return count only
	if mf.Limit != nil && *mf.Limit == 0 {
		total, err := r.getTotal(whereClause, args)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to get total count: %w", err)
		}
		return []models.Movement{}, total, nil
	}

	if mf.Offset != nil && *mf.Offset < 0 {
		return nil, 0, fmt.Errorf("offset must be non-negative")
	}

	total, err := r.getTotal(whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	// Early return if offset is beyond total
	if mf.Offset != nil && *mf.Offset >= total {
		return []models.Movement{}, total, nil
	}

	query, queryArgs := r.buildMainQuery(whereClause, args, mf)
	movements, err := r.executeQuery(query, queryArgs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return movements, total, nil
}

// buildWhereClause constructs the WHERE clause and returns arguments
func (r *PostgresMovementRepository) buildWhereClause(productID int, mf MovementFilter) (string, []any) {
	args := []any{productID}
	whereClause := "WHERE product_id = $1"
	argIndex := 2

	if mf.Since != nil {
		whereClause += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *mf.Since)
		argIndex++
	}

	if mf.Until != nil {
		whereClause += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *mf.Until)
	}

	return whereClause, args
}

// buildMainQuery constructs the main SELECT query with pagination
func (r *PostgresMovementRepository) buildMainQuery(whereClause string, baseArgs []any, mf MovementFilter) (string, []any) {
	query := fmt.Sprintf(
		"SELECT id, product_id, from_warehouse, to_warehouse, quantity, reason, created_at FROM movements %s ORDER BY id DESC",
		whereClause)
	args := make([]any, len(baseArgs))
	copy(args, baseArgs)
	argIndex := len(baseArgs) + 1

	limit := defaultLimit
	if mf.Limit != nil && *mf.Limit > 0 {
		limit = min(*mf.Limit, defaultLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)
	argIndex++

	if mf.Offset != nil && *mf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *mf.Offset)
	}

	return query, args
}

// getTotal executes the count query
func (r *PostgresMovementRepository) getTotal(whereClause string, args []any) (int, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM movements %s", whereClause)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

// executeQuery executes the main query and scans results
func (r *PostgresMovementRepository) executeQuery(query string, args []any) ([]models.Movement, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []models.Movement
	for rows.Next() {
		var m models.Movement
		var from, to sql.NullInt64
		var reason sql.NullString
		if err := rows.Scan(&m.ID, &m.ProductID, &from, &to, &m.Quantity, &reason, &m.CreatedAt); err != nil {
			return nil, err
		}
		if from.Valid {
			v := int(from.Int64)
			m.FromWarehouseID = &v
		}
		if to.Valid {
			v := int(to.Int64)
			m.ToWarehouseID = &v
		}
		m.Reason = reason.String
		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return movements, nil
}
