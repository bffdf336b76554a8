package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	models "github.com/stockroom-io/stockroom/internal/models"
)

type PostgresWarehouseRepository struct {
	db *sql.DB
}

func NewPostgresWarehouseRepository(db *sql.DB) *PostgresWarehouseRepository {
	return &PostgresWarehouseRepository{db: db}
}

func (r *PostgresWarehouseRepository) Create(w models.Warehouse) (models.Warehouse, error) {
	query := `INSERT INTO warehouses (name, location) VALUES ($1, $2) RETURNING id, created_at`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var createdAt time.Time
	if err := r.db.QueryRowContext(ctx, query, w.Name, w.Location).Scan(&w.ID, &createdAt); err != nil {
		return models.Warehouse{}, err
	}
	w.CreatedAt = createdAt.Format(time.RFC3339)
	return w, nil
}

func (r *PostgresWarehouseRepository) GetAll() ([]models.Warehouse, error) {
	query := `SELECT id, name, location FROM warehouses ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warehouses []models.Warehouse
	for rows.Next() {
		var w models.Warehouse
		var location sql.NullString
		if err := rows.Scan(&w.ID, &w.Name, &location); err != nil {
			return nil, err
		}
		w.Location = location.String
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (r *PostgresWarehouseRepository) GetByID(id int) (models.Warehouse, error) {
	query := `SELECT id, name, location FROM warehouses WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var w models.Warehouse
	var location sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&w.ID, &w.Name, &location)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Warehouse{}, ErrWarehouseNotFound
	}
	if err != nil {
		return models.Warehouse{}, err
	}
	w.Location = location.String
	return w, nil
}
