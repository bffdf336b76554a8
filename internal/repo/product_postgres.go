package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	models "github.com/stockroom-io/stockroom/internal/models"
)

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) Create(p models.Product) (models.Product, error) {
	query := `INSERT INTO products (sku, name, description, unit) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, query, p.SKU, p.Name, p.Description, p.Unit).Scan(&p.ID, &createdAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		return models.Product{}, err
	}
	p.CreatedAt = createdAt.Format(time.RFC3339)
	return p, nil
}

func (r *PostgresProductRepository) GetAll() ([]models.Product, error) {
	query := `SELECT id, sku, name, description, unit FROM products ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresProductRepository) Filter(pf ProductFilter) ([]models.Product, int, error) {
	whereClause, args := buildProductWhereClause(pf)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	query := fmt.Sprintf("SELECT id, sku, name, description, unit FROM products %s ORDER BY id", whereClause)
	argIndex := len(args) + 1
	if pf.Limit != nil && *pf.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, *pf.Limit)
		argIndex++
	}
	if pf.Offset != nil && *pf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *pf.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func buildProductWhereClause(pf ProductFilter) (string, []any) {
	var clauses []string
	var args []any
	argIndex := 1

	if pf.Name != "" {
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+pf.Name+"%")
		argIndex++
	}
	if pf.SKU != "" {
		clauses = append(clauses, fmt.Sprintf("sku = $%d", argIndex))
		args = append(args, pf.SKU)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *PostgresProductRepository) GetByID(id int) (models.Product, error) {
	query := `SELECT id, sku, name, description, unit FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) GetBySKU(sku string) (models.Product, error) {
	query := `SELECT id, sku, name, description, unit FROM products WHERE sku = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, sku))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	var description sql.NullString
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &description, &p.Unit); err != nil {
		return models.Product{}, err
	}
	p.Description = description.String
	return p, nil
}
