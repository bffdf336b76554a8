package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stockroom-io/stockroom/internal/models"
)

const txTimeout = 5 * time.Second

// PostgresLedger implements Engine on a PostgreSQL database. Each mutation
// runs in one transaction: the inventory row is created with an upsert, the
// current quantity is read under FOR UPDATE so concurrent mutators on the
// same (product, warehouse) pair serialize, and the movement insert shares
// the transaction. The schema's CHECK (quantity >= 0) backs the invariant a
// second time at the store level.
type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) StockIn(ctx context.Context, productID, warehouseID, quantity int, reason string) (models.Movement, error) {
	if quantity <= 0 {
		return models.Movement{}, ErrInvalidQuantity
	}

	var mov models.Movement
	err := l.inTx(ctx, func(tx *sql.Tx) error {
		if err := ensureRow(ctx, tx, productID, warehouseID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE inventory SET quantity = quantity + $1 WHERE product_id = $2 AND warehouse_id = $3`,
			quantity, productID, warehouseID,
		); err != nil {
			return fmt.Errorf("increment stock: %w", err)
		}
		var err error
		mov, err = appendMovement(ctx, tx, models.Movement{
			ProductID:     productID,
			ToWarehouseID: &warehouseID,
			Quantity:      quantity,
			Reason:        reason,
		})
		return err
	})
	return mov, err
}

func (l *PostgresLedger) StockOut(ctx context.Context, productID, warehouseID, quantity int, reason string) (models.Movement, error) {
	if quantity <= 0 {
		return models.Movement{}, ErrInvalidQuantity
	}

	var mov models.Movement
	err := l.inTx(ctx, func(tx *sql.Tx) error {
		if err := ensureRow(ctx, tx, productID, warehouseID); err != nil {
			return err
		}
		current, err := lockQuantity(ctx, tx, productID, warehouseID)
		if err != nil {
			return err
		}
		if current < quantity {
			return ErrInsufficientStock
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE inventory SET quantity = quantity - $1 WHERE product_id = $2 AND warehouse_id = $3`,
			quantity, productID, warehouseID,
		); err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		mov, err = appendMovement(ctx, tx, models.Movement{
			ProductID:       productID,
			FromWarehouseID: &warehouseID,
			Quantity:        quantity,
			Reason:          reason,
		})
		return err
	})
	return mov, err
}

func (l *PostgresLedger) Transfer(ctx context.Context, productID, fromWarehouseID, toWarehouseID, quantity int, reason string) (models.Movement, error) {
	if quantity <= 0 {
		return models.Movement{}, ErrInvalidQuantity
	}

	var mov models.Movement
	err := l.inTx(ctx, func(tx *sql.Tx) error {
		if err := ensureRow(ctx, tx, productID, fromWarehouseID); err != nil {
			return err
		}
		if err := ensureRow(ctx, tx, productID, toWarehouseID); err != nil {
			return err
		}
		// Locking the source row is enough: the destination is only ever
		// incremented, which cannot violate the non-negative invariant.
		current, err := lockQuantity(ctx, tx, productID, fromWarehouseID)
		if err != nil {
			return err
		}
		if current < quantity {
			return ErrInsufficientStock
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE inventory SET quantity = quantity - $1 WHERE product_id = $2 AND warehouse_id = $3`,
			quantity, productID, fromWarehouseID,
		); err != nil {
			return fmt.Errorf("decrement source stock: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE inventory SET quantity = quantity + $1 WHERE product_id = $2 AND warehouse_id = $3`,
			quantity, productID, toWarehouseID,
		); err != nil {
			return fmt.Errorf("increment destination stock: %w", err)
		}
		mov, err = appendMovement(ctx, tx, models.Movement{
			ProductID:       productID,
			FromWarehouseID: &fromWarehouseID,
			ToWarehouseID:   &toWarehouseID,
			Quantity:        quantity,
			Reason:          reason,
		})
		return err
	})
	return mov, err
}

func (l *PostgresLedger) ProductInventory(ctx context.Context, productID int) ([]models.InventoryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := l.db.QueryContext(ctx, `
		SELECT i.warehouse_id, w.name, i.quantity
		FROM inventory i
		JOIN warehouses w ON w.id = i.warehouse_id
		WHERE i.product_id = $1
		ORDER BY i.warehouse_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("query product inventory: %w", err)
	}
	defer rows.Close()

	var entries []models.InventoryEntry
	for rows.Next() {
		var e models.InventoryEntry
		if err := rows.Scan(&e.WarehouseID, &e.WarehouseName, &e.Quantity); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (l *PostgresLedger) Quantity(ctx context.Context, productID, warehouseID int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var qty int
	err := l.db.QueryRowContext(ctx,
		`SELECT quantity FROM inventory WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID,
	).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query quantity: %w", err)
	}
	return qty, nil
}

// inTx runs fn in a transaction, committing on success and rolling back on
// any error so no partial effect is ever visible.
func (l *PostgresLedger) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ensureRow creates the inventory row for the pair with quantity 0 if it does
// not exist yet. Idempotent: at most one insert ever happens per pair.
func ensureRow(ctx context.Context, tx *sql.Tx, productID, warehouseID int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO inventory (product_id, warehouse_id, quantity)
		VALUES ($1, $2, 0)
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`,
		productID, warehouseID)
	if err != nil {
		return fmt.Errorf("ensure inventory row: %w", err)
	}
	return nil
}

// lockQuantity reads the current quantity under FOR UPDATE, holding the row
// lock until the enclosing transaction finishes.
func lockQuantity(ctx context.Context, tx *sql.Tx, productID, warehouseID int) (int, error) {
	var qty int
	err := tx.QueryRowContext(ctx, `
		SELECT quantity FROM inventory
		WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`,
		productID, warehouseID,
	).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("lock inventory row: %w", err)
	}
	return qty, nil
}

func appendMovement(ctx context.Context, tx *sql.Tx, m models.Movement) (models.Movement, error) {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO movements (product_id, from_warehouse, to_warehouse, quantity, reason)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id, created_at`,
		m.ProductID, m.FromWarehouseID, m.ToWarehouseID, m.Quantity, m.Reason,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return models.Movement{}, fmt.Errorf("append movement: %w", err)
	}
	return m, nil
}
