// Package ledger owns the per-warehouse stock quantities and the append-only
// movement log. Every quantity change goes through one of the three mutating
// operations and produces exactly one movement record, inside a single
// transaction, under the invariant that stock never goes negative.
package ledger

import (
	"context"
	"errors"

	"github.com/stockroom-io/stockroom/internal/models"
)

// ErrInvalidQuantity is returned when a requested quantity is zero or negative.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// ErrInsufficientStock is returned when a stock-out or transfer asks for more
// than the source warehouse currently holds. Nothing is mutated in that case.
var ErrInsufficientStock = errors.New("insufficient stock")

// Engine is the inventory ledger. Implementations must make each mutation
// atomic: the quantity read, the insufficient-stock check, the update(s) and
// the movement insert are never observable as separate steps to concurrent
// callers.
type Engine interface {
	// StockIn adds quantity of a product to a warehouse, creating the
	// inventory row on first touch.
	StockIn(ctx context.Context, productID, warehouseID, quantity int, reason string) (models.Movement, error)

	// StockOut removes quantity of a product from a warehouse. Fails with
	// ErrInsufficientStock when the warehouse holds less than requested.
	StockOut(ctx context.Context, productID, warehouseID, quantity int, reason string) (models.Movement, error)

	// Transfer moves quantity of a product between two warehouses as one
	// atomic operation recorded as a single movement. A transfer onto the
	// same warehouse is allowed: it is a net-zero change that still leaves
	// an audit entry.
	Transfer(ctx context.Context, productID, fromWarehouseID, toWarehouseID, quantity int, reason string) (models.Movement, error)

	// ProductInventory returns the stock of a product in every warehouse
	// that has ever held it, joined with the warehouse name. An untouched
	// product yields an empty slice.
	ProductInventory(ctx context.Context, productID int) ([]models.InventoryEntry, error)

	// Quantity returns the current stock of a product in one warehouse,
	// zero when the pair has never been touched.
	Quantity(ctx context.Context, productID, warehouseID int) (int, error)
}

// WarehouseDirectory resolves warehouse ids to their descriptive data for
// inventory views. The postgres ledger joins in SQL instead.
type WarehouseDirectory interface {
	GetByID(id int) (models.Warehouse, error)
}

// MovementRecorder appends a movement to the log and returns it with its id
// and timestamp assigned. Movements are write-once; there is no update.
type MovementRecorder interface {
	Record(m models.Movement) (models.Movement, error)
}
