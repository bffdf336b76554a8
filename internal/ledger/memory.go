package ledger

import (
	"context"
	"sync"

	"github.com/stockroom-io/stockroom/internal/models"
)

type pairKey struct {
	productID   int
	warehouseID int
}

type inventoryRow struct {
	productID   int
	warehouseID int
	quantity    int
}

// InMemoryLedger is an in-memory implementation of Engine used by tests and
// local development. One mutex spans each whole operation, which gives the
// same serialization the postgres ledger gets from row locks.
type InMemoryLedger struct {
	mu         sync.Mutex
	rows       []*inventoryRow
	index      map[pairKey]*inventoryRow
	movements  MovementRecorder
	warehouses WarehouseDirectory
}

// NewInMemoryLedger creates an empty ledger. Movements are appended through
// recorder so the read side sees them; warehouses resolves names for
// inventory views and may be nil when names are not needed.
func NewInMemoryLedger(recorder MovementRecorder, warehouses WarehouseDirectory) *InMemoryLedger {
	return &InMemoryLedger{
		index:      map[pairKey]*inventoryRow{},
		movements:  recorder,
		warehouses: warehouses,
	}
}

func (l *InMemoryLedger) StockIn(_ context.Context, productID, warehouseID, quantity int, reason string) (models.Movement, error) {
	if quantity <= 0 {
		return models.Movement{}, ErrInvalidQuantity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	row := l.ensureRow(productID, warehouseID)
	row.quantity += quantity
	return l.movements.Record(models.Movement{
		ProductID:     productID,
		ToWarehouseID: &warehouseID,
		Quantity:      quantity,
		Reason:        reason,
	})
}

func (l *InMemoryLedger) StockOut(_ context.Context, productID, warehouseID, quantity int, reason string) (models.Movement, error) {
	if quantity <= 0 {
		return models.Movement{}, ErrInvalidQuantity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Check before ensureRow: a failed stock-out must not leave a new row
	// behind, matching the transaction rollback in the postgres ledger.
	if l.quantityLocked(productID, warehouseID) < quantity {
		return models.Movement{}, ErrInsufficientStock
	}
	row := l.ensureRow(productID, warehouseID)
	row.quantity -= quantity
	return l.movements.Record(models.Movement{
		ProductID:       productID,
		FromWarehouseID: &warehouseID,
		Quantity:        quantity,
		Reason:          reason,
	})
}

func (l *InMemoryLedger) Transfer(_ context.Context, productID, fromWarehouseID, toWarehouseID, quantity int, reason string) (models.Movement, error) {
	if quantity <= 0 {
		return models.Movement{}, ErrInvalidQuantity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.quantityLocked(productID, fromWarehouseID) < quantity {
		return models.Movement{}, ErrInsufficientStock
	}
	source := l.ensureRow(productID, fromWarehouseID)
	dest := l.ensureRow(productID, toWarehouseID)
	// Self-transfer hits the same row twice and nets to zero, but is still
	// recorded below.
	source.quantity -= quantity
	dest.quantity += quantity
	return l.movements.Record(models.Movement{
		ProductID:       productID,
		FromWarehouseID: &fromWarehouseID,
		ToWarehouseID:   &toWarehouseID,
		Quantity:        quantity,
		Reason:          reason,
	})
}

func (l *InMemoryLedger) ProductInventory(_ context.Context, productID int) ([]models.InventoryEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var entries []models.InventoryEntry
	for _, row := range l.rows {
		if row.productID != productID {
			continue
		}
		e := models.InventoryEntry{WarehouseID: row.warehouseID, Quantity: row.quantity}
		if l.warehouses != nil {
			if w, err := l.warehouses.GetByID(row.warehouseID); err == nil {
				e.WarehouseName = w.Name
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (l *InMemoryLedger) Quantity(_ context.Context, productID, warehouseID int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if row, ok := l.index[pairKey{productID, warehouseID}]; ok {
		return row.quantity, nil
	}
	return 0, nil
}

// RowCount reports how many inventory rows exist for a product. Rows are
// never deleted, so this also counts pairs that are back to zero.
func (l *InMemoryLedger) RowCount(productID int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, row := range l.rows {
		if row.productID == productID {
			count++
		}
	}
	return count
}

// quantityLocked reads the current quantity without creating a row. Callers
// must hold l.mu.
func (l *InMemoryLedger) quantityLocked(productID, warehouseID int) int {
	if row, ok := l.index[pairKey{productID, warehouseID}]; ok {
		return row.quantity
	}
	return 0
}

func (l *InMemoryLedger) ensureRow(productID, warehouseID int) *inventoryRow {
	key := pairKey{productID, warehouseID}
	if row, ok := l.index[key]; ok {
		return row
	}
	row := &inventoryRow{productID: productID, warehouseID: warehouseID}
	l.rows = append(l.rows, row)
	l.index[key] = row
	return row
}
