package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom-io/stockroom/internal/ledger"
	"github.com/stockroom-io/stockroom/internal/models"
	"github.com/stockroom-io/stockroom/internal/repo"
)

type fixture struct {
	ledger     *ledger.InMemoryLedger
	movements  *repo.InMemoryMovementRepository
	warehouses *repo.InMemoryWarehouseRepository
	product    models.Product
	w1, w2     models.Warehouse
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	movements := repo.NewInMemoryMovementRepository()
	warehouses := repo.NewInMemoryWarehouseRepository()
	products := repo.NewInMemoryProductRepository()

	product, err := products.Create(models.Product{SKU: "SKU1", Name: "Widget", Unit: "each"})
	require.NoError(t, err)
	w1, err := warehouses.Create(models.Warehouse{Name: "Main", Location: "north"})
	require.NoError(t, err)
	w2, err := warehouses.Create(models.Warehouse{Name: "Overflow", Location: "south"})
	require.NoError(t, err)

	return &fixture{
		ledger:     ledger.NewInMemoryLedger(movements, warehouses),
		movements:  movements,
		warehouses: warehouses,
		product:    product,
		w1:         w1,
		w2:         w2,
	}
}

func (f *fixture) quantity(t *testing.T, warehouseID int) int {
	t.Helper()
	qty, err := f.ledger.Quantity(context.Background(), f.product.ID, warehouseID)
	require.NoError(t, err)
	return qty
}

func TestStockIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mov, err := f.ledger.StockIn(ctx, f.product.ID, f.w1.ID, 100, "initial")
	require.NoError(t, err)

	require.Nil(t, mov.FromWarehouseID)
	require.NotNil(t, mov.ToWarehouseID)
	assert.Equal(t, f.w1.ID, *mov.ToWarehouseID)
	assert.Equal(t, 100, mov.Quantity)
	assert.Equal(t, "initial", mov.Reason)

	entries, err := f.ledger.ProductInventory(ctx, f.product.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.InventoryEntry{WarehouseID: f.w1.ID, WarehouseName: "Main", Quantity: 100}, entries[0])
}

func TestTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.StockIn(ctx, f.product.ID, f.w1.ID, 100, "")
	require.NoError(t, err)

	mov, err := f.ledger.Transfer(ctx, f.product.ID, f.w1.ID, f.w2.ID, 20, "rebalance")
	require.NoError(t, err)
	require.NotNil(t, mov.FromWarehouseID)
	require.NotNil(t, mov.ToWarehouseID)
	assert.Equal(t, f.w1.ID, *mov.FromWarehouseID)
	assert.Equal(t, f.w2.ID, *mov.ToWarehouseID)

	entries, err := f.ledger.ProductInventory(ctx, f.product.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 80, f.quantity(t, f.w1.ID))
	assert.Equal(t, 20, f.quantity(t, f.w2.ID))
	assert.Len(t, f.movements.All(), 2)
}

func TestTransferPreservesTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.StockIn(ctx, f.product.ID, f.w1.ID, 70, "")
	require.NoError(t, err)
	_, err = f.ledger.StockIn(ctx, f.product.ID, f.w2.ID, 30, "")
	require.NoError(t, err)

	_, err = f.ledger.Transfer(ctx, f.product.ID, f.w1.ID, f.w2.ID, 45, "")
	require.NoError(t, err)

	total := f.quantity(t, f.w1.ID) + f.quantity(t, f.w2.ID)
	assert.Equal(t, 100, total)
}

func TestStockOutInsufficient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.StockIn(ctx, f.product.ID, f.w1.ID, 100, "")
	require.NoError(t, err)
	_, err = f.ledger.Transfer(ctx, f.product.ID, f.w1.ID, f.w2.ID, 20, "")
	require.NoError(t, err)

	_, err = f.ledger.StockOut(ctx, f.product.ID, f.w1.ID, 200, "")
	require.ErrorIs(t, err, ledger.ErrInsufficientStock)

	// No partial effect: quantities and the movement log are untouched.
	assert.Equal(t, 80, f.quantity(t, f.w1.ID))
	assert.Equal(t, 20, f.quantity(t, f.w2.ID))
	assert.Len(t, f.movements.All(), 2)
}

func TestTransferInsufficient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.StockIn(ctx, f.product.ID, f.w1.ID, 10, "")
	require.NoError(t, err)

	_, err = f.ledger.Transfer(ctx, f.product.ID, f.w1.ID, f.w2.ID, 11, "")
	require.ErrorIs(t, err, ledger.ErrInsufficientStock)

	assert.Equal(t, 10, f.quantity(t, f.w1.ID))
	assert.Equal(t, 0, f.quantity(t, f.w2.ID))
	assert.Len(t, f.movements.All(), 1)
}

func TestInvalidQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, qty := range []int{0, -5} {
		_, err := f.ledger.StockIn(ctx, f.product.ID, f.w1.ID, qty, "")
		assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)

		_, err = f.ledger.StockOut(ctx, f.product.ID, f.w1.ID, qty, "")
		assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)

		_, err = f.ledger.Transfer(ctx, f.product.ID, f.w1.ID, f.w2.ID, qty, "")
		assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
	}

	// A rejected quantity creates no row and no movement.
	assert.Equal(t, 0, f.ledger.RowCount(f.product.ID))
	assert.Empty(t, f.movements.All())
}

func TestRowCreationIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.StockIn(ctx, f.product.ID, f.w1.ID, 5, "")
	require.NoError(t, err)
	_, err = f.ledger.StockIn(ctx, f.product.ID, f.w1.ID, 5, "")
	require.NoError(t, err)
	require.Equal(t, 1, f.ledger.RowCount(f.product.ID))

	// Draining the row keeps it around at zero.
	_, err = f.ledger.StockOut(ctx, f.product.ID, f.w1.ID, 10, "")
	require.NoError(t, err)
	assert.Equal(t, 1, f.ledger.RowCount(f.product.ID))
	assert.Equal(t, 0, f.quantity(t, f.w1.ID))
}

func TestSelfTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.StockIn(ctx, f.product.ID, f.w1.ID, 40, "")
	require.NoError(t, err)

	// Same source and destination: net zero, but the audit entry is kept.
	mov, err := f.ledger.Transfer(ctx, f.product.ID, f.w1.ID, f.w1.ID, 15, "recount")
	require.NoError(t, err)
	assert.Equal(t, *mov.FromWarehouseID, *mov.ToWarehouseID)

	assert.Equal(t, 40, f.quantity(t, f.w1.ID))
	assert.Equal(t, 1, f.ledger.RowCount(f.product.ID))
	assert.Len(t, f.movements.All(), 2)
}

func TestAuditTrailShapes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.StockIn(ctx, f.product.ID, f.w1.ID, 100, "")
	require.NoError(t, err)
	_, err = f.ledger.Transfer(ctx, f.product.ID, f.w1.ID, f.w2.ID, 30, "")
	require.NoError(t, err)
	_, err = f.ledger.StockOut(ctx, f.product.ID, f.w2.ID, 10, "")
	require.NoError(t, err)

	movements := f.movements.All()
	require.Len(t, movements, 3)

	assert.Nil(t, movements[0].FromWarehouseID)
	assert.NotNil(t, movements[0].ToWarehouseID)

	assert.NotNil(t, movements[1].FromWarehouseID)
	assert.NotNil(t, movements[1].ToWarehouseID)

	assert.NotNil(t, movements[2].FromWarehouseID)
	assert.Nil(t, movements[2].ToWarehouseID)

	for _, m := range movements {
		assert.Positive(t, m.Quantity)
		assert.Equal(t, f.product.ID, m.ProductID)
	}
}

func TestConcurrentStockOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.StockIn(ctx, f.product.ID, f.w1.ID, 80, "")
	require.NoError(t, err)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.ledger.StockOut(ctx, f.product.ID, f.w1.ID, 50, "")
		}()
	}
	wg.Wait()

	// Exactly one succeeds; the loser sees the post-commit quantity.
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ledger.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 30, f.quantity(t, f.w1.ID))
}

func TestQuantityUntouchedPair(t *testing.T) {
	f := newFixture(t)

	qty, err := f.ledger.Quantity(context.Background(), f.product.ID, f.w2.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	entries, err := f.ledger.ProductInventory(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
