package repo

import (
	"sync"
	"testing"

	"github.com/stockroom-io/stockroom/internal/models"
)

func record(t *testing.T, r *InMemoryMovementRepository, productID, qty int) {
	t.Helper()
	w := 1
	if _, err := r.Record(models.Movement{ProductID: productID, ToWarehouseID: &w, Quantity: qty}); err != nil {
		t.Fatalf("record movement: %v", err)
	}
}

func TestMovementsNewestFirst(t *testing.T) {
	r := NewInMemoryMovementRepository()
	record(t, r, 1, 10)
	record(t, r, 2, 20)
	record(t, r, 1, 30)

	movements, total, err := r.GetByProductID(1, MovementFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}
	if movements[0].Quantity != 30 || movements[1].Quantity != 10 {
		t.Errorf("expected newest first (30, 10), got (%d, %d)", movements[0].Quantity, movements[1].Quantity)
	}
}

func TestMovementsPagination(t *testing.T) {
	r := NewInMemoryMovementRepository()
	for i := 1; i <= 5; i++ {
		record(t, r, 1, i)
	}

	limit, offset := 2, 1
	movements, total, err := r.GetByProductID(1, MovementFilter{Limit: &limit, Offset: &offset})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}
	// Newest first is 5,4,3,2,1; offset 1 limit 2 gives 4,3.
	if movements[0].Quantity != 4 || movements[1].Quantity != 3 {
		t.Errorf("expected (4, 3), got (%d, %d)", movements[0].Quantity, movements[1].Quantity)
	}
}

func TestMovementsCountOnly(t *testing.T) {
	r := NewInMemoryMovementRepository()
	record(t, r, 1, 10)
	record(t, r, 1, 20)

	zero := 0
	movements, total, err := r.GetByProductID(1, MovementFilter{Limit: &zero})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if len(movements) != 0 {
		t.Errorf("expected no movements with limit 0, got %d", len(movements))
	}
}

// Readers must be safe against concurrent writers; run with -race.
func TestMovementsConcurrentReadWrite(t *testing.T) {
	r := NewInMemoryMovementRepository()

	const writes = 200
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		w := 1
		for i := 0; i < writes; i++ {
			if _, err := r.Record(models.Movement{ProductID: 1, ToWarehouseID: &w, Quantity: i + 1}); err != nil {
				t.Errorf("record movement: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			if _, _, err := r.GetByProductID(1, MovementFilter{}); err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			r.All()
		}
	}()
	wg.Wait()

	_, total, err := r.GetByProductID(1, MovementFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != writes {
		t.Errorf("expected %d movements, got %d", writes, total)
	}
}
