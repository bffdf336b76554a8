package repo

import (
	"sync"
	"time"

	"github.com/stockroom-io/stockroom/internal/models"
)

// InMemoryMovementRepository holds the movement log in memory. It doubles as
// the ledger's MovementRecorder so in-memory setups see ledger writes on the
// read side too. Its own mutex keeps readers safe against concurrent ledger
// writes; the ledger's lock alone only serializes the write side.
type InMemoryMovementRepository struct {
	mu        sync.Mutex
	movements []models.Movement
}

func NewInMemoryMovementRepository() *InMemoryMovementRepository {
	return &InMemoryMovementRepository{
		movements: []models.Movement{},
	}
}

// Record appends a movement, assigning its id and timestamp.
func (r *InMemoryMovementRepository) Record(m models.Movement) (models.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m.ID = len(r.movements) + 1
	m.CreatedAt = time.Now().UTC()
	r.movements = append(r.movements, m)
	return m, nil
}

// GetByProductID returns all movements for a specific product, newest first,
// optionally filtered by date range and paginated.
func (r *InMemoryMovementRepository) GetByProductID(productID int, mf MovementFilter) ([]models.Movement, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.Movement
	// Newest first: walk the log backwards.
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if m.ProductID != productID {
			continue
		}
		if (mf.Since != nil && m.CreatedAt.Before(*mf.Since)) ||
			(mf.Until != nil && m.CreatedAt.After(*mf.Until)) {
			continue
		}
		filtered = append(filtered, m)
	}

	total := len(filtered)
	if mf.Limit != nil && *mf.Limit == 0 {
		return []models.Movement{}, total, nil
	}

	start := 0
	if mf.Offset != nil {
		start = clamp(*mf.Offset, 0, total)
	}
	end := total
	limit := defaultLimit
	if mf.Limit != nil && *mf.Limit > 0 {
		limit = min(*mf.Limit, defaultLimit)
	}
	if start+limit < end {
		end = start + limit
	}
	return filtered[start:end], total, nil
}

// All returns a copy of the whole log in insertion order. Used by tests.
func (r *InMemoryMovementRepository) All() []models.Movement {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Movement, len(r.movements))
	copy(out, r.movements)
	return out
}

// Clear drops the log. Used by tests.
func (r *InMemoryMovementRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.movements = []models.Movement{}
}
