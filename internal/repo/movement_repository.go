package repo

import "github.com/stockroom-io/stockroom/internal/models"

// MovementRepository is the read side of the movement log. Movements are
// appended only by the ledger engine; this interface deliberately exposes no
// update or delete.
type MovementRepository interface {
	GetByProductID(productID int, mf MovementFilter) ([]models.Movement, int, error)
}
