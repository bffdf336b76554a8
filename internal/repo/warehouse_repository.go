package repo

import "github.com/stockroom-io/stockroom/internal/models"

// WarehouseRepository defines the interface for warehouse data operations.
type WarehouseRepository interface {
	Create(warehouse models.Warehouse) (models.Warehouse, error)
	GetAll() ([]models.Warehouse, error)
	GetByID(id int) (models.Warehouse, error)
}
