package repo

import "github.com/stockroom-io/stockroom/internal/models"

// InMemoryWarehouseRepository is an in-memory implementation of WarehouseRepository.
type InMemoryWarehouseRepository struct {
	warehouses []models.Warehouse
	nextID     int
}

func NewInMemoryWarehouseRepository() *InMemoryWarehouseRepository {
	return &InMemoryWarehouseRepository{
		warehouses: []models.Warehouse{},
		nextID:     1,
	}
}

func (r *InMemoryWarehouseRepository) Create(warehouse models.Warehouse) (models.Warehouse, error) {
	warehouse.ID = r.nextID
	r.nextID++
	r.warehouses = append(r.warehouses, warehouse)
	return warehouse, nil
}

func (r *InMemoryWarehouseRepository) GetAll() ([]models.Warehouse, error) {
	return r.warehouses, nil
}

func (r *InMemoryWarehouseRepository) GetByID(id int) (models.Warehouse, error) {
	for _, w := range r.warehouses {
		if w.ID == id {
			return w, nil
		}
	}
	return models.Warehouse{}, ErrWarehouseNotFound
}

// Clear removes all warehouses. Used by tests.
func (r *InMemoryWarehouseRepository) Clear() {
	r.warehouses = []models.Warehouse{}
	r.nextID = 1
}
