package repo

import "github.com/stockroom-io/stockroom/internal/models"

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(product models.Product) (models.Product, error)
	GetAll() ([]models.Product, error)
	Filter(pf ProductFilter) ([]models.Product, int, error)
	GetByID(id int) (models.Product, error)
	GetBySKU(sku string) (models.Product, error)
}
