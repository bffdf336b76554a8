package repo

import (
	"strings"

	"github.com/stockroom-io/stockroom/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	products []models.Product
	nextID   int
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
	}
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(product models.Product) (models.Product, error) {
	for _, p := range r.products {
		if p.SKU == product.SKU {
			return models.Product{}, ErrDuplicatedValueUnique
		}
	}
	product.ID = r.nextID
	r.nextID++
	r.products = append(r.products, product)
	return product, nil
}

// GetAll retrieves all products from the repository.
func (r *InMemoryProductRepository) GetAll() ([]models.Product, error) {
	return r.products, nil
}

func matchesProductFilter(p models.Product, pf ProductFilter) bool {
	if pf.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(pf.Name)) {
		return false
	}
	if pf.SKU != "" && p.SKU != pf.SKU {
		return false
	}
	return true
}

func (r *InMemoryProductRepository) Filter(pf ProductFilter) ([]models.Product, int, error) {
	var filtered []models.Product
	for _, p := range r.products {
		if matchesProductFilter(p, pf) {
			filtered = append(filtered, p)
		}
	}

	total := len(filtered)
	start := 0
	if pf.Offset != nil {
		start = clamp(*pf.Offset, 0, total)
	}
	end := total
	if pf.Limit != nil && start+*pf.Limit < end {
		end = start + *pf.Limit
	}
	return filtered[start:end], total, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(id int) (models.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// GetBySKU retrieves a product by its SKU.
func (r *InMemoryProductRepository) GetBySKU(sku string) (models.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Clear removes all products. Used by tests.
func (r *InMemoryProductRepository) Clear() {
	r.products = []models.Product{}
	r.nextID = 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
