package repo

// InMemoryMetricsRepository derives dashboard metrics from the in-memory
// repositories it is pointed at.
type InMemoryMetricsRepository struct {
	products   *InMemoryProductRepository
	warehouses *InMemoryWarehouseRepository
	movements  *InMemoryMovementRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (r *InMemoryMetricsRepository) SetRepositories(
	products *InMemoryProductRepository,
	warehouses *InMemoryWarehouseRepository,
	movements *InMemoryMovementRepository,
) {
	r.products = products
	r.warehouses = warehouses
	r.movements = movements
}

func (r *InMemoryMetricsRepository) GetDashboardMetrics() (Metrics, error) {
	var m Metrics
	if r.products != nil {
		products, _ := r.products.GetAll()
		m.TotalProducts = len(products)
	}
	if r.warehouses != nil {
		warehouses, _ := r.warehouses.GetAll()
		m.TotalWarehouses = len(warehouses)
	}
	if r.movements == nil {
		return m, nil
	}

	counts := map[int]int{}
	for _, mov := range r.movements.All() {
		m.TotalMovements++
		counts[mov.ProductID]++
	}

	best, bestCount := 0, 0
	for productID, count := range counts {
		if count > bestCount {
			best, bestCount = productID, count
		}
	}
	if bestCount > 0 && r.products != nil {
		if p, err := r.products.GetByID(best); err == nil {
			m.MostMovedProduct = MostMovedProduct{Name: p.Name, MovementCount: bestCount}
		}
	}
	return m, nil
}
