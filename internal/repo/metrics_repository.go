package repo

type MostMovedProduct struct {
	Name          string `json:"name"`
	MovementCount int    `json:"movement_count"`
}

type Metrics struct {
	TotalProducts    int              `json:"total_products"`
	TotalWarehouses  int              `json:"total_warehouses"`
	TotalMovements   int              `json:"total_movements"`
	OutOfStockRows   int              `json:"out_of_stock_rows"`
	MostMovedProduct MostMovedProduct `json:"most_moved_product"`
}

type MetricsRepository interface {
	GetDashboardMetrics() (Metrics, error)
}
