package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stockroom-io/stockroom/internal/http/handlers"
)

// NewRouter wires all routes. Reads are public; every mutating route sits
// behind the auth middleware, and the credential endpoints are rate limited.
func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware)
		r.Post("/register", handlers.RegisterHandler)
		r.Post("/login", handlers.LoginHandler)
	})
	r.Post("/refresh", handlers.RefreshHandler)
	r.Post("/logout", handlers.LogoutHandler)

	r.Get("/products", handlers.GetProductsHandler)
	r.Get("/products/{id}", handlers.GetProductByIDHandler)
	r.Get("/products/sku/{sku}", handlers.GetProductBySKUHandler)
	r.Get("/products/{id}/inventory", handlers.GetProductInventoryHandler)
	r.Get("/products/{id}/movements", handlers.GetMovementsHandler)
	r.Get("/warehouses", handlers.GetWarehousesHandler)
	r.Get("/warehouses/{id}", handlers.GetWarehouseByIDHandler)
	r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware)
		r.Post("/products", handlers.CreateProductHandler)
		r.Post("/products/import", handlers.ImportProductsHandler)
		r.Post("/warehouses", handlers.CreateWarehouseHandler)
		r.Post("/products/{id}/stock-in", handlers.StockInHandler)
		r.Post("/products/{id}/stock-out", handlers.StockOutHandler)
		r.Post("/products/{id}/transfer", handlers.TransferHandler)
		r.Get("/users", handlers.GetUsersHandler)
		r.Delete("/users/{id}", handlers.DeleteUserHandler)
	})

	return r
}
