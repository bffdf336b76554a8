package handlers

import "github.com/stockroom-io/stockroom/internal/models"

type ProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Unit        string `json:"unit,omitempty"`
}

type WarehouseRequest struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

type StockRequest struct {
	WarehouseID int    `json:"warehouse_id"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason,omitempty"`
}

type TransferRequest struct {
	FromWarehouseID int    `json:"from_warehouse_id"`
	ToWarehouseID   int    `json:"to_warehouse_id"`
	Quantity        int    `json:"quantity"`
	Reason          string `json:"reason,omitempty"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []models.Product `json:"data"`
	Meta Meta             `json:"meta,omitempty"`
}

type InventoryResult struct {
	ProductID int                     `json:"product_id"`
	Data      []models.InventoryEntry `json:"data"`
}

type MovementsSearchResult struct {
	Data []models.Movement `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                      `json:"imported"`
	Errors                []ProductValidationError `json:"errors"`
}
