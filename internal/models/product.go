package models

// Product represents a product entity in the inventory system. Stock on hand
// is not stored here; it lives in the inventory ledger per warehouse.
type Product struct {
	ID          int    `json:"id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Unit        string `json:"unit"`
	CreatedAt   string `json:"created_at,omitempty"`
}
