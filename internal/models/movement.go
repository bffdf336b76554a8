package models

import "time"

// Movement is one immutable entry in the stock movement log. The warehouse
// pair encodes the kind of movement:
//
//	FromWarehouseID nil, ToWarehouseID set  -> stock-in
//	FromWarehouseID set, ToWarehouseID nil  -> stock-out
//	both set                                -> transfer
//
// Quantity is always positive; the direction comes from the shape above.
type Movement struct {
	ID              int       `json:"id"`
	ProductID       int       `json:"product_id"`
	FromWarehouseID *int      `json:"from_warehouse_id"`
	ToWarehouseID   *int      `json:"to_warehouse_id"`
	Quantity        int       `json:"quantity"`
	Reason          string    `json:"reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// InventoryEntry is one row of a product's per-warehouse stock view, joined
// with the warehouse name for display.
type InventoryEntry struct {
	WarehouseID   int    `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	Quantity      int    `json:"quantity"`
}
