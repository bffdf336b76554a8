package models

// Warehouse is a physical location that holds product stock.
type Warehouse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
