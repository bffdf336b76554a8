package repo

import "time"

type ProductFilter struct {
	Name   string
	SKU    string
	Offset *int
	Limit  *int
}

type MovementFilter struct {
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}
