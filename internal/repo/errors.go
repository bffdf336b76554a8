package repo

import "errors"

// ErrProductNotFound is returned when a product is not found in the repository.
var ErrProductNotFound = errors.New("product not found")

// ErrWarehouseNotFound is returned when a warehouse is not found in the repository.
var ErrWarehouseNotFound = errors.New("warehouse not found")

// ErrUserNotFound is returned when a user is not found in the repository.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicatedValueUnique is returned when an insert violates a unique
// constraint (SKU, username).
var ErrDuplicatedValueUnique = errors.New("duplicated value for unique column")
