package handlers

import (
	"strings"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateProduct(p ProductRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(p.SKU) == "" {
		errs = append(errs, ProductValidationError{Field: "SKU", Description: "SKU is required"})
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ProductValidationError{Field: "Name", Description: "Name is required"})
	}
	return errs
}

func validateWarehouse(w WarehouseRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(w.Name) == "" {
		errs = append(errs, ProductValidationError{Field: "Name", Description: "Name is required"})
	}
	return errs
}
