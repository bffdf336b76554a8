package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	models "github.com/stockroom-io/stockroom/internal/models"
	repo "github.com/stockroom-io/stockroom/internal/repo"
)

type csvRow struct {
	SKU         string
	Name        string
	Description string
	Unit        string
}

func parseCSV(file multipart.File) ([]csvRow, error) {
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"sku", "name"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing CSV column: %s", required)
		}
	}

	column := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		rows = append(rows, csvRow{
			SKU:         column(record, "sku"),
			Name:        column(record, "name"),
			Description: column(record, "description"),
			Unit:        column(record, "unit"),
		})
	}
	return rows, nil
}

func validateRow(r csvRow) error {
	if strings.TrimSpace(r.SKU) == "" {
		return errors.New("missing sku")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("missing name")
	}
	return nil
}

// ImportProductsHandler godoc
// @Summary Bulk import products from a CSV file
// @Description CSV columns: sku, name, optional description and unit
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Failure 403 {string} string "Admin only"
// @Router /products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	role, err := GetRoleFromContext(r)
	if err != nil || role != "admin" {
		http.Error(w, "bulk import requires the admin role", http.StatusForbidden)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := ImportProductsResult{Errors: []ProductValidationError{}}
	for i, row := range rows {
		if err := validateRow(row); err != nil {
			result.Errors = append(result.Errors, ProductValidationError{
				Field:       fmt.Sprintf("row %d", i+1),
				Description: err.Error(),
			})
			continue
		}
		unit := row.Unit
		if unit == "" {
			unit = "each"
		}
		_, err := productRepo.Create(models.Product{
			SKU:         row.SKU,
			Name:        row.Name,
			Description: row.Description,
			Unit:        unit,
		})
		if err != nil {
			description := "could not create product"
			if errors.Is(err, repo.ErrDuplicatedValueUnique) {
				description = "duplicated SKU"
			}
			result.Errors = append(result.Errors, ProductValidationError{
				Field:       fmt.Sprintf("row %d", i+1),
				Description: description,
			})
			continue
		}
		result.ImportedProductsCount++
	}

	if err := writeJSON(w, http.StatusOK, result); err != nil {
		http.Error(w, "could not write response", http.StatusInternalServerError)
	}
}
