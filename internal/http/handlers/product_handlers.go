package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	models "github.com/stockroom-io/stockroom/internal/models"
	repo "github.com/stockroom-io/stockroom/internal/repo"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the registry; stock arrives later via stock-in
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} models.Product
// @Failure 400 {object} []ProductValidationError
// @Failure 409 {string} string "Duplicated SKU"
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateProduct(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	if req.Unit == "" {
		req.Unit = "each"
	}
	product := models.Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
	}
	created, err := productRepo.Create(product)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "could not create product: SKU duplicated", http.StatusConflict)
			return
		}
		http.Error(w, "could not create product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GetProductsHandler godoc
// @Summary List products, optionally filtered by name or SKU
// @Tags products
// @Produce json
// @Param name query string false "Substring match on name"
// @Param sku query string false "Exact SKU"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProductsSearchResult
// @Failure 500 {string} string "Internal error"
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	pf := repo.ProductFilter{
		Name: r.URL.Query().Get("name"),
		SKU:  r.URL.Query().Get("sku"),
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			http.Error(w, "invalid offset", http.StatusBadRequest)
			return
		}
		pf.Offset = &offset
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		pf.Limit = &limit
	}

	products, total, err := productRepo.Filter(pf)
	if err != nil {
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	if err := writeJSON(w, http.StatusOK, ProductsSearchResult{Data: products, Meta: Meta{TotalCount: total}}); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

// GetProductByIDHandler godoc
// @Summary Get a product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {string} string "Not found"
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusOK, product); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

// GetProductBySKUHandler godoc
// @Summary Resolve a SKU to its product
// @Tags products
// @Produce json
// @Param sku path string true "Product SKU"
// @Success 200 {object} models.Product
// @Failure 404 {string} string "Not found"
// @Router /products/sku/{sku} [get]
func GetProductBySKUHandler(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	product, err := productRepo.GetBySKU(sku)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusOK, product); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}
