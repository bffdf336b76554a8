package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/stockroom-io/stockroom/internal/ledger"
	models "github.com/stockroom-io/stockroom/internal/models"
	repo "github.com/stockroom-io/stockroom/internal/repo"
)

// StockInHandler godoc
// @Summary Add stock of a product to a warehouse
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param stock body StockRequest true "Warehouse, quantity and optional reason"
// @Success 201 {object} models.Movement
// @Failure 400 {string} string "Invalid quantity"
// @Failure 404 {string} string "Product not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/stock-in [post]
func StockInHandler(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req StockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	mov, err := stockLedger.StockIn(r.Context(), productID, req.WarehouseID, req.Quantity, req.Reason)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(mov)
}

// StockOutHandler godoc
// @Summary Remove stock of a product from a warehouse
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param stock body StockRequest true "Warehouse, quantity and optional reason"
// @Success 201 {object} models.Movement
// @Failure 400 {string} string "Invalid quantity"
// @Failure 404 {string} string "Product not found"
// @Failure 409 {string} string "Insufficient stock"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/stock-out [post]
func StockOutHandler(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req StockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	mov, err := stockLedger.StockOut(r.Context(), productID, req.WarehouseID, req.Quantity, req.Reason)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(mov)
}

// TransferHandler godoc
// @Summary Transfer stock of a product between warehouses
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param transfer body TransferRequest true "Source, destination, quantity and optional reason"
// @Success 201 {object} models.Movement
// @Failure 400 {string} string "Invalid quantity"
// @Failure 404 {string} string "Product not found"
// @Failure 409 {string} string "Insufficient stock"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/transfer [post]
func TransferHandler(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	mov, err := stockLedger.Transfer(r.Context(), productID, req.FromWarehouseID, req.ToWarehouseID, req.Quantity, req.Reason)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(mov)
}

// GetProductInventoryHandler godoc
// @Summary Stock of a product in every warehouse that has ever held it
// @Tags stock
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} InventoryResult
// @Failure 404 {string} string "Product not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/inventory [get]
func GetProductInventoryHandler(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	entries, err := stockLedger.ProductInventory(r.Context(), productID)
	if err != nil {
		http.Error(w, "could not fetch inventory", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.InventoryEntry{}
	}

	if err := writeJSON(w, http.StatusOK, InventoryResult{ProductID: productID, Data: entries}); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

// productIDParam parses the {id} URL param and checks the product exists.
func productIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return 0, false
	}

	if _, err := productRepo.GetByID(id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return 0, false
		}
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return 0, false
	}
	return id, true
}

func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidQuantity):
		http.Error(w, "quantity must be a positive integer", http.StatusBadRequest)
	case errors.Is(err, ledger.ErrInsufficientStock):
		http.Error(w, "insufficient stock", http.StatusConflict)
	default:
		log.Error().Err(err).Msg("ledger operation failed")
		http.Error(w, "could not update stock", http.StatusInternalServerError)
	}
}
