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

// CreateWarehouseHandler godoc
// @Summary Create a new warehouse
// @Tags warehouses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param warehouse body WarehouseRequest true "Warehouse to add"
// @Success 201 {object} models.Warehouse
// @Failure 400 {object} []ProductValidationError
// @Router /warehouses [post]
func CreateWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	var req WarehouseRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateWarehouse(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	created, err := warehouseRepo.Create(models.Warehouse{Name: req.Name, Location: req.Location})
	if err != nil {
		http.Error(w, "could not create warehouse", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GetWarehousesHandler godoc
// @Summary List all warehouses
// @Tags warehouses
// @Produce json
// @Success 200 {array} models.Warehouse
// @Failure 500 {string} string "Internal error"
// @Router /warehouses [get]
func GetWarehousesHandler(w http.ResponseWriter, r *http.Request) {
	warehouses, err := warehouseRepo.GetAll()
	if err != nil {
		http.Error(w, "could not fetch warehouses", http.StatusInternalServerError)
		return
	}
	if warehouses == nil {
		warehouses = []models.Warehouse{}
	}
	if err := writeJSON(w, http.StatusOK, warehouses); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

// GetWarehouseByIDHandler godoc
// @Summary Get a warehouse by ID
// @Tags warehouses
// @Produce json
// @Param id path int true "Warehouse ID"
// @Success 200 {object} models.Warehouse
// @Failure 404 {string} string "Not found"
// @Router /warehouses/{id} [get]
func GetWarehouseByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid warehouse ID", http.StatusBadRequest)
		return
	}

	warehouse, err := warehouseRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrWarehouseNotFound) {
			http.Error(w, "warehouse not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch warehouse", http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusOK, warehouse); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}
