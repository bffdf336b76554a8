package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	models "github.com/stockroom-io/stockroom/internal/models"
	repo "github.com/stockroom-io/stockroom/internal/repo"
)

// GetMovementsHandler godoc
// @Summary Get the movement log of a product
// @Tags movements
// @Produce json
// @Param id path int true "Product ID"
// @Param since query string false "Filter movements from this timestamp (RFC3339)"
// @Param until query string false "Filter movements until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} MovementsSearchResult
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Product not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/movements [get]
func GetMovementsHandler(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	sinceStr := r.URL.Query().Get("since")
	untilStr := r.URL.Query().Get("until")

	// Reverse the substitution from + for space in the date parameters, otherwise
	// time.Parse will fail with an error.
	// This is necessary because URL query parameters replace + with a space.
	// Example: 2025-07-03T17:44:03+02:00 becomes 2025-07-03T17:44:03 02:00 on r.URL.Query().Get()
	if len(sinceStr) == len(time.RFC3339) && sinceStr[len(sinceStr)-6] == ' ' {
		sinceStr = sinceStr[:len(sinceStr)-6] + "+" + sinceStr[len(sinceStr)-5:]
	}
	if len(untilStr) == len(time.RFC3339) && untilStr[len(untilStr)-6] == ' ' {
		untilStr = untilStr[:len(untilStr)-6] + "+" + untilStr[len(untilStr)-5:]
	}

	var mf repo.MovementFilter
	if sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			http.Error(w, "invalid since timestamp", http.StatusBadRequest)
			return
		}
		mf.Since = &since
	}
	if untilStr != "" {
		until, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			http.Error(w, "invalid until timestamp", http.StatusBadRequest)
			return
		}
		mf.Until = &until
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			http.Error(w, "invalid offset", http.StatusBadRequest)
			return
		}
		mf.Offset = &offset
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		mf.Limit = &limit
	}

	movements, total, err := movementRepo.GetByProductID(productID, mf)
	if err != nil {
		http.Error(w, "could not fetch movements", http.StatusInternalServerError)
		return
	}
	if movements == nil {
		movements = []models.Movement{}
	}

	if err := writeJSON(w, http.StatusOK, MovementsSearchResult{Data: movements, Meta: Meta{TotalCount: total}}); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}
