package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	models "github.com/stockroom-io/stockroom/internal/models"
	repo "github.com/stockroom-io/stockroom/internal/repo"
)

// GetUsersHandler godoc
// @Summary List users, optionally filtered by a username substring
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive username substring"
// @Success 200 {array} models.User
// @Failure 403 {string} string "Admin only"
// @Failure 500 {string} string "Internal error"
// @Router /users [get]
func GetUsersHandler(w http.ResponseWriter, r *http.Request) {
	role, err := GetRoleFromContext(r)
	if err != nil || role != "admin" {
		http.Error(w, "listing users requires the admin role", http.StatusForbidden)
		return
	}

	users, err := userRepo.Search(r.URL.Query().Get("q"))
	if err != nil {
		http.Error(w, "could not fetch users", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	if err := writeJSON(w, http.StatusOK, users); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

// DeleteUserHandler godoc
// @Summary Delete a user
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204 {string} string "Deleted"
// @Failure 403 {string} string "Admin only"
// @Failure 404 {string} string "User not found"
// @Failure 500 {string} string "Internal error"
// @Router /users/{id} [delete]
func DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	role, err := GetRoleFromContext(r)
	if err != nil || role != "admin" {
		http.Error(w, "deleting users requires the admin role", http.StatusForbidden)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	if err := userRepo.Delete(id); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
