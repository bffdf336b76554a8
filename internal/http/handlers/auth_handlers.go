package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/stockroom-io/stockroom/internal/auth"
	"github.com/stockroom-io/stockroom/internal/models"
	"github.com/stockroom-io/stockroom/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

// RegisterHandler godoc
// @Summary Register new user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 201 {object} RegisterResult
// @Failure 400 {string} string "Invalid input"
// @Failure 409 {string} string "User exists"
// @Router /register [post]
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var creds CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if creds.Username == "" || creds.Password == "" {
		http.Error(w, "Missing credentials", http.StatusBadRequest)
		return
	}

	if len(creds.Username) < 3 || len(creds.Password) < 6 {
		http.Error(w, "username or password too short", http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Username:     creds.Username,
		PasswordHash: string(hashed),
		Role:         "user",
	}

	created, err := userRepo.CreateUser(user)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "username already exists", http.StatusConflict)
		} else {
			http.Error(w, "failed to register user", http.StatusInternalServerError)
		}
		return
	}

	// Generate a token for the new user
	token, err := auth.GenerateToken(created)
	if err != nil {
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	err = json.NewEncoder(w).Encode(RegisterResult{
		Message: "user registered",
		Token:   token,
	})

	if err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

// LoginHandler godoc
// @Summary Authenticate user and return JWT token plus refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body UserLogin true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	user, err := userRepo.GetByUsername(credentials.Username)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	refreshToken := auth.NewRefreshToken()
	if err := refreshTokens.Save(refreshToken, user.Username, refreshTokenTTL); err != nil {
		http.Error(w, "could not store refresh token", http.StatusInternalServerError)
		return
	}

	err = json.NewEncoder(w).Encode(LoginResult{Token: token, RefreshToken: refreshToken})

	if err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

// RefreshHandler godoc
// @Summary Exchange a refresh token for a new JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "refresh token"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unknown or expired refresh token"
// @Router /refresh [post]
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	username, err := refreshTokens.Lookup(req.RefreshToken)
	if err != nil {
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	user, err := userRepo.GetByUsername(username)
	if err != nil {
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	// Rotate: the old refresh token is revoked and replaced.
	_ = refreshTokens.Revoke(req.RefreshToken)
	refreshToken := auth.NewRefreshToken()
	if err := refreshTokens.Save(refreshToken, user.Username, refreshTokenTTL); err != nil {
		http.Error(w, "could not store refresh token", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(LoginResult{Token: token, RefreshToken: refreshToken}); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

// LogoutHandler godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Success 204 {string} string "Revoked"
// @Failure 400 {string} string "Invalid input"
// @Router /logout [post]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if err := refreshTokens.Revoke(req.RefreshToken); err != nil {
		http.Error(w, "could not revoke refresh token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
