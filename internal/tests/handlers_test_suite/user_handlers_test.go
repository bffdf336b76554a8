package handlers_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	handler "github.com/stockroom-io/stockroom/internal/http/handlers"
	"github.com/stockroom-io/stockroom/internal/models"
)

func registerUser(t *testing.T, r http.Handler, username, password string) {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/register", handler.CredentialsRequest{Username: username, Password: password}, false)
	if w.Code != http.StatusCreated {
		t.Fatalf("register %q failed with %d: %s", username, w.Code, w.Body.String())
	}
}

func TestGetUsersHandler(t *testing.T) {
	r := newTestServer(t)
	registerUser(t, r, "alice", "secret123")
	registerUser(t, r, "alfred", "secret123")
	registerUser(t, r, "bob", "secret123")

	w := doJSON(r, http.MethodGet, "/users", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var users []models.User
	if err := json.NewDecoder(w.Body).Decode(&users); err != nil {
		t.Fatalf("error decoding users: %v", err)
	}
	// admin plus the three registered above
	if len(users) != 4 {
		t.Errorf("expected 4 users, got %d", len(users))
	}

	w = doJSON(r, http.MethodGet, "/users?q=al", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	users = nil
	if err := json.NewDecoder(w.Body).Decode(&users); err != nil {
		t.Fatalf("error decoding users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users matching 'al', got %d", len(users))
	}
	if users[0].Username != "alice" || users[1].Username != "alfred" {
		t.Errorf("unexpected filter result: %q, %q", users[0].Username, users[1].Username)
	}
}

func TestDeleteUserHandler(t *testing.T) {
	r := newTestServer(t)
	registerUser(t, r, "alice", "secret123")

	alice, err := userRepo.GetByUsername("alice")
	if err != nil {
		t.Fatalf("could not look up user: %v", err)
	}

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/users/%d", alice.ID), nil, true)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 No Content, got %d: %s", w.Code, w.Body.String())
	}

	// The deleted user can no longer log in.
	w = doJSON(r, http.MethodPost, "/login", handler.CredentialsRequest{Username: "alice", Password: "secret123"}, false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 Unauthorized after deletion, got %d", w.Code)
	}

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/users/%d", alice.ID), nil, true)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 Not Found for already-deleted user, got %d", w.Code)
	}
}

func TestUserHandlers_AdminOnly(t *testing.T) {
	r := newTestServer(t)
	registerUser(t, r, "mortal", "secret123")
	userToken, err := generateToken(r, "mortal", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	for _, tc := range []struct{ method, url string }{
		{http.MethodGet, "/users"},
		{http.MethodDelete, "/users/1"},
	} {
		w := doJSONAs(r, tc.method, tc.url, nil, userToken)
		if w.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected 403 Forbidden for non-admin, got %d", tc.method, tc.url, w.Code)
		}
	}
}
