package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrRefreshTokenNotFound is returned when a refresh token is unknown or
// expired.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenStore persists opaque refresh tokens. The redis service
// implements it for production; InMemoryRefreshStore backs tests and local
// runs without redis.
type RefreshTokenStore interface {
	Save(token, username string, ttl time.Duration) error
	Lookup(token string) (string, error)
	Revoke(token string) error
}

// NewRefreshToken returns a fresh opaque token value.
func NewRefreshToken() string {
	return uuid.NewString()
}

type storedToken struct {
	username  string
	expiresAt time.Time
}

// InMemoryRefreshStore is a map-backed RefreshTokenStore.
type InMemoryRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]storedToken
}

func NewInMemoryRefreshStore() *InMemoryRefreshStore {
	return &InMemoryRefreshStore{tokens: map[string]storedToken{}}
}

func (s *InMemoryRefreshStore) Save(token, username string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = storedToken{username: username, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *InMemoryRefreshStore) Lookup(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok || time.Now().After(t.expiresAt) {
		delete(s.tokens, token)
		return "", ErrRefreshTokenNotFound
	}
	return t.username, nil
}

func (s *InMemoryRefreshStore) Revoke(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
