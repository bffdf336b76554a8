package repo

import (
	"strings"
	"time"

	"github.com/stockroom-io/stockroom/internal/models"
)

// InMemoryUserRepository is an in-memory implementation of UserRepository.
type InMemoryUserRepository struct {
	users  []models.User
	nextID int
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:  []models.User{},
		nextID: 1,
	}
}

func (r *InMemoryUserRepository) GetByUsername(username string) (models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (r *InMemoryUserRepository) CreateUser(u models.User) (models.User, error) {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return models.User{}, ErrDuplicatedValueUnique
		}
	}
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.users = append(r.users, u)
	return u, nil
}

func (r *InMemoryUserRepository) Search(q string) ([]models.User, error) {
	if q == "" {
		return r.users, nil
	}
	var matched []models.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(q)) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

func (r *InMemoryUserRepository) Delete(id int) error {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return ErrUserNotFound
}
