package repo

import "github.com/stockroom-io/stockroom/internal/models"

type UserRepository interface {
	GetByUsername(username string) (models.User, error)
	CreateUser(u models.User) (models.User, error)
	// Search lists users, optionally filtered by a case-insensitive
	// username substring. An empty query matches everyone.
	Search(q string) ([]models.User, error)
	Delete(id int) error
}
