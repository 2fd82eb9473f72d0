package repositories

import (
	"context"

	"botto/internal/domain/models"
)

// UserRepository is the persistent user directory. Names are the identity
// key and are unique; chat ids are bound on a user's first contact.
type UserRepository interface {
	// CreateUser inserts a new user with a freshly generated token and
	// returns it.
	CreateUser(ctx context.Context, name string, chatID *int64, isAdmin bool) (*models.User, error)

	GetUsers(ctx context.Context) ([]*models.User, error)

	GetUserByName(ctx context.Context, name string) (*models.User, error)

	SetChatID(ctx context.Context, name string, chatID int64) error

	RenameUser(ctx context.Context, oldName, newName string) error

	// UpdateUser replaces the identified row with the new value.
	UpdateUser(ctx context.Context, oldUser, newUser *models.User) error
}
