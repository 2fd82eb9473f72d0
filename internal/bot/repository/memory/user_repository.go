package memory

import (
	"context"
	"sync"

	domainerrors "botto/internal/domain/errors"
	"botto/internal/domain/models"
)

// UserRepository keeps the directory in process memory. It backs tests and
// local development; insertion order is preserved so rosters come back the
// way Postgres would return them.
type UserRepository struct {
	users []*models.User
	mu    sync.RWMutex
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make([]*models.User, 0),
	}
}

func (r *UserRepository) CreateUser(_ context.Context, name string, chatID *int64, isAdmin bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Name == name {
			return nil, &domainerrors.ErrUserAlreadyExists{Name: name}
		}
	}

	token, err := models.GenerateToken()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:    name,
		ChatID:  chatID,
		IsAdmin: isAdmin,
		Token:   token,
	}

	r.users = append(r.users, user)

	return copyUser(user), nil
}

func (r *UserRepository) GetUsers(_ context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, copyUser(user))
	}

	return users, nil
}

func (r *UserRepository) GetUserByName(_ context.Context, name string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Name == name {
			return copyUser(user), nil
		}
	}

	return nil, &domainerrors.ErrUserNotFound{Name: name}
}

func (r *UserRepository) SetChatID(_ context.Context, name string, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Name == name {
			id := chatID
			user.ChatID = &id

			return nil
		}
	}

	return &domainerrors.ErrUserNotFound{Name: name}
}

func (r *UserRepository) RenameUser(_ context.Context, oldName, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Name == newName {
			return &domainerrors.ErrUserAlreadyExists{Name: newName}
		}
	}

	for _, user := range r.users {
		if user.Name == oldName {
			user.Name = newName
			return nil
		}
	}

	return &domainerrors.ErrUserNotFound{Name: oldName}
}

func (r *UserRepository) UpdateUser(_ context.Context, oldUser, newUser *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Name == oldUser.Name {
			user.Name = newUser.Name
			user.ChatID = newUser.ChatID
			user.IsAdmin = newUser.IsAdmin

			return nil
		}
	}

	return &domainerrors.ErrUserNotFound{Name: oldUser.Name}
}

func copyUser(user *models.User) *models.User {
	clone := *user

	if user.ChatID != nil {
		id := *user.ChatID
		clone.ChatID = &id
	}

	return &clone
}
