package cache

import (
	"context"
	"log/slog"

	"botto/internal/domain/models"
	"botto/internal/domain/repositories"
)

// CachedUserRepository decorates a UserRepository with a read-through roster
// cache. Cache failures never fail the operation: reads fall back to the
// underlying repository and invalidation errors are only logged.
type CachedUserRepository struct {
	repo      repositories.UserRepository
	userCache UserCache
	logger    *slog.Logger
}

func NewCachedUserRepository(repo repositories.UserRepository, userCache UserCache, logger *slog.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		repo:      repo,
		userCache: userCache,
		logger:    logger,
	}
}

func (r *CachedUserRepository) CreateUser(ctx context.Context, name string, chatID *int64, isAdmin bool) (*models.User, error) {
	user, err := r.repo.CreateUser(ctx, name, chatID, isAdmin)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx)

	return user, nil
}

func (r *CachedUserRepository) GetUsers(ctx context.Context) ([]*models.User, error) {
	users, err := r.userCache.GetRoster(ctx)
	if err == nil && users != nil {
		return users, nil
	}

	users, err = r.repo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.userCache.SetRoster(ctx, users); err != nil {
		r.logger.Error("Failed to cache roster",
			"error", err,
		)
	}

	return users, nil
}

func (r *CachedUserRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	users, err := r.userCache.GetRoster(ctx)
	if err == nil && users != nil {
		for _, user := range users {
			if user.Name == name {
				return user, nil
			}
		}
	}

	return r.repo.GetUserByName(ctx, name)
}

func (r *CachedUserRepository) SetChatID(ctx context.Context, name string, chatID int64) error {
	if err := r.repo.SetChatID(ctx, name, chatID); err != nil {
		return err
	}

	r.invalidate(ctx)

	return nil
}

func (r *CachedUserRepository) RenameUser(ctx context.Context, oldName, newName string) error {
	if err := r.repo.RenameUser(ctx, oldName, newName); err != nil {
		return err
	}

	r.invalidate(ctx)

	return nil
}

func (r *CachedUserRepository) UpdateUser(ctx context.Context, oldUser, newUser *models.User) error {
	if err := r.repo.UpdateUser(ctx, oldUser, newUser); err != nil {
		return err
	}

	r.invalidate(ctx)

	return nil
}

func (r *CachedUserRepository) invalidate(ctx context.Context) {
	if err := r.userCache.DeleteRoster(ctx); err != nil {
		r.logger.Error("Failed to invalidate roster cache",
			"error", err,
		)
	}
}
