package repository

import (
	"log/slog"

	"botto/internal/bot/repository/orm"
	sqlrepo "botto/internal/bot/repository/sql"
	"botto/internal/config"
	"botto/internal/database"
	"botto/internal/domain/errors"
	"botto/internal/domain/repositories"
)

type Factory struct {
	db     *database.PostgresDB
	config *config.Config
	logger *slog.Logger
}

func NewFactory(db *database.PostgresDB, config *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		db:     db,
		config: config,
		logger: logger,
	}
}

func (f *Factory) CreateUserRepository() (repositories.UserRepository, error) {
	switch f.config.DatabaseAccessType {
	case config.SquirrelAccess:
		f.logger.Info("Creating ORM (Squirrel) user repository")
		return orm.NewUserRepository(f.db), nil
	case config.SQLAccess:
		f.logger.Info("Creating SQL user repository")
		return sqlrepo.NewUserRepository(f.db), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}
