package sql

import (
	"context"
	"errors"

	"botto/internal/database"
	domainerrors "botto/internal/domain/errors"
	"botto/internal/domain/models"
	"botto/pkg/txs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

type UserRepository struct {
	db *database.PostgresDB
}

func NewUserRepository(db *database.PostgresDB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, name string, chatID *int64, isAdmin bool) (*models.User, error) {
	token, err := models.GenerateToken()
	if err != nil {
		return nil, err
	}

	querier := txs.GetQuerier(ctx, r.db.Pool)

	_, err = querier.Exec(ctx,
		"INSERT INTO users (name, chat_id, token, is_admin) VALUES ($1, $2, $3, $4)",
		name, chatID, token, isAdmin)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, &domainerrors.ErrUserAlreadyExists{Name: name}
		}

		return nil, &domainerrors.ErrSQLExecution{Operation: "create_user", Cause: err}
	}

	return &models.User{
		Name:    name,
		ChatID:  chatID,
		IsAdmin: isAdmin,
		Token:   token,
	}, nil
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]*models.User, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	rows, err := querier.Query(ctx,
		"SELECT name, chat_id, token, is_admin FROM users ORDER BY user_id")
	if err != nil {
		return nil, &domainerrors.ErrSQLExecution{Operation: "get_users", Cause: err}
	}
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user := &models.User{}

		if err := rows.Scan(&user.Name, &user.ChatID, &user.Token, &user.IsAdmin); err != nil {
			return nil, &domainerrors.ErrSQLScan{Entity: "user", Cause: err}
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, &domainerrors.ErrSQLExecution{Operation: "get_users", Cause: err}
	}

	return users, nil
}

func (r *UserRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	user := &models.User{}

	err := querier.QueryRow(ctx,
		"SELECT name, chat_id, token, is_admin FROM users WHERE name = $1",
		name).Scan(&user.Name, &user.ChatID, &user.Token, &user.IsAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domainerrors.ErrUserNotFound{Name: name}
		}

		return nil, &domainerrors.ErrSQLExecution{Operation: "get_user_by_name", Cause: err}
	}

	return user, nil
}

func (r *UserRepository) SetChatID(ctx context.Context, name string, chatID int64) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	tag, err := querier.Exec(ctx,
		"UPDATE users SET chat_id = $1 WHERE name = $2", chatID, name)
	if err != nil {
		return &domainerrors.ErrSQLExecution{Operation: "set_chat_id", Cause: err}
	}

	if tag.RowsAffected() == 0 {
		return &domainerrors.ErrUserNotFound{Name: name}
	}

	return nil
}

func (r *UserRepository) RenameUser(ctx context.Context, oldName, newName string) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	tag, err := querier.Exec(ctx,
		"UPDATE users SET name = $1 WHERE name = $2", newName, oldName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return &domainerrors.ErrUserAlreadyExists{Name: newName}
		}

		return &domainerrors.ErrSQLExecution{Operation: "rename_user", Cause: err}
	}

	if tag.RowsAffected() == 0 {
		return &domainerrors.ErrUserNotFound{Name: oldName}
	}

	return nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, oldUser, newUser *models.User) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	tag, err := querier.Exec(ctx,
		"UPDATE users SET name = $1, chat_id = $2, is_admin = $3 WHERE name = $4",
		newUser.Name, newUser.ChatID, newUser.IsAdmin, oldUser.Name)
	if err != nil {
		return &domainerrors.ErrSQLExecution{Operation: "update_user", Cause: err}
	}

	if tag.RowsAffected() == 0 {
		return &domainerrors.ErrUserNotFound{Name: oldUser.Name}
	}

	return nil
}
