package orm

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"botto/internal/database"
	customerrors "botto/internal/domain/errors"
	"botto/internal/domain/models"
	"botto/pkg/txs"
)

const uniqueViolationCode = "23505"

type UserRepository struct {
	db *database.PostgresDB
	sq sq.StatementBuilderType
}

func NewUserRepository(db *database.PostgresDB) *UserRepository {
	return &UserRepository{
		db: db,
		sq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *UserRepository) CreateUser(ctx context.Context, name string, chatID *int64, isAdmin bool) (*models.User, error) {
	token, err := models.GenerateToken()
	if err != nil {
		return nil, err
	}

	querier := txs.GetQuerier(ctx, r.db.Pool)

	insertQuery := r.sq.Insert("users").
		Columns("name", "chat_id", "token", "is_admin").
		Values(name, chatID, token, isAdmin)

	query, args, err := insertQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "create_user", Cause: err}
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, &customerrors.ErrUserAlreadyExists{Name: name}
		}

		return nil, &customerrors.ErrSQLExecution{Operation: "create_user", Cause: err}
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

	selectQuery := r.sq.Select("name", "chat_id", "token", "is_admin").
		From("users").
		OrderBy("user_id")

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "get_users", Cause: err}
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "get_users", Cause: err}
	}
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user := &models.User{}

		if err := rows.Scan(&user.Name, &user.ChatID, &user.Token, &user.IsAdmin); err != nil {
			return nil, &customerrors.ErrSQLScan{Entity: "user", Cause: err}
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "get_users", Cause: err}
	}

	return users, nil
}

func (r *UserRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	selectQuery := r.sq.Select("name", "chat_id", "token", "is_admin").
		From("users").
		Where(sq.Eq{"name": name})

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "get_user_by_name", Cause: err}
	}

	user := &models.User{}

	err = querier.QueryRow(ctx, query, args...).Scan(&user.Name, &user.ChatID, &user.Token, &user.IsAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &customerrors.ErrUserNotFound{Name: name}
		}

		return nil, &customerrors.ErrSQLExecution{Operation: "get_user_by_name", Cause: err}
	}

	return user, nil
}

func (r *UserRepository) SetChatID(ctx context.Context, name string, chatID int64) error {
	return r.update(ctx, "set_chat_id", name, sq.Eq{"chat_id": chatID})
}

func (r *UserRepository) RenameUser(ctx context.Context, oldName, newName string) error {
	return r.update(ctx, "rename_user", oldName, sq.Eq{"name": newName})
}

func (r *UserRepository) UpdateUser(ctx context.Context, oldUser, newUser *models.User) error {
	return r.update(ctx, "update_user", oldUser.Name, sq.Eq{
		"name":     newUser.Name,
		"chat_id":  newUser.ChatID,
		"is_admin": newUser.IsAdmin,
	})
}

func (r *UserRepository) update(ctx context.Context, operation, name string, values sq.Eq) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	updateQuery := r.sq.Update("users").
		SetMap(map[string]interface{}(values)).
		Where(sq.Eq{"name": name})

	query, args, err := updateQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: operation, Cause: err}
	}

	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return &customerrors.ErrUserAlreadyExists{Name: name}
		}

		return &customerrors.ErrSQLExecution{Operation: operation, Cause: err}
	}

	if tag.RowsAffected() == 0 {
		return &customerrors.ErrUserNotFound{Name: name}
	}

	return nil
}
