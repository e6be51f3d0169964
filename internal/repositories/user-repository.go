package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"bms-select/internal/entities"
	apperrors "bms-select/pkg/errors"
)

const (
	userTable  = "users"
	userFields = "id, username, password, must_change_password, created_at, updated_at"
)

type UserRepositoryInterface interface {
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByUsername(ctx context.Context, username string) (*entities.User, error)
	CountUsers(ctx context.Context) (uint64, error)
	CreateUser(ctx context.Context, tx pgx.Tx, user entities.User) (uint64, error)
	UpdatePassword(ctx context.Context, userID uint64, passwordHash string, mustChange bool) error
}

type userRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &userRepository{storage: storage, logger: logger}
}

func (r *userRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.MustChangePassword, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func (r *userRepository) findOne(ctx context.Context, querier Querier, where sq.Eq) (*entities.User, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(userFields).From(userTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}
	return scanUser(querier.QueryRow(ctx, query, args...))
}

func (r *userRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	return r.findOne(ctx, r.storage, sq.Eq{"id": id})
}

func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, r.storage, sq.Eq{"username": username})
}

func (r *userRepository) CountUsers(ctx context.Context) (uint64, error) {
	var count uint64
	if err := r.storage.QueryRow(ctx, `SELECT COUNT(id) FROM users`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) CreateUser(ctx context.Context, tx pgx.Tx, user entities.User) (uint64, error) {
	query := `
		INSERT INTO users (username, password, must_change_password, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.getQuerier(tx).QueryRow(ctx, query, user.Username, user.Password, user.MustChangePassword).Scan(&newID)
	return newID, err
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uint64, passwordHash string, mustChange bool) error {
	query := `
		UPDATE users
		SET password = $1, must_change_password = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.storage.Exec(ctx, query, passwordHash, mustChange, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
