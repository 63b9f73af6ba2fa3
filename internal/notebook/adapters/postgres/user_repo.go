package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"notebook/internal/notebook/domain/entities"
	"notebook/internal/notebook/ports/repositories"
	"notebook/pkg/logger"
)

const uniqueViolation = "23505"

// UserRepository хранит пользователей в таблице users.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает репозиторий пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

// Create добавляет пользователя.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, password_hash, created_at) VALUES ($1, $2, $3)`,
		user.ID, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			log.Debug(ctx, "user already exists", zap.String("id", user.ID))
			return entities.ErrUserExists
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByID"))

	var user entities.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, password_hash, created_at FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("id", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by id", zap.Error(err))
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}

	return &user, nil
}

// List возвращает всех пользователей в порядке создания.
func (r *UserRepository) List(ctx context.Context) ([]*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "List"))

	rows, err := r.pool.Query(ctx, `SELECT id, password_hash, created_at FROM users ORDER BY created_at, id`)
	if err != nil {
		log.Error(ctx, "error listing users", zap.Error(err))
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		var user entities.User
		if err := rows.Scan(&user.ID, &user.PasswordHash, &user.CreatedAt); err != nil {
			log.Error(ctx, "error scanning user", zap.Error(err))
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating users", zap.Error(err))
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpdatePasswordHash заменяет хэш пароля.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "UpdatePasswordHash"))

	result, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		log.Error(ctx, "error updating password hash", zap.Error(err))
		return fmt.Errorf("error updating password hash: %w", err)
	}
	if result.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}

	return nil
}

// Delete удаляет пользователя. Отсутствие записи не считается ошибкой.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Delete"))

	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, "error deleting user", zap.Error(err))
		return fmt.Errorf("error deleting user: %w", err)
	}

	log.Debug(ctx, "user deleted", zap.String("id", id), zap.Int64("rows", result.RowsAffected()))
	return nil
}
