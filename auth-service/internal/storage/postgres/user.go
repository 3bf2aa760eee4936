package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/techsysvbo/go-community-hub/auth-service/internal/models"
	"github.com/techsysvbo/go-community-hub/auth-service/internal/storage"
)

// SaveUser сохраняет нового пользователя.
// Возвращает storage.ErrAlreadyExists при конфликте email.
func (s *Storage) SaveUser(ctx context.Context, user models.User) error {
	const op = "storage.postgres.SaveUser"

	query := `INSERT INTO users (id, email, password_hash, full_name, role, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7);`

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UserByEmail возвращает пользователя по email.
// Возвращает storage.ErrNotFound, если пользователь не найден.
func (s *Storage) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.postgres.UserByEmail"

	query := `SELECT id, email, password_hash, full_name, role, created_at, updated_at
	          FROM users WHERE email = $1;`

	return s.userByQuery(ctx, op, query, email)
}

// UserByID возвращает пользователя по идентификатору.
// Возвращает storage.ErrNotFound, если пользователь не найден.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `SELECT id, email, password_hash, full_name, role, created_at, updated_at
	          FROM users WHERE id = $1;`

	return s.userByQuery(ctx, op, query, id)
}

func (s *Storage) userByQuery(ctx context.Context, op, query string, arg any) (models.User, error) {
	var user models.User

	err := s.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
