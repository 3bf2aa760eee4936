package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/techsysvbo/go-community-hub/auth-service/internal/models"
	"github.com/techsysvbo/go-community-hub/auth-service/internal/storage"
)

// SaveRefreshToken сохраняет новый refresh-токен.
// Возвращает storage.ErrAlreadyExists при коллизии хэша.
func (s *Storage) SaveRefreshToken(ctx context.Context, token models.RefreshToken) error {
	const op = "storage.postgres.SaveRefreshToken"

	query := `INSERT INTO refresh_tokens (token_hash, user_id, created_at, expires_at, revoked)
	          VALUES ($1, $2, $3, $4, $5);`

	_, err := s.db.Exec(ctx, query,
		token.TokenHash,
		token.UserID,
		token.CreatedAt,
		token.ExpiresAt,
		token.Revoked,
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

// RefreshTokenByHash возвращает refresh-токен по его хэшу.
// Возвращает storage.ErrNotFound, если токен не найден.
func (s *Storage) RefreshTokenByHash(ctx context.Context, tokenHash string) (models.RefreshToken, error) {
	const op = "storage.postgres.RefreshTokenByHash"

	query := `SELECT token_hash, user_id, created_at, expires_at, revoked
	          FROM refresh_tokens WHERE token_hash = $1;`

	var token models.RefreshToken

	err := s.db.QueryRow(ctx, query, tokenHash).Scan(
		&token.TokenHash,
		&token.UserID,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.Revoked,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.RefreshToken{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return models.RefreshToken{}, fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

// RevokeRefreshToken отзывает токен, если он ещё активен.
// Возвращает (true, nil), если токен был отозван этим вызовом,
// (false, nil) — если уже был отозван, (false, ErrNotFound) — если не найден.
func (s *Storage) RevokeRefreshToken(ctx context.Context, tokenHash string) (bool, error) {
	const op = "storage.postgres.RevokeRefreshToken"

	query := `UPDATE refresh_tokens SET revoked = TRUE
	          WHERE token_hash = $1 AND revoked = FALSE;`

	tag, err := s.db.Exec(ctx, query, tokenHash)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() > 0 {
		return true, nil
	}

	// Ни одна строка не изменилась: либо токена нет, либо он уже отозван.
	var exists bool
	err = s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE token_hash = $1);`,
		tokenHash,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return false, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return false, nil
}

// DeleteExpiredTokens удаляет токены с истекшим сроком действия.
// Возвращает количество удалённых строк.
func (s *Storage) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.postgres.DeleteExpiredTokens"

	tag, err := s.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1;`, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}
