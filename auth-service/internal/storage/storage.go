// storage задаёт контракты слоя хранилища auth-сервиса.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/techsysvbo/go-community-hub/auth-service/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/токен).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/refresh-token).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создаёт нового пользователя.
	SaveUser(ctx context.Context, user models.User) error
	// UserByEmail находит пользователя по email (нормализованному).
	UserByEmail(ctx context.Context, email string) (models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// RefreshTokenStorage выполняет операции над refresh-токенами.
type RefreshTokenStorage interface {
	// SaveRefreshToken сохраняет новый refresh-токен.
	SaveRefreshToken(ctx context.Context, token models.RefreshToken) error
	// RefreshTokenByHash находит refresh-токен по его хэшу.
	RefreshTokenByHash(ctx context.Context, hash string) (models.RefreshToken, error)
	// RevokeRefreshToken пытается отозвать токен, если он ещё не отозван.
	// (true, nil) — отозван сейчас; (false, nil) — уже был отозван;
	// (false, ErrNotFound) — токен не найден.
	RevokeRefreshToken(ctx context.Context, hash string) (bool, error)
	// DeleteExpiredTokens удаляет все просроченные токены.
	// Возвращает количество удалённых строк.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	UserStorage
	RefreshTokenStorage
	Close()
}
