// postgres — реализация storage.ProfilesStorage поверх pgxpool.
// Схема применяется на старте явной версионированной последовательностью
// миграций (migrate.go); на пути ошибки 42703 остаётся inline-ремонт
// схемы как страховка для дрейфанувших БД (profiles.go).
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/techsysvbo/go-community-hub/profile-service/internal/storage"
)

type Storage struct {
	db *pgxpool.Pool
}

// New создаёт новое подключение к PostgreSQL и применяет миграции.
func New(ctx context.Context, dbURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := applyMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// NewWithWait — New с ограниченным циклом ожидания готовности БД.
func NewWithWait(ctx context.Context, dbURL string, attempts int, backoff time.Duration) (*Storage, error) {
	const op = "storage.postgres.NewWithWait"

	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		str, err := New(ctx, dbURL)
		if err == nil {
			return str, nil
		}
		lastErr = err

		slog.Warn("postgres_not_ready",
			slog.Int("attempt", attempt),
			slog.Int("attempts", attempts),
			slog.String("err", err.Error()),
		)

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("%s: %w", op, lastErr)
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.db.Close()
}

// Проверка на соответствие интерфейсу ProfilesStorage.
var _ storage.ProfilesStorage = (*Storage)(nil)
