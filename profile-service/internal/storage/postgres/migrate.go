package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migration — один версионированный шаг схемы. Применённые версии
// фиксируются в schema_migrations и повторно не выполняются.
type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create_profiles",
		sql: `
CREATE TABLE IF NOT EXISTS profiles (
    user_id          UUID PRIMARY KEY,
    display_name     TEXT,
    bio              TEXT,
    location         TEXT,
    zip_code         VARCHAR(20),
    profession       TEXT,
    interests        TEXT[],
    privacy_settings JSONB,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		version: 2,
		name:    "add_geo_columns",
		sql: `
ALTER TABLE profiles ADD COLUMN IF NOT EXISTS country VARCHAR(100);
ALTER TABLE profiles ADD COLUMN IF NOT EXISTS state   VARCHAR(100);
ALTER TABLE profiles ADD COLUMN IF NOT EXISTS city    VARCHAR(100);`,
	},
	{
		version: 3,
		name:    "add_avatar_columns",
		sql: `
ALTER TABLE profiles ADD COLUMN IF NOT EXISTS avatar_key TEXT;
ALTER TABLE profiles ADD COLUMN IF NOT EXISTS avatar_url TEXT;`,
	},
}

// applyMigrations последовательно применяет недостающие шаги схемы.
// Каждый шаг выполняется в отдельной транзакции вместе с записью версии.
func applyMigrations(ctx context.Context, db *pgxpool.Pool) error {
	const op = "storage.postgres.applyMigrations"

	_, err := db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INT PRIMARY KEY,
    name       TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, m := range migrations {
		var exists bool
		err := db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1);`,
			m.version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("%s: version %d: %w", op, m.version, err)
		}
		if exists {
			continue
		}

		tx, err := db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("%s: version %d: %w", op, m.version, err)
		}

		if _, err := tx.Exec(ctx, m.sql); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("%s: version %d (%s): %w", op, m.version, m.name, err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2);`,
			m.version, m.name,
		); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("%s: version %d: %w", op, m.version, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("%s: version %d: %w", op, m.version, err)
		}
	}

	return nil
}
