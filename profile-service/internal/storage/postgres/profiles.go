package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/techsysvbo/go-community-hub/profile-service/internal/models"
	"github.com/techsysvbo/go-community-hub/profile-service/internal/storage"
	"github.com/techsysvbo/go-community-hub/pkg/log"
)

// profileColumns — единый список колонок таблицы profiles,
// используемый в SELECT/RETURNING, чтобы гарантировать одинаковый порядок сканирования.
// Текстовые колонки nullable, поэтому читаются через COALESCE.
const profileColumns = `
user_id,
COALESCE(display_name, ''),
COALESCE(bio, ''),
COALESCE(location, ''),
COALESCE(zip_code, ''),
COALESCE(country, ''),
COALESCE(state, ''),
COALESCE(city, ''),
COALESCE(profession, ''),
COALESCE(interests, '{}'),
COALESCE(privacy_settings, 'null'::jsonb),
COALESCE(avatar_key, ''),
COALESCE(avatar_url, ''),
created_at,
updated_at
`

// expectedColumns — полный набор изменяемых колонок и их типов для
// inline-ремонта схемы: только nullable-добавления, без смены типов
// и без бэкфилла.
var expectedColumns = map[string]string{
	"display_name":     "TEXT",
	"bio":              "TEXT",
	"location":         "TEXT",
	"zip_code":         "VARCHAR(20)",
	"country":          "VARCHAR(100)",
	"state":            "VARCHAR(100)",
	"city":             "VARCHAR(100)",
	"profession":       "TEXT",
	"interests":        "TEXT[]",
	"privacy_settings": "JSONB",
	"avatar_key":       "TEXT",
	"avatar_url":       "TEXT",
}

// scanProfile сканирует одну строку профиля в доменную модель.
func scanProfile(row pgx.Row) (models.Profile, error) {
	var profile models.Profile
	var privacy []byte

	if err := row.Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.Bio,
		&profile.Location,
		&profile.ZipCode,
		&profile.Country,
		&profile.State,
		&profile.City,
		&profile.Profession,
		&profile.Interests,
		&privacy,
		&profile.AvatarKey,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return models.Profile{}, err
	}

	if len(privacy) > 0 && string(privacy) != "null" {
		profile.PrivacySettings = privacy
	}

	return profile, nil
}

// ProfileByID возвращает профиль по user_id.
// Ошибки: storage.ErrNotFound, либо ошибка выполнения запроса.
func (s *Storage) ProfileByID(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	const op = "storage.postgres.ProfileByID"

	q := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1;`

	result, err := scanProfile(s.db.QueryRow(ctx, q, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

const upsertProfileQuery = `
INSERT INTO profiles (user_id, display_name, bio, location, zip_code, country, state, city,
                      profession, interests, privacy_settings)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (user_id)
DO UPDATE SET
    display_name     = EXCLUDED.display_name,
    bio              = EXCLUDED.bio,
    location         = EXCLUDED.location,
    zip_code         = EXCLUDED.zip_code,
    country          = EXCLUDED.country,
    state            = EXCLUDED.state,
    city             = EXCLUDED.city,
    profession       = EXCLUDED.profession,
    interests        = EXCLUDED.interests,
    privacy_settings = EXCLUDED.privacy_settings,
    updated_at       = now()
RETURNING ` + profileColumns

// UpsertProfile выполняет полную замену записи профиля по user_id:
// каждая изменяемая колонка перезаписывается, опущенные поля становятся
// нулевыми, слияния нет (last-write-wins).
//
// При ошибке 42703 (undefined column, дрейфанувшая схема) выполняется
// идемпотентный ремонт ADD COLUMN IF NOT EXISTS для всех ожидаемых колонок
// и ровно один повтор того же запроса; ошибка повтора уходит наверх как есть.
func (s *Storage) UpsertProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	const op = "storage.postgres.UpsertProfile"

	result, err := s.upsertProfileOnce(ctx, profile)
	if err == nil {
		return result, nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UndefinedColumn {
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Warn("profiles_schema_drift_detected",
		slog.String("op", op),
		slog.String("column", pgErr.ColumnName),
	)

	if repairErr := s.repairSchema(ctx); repairErr != nil {
		return models.Profile{}, fmt.Errorf("%s: repair: %w", op, repairErr)
	}

	result, err = s.upsertProfileOnce(ctx, profile)
	if err != nil {
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("profiles_schema_repaired", slog.String("op", op))

	return result, nil
}

func (s *Storage) upsertProfileOnce(ctx context.Context, profile models.Profile) (models.Profile, error) {
	var privacy any
	if len(profile.PrivacySettings) > 0 {
		privacy = []byte(profile.PrivacySettings)
	}

	interests := profile.Interests
	if interests == nil {
		interests = []string{}
	}

	row := s.db.QueryRow(ctx, upsertProfileQuery,
		profile.UserID,
		profile.DisplayName,
		profile.Bio,
		profile.Location,
		profile.ZipCode,
		profile.Country,
		profile.State,
		profile.City,
		profile.Profession,
		interests,
		privacy,
	)

	return scanProfile(row)
}

// repairSchema идемпотентно добавляет все ожидаемые nullable-колонки.
func (s *Storage) repairSchema(ctx context.Context) error {
	for column, typ := range expectedColumns {
		q := fmt.Sprintf(`ALTER TABLE profiles ADD COLUMN IF NOT EXISTS %s %s;`, column, typ)
		if _, err := s.db.Exec(ctx, q); err != nil {
			return fmt.Errorf("add column %s: %w", column, err)
		}
	}

	return nil
}

// ConfirmAvatarUpload фиксирует avatar_key и (опционально) avatar_url
// после успешной проверки объекта в S3/MinIO. Создаёт запись профиля,
// если её ещё нет; всегда обновляет updated_at.
func (s *Storage) ConfirmAvatarUpload(ctx context.Context, userID uuid.UUID, key, publicURL string) (models.Profile, error) {
	const op = "storage.postgres.ConfirmAvatarUpload"

	q := `
	INSERT INTO profiles (user_id, avatar_key, avatar_url)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id)
	DO UPDATE SET avatar_key = EXCLUDED.avatar_key, avatar_url = EXCLUDED.avatar_url, updated_at = now()
	RETURNING ` + profileColumns

	result, err := scanProfile(s.db.QueryRow(ctx, q, userID, key, publicURL))
	if err != nil {
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}
