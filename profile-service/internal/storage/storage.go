// storage содержит контракты слоя хранилищ profile-сервиса.
//
// storage.go — работа с профилями в БД: чтение по user_id и полный
// upsert-апдейт всей записи; фиксация атрибутов аватара после
// успешного подтверждения загрузки в S3/MinIO.
// avatars.go — контракт генерации presigned URL и проверки загрузки.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/techsysvbo/go-community-hub/profile-service/internal/models"
)

var (
	// ErrNotFound — профиль не найден. Для GET это нормальное состояние
	// до первого сохранения, а не сбой.
	ErrNotFound = errors.New("not found")
)

// Profiles — контракт репозитория профилей.
type Profiles interface {
	// ProfileByID возвращает профиль по user_id.
	ProfileByID(ctx context.Context, userID uuid.UUID) (models.Profile, error)
	// UpsertProfile выполняет полную замену записи по user_id:
	// каждая изменяемая колонка перезаписывается значением из profile,
	// опущенные поля становятся нулевыми. Реализация обновляет updated_at.
	UpsertProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
	// ConfirmAvatarUpload фиксирует новый avatar_key и (опционально) avatar_url.
	// Вызывается после успешного подтверждения загрузки в S3/MinIO.
	// Если записи профиля ещё нет — создаёт её.
	ConfirmAvatarUpload(ctx context.Context, userID uuid.UUID, key, publicURL string) (models.Profile, error)
}

// ProfilesStorage — верхнеуровневый интерфейс хранилища профилей.
type ProfilesStorage interface {
	Profiles
	Close()
}
