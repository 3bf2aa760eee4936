// service содержит бизнес-логику profile-сервиса:
// - чтение и полная замена профиля текущего пользователя;
// - работа с аватарами (выдача presigned URL и подтверждение загрузки);
// - статические справочники локаций и рекомендации.
package service

import (
	"errors"

	"github.com/techsysvbo/go-community-hub/profile-service/internal/config"
	"github.com/techsysvbo/go-community-hub/profile-service/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные данные.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — профиль ещё не создан.
	ErrNotFound = errors.New("not found")
	// ErrAvatarNotFound — объект аватара отсутствует в хранилище.
	ErrAvatarNotFound = errors.New("avatar not found")
	// ErrAvatarsDisabled — объектное хранилище не сконфигурировано.
	ErrAvatarsDisabled = errors.New("avatars are disabled")
)

// Service — описывает бизнес-логику profile-service.
//
// avatars может быть nil: в этом случае функциональность аватаров
// отключена (S3 endpoint не задан), и соответствующие операции
// возвращают ErrAvatarsDisabled.
type Service struct {
	cfg      *config.Config
	profiles storage.ProfilesStorage
	avatars  storage.AvatarsStorage
}

// New создает новый экземпляр Service.
func New(profiles storage.ProfilesStorage, avatars storage.AvatarsStorage, cfg *config.Config) *Service {
	return &Service{
		cfg:      cfg,
		profiles: profiles,
		avatars:  avatars,
	}
}
