package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/techsysvbo/go-community-hub/pkg/log"
	"github.com/techsysvbo/go-community-hub/profile-service/internal/models"
	"github.com/techsysvbo/go-community-hub/profile-service/internal/storage"

	"github.com/google/uuid"
)

// ProfileByID возвращает профиль по идентификатору пользователя.
//
// Поведение:
//   - userID не должен быть нулевым (uuid.Nil) — иначе ErrInvalidArgument;
//   - при отсутствии записи возвращает ErrNotFound: для только что
//     зарегистрированного пользователя это штатное состояние, не сбой.
func (s *Service) ProfileByID(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	const op = "service/profiles/ProfileByID"

	if userID == uuid.Nil {
		return models.Profile{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	profile, err := s.profiles.ProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Profile{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	return profile, nil
}

// UpsertProfile сохраняет профиль как полную замену: значения всех изменяемых
// полей берутся из input, опущенные клиентом поля становятся пустыми.
// Поле Location хранится как есть и не синхронизируется со структурированными
// country/state/city. Интересы нормализуются (обрезка пробелов, отбрасывание
// пустых элементов).
func (s *Service) UpsertProfile(ctx context.Context, input models.Profile) (models.Profile, error) {
	const op = "service/profiles/UpsertProfile"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String())

	if input.UserID == uuid.Nil {
		return models.Profile{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.Interests = normalizeInterests(input.Interests)

	profile, err := s.profiles.UpsertProfile(ctx, input)
	if err != nil {
		lg.Error("storage error on UpsertProfile", "err", err)

		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	return profile, nil
}

// AvatarPresign выдаёт presigned PUT URL для загрузки нового аватара.
func (s *Service) AvatarPresign(ctx context.Context, userID uuid.UUID, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "service/profiles/AvatarPresign"

	if s.avatars == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrAvatarsDisabled)
	}

	if userID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	info, err := s.avatars.AvatarUploadURL(ctx, userID, contentType, contentLength)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidArgument) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return info, nil
}

// AvatarConfirm подтверждает загрузку аватара и фиксирует ключ/URL в профиле.
// Если профиля ещё нет — запись создаётся.
func (s *Service) AvatarConfirm(ctx context.Context, userID uuid.UUID, avatarKey string) (models.Profile, error) {
	const op = "service/profiles/AvatarConfirm"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if s.avatars == nil {
		return models.Profile{}, fmt.Errorf("%s: %w", op, ErrAvatarsDisabled)
	}

	if userID == uuid.Nil || strings.TrimSpace(avatarKey) == "" {
		return models.Profile{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	publicURL, err := s.avatars.CheckAvatarUpload(ctx, userID, avatarKey)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundAvatar):
			return models.Profile{}, fmt.Errorf("%s: %w", op, ErrAvatarNotFound)
		case errors.Is(err, storage.ErrInvalidArgument):
			return models.Profile{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		default:
			return models.Profile{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	profile, err := s.profiles.ConfirmAvatarUpload(ctx, userID, avatarKey, publicURL)
	if err != nil {
		lg.Error("storage error on ConfirmAvatarUpload", "err", err)

		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("avatar_confirmed", "avatar_key", avatarKey)

	return profile, nil
}

func normalizeInterests(in []string) []string {
	if in == nil {
		return nil
	}

	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}
