package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/techsysvbo/go-community-hub/auth-service/internal/cache"
	"github.com/techsysvbo/go-community-hub/auth-service/internal/models"
	"github.com/techsysvbo/go-community-hub/auth-service/internal/storage"
	"github.com/techsysvbo/go-community-hub/pkg/log"
	"github.com/techsysvbo/go-community-hub/pkg/token"
)

// hashRefreshToken — детерминированный хэш refresh-токена для хранения.
// В БД и кэше лежит только хэш, открытое значение знает только клиент.
func hashRefreshToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// validateAccessToken валидирует access-токен через общий пакет token,
// переводя его ошибки в сентинелы сервиса.
func (s *Service) validateAccessToken(tokenStr string) (uuid.UUID, string, error) {
	const op = "service.token.validateAccessToken"

	uid, email, err := s.tokens.Verify(tokenStr)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return uid, email, nil
}

// generateRefreshToken создаёт новый refresh-токен и сохраняет его хэш.
func (s *Service) generateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	const (
		op          = "service.token.generateRefreshToken"
		maxAttempts = 5
	)

	lg := log.From(ctx)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			lg.Error("refresh_rand_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return "", fmt.Errorf("%s: %w", op, err)
		}
		plain := base64.RawURLEncoding.EncodeToString(b)
		hash := hashRefreshToken(plain)

		now := time.Now().UTC()
		rt := models.RefreshToken{
			TokenHash: hash,
			UserID:    userID,
			CreatedAt: now,
			ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
			Revoked:   false,
		}

		if err := s.storage.SaveRefreshToken(ctx, rt); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				// Редкая коллизия — пробуем сгенерировать заново.
				continue
			}

			lg.Error("save_refresh_token_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return "", fmt.Errorf("%s: %w", op, err)
		}

		if s.rcache != nil {
			entry := cache.SessionEntry{
				UserID:    rt.UserID,
				Revoked:   false,
				ExpiresAt: rt.ExpiresAt,
			}
			if err := s.rcache.Set(ctx, hash, entry, s.cfg.RefreshTokenTTL); err != nil {
				lg.Warn("refresh_cache_set_failed",
					slog.String("op", op),
					slog.String("err", err.Error()),
				)
			}
		}

		return plain, nil
	}

	lg.Error("refresh_collision_exceeded",
		slog.String("op", op),
	)

	return "", fmt.Errorf("%s: %w", op, ErrRefreshTokenCollision)
}

// validateRefreshToken валидирует refresh-токен.
// Сначала смотрим в кэш (если сконфигурирован), при промахе — в БД
// с последующим прогревом кэша.
func (s *Service) validateRefreshToken(ctx context.Context, plain string) (models.RefreshToken, error) {
	const op = "service.token.validateRefreshToken"

	lg := log.From(ctx)
	hash := hashRefreshToken(plain)

	if s.rcache != nil {
		entry, ok, err := s.rcache.Get(ctx, hash)
		if err != nil {
			lg.Warn("refresh_cache_get_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		} else if ok {
			rt := models.RefreshToken{
				TokenHash: hash,
				UserID:    entry.UserID,
				ExpiresAt: entry.ExpiresAt,
				Revoked:   entry.Revoked,
			}
			return s.checkRefreshState(ctx, rt)
		}
	}

	rt, err := s.storage.RefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("refresh_lookup_not_found",
				slog.String("op", op),
			)
			return models.RefreshToken{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		lg.Error("refresh_lookup_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return models.RefreshToken{}, fmt.Errorf("%s: %w", op, err)
	}

	if s.rcache != nil {
		if ttl := time.Until(rt.ExpiresAt); ttl > 0 {
			entry := cache.SessionEntry{
				UserID:    rt.UserID,
				Revoked:   rt.Revoked,
				ExpiresAt: rt.ExpiresAt,
			}
			_ = s.rcache.Set(ctx, hash, entry, ttl)
		}
	}

	return s.checkRefreshState(ctx, rt)
}

// checkRefreshState проверяет флаги отзыва и срок действия токена.
func (s *Service) checkRefreshState(ctx context.Context, rt models.RefreshToken) (models.RefreshToken, error) {
	const op = "service.token.checkRefreshState"

	lg := log.From(ctx)

	if rt.Revoked {
		lg.Warn("refresh_revoked",
			slog.String("op", op),
			slog.String("user_id", rt.UserID.String()),
		)
		return models.RefreshToken{}, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	if time.Now().UTC().After(rt.ExpiresAt) {
		lg.Warn("refresh_expired",
			slog.String("op", op),
			slog.String("user_id", rt.UserID.String()),
		)
		return models.RefreshToken{}, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	return rt, nil
}
