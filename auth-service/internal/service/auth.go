package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/techsysvbo/go-community-hub/auth-service/internal/models"
	"github.com/techsysvbo/go-community-hub/auth-service/internal/storage"
)

// RegisterUser регистрирует нового пользователя и сразу выдаёт пару токенов.
func (s *Service) RegisterUser(ctx context.Context, email, password, fullName string) (models.TokenPair, models.User, error) {
	const op = "service.auth.RegisterUser"

	normEmail, err := validateEmail(email)
	if err != nil {
		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if len(password) == 0 {
		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	_, err = s.storage.UserByEmail(ctx, normEmail)
	if err == nil {
		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New(),
		Email:        normEmail,
		PasswordHash: hashedPassword,
		FullName:     strings.TrimSpace(fullName),
		Role:         "member",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.issueTokenPair(ctx, user, "")
}

// LoginUser выполняет вход по email+пароль.
// Неизвестный email и неверный пароль дают одну и ту же ошибку —
// ErrInvalidCredentials, без различения причин.
func (s *Service) LoginUser(ctx context.Context, email, password string) (models.TokenPair, models.User, error) {
	const op = "service.auth.LoginUser"

	normEmail, err := validateEmail(email)
	if err != nil {
		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if len(password) == 0 {
		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return s.issueTokenPair(ctx, user, "")
}

// RefreshToken обновляет пару токенов по refresh-токену (ротация:
// старый refresh отзывается атомарно с выпуском нового).
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, models.User, error) {
	const op = "service.auth.RefreshToken"

	token, err := s.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, token.UserID)
	if err != nil {
		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.issueTokenPair(ctx, user, hashRefreshToken(refreshToken))
}

// RevokeToken отзывает refresh-токен.
func (s *Service) RevokeToken(ctx context.Context, refreshToken string) error {
	const op = "service.auth.RevokeToken"

	hash := hashRefreshToken(refreshToken)

	revoked, err := s.storage.RevokeRefreshToken(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if !revoked {
		return fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	if s.rcache != nil {
		// Ошибки кэша не фатальны: источник истины — БД.
		_ = s.rcache.MarkRevoked(ctx, hash)
	}

	return nil
}

// ValidateToken проверяет access-токен и возвращает данные пользователя.
func (s *Service) ValidateToken(ctx context.Context, accessToken string) (uuid.UUID, string, error) {
	const op = "service.auth.ValidateToken"

	uid, email, err := s.validateAccessToken(accessToken)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return uid, email, nil
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateEmail проверяет базовый формат email и нормализует его к нижнему регистру.
func validateEmail(raw string) (string, error) {
	const op = "service.auth.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}

// issueTokenPair выпускает новую пару access+refresh токенов.
// Если oldRefreshHash != "", пытается атомарно отозвать старый refresh-токен.
func (s *Service) issueTokenPair(ctx context.Context, user models.User, oldRefreshHash string) (models.TokenPair, models.User, error) {
	const op = "service.auth.issueTokenPair"

	now := time.Now().UTC()

	accessToken, accessExpiresAt, err := s.tokens.Issue(user.ID, user.Email, now)
	if err != nil {
		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if oldRefreshHash != "" {
		revoked, err := s.storage.RevokeRefreshToken(ctx, oldRefreshHash)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
		}

		if !revoked {
			return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
		}

		if s.rcache != nil {
			_ = s.rcache.MarkRevoked(ctx, oldRefreshHash)
		}
	}

	plain, err := s.generateRefreshToken(ctx, user.ID)
	if err != nil {
		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    plain,
		AccessExpiresAt: accessExpiresAt,
	}, user, nil
}
