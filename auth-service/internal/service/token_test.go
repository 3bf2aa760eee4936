package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/techsysvbo/go-community-hub/auth-service/internal/models"
	"github.com/techsysvbo/go-community-hub/auth-service/internal/storage"
)

func TestGenerateRefreshToken_Collision_RetriesAndSucceeds(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()

	// Первая попытка — коллизия хэша, вторая проходит.
	gomock.InOrder(
		st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists),
		st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(nil),
	)

	plain, err := svc.generateRefreshToken(context.Background(), uid)
	require.NoError(t, err)
	require.NotEmpty(t, plain)
}

func TestGenerateRefreshToken_CollisionExhausted(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).
		Return(storage.ErrAlreadyExists).Times(5)

	_, err := svc.generateRefreshToken(context.Background(), uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrRefreshTokenCollision)
}

func TestValidateRefreshToken_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	plain := "refresh-plain"
	hash := hashRefreshToken(plain)
	uid := uuid.New()

	st.EXPECT().RefreshTokenByHash(gomock.Any(), hash).Return(models.RefreshToken{
		TokenHash: hash,
		UserID:    uid,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}, nil)

	rt, err := svc.validateRefreshToken(context.Background(), plain)
	require.NoError(t, err)
	require.Equal(t, uid, rt.UserID)
}

func TestValidateRefreshToken_NotFound_Revoked_Expired(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	plain := "refresh-plain"
	hash := hashRefreshToken(plain)

	st.EXPECT().RefreshTokenByHash(gomock.Any(), hash).
		Return(models.RefreshToken{}, storage.ErrNotFound)
	_, err := svc.validateRefreshToken(context.Background(), plain)
	require.ErrorIs(t, err, ErrInvalidToken)

	st.EXPECT().RefreshTokenByHash(gomock.Any(), hash).Return(models.RefreshToken{
		TokenHash: hash,
		UserID:    uuid.New(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		Revoked:   true,
	}, nil)
	_, err = svc.validateRefreshToken(context.Background(), plain)
	require.ErrorIs(t, err, ErrTokenRevoked)

	st.EXPECT().RefreshTokenByHash(gomock.Any(), hash).Return(models.RefreshToken{
		TokenHash: hash,
		UserID:    uuid.New(),
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}, nil)
	_, err = svc.validateRefreshToken(context.Background(), plain)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshToken_RotatesOldToken(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	plain := "refresh-plain"
	hash := hashRefreshToken(plain)
	user := models.User{ID: uuid.New(), Email: "user@example.com"}

	st.EXPECT().RefreshTokenByHash(gomock.Any(), hash).Return(models.RefreshToken{
		TokenHash: hash,
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}, nil)
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)
	// Старый refresh отзывается до сохранения нового.
	gomock.InOrder(
		st.EXPECT().RevokeRefreshToken(gomock.Any(), hash).Return(true, nil),
		st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(nil),
	)

	tp, got, err := svc.RefreshToken(context.Background(), plain)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.NotEmpty(t, tp.AccessToken)
	require.NotEqual(t, plain, tp.RefreshToken)
}

func TestRefreshToken_OldTokenAlreadyRevoked_DuringRotation(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	plain := "refresh-plain"
	hash := hashRefreshToken(plain)
	user := models.User{ID: uuid.New(), Email: "user@example.com"}

	st.EXPECT().RefreshTokenByHash(gomock.Any(), hash).Return(models.RefreshToken{
		TokenHash: hash,
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}, nil)
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)
	// Конкурентный refresh успел отозвать токен первым.
	st.EXPECT().RevokeRefreshToken(gomock.Any(), hash).Return(false, nil)

	_, _, err := svc.RefreshToken(context.Background(), plain)
	require.ErrorIs(t, err, ErrTokenRevoked)
}
