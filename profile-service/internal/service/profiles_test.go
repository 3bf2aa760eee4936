package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/techsysvbo/go-community-hub/profile-service/internal/config"
	"github.com/techsysvbo/go-community-hub/profile-service/internal/models"
	"github.com/techsysvbo/go-community-hub/profile-service/internal/storage"
	"github.com/techsysvbo/go-community-hub/profile-service/mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testCfg() *config.Config {
	return &config.Config{
		Env: "local",
		S3: config.S3Config{
			Bucket:        "avatars",
			PresignTTL:    15 * time.Minute,
			PublicBaseURL: "https://cdn.example.com",
		},
		Avatar: config.AvatarConfig{
			MaxSizeBytes:        5 << 20,
			AllowedContentTypes: []string{"image/jpeg", "image/png", "image/webp"},
		},
	}
}

func newSvc(t *testing.T) (*Service, *mocks.MockProfilesStorage, *mocks.MockAvatarsStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	profiles := mocks.NewMockProfilesStorage(ctrl)
	avatars := mocks.NewMockAvatarsStorage(ctrl)

	return New(profiles, avatars, testCfg()), profiles, avatars
}

func TestProfileByID_OK(t *testing.T) {
	svc, profiles, _ := newSvc(t)

	userID := uuid.New()
	profiles.EXPECT().
		ProfileByID(gomock.Any(), userID).
		Return(models.Profile{UserID: userID, DisplayName: "Ada"}, nil)

	got, err := svc.ProfileByID(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, "Ada", got.DisplayName)
}

func TestProfileByID_NotFound(t *testing.T) {
	svc, profiles, _ := newSvc(t)

	profiles.EXPECT().
		ProfileByID(gomock.Any(), gomock.Any()).
		Return(models.Profile{}, storage.ErrNotFound)

	_, err := svc.ProfileByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProfileByID_NilUserID(t *testing.T) {
	svc, _, _ := newSvc(t)

	_, err := svc.ProfileByID(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpsertProfile_NormalizesInput(t *testing.T) {
	svc, profiles, _ := newSvc(t)

	userID := uuid.New()
	profiles.EXPECT().
		UpsertProfile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p models.Profile) (models.Profile, error) {
			require.Equal(t, "Ada Lovelace", p.DisplayName)
			require.Equal(t, []string{"music", "tech"}, []string(p.Interests))
			return p, nil
		})

	_, err := svc.UpsertProfile(context.Background(), models.Profile{
		UserID:      userID,
		DisplayName: "  Ada Lovelace  ",
		Interests:   []string{" music ", "", "tech"},
	})
	require.NoError(t, err)
}

func TestUpsertProfile_StorageErrorSurvivesWrapping(t *testing.T) {
	svc, profiles, _ := newSvc(t)

	sentinel := errors.New("column does not exist")
	profiles.EXPECT().
		UpsertProfile(gomock.Any(), gomock.Any()).
		Return(models.Profile{}, sentinel)

	_, err := svc.UpsertProfile(context.Background(), models.Profile{UserID: uuid.New()})
	require.ErrorIs(t, err, sentinel)
}

func TestAvatarPresign_OK(t *testing.T) {
	svc, _, avatars := newSvc(t)

	userID := uuid.New()
	avatars.EXPECT().
		AvatarUploadURL(gomock.Any(), userID, "image/png", int64(1024)).
		Return(&storage.UploadInfo{
			UploadURL: "https://minio/presigned",
			AvatarKey: "avatars/" + userID.String() + "/x.png",
			Expires:   15 * time.Minute,
		}, nil)

	info, err := svc.AvatarPresign(context.Background(), userID, "image/png", 1024)
	require.NoError(t, err)
	require.Equal(t, "https://minio/presigned", info.UploadURL)
}

func TestAvatarPresign_InvalidArgument(t *testing.T) {
	svc, _, avatars := newSvc(t)

	avatars.EXPECT().
		AvatarUploadURL(gomock.Any(), gomock.Any(), "text/plain", gomock.Any()).
		Return(nil, storage.ErrInvalidArgument)

	_, err := svc.AvatarPresign(context.Background(), uuid.New(), "text/plain", 1024)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAvatarPresign_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	svc := New(mocks.NewMockProfilesStorage(ctrl), nil, testCfg())

	_, err := svc.AvatarPresign(context.Background(), uuid.New(), "image/png", 1024)
	require.ErrorIs(t, err, ErrAvatarsDisabled)
}

func TestAvatarConfirm_OK(t *testing.T) {
	svc, profiles, avatars := newSvc(t)

	userID := uuid.New()
	key := "avatars/" + userID.String() + "/x.png"
	publicURL := "https://cdn.example.com/" + key

	avatars.EXPECT().
		CheckAvatarUpload(gomock.Any(), userID, key).
		Return(publicURL, nil)
	profiles.EXPECT().
		ConfirmAvatarUpload(gomock.Any(), userID, key, publicURL).
		Return(models.Profile{UserID: userID, AvatarKey: key, AvatarURL: publicURL}, nil)

	got, err := svc.AvatarConfirm(context.Background(), userID, key)
	require.NoError(t, err)
	require.Equal(t, publicURL, got.AvatarURL)
}

func TestAvatarConfirm_ObjectMissing(t *testing.T) {
	svc, _, avatars := newSvc(t)

	avatars.EXPECT().
		CheckAvatarUpload(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", storage.ErrNotFoundAvatar)

	_, err := svc.AvatarConfirm(context.Background(), uuid.New(), "avatars/other/x.png")
	require.ErrorIs(t, err, ErrAvatarNotFound)
}

func TestAvatarConfirm_EmptyKey(t *testing.T) {
	svc, _, _ := newSvc(t)

	_, err := svc.AvatarConfirm(context.Background(), uuid.New(), "   ")
	require.ErrorIs(t, err, ErrInvalidArgument)
}
