package minio

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/techsysvbo/go-community-hub/profile-service/internal/storage"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
)

// extByContentType — расширение файла для разрешённых типов содержимого.
var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// AvatarUploadURL генерирует presigned PUT URL для загрузки аватара.
// Валидирует contentType и contentLength согласно лимитам, формирует ключ
// вида "avatars/<userID>/<uuid><ext>" и возвращает заголовки, которые клиент
// обязан передать при PUT (размер и тип затем перепроверяются при подтверждении).
func (s *AvatarsStorage) AvatarUploadURL(ctx context.Context, userID uuid.UUID, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "storage/minio/avatars/AvatarUploadURL"

	if contentLength <= 0 || contentLength > s.limits.MaxSizeBytes {
		return nil, storage.ErrInvalidArgument
	}

	if !s.isAllowedContentType(contentType) {
		return nil, storage.ErrInvalidArgument
	}

	key := path.Join("avatars", userID.String(), uuid.NewString()+extByContentType[contentType])

	u, err := s.client.PresignedPutObject(ctx, s.s3.Bucket, key, s.s3.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.UploadInfo{
		UploadURL: u.String(),
		AvatarKey: key,
		Expires:   s.s3.PresignTTL,
		RequiredHeader: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": fmt.Sprintf("%d", contentLength),
		},
	}, nil
}

// CheckAvatarUpload подтверждает факт загрузки по ключу: объект должен
// существовать, принадлежать userID и удовлетворять ограничениям размера/типа.
// Возвращает публичный URL, если PublicBaseURL задан, иначе пустую строку.
func (s *AvatarsStorage) CheckAvatarUpload(ctx context.Context, userID uuid.UUID, key string) (string, error) {
	const op = "storage/minio/avatars/CheckAvatarUpload"

	prefix := "avatars/" + userID.String() + "/"
	if !strings.HasPrefix(key, prefix) {
		return "", storage.ErrInvalidArgument
	}

	objInfo, err := s.client.StatObject(ctx, s.s3.Bucket, key, mclient.StatObjectOptions{})
	if err != nil {
		errResp := mclient.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
			return "", storage.ErrNotFoundAvatar
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if objInfo.Size <= 0 || objInfo.Size > s.limits.MaxSizeBytes {
		return "", storage.ErrInvalidArgument
	}

	if ct := objInfo.ContentType; ct != "" && !s.isAllowedContentType(ct) {
		return "", storage.ErrInvalidArgument
	}

	if s.s3.PublicBaseURL == "" {
		return "", nil
	}

	return strings.TrimRight(s.s3.PublicBaseURL, "/") + "/" + key, nil
}

func (s *AvatarsStorage) isAllowedContentType(contentType string) bool {
	for _, a := range s.limits.AllowedContentTypes {
		if strings.EqualFold(a, contentType) {
			return true
		}
	}

	return false
}
