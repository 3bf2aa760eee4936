// minio — реализация storage.AvatarsStorage поверх MinIO/S3-совместимого
// объектного хранилища.
//
// minio.go — конструктор клиента: нормализует endpoint (отрезает схему),
// выбирает Secure по схеме и выполняет fail-fast-проверку бакета.
// avatars.go — presigned PUT URL для загрузки и подтверждение факта загрузки.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/techsysvbo/go-community-hub/profile-service/internal/config"
	"github.com/techsysvbo/go-community-hub/profile-service/internal/storage"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AvatarsStorage — адаптер объектного хранилища для операций с аватарами.
type AvatarsStorage struct {
	s3     config.S3Config
	limits config.AvatarConfig
	client *mclient.Client
}

var _ storage.AvatarsStorage = (*AvatarsStorage)(nil)

// New создаёт клиент и проверяет доступность целевого бакета.
// Endpoint принимается как с необязательной схемой ("https://minio:9000"),
// так и без неё ("minio:9000"); Secure включается для https.
func New(ctx context.Context, s3 config.S3Config, limits config.AvatarConfig) (*AvatarsStorage, error) {
	const op = "storage/minio/New"

	endpoint := s3.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(s3.RootUser, s3.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, s3.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, s3.Bucket)
	}

	return &AvatarsStorage{s3: s3, limits: limits, client: client}, nil
}
