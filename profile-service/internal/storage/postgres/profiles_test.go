package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/techsysvbo/go-community-hub/profile-service/internal/models"
	"github.com/techsysvbo/go-community-hub/profile-service/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Файл интеграционных тестов для пакета postgres (репозиторий profiles.go):
// - upsert как полная замена записи (включая зануление опущенных полей);
// - ремонт схемы при 42703 и успешный повтор с первого клиентского вызова;
// - ProfileByID для отсутствующей записи -> storage.ErrNotFound;
// - фиксация аватара с автосозданием записи.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// startPostgres — поднимает временный экземпляр PostgreSQL через testcontainers-go
// и возвращает инициализированное хранилище и функцию очистки.
// Если переменная окружения GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

func fullProfile(userID uuid.UUID) models.Profile {
	return models.Profile{
		UserID:          userID,
		DisplayName:     "Ada",
		Bio:             "engineer",
		Location:        "somewhere",
		ZipCode:         "10001",
		Country:         "United States",
		State:           "New York",
		City:            "New York City",
		Profession:      "Software Engineer",
		Interests:       []string{"music", "tech"},
		PrivacySettings: json.RawMessage(`{"profile_visible": true}`),
	}
}

// TestIntegration_UpsertProfile_InsertThenFullReplace — первый PUT создаёт запись,
// второй полностью замещает её: опущенные поля становятся нулевыми.
func TestIntegration_UpsertProfile_InsertThenFullReplace(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	userID := uuid.New()

	created, err := st.UpsertProfile(context.Background(), fullProfile(userID))
	require.NoError(t, err)
	require.Equal(t, "Ada", created.DisplayName)
	require.Equal(t, []string{"music", "tech"}, created.Interests)
	require.JSONEq(t, `{"profile_visible": true}`, string(created.PrivacySettings))

	// Полная замена: передаём только bio — остальное должно занулиться.
	replaced, err := st.UpsertProfile(context.Background(), models.Profile{
		UserID: userID,
		Bio:    "only bio survives",
	})
	require.NoError(t, err)
	require.Equal(t, "only bio survives", replaced.Bio)
	require.Empty(t, replaced.DisplayName)
	require.Empty(t, replaced.ZipCode)
	require.Empty(t, replaced.Country)
	require.Empty(t, replaced.Interests)
	require.Empty(t, replaced.PrivacySettings)
	require.Equal(t, created.CreatedAt, replaced.CreatedAt)
	require.True(t, replaced.UpdatedAt.After(created.UpdatedAt) || replaced.UpdatedAt.Equal(created.UpdatedAt))

	got, err := st.ProfileByID(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, replaced.Bio, got.Bio)
	require.Empty(t, got.Country)
}

// TestIntegration_UpsertProfile_SelfHealsDroppedColumns — схема дрейфанула
// (колонки удалены), но первый же клиентский вызов должен пройти:
// ремонт ADD COLUMN IF NOT EXISTS + один повтор внутри UpsertProfile.
func TestIntegration_UpsertProfile_SelfHealsDroppedColumns(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.db.Exec(context.Background(),
		`ALTER TABLE profiles DROP COLUMN country, DROP COLUMN state, DROP COLUMN city;`)
	require.NoError(t, err)

	userID := uuid.New()
	got, err := st.UpsertProfile(context.Background(), fullProfile(userID))
	require.NoError(t, err, "upsert must survive dropped columns on the first call")
	require.Equal(t, "United States", got.Country)
	require.Equal(t, "New York", got.State)
	require.Equal(t, "New York City", got.City)
}

// TestIntegration_ProfileByID_NotFound — чтение до первого сохранения,
// ожидаем storage.ErrNotFound.
func TestIntegration_ProfileByID_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.ProfileByID(context.Background(), uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_ConfirmAvatarUpload_CreatesRowIfAbsent — фиксация аватара
// не требует существующего профиля.
func TestIntegration_ConfirmAvatarUpload_CreatesRowIfAbsent(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	userID := uuid.New()
	key := "avatars/" + userID.String() + "/pic.png"

	got, err := st.ConfirmAvatarUpload(context.Background(), userID, key, "https://cdn.example.com/"+key)
	require.NoError(t, err)
	require.Equal(t, key, got.AvatarKey)
	require.Equal(t, "https://cdn.example.com/"+key, got.AvatarURL)

	// Последующий полный upsert не затирает аватар: avatar_key/avatar_url
	// не входят в набор заменяемых колонок.
	replaced, err := st.UpsertProfile(context.Background(), models.Profile{UserID: userID, Bio: "bio"})
	require.NoError(t, err)
	require.Equal(t, key, replaced.AvatarKey)
}

// TestIntegration_UpsertProfile_ContextCanceled — отменённый контекст
// отражается в ошибке запроса.
func TestIntegration_UpsertProfile_ContextCanceled(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.UpsertProfile(ctx, fullProfile(uuid.New()))
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}
