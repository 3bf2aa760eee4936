package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/techsysvbo/go-community-hub/auth-service/internal/config"
	"github.com/techsysvbo/go-community-hub/auth-service/internal/models"
	"github.com/techsysvbo/go-community-hub/auth-service/internal/service"
	"github.com/techsysvbo/go-community-hub/auth-service/internal/storage"
	"github.com/techsysvbo/go-community-hub/auth-service/mocks"
)

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockStorage, *gomock.Controller) {
	t.Helper()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	svc := service.New(st, config.AuthConfig{
		JWTSecret:       "transport-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "auth-service",
		Audience:        []string{"community-hub"},
	})

	router := NewRouter(svc, Options{
		Logger:         slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		Timeout:        5 * time.Second,
		AllowedOrigins: []string{"*"},
	})

	return router, st, ctrl
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func bcryptHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister_Created(t *testing.T) {
	h, st, ctrl := newTestRouter(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmail(gomock.Any(), "new@example.com").
		Return(models.User{}, storage.ErrNotFound)
	st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).Return(nil)
	st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(nil)

	rec := doJSON(t, h, http.MethodPost, "/auth/register", map[string]string{
		"email":    "new@example.com",
		"password": "pw",
		"fullName": "New User",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User struct {
			ID       string `json:"id"`
			Email    string `json:"email"`
			FullName string `json:"fullName"`
			Role     string `json:"role"`
		} `json:"user"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "new@example.com", resp.User.Email)
	require.Equal(t, "New User", resp.User.FullName)
	require.Equal(t, "member", resp.User.Role)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRegister_DuplicateEmail_Conflict(t *testing.T) {
	h, st, ctrl := newTestRouter(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmail(gomock.Any(), "taken@example.com").
		Return(models.User{ID: uuid.New(), Email: "taken@example.com"}, nil)

	rec := doJSON(t, h, http.MethodPost, "/auth/register", map[string]string{
		"email":    "taken@example.com",
		"password": "pw",
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "email already taken")
}

func TestRegister_BadBody(t *testing.T) {
	h, _, ctrl := newTestRouter(t)
	defer ctrl.Finish()

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte(`{"email": }`)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_UnknownEmail_And_WrongPassword_IdenticalBody(t *testing.T) {
	h, st, ctrl := newTestRouter(t)
	defer ctrl.Finish()

	// Неизвестный email.
	st.EXPECT().UserByEmail(gomock.Any(), "absent@example.com").
		Return(models.User{}, storage.ErrNotFound)

	recUnknown := doJSON(t, h, http.MethodPost, "/auth/login", map[string]string{
		"email":    "absent@example.com",
		"password": "pw",
	})

	// Неверный пароль.
	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").
		Return(models.User{
			ID:           uuid.New(),
			Email:        "user@example.com",
			PasswordHash: bcryptHash(t, "correct"),
		}, nil)

	recWrong := doJSON(t, h, http.MethodPost, "/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "wrong",
	})

	require.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	require.Equal(t, http.StatusUnauthorized, recWrong.Code)

	// Тела ответов (без request_id) обязаны совпадать байт в байт.
	stripID := func(raw []byte) map[string]any {
		var m map[string]any
		require.NoError(t, json.Unmarshal(raw, &m))
		if e, ok := m["error"].(map[string]any); ok {
			delete(e, "request_id")
		}
		return m
	}
	require.Equal(t, stripID(recUnknown.Body.Bytes()), stripID(recWrong.Body.Bytes()))
}

func TestLogin_OK(t *testing.T) {
	h, st, ctrl := newTestRouter(t)
	defer ctrl.Finish()

	user := models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: bcryptHash(t, "pw"),
		FullName:     "User",
		Role:         "member",
	}
	st.EXPECT().UserByEmail(gomock.Any(), user.Email).Return(user, nil)
	st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(nil)

	rec := doJSON(t, h, http.MethodPost, "/auth/login", map[string]string{
		"email":    user.Email,
		"password": "pw",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "access_token")
}

func TestValidate_InvalidToken_Still200(t *testing.T) {
	h, _, ctrl := newTestRouter(t)
	defer ctrl.Finish()

	rec := doJSON(t, h, http.MethodPost, "/auth/validate", map[string]string{
		"access_token": "garbage",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Valid  bool   `json:"valid"`
		UserID string `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Valid)
	require.Empty(t, resp.UserID)
}

func TestValidate_FreshLoginToken_OK(t *testing.T) {
	h, st, ctrl := newTestRouter(t)
	defer ctrl.Finish()

	user := models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: bcryptHash(t, "pw"),
	}
	st.EXPECT().UserByEmail(gomock.Any(), user.Email).Return(user, nil)
	st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(nil)

	login := doJSON(t, h, http.MethodPost, "/auth/login", map[string]string{
		"email":    user.Email,
		"password": "pw",
	})
	require.Equal(t, http.StatusOK, login.Code)

	var pair struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &pair))

	rec := doJSON(t, h, http.MethodPost, "/auth/validate", map[string]string{
		"access_token": pair.AccessToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Valid  bool   `json:"valid"`
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Valid)
	require.Equal(t, user.ID.String(), resp.UserID)
	require.Equal(t, user.Email, resp.Email)
}

func TestRevoke_Unknown_401(t *testing.T) {
	h, st, ctrl := newTestRouter(t)
	defer ctrl.Finish()

	st.EXPECT().RevokeRefreshToken(gomock.Any(), gomock.Any()).
		Return(false, storage.ErrNotFound)

	rec := doJSON(t, h, http.MethodPost, "/auth/revoke", map[string]string{
		"refresh_token": "unknown",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_RevokedToken_401(t *testing.T) {
	h, st, ctrl := newTestRouter(t)
	defer ctrl.Finish()

	st.EXPECT().RefreshTokenByHash(gomock.Any(), gomock.Any()).
		Return(models.RefreshToken{
			UserID:    uuid.New(),
			ExpiresAt: time.Now().UTC().Add(time.Hour),
			Revoked:   true,
		}, nil)

	rec := doJSON(t, h, http.MethodPost, "/auth/refresh", map[string]string{
		"refresh_token": "revoked",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ContextDeadline_Set(t *testing.T) {
	h, st, ctrl := newTestRouter(t)
	defer ctrl.Finish()

	var hadDeadline bool
	st.EXPECT().UserByEmail(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (models.User, error) {
			_, hadDeadline = ctx.Deadline()
			return models.User{}, storage.ErrNotFound
		})

	doJSON(t, h, http.MethodPost, "/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "pw",
	})
	require.True(t, hadDeadline)
}
