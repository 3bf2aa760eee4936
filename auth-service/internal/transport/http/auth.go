package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/techsysvbo/go-community-hub/auth-service/internal/models"
	"github.com/techsysvbo/go-community-hub/auth-service/internal/service"
	"github.com/techsysvbo/go-community-hub/pkg/httpx"
	"github.com/techsysvbo/go-community-hub/pkg/log"
	"github.com/techsysvbo/go-community-hub/pkg/redact"
)

type handlers struct {
	svc *service.Service
}

func newHandlers(svc *service.Service) *handlers {
	return &handlers{svc: svc}
}

// userView — публичная проекция пользователя. Хэш пароля наружу не выходит.
type userView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

func toUserView(u models.User) userView {
	return userView{
		ID:       u.ID.String(),
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

type tokenPairView struct {
	User         userView  `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func toTokenPairView(tp models.TokenPair, u models.User) tokenPairView {
	return tokenPairView{
		User:         toUserView(u),
		AccessToken:  tp.AccessToken,
		RefreshToken: tp.RefreshToken,
		ExpiresAt:    tp.AccessExpiresAt,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func (h *handlers) registerUser(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := httpx.DecodeStrict(r, &in); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	tp, user, err := h.svc.RegisterUser(r.Context(), in.Email, in.Password, in.FullName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.From(r.Context()).Info("user_registered",
		slog.String("user_id", user.ID.String()),
		slog.String("email", redact.Email(user.Email)),
	)

	httpx.WriteJSON(w, http.StatusCreated, toTokenPairView(tp, user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) loginUser(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := httpx.DecodeStrict(r, &in); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	tp, user, err := h.svc.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTokenPairView(tp, user))
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *handlers) refreshToken(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := httpx.DecodeStrict(r, &in); err != nil || in.RefreshToken == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	tp, user, err := h.svc.RefreshToken(r.Context(), in.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTokenPairView(tp, user))
}

func (h *handlers) revokeToken(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := httpx.DecodeStrict(r, &in); err != nil || in.RefreshToken == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	if err := h.svc.RevokeToken(r.Context(), in.RefreshToken); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"revoked": true})
}

type validateRequest struct {
	AccessToken string `json:"access_token"`
}

type validateResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
}

// validateToken отвечает 200 и на невалидный токен: результат проверки —
// содержимое ответа, а не HTTP-статус.
func (h *handlers) validateToken(w http.ResponseWriter, r *http.Request) {
	var in validateRequest
	if err := httpx.DecodeStrict(r, &in); err != nil || in.AccessToken == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	uid, email, err := h.svc.ValidateToken(r.Context(), in.AccessToken)
	if err != nil {
		httpx.WriteJSON(w, http.StatusOK, validateResponse{Valid: false})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, validateResponse{
		Valid:  true,
		UserID: uid.String(),
		Email:  email,
	})
}
