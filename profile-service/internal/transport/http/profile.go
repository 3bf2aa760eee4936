package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/techsysvbo/go-community-hub/pkg/httpx"
	"github.com/techsysvbo/go-community-hub/pkg/log"
	"github.com/techsysvbo/go-community-hub/profile-service/internal/models"
)

// profileView — публичное представление профиля.
// Interests сериализуется всегда массивом (nil -> []),
// privacy_settings — как есть (JSON-объект) либо null.
type profileView struct {
	UserID          string            `json:"user_id"`
	DisplayName     string            `json:"display_name"`
	Bio             string            `json:"bio"`
	Location        string            `json:"location"`
	ZipCode         string            `json:"zip_code"`
	Country         string            `json:"country"`
	State           string            `json:"state"`
	City            string            `json:"city"`
	Profession      string            `json:"profession"`
	Interests       models.StringList `json:"interests"`
	PrivacySettings json.RawMessage   `json:"privacy_settings"`
	AvatarURL       string            `json:"avatar_url,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func newProfileView(p models.Profile) profileView {
	privacy := json.RawMessage(p.PrivacySettings)
	if len(privacy) == 0 {
		privacy = json.RawMessage("null")
	}

	return profileView{
		UserID:          p.UserID.String(),
		DisplayName:     p.DisplayName,
		Bio:             p.Bio,
		Location:        p.Location,
		ZipCode:         p.ZipCode,
		Country:         p.Country,
		State:           p.State,
		City:            p.City,
		Profession:      p.Profession,
		Interests:       models.StringList(p.Interests),
		PrivacySettings: privacy,
		AvatarURL:       p.AvatarURL,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// upsertProfileRequest — тело PUT /profile/me. Семантика полной замены:
// опущенные клиентом поля записываются пустыми.
// Входные имена — camelCase (исторический контракт клиента), ответ же
// отдаёт snake_case представление записи.
// Interests принимает как JSON-массив строк, так и строку с запятыми.
type upsertProfileRequest struct {
	DisplayName     string            `json:"displayName"`
	Bio             string            `json:"bio"`
	Location        string            `json:"location"`
	ZipCode         string            `json:"zipCode"`
	Country         string            `json:"country"`
	State           string            `json:"state"`
	City            string            `json:"city"`
	Profession      string            `json:"profession"`
	Interests       models.StringList `json:"interests"`
	PrivacySettings json.RawMessage   `json:"privacySettings"`
}

// profileMe — GET /profile/me.
// 404 для ещё не созданного профиля — штатный ответ первой загрузки.
func (h *handlers) profileMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFrom(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}

	profile, err := h.svc.ProfileByID(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newProfileView(profile))
}

// upsertProfileMe — PUT /profile/me.
func (h *handlers) upsertProfileMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFrom(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}

	var req upsertProfileRequest
	if err := httpx.DecodeStrict(r, &req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	profile, err := h.svc.UpsertProfile(r.Context(), models.Profile{
		UserID:          userID,
		DisplayName:     req.DisplayName,
		Bio:             req.Bio,
		Location:        req.Location,
		ZipCode:         req.ZipCode,
		Country:         req.Country,
		State:           req.State,
		City:            req.City,
		Profession:      req.Profession,
		Interests:       []string(req.Interests),
		PrivacySettings: req.PrivacySettings,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	log.From(r.Context()).Info("profile_saved", "user_id", userID.String())

	httpx.WriteJSON(w, http.StatusOK, newProfileView(profile))
}

type avatarPresignRequest struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
}

type avatarPresignResponse struct {
	UploadURL      string            `json:"upload_url"`
	AvatarKey      string            `json:"avatar_key"`
	ExpiresIn      int64             `json:"expires_in"`
	RequiredHeader map[string]string `json:"required_headers"`
}

// avatarPresign — POST /profile/me/avatar/presign.
func (h *handlers) avatarPresign(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFrom(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}

	var req avatarPresignRequest
	if err := httpx.DecodeStrict(r, &req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	info, err := h.svc.AvatarPresign(r.Context(), userID, req.ContentType, req.ContentLength)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, avatarPresignResponse{
		UploadURL:      info.UploadURL,
		AvatarKey:      info.AvatarKey,
		ExpiresIn:      int64(info.Expires.Seconds()),
		RequiredHeader: info.RequiredHeader,
	})
}

type avatarConfirmRequest struct {
	AvatarKey string `json:"avatar_key"`
}

// avatarConfirm — POST /profile/me/avatar/confirm.
func (h *handlers) avatarConfirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFrom(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}

	var req avatarConfirmRequest
	if err := httpx.DecodeStrict(r, &req); err != nil || req.AvatarKey == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "bad_request", "avatar_key is required")
		return
	}

	profile, err := h.svc.AvatarConfirm(r.Context(), userID, req.AvatarKey)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newProfileView(profile))
}
