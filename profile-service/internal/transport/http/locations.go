package http

import (
	"net/http"

	"github.com/techsysvbo/go-community-hub/pkg/httpx"
	"github.com/techsysvbo/go-community-hub/profile-service/internal/locations"

	"github.com/go-chi/chi/v5"
)

// Справочники локаций — публичные (без аутентификации): клиент использует
// их для выпадающих списков до того, как пользователь вошёл в систему.

func (h *handlers) countries(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string][]string{"countries": locations.Countries()})
}

func (h *handlers) states(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")

	states, ok := locations.States(country)
	if !ok {
		httpx.WriteError(w, r, http.StatusNotFound, "not_found", "unknown country")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string][]string{"states": states})
}

func (h *handlers) cities(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	state := chi.URLParam(r, "state")

	cities, ok := locations.Cities(country, state)
	if !ok {
		httpx.WriteError(w, r, http.StatusNotFound, "not_found", "unknown country or state")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string][]string{"cities": cities})
}
