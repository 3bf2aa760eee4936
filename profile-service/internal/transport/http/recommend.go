package http

import (
	"net/http"

	"github.com/techsysvbo/go-community-hub/pkg/httpx"
)

// Рекомендации — публичные: параметры приходят строкой запроса,
// пустые значения допустимы и означают общий набор.

func (h *handlers) recommendEvents(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.svc.RecommendEvents(r.URL.Query().Get("zip_code")))
}

func (h *handlers) recommendInterests(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.svc.RecommendInterests(r.URL.Query().Get("profession")))
}
