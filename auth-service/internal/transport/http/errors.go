package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/techsysvbo/go-community-hub/auth-service/internal/service"
	"github.com/techsysvbo/go-community-hub/pkg/httpx"
	"github.com/techsysvbo/go-community-hub/pkg/log"
)

// writeServiceError переводит сентинелы сервиса в HTTP-коды.
// Текст ответа для 401 одинаков для всех причин токен-ошибок логина:
// различать их снаружи нельзя.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrEmptyPassword):
		httpx.WriteError(w, r, http.StatusBadRequest, "bad_request", err2msg(err))

	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "invalid credentials")

	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenRevoked):
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "invalid token")

	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, r, http.StatusConflict, "conflict", "email already taken")

	default:
		log.From(r.Context()).Error("internal_error",
			slog.String("err", err.Error()),
		)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal", "internal error")
	}
}

// err2msg возвращает текст сентинельной причины без обёрток "op: ...".
func err2msg(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		return service.ErrInvalidEmail.Error()
	case errors.Is(err, service.ErrEmptyPassword):
		return service.ErrEmptyPassword.Error()
	default:
		return "bad request"
	}
}
