package http

import (
	"errors"
	"net/http"

	"github.com/techsysvbo/go-community-hub/pkg/httpx"
	"github.com/techsysvbo/go-community-hub/pkg/log"
	"github.com/techsysvbo/go-community-hub/profile-service/internal/service"

	"github.com/jackc/pgx/v5/pgconn"
)

// writeServiceError переводит ошибки сервисного слоя в HTTP-ответы.
// Для внутренних ошибок вне продовой среды ответ дополняется деталями
// ошибки БД (detail/db_code/constraint), если в цепочке есть *pgconn.PgError.
func (h *handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_argument", "invalid argument")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, r, http.StatusNotFound, "not_found", "profile not found")
	case errors.Is(err, service.ErrAvatarNotFound):
		httpx.WriteError(w, r, http.StatusNotFound, "not_found", "avatar not found")
	case errors.Is(err, service.ErrAvatarsDisabled):
		httpx.WriteError(w, r, http.StatusServiceUnavailable, "unavailable", "avatar uploads are disabled")
	default:
		log.From(r.Context()).Error("internal error", "err", err)

		apiErr := httpx.APIError{Code: "internal", Message: "internal error"}

		var pgErr *pgconn.PgError
		if h.env != "prod" && errors.As(err, &pgErr) {
			apiErr.Detail = pgErr.Detail
			if apiErr.Detail == "" {
				apiErr.Detail = pgErr.Message
			}
			apiErr.DBCode = pgErr.Code
			apiErr.Constraint = pgErr.ConstraintName
		}

		httpx.WriteAPIError(w, r, http.StatusInternalServerError, apiErr)
	}
}
