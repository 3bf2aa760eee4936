// Package http — HTTP/JSON-транспорт auth-сервиса поверх chi.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/techsysvbo/go-community-hub/auth-service/internal/service"
	"github.com/techsysvbo/go-community-hub/pkg/httpx"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger         *slog.Logger
	Timeout        time.Duration
	AllowedOrigins []string
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	root.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "x-access-token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Middleware (внешний -> внутренний).
	root.Use(
		httpx.Recover(),            // безопасно ловим паники
		httpx.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		httpx.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(httpx.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := newHandlers(svc)

	root.Post("/auth/register", h.registerUser)
	root.Post("/auth/login", h.loginUser)
	root.Post("/auth/refresh", h.refreshToken)
	root.Post("/auth/revoke", h.revokeToken)
	root.Post("/auth/validate", h.validateToken)

	return root
}
