// transport/http — HTTP-поверхность profile-сервиса (chi):
// публичные справочники локаций и рекомендаций плюс защищённая
// JWT-аутентификацией группа операций над профилем текущего пользователя.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/techsysvbo/go-community-hub/pkg/httpx"
	"github.com/techsysvbo/go-community-hub/profile-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Options — параметры сборки роутера.
type Options struct {
	Logger         *slog.Logger
	Timeout        time.Duration
	AllowedOrigins []string
	// Env управляет расширенной диагностикой ошибок БД в ответах:
	// вне "prod" внутренние ошибки включают detail/db_code/constraint.
	Env string
}

// NewRouter собирает маршрутизатор сервиса.
// verifier проверяет access-токены; идентичность кладётся в контекст
// запроса middleware-ом RequireAuth.
func NewRouter(svc *service.Service, verifier httpx.Verifier, opts Options) http.Handler {
	h := &handlers{svc: svc, env: opts.Env}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id", "X-Access-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mws := []httpx.Middleware{
		httpx.Recover(),
		httpx.RequestID(),
		httpx.Logging(opts.Logger),
	}
	if opts.Timeout > 0 {
		mws = append(mws, httpx.Timeout(opts.Timeout))
	}
	for _, mw := range mws {
		r.Use(mw)
	}

	r.Route("/locations", func(r chi.Router) {
		r.Get("/countries", h.countries)
		r.Get("/{country}/states", h.states)
		r.Get("/{country}/{state}/cities", h.cities)
	})

	r.Route("/recommend", func(r chi.Router) {
		r.Get("/events", h.recommendEvents)
		r.Get("/interests", h.recommendInterests)
	})

	r.Route("/profile", func(r chi.Router) {
		r.Use(httpx.RequireAuth(verifier))
		r.Get("/me", h.profileMe)
		r.Put("/me", h.upsertProfileMe)
		r.Post("/me/avatar/presign", h.avatarPresign)
		r.Post("/me/avatar/confirm", h.avatarConfirm)
	})

	return r
}

type handlers struct {
	svc *service.Service
	env string
}
