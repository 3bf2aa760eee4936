package httpx

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/techsysvbo/go-community-hub/pkg/token"
)

type ctxKeyUserID struct{}
type ctxKeyEmail struct{}

// Verifier проверяет креден и возвращает субъекта.
// Реализуется *token.Manager.
type Verifier interface {
	Verify(tokenStr string) (uuid.UUID, string, error)
}

// RequireAuth извлекает креден по упорядоченному списку источников
// (token.DefaultSources, если не заданы), проверяет его и кладёт
// идентификатор и email пользователя в контекст запроса.
// Отсутствующий или невалидный креден — 401 с единым сообщением.
func RequireAuth(v Verifier, sources ...token.Source) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := token.FromRequest(r, sources...)
			if !ok {
				WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
				return
			}

			uid, email, err := v.Verify(raw)
			if err != nil {
				WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID{}, uid)
			ctx = context.WithValue(ctx, ctxKeyEmail{}, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom возвращает идентификатор аутентифицированного пользователя.
func UserIDFrom(ctx context.Context) (uuid.UUID, bool) {
	uid, ok := ctx.Value(ctxKeyUserID{}).(uuid.UUID)
	return uid, ok
}

// EmailFrom возвращает email из проверенного токена (может быть пустым).
func EmailFrom(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(ctxKeyEmail{}).(string)
	return email, ok
}
