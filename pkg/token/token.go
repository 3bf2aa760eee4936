// token — единая точка выпуска и проверки access-токенов платформы.
//
// Исторически auth- и profile-сервисы несли по собственной копии логики
// верификации, и копии расходились (разные имена claim'ов, разные источники
// кредена). Пакет собирает обе ответственности в одном месте:
//   - Manager: выпуск и проверка HS256 JWT с общим секретом;
//   - Source/FromRequest: упорядоченный список источников кредена в запросе.
//
// Проверка валидности = подпись + срок действия (с небольшим leeway);
// серверного состояния у access-токена нет.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken — токен некорректен по формату/подписи/claim'ам.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("token expired")
)

// Config — параметры выпуска и проверки токенов.
// Secret обязан совпадать у всех сервисов и передаётся явно через конфигурацию,
// а не через ambient-глобал.
type Config struct {
	Secret   string
	TTL      time.Duration
	Issuer   string
	Audience []string
}

// flexString принимает строковое или числовое представление claim'а.
// Старые ревизии сервисов писали числовые id — такие значения читаются,
// но проверку uuid.Parse они не пройдут.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}

	return fmt.Errorf("unsupported claim value: %s", string(b))
}

// Claims — состав access-токена. Канонические поля: uid + RegisteredClaims;
// id/userId читаются только для совместимости со старыми выпусками.
type Claims struct {
	UserID       string     `json:"uid,omitempty"`
	Email        string     `json:"email,omitempty"`
	LegacyID     flexString `json:"id,omitempty"`
	LegacyUserID flexString `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// subject возвращает идентификатор пользователя с фоллбеком по именам claim'ов:
// sub -> uid -> id -> userId.
func (c *Claims) subject() string {
	for _, v := range []string{c.Subject, c.UserID, string(c.LegacyID), string(c.LegacyUserID)} {
		if v != "" {
			return v
		}
	}

	return ""
}

// Manager выпускает и проверяет подписанные токены.
// Экземпляр безопасен для конкурентного использования.
type Manager struct {
	cfg Config
}

// NewManager создаёт менеджер токенов.
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg}
}

// Issue выпускает HS256-токен для пользователя. Возвращает подписанную строку
// и момент истечения (UTC).
func (m *Manager) Issue(userID uuid.UUID, email string, now time.Time) (string, time.Time, error) {
	const op = "token.Issue"

	expiresAt := now.Add(m.cfg.TTL)

	claims := Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.cfg.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings(m.cfg.Audience),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return signed, expiresAt, nil
}

// Verify проверяет подпись и срок действия токена и возвращает идентификатор
// пользователя и email из claim'ов.
func (m *Manager) Verify(tokenStr string) (uuid.UUID, string, error) {
	const op = "token.Verify"

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5 * time.Second),
	}
	if m.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.cfg.Issuer))
	}
	if len(m.cfg.Audience) > 0 {
		opts = append(opts, jwt.WithAudience(m.cfg.Audience...))
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(m.cfg.Secret), nil
		},
		opts...,
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.subject())
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return uid, claims.Email, nil
}

// Source — один источник кредена в HTTP-запросе.
// Возвращает пустую строку, если кредена в этом источнике нет.
type Source func(r *http.Request) string

// BearerHeader извлекает токен из Authorization: Bearer <token>.
func BearerHeader() Source {
	return func(r *http.Request) string {
		auth := r.Header.Get("Authorization")

		const prefix = "Bearer "
		if strings.HasPrefix(auth, prefix) && len(auth) > len(prefix) {
			return strings.TrimSpace(auth[len(prefix):])
		}

		return ""
	}
}

// Header извлекает токен из произвольного заголовка (например, x-access-token).
func Header(name string) Source {
	return func(r *http.Request) string {
		return strings.TrimSpace(r.Header.Get(name))
	}
}

// Cookie извлекает токен из именованной cookie.
func Cookie(name string) Source {
	return func(r *http.Request) string {
		c, err := r.Cookie(name)
		if err != nil {
			return ""
		}

		return strings.TrimSpace(c.Value)
	}
}

// DefaultSources — порядок источников по убыванию приоритета:
// Authorization: Bearer -> x-access-token -> cookies token/access_token/jwt.
func DefaultSources() []Source {
	return []Source{
		BearerHeader(),
		Header("x-access-token"),
		Cookie("token"),
		Cookie("access_token"),
		Cookie("jwt"),
	}
}

// FromRequest возвращает первый найденный креден согласно порядку источников.
func FromRequest(r *http.Request, sources ...Source) (string, bool) {
	if len(sources) == 0 {
		sources = DefaultSources()
	}

	for _, src := range sources {
		if v := src(r); v != "" {
			return v, true
		}
	}

	return "", false
}
