package httpx

import (
	"net/http"
)

// APIError — единый формат ошибки для фронта.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
// Detail/DBCode/Constraint заполняются только диагностическими ответами
// (вне prod) и в остальных случаях опускаются.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
	Detail     string `json:"detail,omitempty"`
	DBCode     string `json:"db_code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
}

// ErrorResponse — корневой объект в ответе об ошибке.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// WriteError пишет унифицированный ответ об ошибке.
// Маппинг доменных ошибок в (status, code, message) — ответственность
// транспортного слоя конкретного сервиса.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteAPIError(w, r, status, APIError{Code: code, Message: message})
}

// WriteAPIError — вариант WriteError для ответов с диагностическими полями.
func WriteAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr APIError) {
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		apiErr.RequestID = rid
	}

	WriteJSON(w, status, ErrorResponse{Error: apiErr})
}
