package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON — единый ответ JSON с нужным Content-Type.
func WriteJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// DecodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func DecodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
