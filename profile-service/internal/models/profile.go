package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile — профиль участника сообщества.
// location — историческое свободное текстовое поле; оно никогда не
// синхронизируется с country/state/city автоматически.
type Profile struct {
	UserID          uuid.UUID
	DisplayName     string
	Bio             string
	Location        string
	ZipCode         string
	Country         string
	State           string
	City            string
	Profession      string
	Interests       []string
	PrivacySettings json.RawMessage
	AvatarKey       string
	AvatarURL       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StringList принимает на входе либо JSON-массив строк, либо одну строку
// с разделителями-запятыми ("music, sports"). Наружу всегда отдаётся массив.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = normalizeList(arr)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*l = normalizeList(strings.Split(s, ","))
		return nil
	}

	return fmt.Errorf("string list: expected array of strings or comma-separated string")
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}

	return json.Marshal([]string(l))
}

// normalizeList обрезает пробелы и отбрасывает пустые элементы.
func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}
