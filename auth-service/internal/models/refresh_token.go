package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken — серверная запись о refresh-токене.
// В БД хранится только SHA-256 хэш секрета, сам секрет знает лишь клиент.
type RefreshToken struct {
	TokenHash string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
	Revoked   bool
}
