// models содержит доменные сущности auth-сервиса.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User — учётная запись пользователя платформы.
// PasswordHash никогда не покидает сервисный слой; наружу отдаётся
// только публичная проекция (id, email, full_name, role).
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
