// Серверная модель refresh-сессии
package models

import (
	"time"

	"github.com/google/uuid"
)

// Session — персистентные метаданные одного выпущенного refresh-токена.
//
// TokenID совпадает с jti токена и уникален на уровне БД.
// IsUsed переключается в true при ротации (single-use дисциплина).
// Запись с прошедшим ExpiresAt считается несуществующей.
type Session struct {
	ID        uuid.UUID
	UserID    string
	TokenID   uuid.UUID
	UserAgent string
	IsUsed    bool
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
