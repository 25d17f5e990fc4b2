// Package service содержит бизнес-логику приложения (tokenkeeper).
// Это прослойка между HTTP-обработчиками (api) и ядром выпуска токенов (token)
// со стором session-записей (repository).
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/semenovdl/tokenkeeper/internal/server/config"
	"github.com/semenovdl/tokenkeeper/internal/server/models"
	"github.com/semenovdl/tokenkeeper/internal/server/token"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Sessions SessionsRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth *AuthService
}

// NewServices собирает все сервисы приложения.
// cfg нужен AuthService (параметры подписи и сроки жизни токенов).
func NewServices(repos Repositories, cfg *config.Config, log *zap.SugaredLogger) *Services {
	return &Services{
		Auth: NewAuthService(repos.Sessions, cfg, log),
	}
}

// SessionsRepo — стор session-записей refresh-токенов.
type SessionsRepo interface {
	Create(ctx context.Context, userID string, tokenID uuid.UUID, userAgent string, expiresAt time.Time) (uuid.UUID, error)
	GetByTokenID(ctx context.Context, tokenID uuid.UUID) (models.Session, error)
	MarkUsed(ctx context.Context, tokenID uuid.UUID) error
}

// проверка на этапе компиляции: стор подходит и ядру как SessionSaver
var _ token.SessionSaver = (SessionsRepo)(nil)
