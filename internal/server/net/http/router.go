// Package http реализует маршрутизацию HTTP-слоя сервиса токенов.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование выполнения HTTP-запросов;
//   - выполняет проверку JWT access-токенов;
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/semenovdl/tokenkeeper/internal/server/api"
	"github.com/semenovdl/tokenkeeper/internal/server/middleware"
)

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - публичные эндпоинты выпуска и обновления токенов под префиксом /auth;
//   - middleware логирования для всех запросов;
//   - группу защищённых JWT эндпоинтов (whoami).
func NewRouter(h *api.Handler) http.Handler {
	r := chi.NewRouter()
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware())

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	// Публичные пути
	r.Route("/auth", func(r chi.Router) {
		r.Post("/tokens", h.IssueTokens)
		r.Post("/refresh", h.Refresh)
	})
	// защищённые пути
	r.Group(func(r chi.Router) {
		// проверка access токена
		r.Use(h.Verifier.AuthMiddleware())
		r.Get("/auth/whoami", h.Whoami)
	})

	return r
}
