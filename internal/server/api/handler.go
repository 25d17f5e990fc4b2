// Package api реализует HTTP-слой сервиса токенов.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - обработку входящих запросов и формирование ответов (единый JSON-конверт);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и коды конверта;
//   - подключение middleware (логирование, проверка JWT и т.д.).
package api

import (
	"net/http"

	"github.com/semenovdl/tokenkeeper/internal/server/middleware"
	"github.com/semenovdl/tokenkeeper/internal/server/service"
	"github.com/semenovdl/tokenkeeper/internal/shared/logger"
)

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: компонент проверки JWT и middleware авторизации;
//   - Env: текущее окружение (dev|stage|prod), управляет раскрытием ошибок.
//
// Методы Handler используются роутером для обработки HTTP-запросов.
type Handler struct {
	Svc      *service.Services
	Log      *logger.HTTPLogger
	Verifier *middleware.JWTVerifier
	Env      string
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
//
// svc — набор сервисов приложения,
// log — логгер,
// verifier — JWT-проверка и middleware авторизации,
// env — окружение, в котором работает сервер.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, verifier *middleware.JWTVerifier, env string) *Handler {
	return &Handler{
		Svc:      svc,
		Log:      log,
		Verifier: verifier,
		Env:      env,
	}
}

// fail определяет статус и код по доменной ошибке и пишет конверт ошибки.
// Неоперационные ошибки дополнительно логируются с контекстом запроса.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	status, code := statusAndCode(err)
	if code == CodeInternal {
		h.Log.Logger.Sugar().Errorw(op+" failed", "error", err)
	}
	WriteError(w, h.Env, status, code, err)
}
