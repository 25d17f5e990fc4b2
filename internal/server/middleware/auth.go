// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/semenovdl/tokenkeeper/internal/server/token"
	serr "github.com/semenovdl/tokenkeeper/internal/shared/errors"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// userIDKey — ключ контекста, под которым хранится ID аутентифицированного пользователя.
const userIDKey ctxKey = "user_id"

// emailKey — ключ контекста, под которым хранится email субъекта токена.
const emailKey ctxKey = "email"

// JWTVerifier инкапсулирует проверку JWT access-токенов для HTTP-слоя.
//
// Вся криптография и перевод ошибок jwt-библиотеки в доменные
// (ErrExpiredToken/ErrInvalidToken) живут в token.Verifier —
// middleware только достаёт токен из заголовка и кладёт субъекта в контекст.
type JWTVerifier struct {
	verifier *token.Verifier
}

// NewJWTVerifier создаёт новый JWTVerifier поверх переданного token.Verifier.
func NewJWTVerifier(v *token.Verifier) *JWTVerifier {
	return &JWTVerifier{verifier: v}
}

// UserIDFromContext извлекает userID аутентифицированного пользователя из контекста.
//
// Возвращает:
//   - userID
//   - false, если пользователь не аутентифицирован
func UserIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(userIDKey)
	s, ok := v.(string)
	return s, ok
}

// EmailFromContext извлекает email субъекта токена из контекста.
func EmailFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(emailKey)
	s, ok := v.(string)
	return s, ok
}

// authError — конверт 401-ответа middleware.
// Дублирует форму api.ErrorResponse: импортировать api отсюда нельзя (цикл).
type authError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func writeUnauthorized(w http.ResponseWriter, code string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(authError{
		Success: false,
		Message: err.Error(),
		Code:    code,
	})
}

// AuthMiddleware возвращает HTTP middleware для проверки JWT access-токенов.
//
// Middleware:
//   - ожидает заголовок Authorization: Bearer <token>
//   - валидирует подпись и claims токена через token.Verifier
//   - сохраняет userID и email субъекта в context.Context
//
// В случае ошибки возвращает HTTP 401 Unauthorized в едином конверте.
func (v *JWTVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ExtractBearer(r.Header.Get("Authorization"))
			if tokenStr == "" {
				writeUnauthorized(w, "UNAUTHORIZED", serr.ErrUnauthorized)
				return
			}

			payload, err := v.verifier.Verify(tokenStr)
			if err != nil {
				if errors.Is(err, serr.ErrExpiredToken) {
					writeUnauthorized(w, "EXPIRED_TOKEN", serr.ErrExpiredToken)
					return
				}
				writeUnauthorized(w, "INVALID_TOKEN", serr.ErrInvalidToken)
				return
			}

			userID := strings.TrimSpace(payload.UserID)
			if userID == "" {
				writeUnauthorized(w, "INVALID_TOKEN", serr.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, emailKey, payload.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
