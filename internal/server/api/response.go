// Единый конверт HTTP-ответов и маппинг доменных ошибок в него.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	serr "github.com/semenovdl/tokenkeeper/internal/shared/errors"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// EnvDev — окружение разработки: в ответах об ошибках разрешён stack trace.
const EnvDev = "dev"

// Машиночитаемые коды ошибок в конверте ответа.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeExpiredToken = "EXPIRED_TOKEN"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL"
)

// Pagination — блок пагинации в успешном ответе (для списочных ручек).
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// SuccessResponse — конверт успешного ответа.
//
// success всегда true, message и pagination опциональны,
// полезные данные лежат в data.
type SuccessResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ErrorResponse — конверт ответа об ошибке.
//
// success всегда false. Stack заполняется только в dev-окружении:
// в проде внутренности сервера наружу не отдаём.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
	Stack   string      `json:"stack,omitempty"`
}

// WriteSuccess пишет успешный ответ в едином конверте.
func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(SuccessResponse{
		Success: true,
		Data:    data,
	})
}

// WriteError пишет ответ об ошибке в едином конверте.
//
// env нужен чтобы решить, можно ли показать stack trace:
// только в dev, и только для операционных ошибок в нём нет смысла —
// стек добавляем при внутренних сбоях, где он реально помогает.
func WriteError(w http.ResponseWriter, env string, status int, code string, err error) {
	resp := ErrorResponse{
		Success: false,
		Message: err.Error(),
		Code:    code,
	}

	// Неоперационная ошибка — наружу уходит только обезличенное сообщение,
	// подробности остаются в логах. В dev добавляем stack для отладки.
	if !serr.IsOperational(err) {
		resp.Message = serr.ErrInternal.Error()
		if env == EnvDev {
			resp.Message = err.Error()
			resp.Stack = string(debug.Stack())
		}
	}

	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// statusAndCode переводит доменную ошибку в HTTP-статус и код конверта.
func statusAndCode(err error) (int, string) {
	switch {
	case errors.Is(err, serr.ErrBadJSON), errors.Is(err, serr.ErrInvalidInput):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, serr.ErrExpiredToken):
		return http.StatusUnauthorized, CodeExpiredToken
	case errors.Is(err, serr.ErrInvalidToken):
		return http.StatusUnauthorized, CodeInvalidToken
	case errors.Is(err, serr.ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, serr.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, serr.ErrConflict):
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
