// Package errors содержит общие доменные ошибки приложения
// и утилиты для error wrapping.
//
// Эти ошибки используются в token, service и repository слоях
// и маппятся на HTTP-статусы и envelope в api слое.
package errors

import "errors"

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Токен просрочен: подпись валидна, но exp в прошлом
	ErrExpiredToken = errors.New("expired token")
	// Токен невалиден: битая подпись, чужой ключ, мусор вместо токена
	ErrInvalidToken = errors.New("invalid token")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Неавторизован (refresh отозван/использован/не найден)
	ErrUnauthorized = errors.New("unauthorized")
	// Ресурс уже существует (например коллизия token_id в сторе)
	ErrConflict = errors.New("conflict")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
)

// operational — закрытый список "ожидаемых" ошибок, которые клиент сам и вызвал.
// Их сообщения безопасно отдавать наружу как есть, в любом окружении.
var operational = []error{
	ErrInvalidInput,
	ErrExpiredToken,
	ErrInvalidToken,
	ErrBadJSON,
	ErrUnauthorized,
	ErrConflict,
	ErrNotFound,
}

// IsOperational сообщает, относится ли ошибка к операционным.
//
// Всё, что не входит в закрытый список (включая ErrInternal и любые
// необёрнутые ошибки библиотек), считается неожиданной серверной ошибкой:
// её детали наружу не отдаются в hardened окружении.
func IsOperational(err error) bool {
	for _, known := range operational {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
