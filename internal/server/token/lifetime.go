package token

import (
	"fmt"
	"strconv"
	"time"
)

// DefaultRefreshLifetime — страховочный срок жизни refresh-токена,
// если строка в конфиге оказалась кривой. Недоступность refresh-токенов
// хуже, чем слегка неправильное окно жизни.
const DefaultRefreshLifetime = 7 * 24 * time.Hour

// ParseLifetime разбирает человекочитаемый срок жизни токена вида "59m", "7d".
//
// Поддерживаемые суффиксы:
//   - s — секунды
//   - m — минуты
//   - h — часы
//   - d — дни
//
// time.ParseDuration здесь не подходит: у него нет суффикса "d",
// а формат конфига зафиксирован контрактом ("7d" — валидное значение).
//
// Возвращает ошибку, если строка пустая, суффикс неизвестен
// или числовая часть не парсится / не положительная.
func ParseLifetime(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("lifetime %q: too short", s)
	}

	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, fmt.Errorf("lifetime %q: bad number: %w", s, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("lifetime %q: must be positive", s)
	}

	switch s[len(s)-1] {
	case 's':
		return time.Duration(value) * time.Second, nil
	case 'm':
		return time.Duration(value) * time.Minute, nil
	case 'h':
		return time.Duration(value) * time.Hour, nil
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("lifetime %q: unknown unit %q", s, s[len(s)-1])
	}
}
