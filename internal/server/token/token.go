// Package token содержит криптографическое ядро сервера TokenKeeper:
// выпуск и проверку JWT access/refresh токенов.
//
// Пакет отвечает за:
//   - подпись access-токенов (HS256, срок жизни из конфига);
//   - подпись refresh-токенов с уникальным jti и fire-and-forget
//     сохранением session-записи в стор;
//   - проверку подписи/срока и перевод ошибок jwt-библиотеки
//     в закрытую доменную пару ErrExpiredToken / ErrInvalidToken;
//   - decode без проверки подписи (только для диагностики).
//
// Это единственное место, которое видит ошибки golang-jwt:
// остальные слои работают только с доменными ошибками.
package token

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	serr "github.com/semenovdl/tokenkeeper/internal/shared/errors"
)

// Payload — смысловые claims, которые переносит подписанный токен.
//
// Инвариант: payload access-токена никогда не содержит TokenID,
// payload refresh-токена — всегда содержит.
type Payload struct {
	UserID  string // обязателен всегда
	Email   string // обязателен для access-токенов
	TokenID string // jti, только у refresh; ключ к session-записи
}

// Claims — представление Payload внутри JWT.
// jti кладём в стандартный RegisteredClaims.ID.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Config описывает параметры подписи и проверки токенов.
//
// Заполняется один раз на старте процесса из server.yaml и дальше
// не мутируется (передаётся по значению).
type Config struct {
	// Issuer — значение поля iss (кто выдал токен).
	Issuer string
	// Audience — значение поля aud (для кого предназначен токен).
	Audience string
	// SigningKey — секретный ключ для подписи токена (HS256).
	// Должен быть достаточно длинным и случайным.
	SigningKey string
	// AccessExpiresIn — срок жизни access-токена ("59m").
	// Валидируется строго при старте (config.Validate).
	AccessExpiresIn string
	// RefreshExpiresIn — срок жизни refresh-токена ("7d").
	// Кривое значение не валит выпуск: подставляется DefaultRefreshLifetime.
	RefreshExpiresIn string
}

// SessionSaver — минимум, который ядру нужен от Session Record Store.
// Реализуется repository.SessionsRepository.
type SessionSaver interface {
	Create(ctx context.Context, userID string, tokenID uuid.UUID, userAgent string, expiresAt time.Time) (uuid.UUID, error)
}

// saveTimeout — свой таймаут фонового сохранения session-записи.
// Контекст запроса сюда сознательно не передаётся: отмена запроса
// не должна отзывать уже начатую запись.
const saveTimeout = 5 * time.Second

// Issuer выпускает подписанные access/refresh токены.
//
// Для refresh-токенов Issuer дополнительно регистрирует session-запись
// в сторе — асинхронно, не дожидаясь результата: валидность токена
// криптографическая, запись в сторе — только метаданные для отзыва/аудита.
type Issuer struct {
	cfg      Config
	sessions SessionSaver
	log      *zap.SugaredLogger
}

// NewIssuer создаёт Issuer.
//
// sessions может быть nil только в тестах, которым не нужны refresh-токены.
func NewIssuer(cfg Config, sessions SessionSaver, log *zap.SugaredLogger) *Issuer {
	return &Issuer{cfg: cfg, sessions: sessions, log: log}
}

// GenerateAccessToken подписывает access-токен для payload.
//
// Требования к payload:
//   - UserID и Email непустые;
//   - TokenID пустой (jti — признак refresh-токена).
//
// Токен содержит iss, aud, sub, iat и exp = now + AccessExpiresIn.
// Побочных эффектов нет.
func (i *Issuer) GenerateAccessToken(p Payload) (string, error) {
	if p.UserID == "" || p.Email == "" {
		return "", serr.ErrInvalidInput
	}
	if p.TokenID != "" {
		// jti в access-токене — ошибка конструирования выше по стеку
		return "", serr.ErrInvalidInput
	}

	lifetime, err := ParseLifetime(i.cfg.AccessExpiresIn)
	if err != nil {
		// сюда попадать не должны: config.Validate проверяет строку на старте
		return "", serr.ErrInternal
	}

	return i.sign(p, lifetime)
}

// GenerateRefreshToken подписывает refresh-токен и регистрирует session-запись.
//
// Порядок:
//  1. генерируется новый уникальный jti;
//  2. payload с этим jti подписывается со сроком RefreshExpiresIn
//     (кривая строка -> DefaultRefreshLifetime + warning в лог);
//  3. session-запись {userID, jti, userAgent, expiresAt, isUsed=false}
//     уходит в стор в отдельной горутине — её результат видит только лог.
//
// Токен возвращается сразу после подписи: недоступность стора замедлить
// или сломать выпуск не может.
func (i *Issuer) GenerateRefreshToken(p Payload, userAgent string) (refreshToken string, tokenID string, err error) {
	if p.UserID == "" {
		return "", "", serr.ErrInvalidInput
	}

	lifetime, parseErr := ParseLifetime(i.cfg.RefreshExpiresIn)
	if parseErr != nil {
		lifetime = DefaultRefreshLifetime
		i.log.Warnw("bad refresh lifetime in config, falling back to default",
			"configured", i.cfg.RefreshExpiresIn,
			"default", DefaultRefreshLifetime.String(),
			"error", parseErr,
		)
	}

	jti := uuid.New()
	p.TokenID = jti.String()

	refreshToken, err = i.sign(p, lifetime)
	if err != nil {
		return "", "", err
	}

	expiresAt := time.Now().Add(lifetime)
	userID := p.UserID

	// fire-and-forget: выпуск не ждёт стор
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		if _, saveErr := i.sessions.Create(ctx, userID, jti, userAgent, expiresAt); saveErr != nil {
			i.log.Errorw("failed to save session record",
				"token_id", jti.String(),
				"user_id", userID,
				"error", saveErr,
			)
		}
	}()

	return refreshToken, jti.String(), nil
}

// sign собирает claims и подписывает их HS256.
func (i *Issuer) sign(p Payload, lifetime time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID: p.UserID,
		Email:  p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.cfg.Issuer,
			Audience:  []string{i.cfg.Audience},
			Subject:   p.UserID,
			ID:        p.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(i.cfg.SigningKey))
	if err != nil {
		return "", serr.ErrInternal
	}
	return signed, nil
}

// Verifier проверяет предъявленные токены.
type Verifier struct {
	cfg Config
}

// NewVerifier создаёт Verifier.
func NewVerifier(cfg Config) *Verifier {
	return &Verifier{cfg: cfg}
}

// Verify проверяет подпись и срок жизни токена и возвращает payload.
//
// Классификация отказов — закрытая пара, в порядке приоритета:
//   - ErrExpiredToken: подпись валидна, exp в прошлом;
//   - ErrInvalidToken: всё остальное (битая подпись, мусор,
//     неподдерживаемый алгоритм, чужой iss/aud).
//
// Других видов наружу не выходит: по причине отказа нельзя построить
// оракул сверх этих двух вёдер. Частично проверенный payload
// не возвращается никогда.
func (v *Verifier) Verify(tokenStr string) (Payload, error) {
	claims := &Claims{}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(v.cfg.SigningKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Payload{}, serr.ErrExpiredToken
		}
		return Payload{}, serr.ErrInvalidToken
	}

	if v.cfg.Issuer != "" && claims.Issuer != v.cfg.Issuer {
		return Payload{}, serr.ErrInvalidToken
	}

	if v.cfg.Audience != "" {
		ok := false
		for _, aud := range claims.Audience {
			if aud == v.cfg.Audience {
				ok = true
				break
			}
		}
		if !ok {
			return Payload{}, serr.ErrInvalidToken
		}
	}

	return Payload{
		UserID:  claims.UserID,
		Email:   claims.Email,
		TokenID: claims.ID,
	}, nil
}

// Decode извлекает claims БЕЗ проверки подписи.
//
// Только для недоверенных применений (лог subject'а для диагностики,
// tokenctl decode). Результат никогда нельзя считать аутентифицированным.
//
// На любом кривом входе возвращает ok=false, не ошибку.
func Decode(tokenStr string) (Payload, bool) {
	claims := &Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return Payload{}, false
	}

	return Payload{
		UserID:  claims.UserID,
		Email:   claims.Email,
		TokenID: claims.ID,
	}, true
}
