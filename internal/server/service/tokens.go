package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/semenovdl/tokenkeeper/internal/server/config"
	"github.com/semenovdl/tokenkeeper/internal/server/token"
	serr "github.com/semenovdl/tokenkeeper/internal/shared/errors"
)

// AuthService реализует бизнес-логику жизненного цикла токенов.
//
// Ответственность:
//   - выпуск пары access / refresh токенов
//   - обновление пары по refresh (rotation)
//   - single-use дисциплина refresh-токенов (is_used, защита от replay)
//
// Логин/пароли сюда не входят: AuthService — потребитель ядра token,
// а аутентификация пользователей живёт у внешнего вызывающего.
type AuthService struct {
	issuer   *token.Issuer
	verifier *token.Verifier
	sessions SessionsRepo
}

// TokenPair представляет пару access / refresh токенов.
// TokenID — jti выпущенного refresh-токена.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenID      string
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
func NewAuthService(sessions SessionsRepo, cfg *config.Config, log *zap.SugaredLogger) *AuthService {
	tokenCfg := token.Config{
		Issuer:           cfg.Auth.Issuer,
		Audience:         cfg.Auth.Audience,
		SigningKey:       cfg.Auth.JWT.SigningKey,
		AccessExpiresIn:  cfg.Auth.AccessExpiresIn,
		RefreshExpiresIn: cfg.Auth.RefreshExpiresIn,
	}

	return &AuthService{
		issuer:   token.NewIssuer(tokenCfg, sessions, log),
		verifier: token.NewVerifier(tokenCfg),
		sessions: sessions,
	}
}

// Issue выпускает пару токенов для уже аутентифицированного субъекта.
//
// Валидация:
//   - userID и email обязательны
//   - userAgent обязателен (его отсутствие — ошибка конструирования у вызывающего)
//
// Session-запись refresh-токена сохраняется ядром асинхронно:
// Issue возвращается, не дожидаясь стора.
//
// Ошибки:
//   - ErrInvalidInput при некорректных данных, ErrInternal при ошибке подписи
func (s *AuthService) Issue(ctx context.Context, userID, email, userAgent string) (TokenPair, error) {
	userID = strings.TrimSpace(userID)
	email = strings.TrimSpace(email)
	if userID == "" || email == "" || userAgent == "" {
		return TokenPair{}, serr.ErrInvalidInput
	}

	payload := token.Payload{UserID: userID, Email: email}

	access, err := s.issuer.GenerateAccessToken(payload)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, tokenID, err := s.issuer.GenerateRefreshToken(payload, userAgent)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenID:      tokenID,
	}, nil
}

// Refresh обновляет пару токенов по refresh-токену (rotation).
//
// Порядок:
//  1. криптографическая проверка refresh-токена (подпись + срок);
//  2. session-запись по jti должна существовать и быть неиспользованной;
//  3. запись помечается использованной (single-use) — повторное
//     предъявление того же refresh отбивается как replay;
//  4. выпускается новая пара с новым jti.
//
// Ошибки:
//   - ErrExpiredToken / ErrInvalidToken от проверки самого токена
//   - ErrUnauthorized если запись не найдена, истекла или уже использована
func (s *AuthService) Refresh(ctx context.Context, refreshToken, userAgent string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, serr.ErrInvalidInput
	}

	payload, err := s.verifier.Verify(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	// access-токен в роли refresh: подпись валидна, но jti нет
	if payload.TokenID == "" {
		return TokenPair{}, serr.ErrInvalidToken
	}

	tokenID, err := uuid.Parse(payload.TokenID)
	if err != nil {
		return TokenPair{}, serr.ErrInvalidToken
	}

	rec, err := s.sessions.GetByTokenID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			// запись вычищена по сроку или токен нам неизвестен
			return TokenPair{}, serr.ErrUnauthorized
		}
		return TokenPair{}, err
	}

	// кто-то пытается переиспользовать уже ротированный refresh
	if rec.IsUsed {
		return TokenPair{}, serr.ErrUnauthorized
	}

	if err := s.sessions.MarkUsed(ctx, tokenID); err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			// проиграли гонку параллельному Refresh с тем же токеном
			return TokenPair{}, serr.ErrUnauthorized
		}
		return TokenPair{}, err
	}

	return s.Issue(ctx, payload.UserID, payload.Email, userAgent)
}

// VerifyAccess проверяет access-токен и возвращает его payload.
// Тонкая обёртка над ядром для middleware и хендлеров.
func (s *AuthService) VerifyAccess(tokenStr string) (token.Payload, error) {
	return s.verifier.Verify(tokenStr)
}
