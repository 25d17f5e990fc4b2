// HTTP-хендлеры выпуска, обновления и проверки токенов
package api

import (
	"encoding/json"
	"net/http"

	"github.com/semenovdl/tokenkeeper/internal/server/middleware"
	serr "github.com/semenovdl/tokenkeeper/internal/shared/errors"
)

// IssueTokensRequest описывает тело запроса выпуска пары токенов.
type IssueTokensRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// TokenPairResponse описывает успешный ответ с парой токенов.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenID      string `json:"token_id"`
}

// RefreshRequest описывает тело запроса обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// WhoamiResponse описывает ответ с данными субъекта access-токена.
type WhoamiResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// IssueTokens обрабатывает выпуск новой пары access/refresh токенов.
//
// Ответ на выпуск не ждёт записи session-записи в базу: подпись уже
// готова, сохранение уходит в фон.
//
// Ответы:
//   - 201 Created: пара выпущена;
//   - 400 Bad Request: неверный JSON или пустые user_id/email;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Issue token pair
// @Description  Issues a new access/refresh token pair for the given subject.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body IssueTokensRequest true "Issue tokens request"
// @Success      201 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse "Invalid input or bad JSON"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /auth/tokens [post]
func (h *Handler) IssueTokens(w http.ResponseWriter, r *http.Request) {
	var req IssueTokensRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.Env, http.StatusBadRequest, CodeBadRequest, serr.ErrBadJSON)
		return
	}

	pair, err := h.Svc.Auth.Issue(r.Context(), req.UserID, req.Email, r.UserAgent())
	if err != nil {
		h.fail(w, "issue tokens", err)
		return
	}

	WriteSuccess(w, http.StatusCreated, TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenID:      pair.TokenID,
	})
}

// Refresh обрабатывает обновление пары токенов по refresh-токену.
//
// Refresh-токен одноразовый: после успешного обновления старый токен
// помечается использованным, повторная попытка получит 401.
//
// Ответы:
//   - 200 OK: выпущена новая пара;
//   - 400 Bad Request: неверный JSON или пустой refresh_token;
//   - 401 Unauthorized: токен просрочен, подделан или уже использован;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Refresh token pair
// @Description  Rotates a refresh token: marks the old one used and issues a new pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh request"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse "Invalid input or bad JSON"
// @Failure      401 {object} ErrorResponse "Expired, invalid or already used token"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.Env, http.StatusBadRequest, CodeBadRequest, serr.ErrBadJSON)
		return
	}

	pair, err := h.Svc.Auth.Refresh(r.Context(), req.RefreshToken, r.UserAgent())
	if err != nil {
		h.fail(w, "refresh tokens", err)
		return
	}

	WriteSuccess(w, http.StatusOK, TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenID:      pair.TokenID,
	})
}

// Whoami возвращает субъекта текущего access-токена.
//
// Требует JWT-аутентификацию: user_id и email берутся из контекста,
// куда их положил auth-middleware.
//
// Ответы:
//   - 200 OK: данные субъекта;
//   - 401 Unauthorized: токен отсутствует/просрочен/недействителен.
//
// @Summary      Current token subject
// @Description  Returns the subject of the presented access token.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} SuccessResponse
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Router       /auth/whoami [get]
func (h *Handler) Whoami(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, h.Env, http.StatusUnauthorized, CodeUnauthorized, serr.ErrUnauthorized)
		return
	}
	email, _ := middleware.EmailFromContext(r.Context())

	WriteSuccess(w, http.StatusOK, WhoamiResponse{
		UserID: userID,
		Email:  email,
	})
}
