package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/semenovdl/tokenkeeper/internal/server/api"
	"github.com/semenovdl/tokenkeeper/internal/server/config"
	"github.com/semenovdl/tokenkeeper/internal/server/middleware"
	"github.com/semenovdl/tokenkeeper/internal/server/service"
	svcmocks "github.com/semenovdl/tokenkeeper/internal/server/service/mocks"
	"github.com/semenovdl/tokenkeeper/internal/server/token"
	"github.com/semenovdl/tokenkeeper/internal/shared/logger"
)

func newTestRouter(t *testing.T) (http.Handler, *svcmocks.MockSessionsRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	sessionsRepo := svcmocks.NewMockSessionsRepo(ctrl)

	// минимальная валидная конфигурация для AuthService
	cfg := &config.Config{
		Env: "dev",
		Auth: config.AuthConfig{
			Issuer:           "issuer",
			Audience:         "audience",
			AccessExpiresIn:  "1m",
			RefreshExpiresIn: "24h",
			JWT: config.JWTConfig{
				Algorithm:  "HS256",
				SigningKey: "supersecretkeysupersecretkey123456", // >= 32
			},
		},
	}

	authSvc := service.NewAuthService(sessionsRepo, cfg, zap.NewNop().Sugar())
	svc := &service.Services{Auth: authSvc}

	verifier := middleware.NewJWTVerifier(token.NewVerifier(token.Config{
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		SigningKey: cfg.Auth.JWT.SigningKey,
	}))
	httpLogger := logger.NewHTTPLogger()

	h := api.NewHandler(svc, httpLogger, verifier, cfg.Env)
	return NewRouter(h), sessionsRepo
}

func TestRouter_IssueTokens_OK(t *testing.T) {
	router, sessionsRepo := newTestRouter(t)

	// сохранение session-записи асинхронное — синхронизируемся каналом
	saved := make(chan struct{})
	sessionsRepo.
		EXPECT().
		Create(gomock.Any(), "user-123", gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, userID string, tokenID uuid.UUID, userAgent string, expiresAt time.Time) (uuid.UUID, error) {
			close(saved)
			return uuid.New(), nil
		})

	body, _ := json.Marshal(map[string]string{
		"user_id": "user-123",
		"email":   "test@example.com",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/tokens", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "router-test/1.0")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d, body=%q", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			TokenID      string `json:"token_id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !resp.Success {
		t.Fatal("expected success=true")
	}
	if resp.Data.AccessToken == "" || resp.Data.RefreshToken == "" {
		t.Fatalf("incomplete pair: %+v", resp.Data)
	}

	// Мини-проверка, что access похож на JWT (три части через точку)
	if parts := strings.Count(resp.Data.AccessToken, "."); parts < 2 {
		t.Fatalf("access_token does not look like JWT: %q", resp.Data.AccessToken)
	}

	select {
	case <-saved:
	case <-time.After(2 * time.Second):
		t.Fatal("session record was never saved")
	}
}

// Защищённый маршрут: с валидным access пускает, без — 401
func TestRouter_Whoami_Protected(t *testing.T) {
	router, sessionsRepo := newTestRouter(t)

	saved := make(chan struct{})
	sessionsRepo.
		EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, userID string, tokenID uuid.UUID, userAgent string, expiresAt time.Time) (uuid.UUID, error) {
			close(saved)
			return uuid.New(), nil
		})

	// выпускаем пару через сам роутер
	body, _ := json.Marshal(map[string]string{"user_id": "user-123", "email": "test@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/auth/tokens", bytes.NewReader(body))
	req.Header.Set("User-Agent", "router-test/1.0")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("issue failed: %d", rec.Code)
	}

	var issued struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&issued); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	<-saved

	// без токена
	req = httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// с токеном
	req = httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+issued.Data.AccessToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d (%s)", rec.Code, rec.Body.String())
	}

	var who struct {
		Data struct {
			UserID string `json:"user_id"`
			Email  string `json:"email"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&who); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if who.Data.UserID != "user-123" || who.Data.Email != "test@example.com" {
		t.Fatalf("unexpected subject: %+v", who.Data)
	}
}
