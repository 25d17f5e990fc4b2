package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/semenovdl/tokenkeeper/internal/server/middleware"
	"github.com/semenovdl/tokenkeeper/internal/server/token"
)

func tokenCfg() token.Config {
	return token.Config{
		Issuer:          "issuer",
		Audience:        "aud",
		SigningKey:      "supersecretkeysupersecretkey123456",
		AccessExpiresIn: "1m",
	}
}

// Вспомогательная функция: подписанный access-токен
func makeAccessToken(t *testing.T, cfg token.Config) string {
	t.Helper()

	iss := token.NewIssuer(cfg, nil, zap.NewNop().Sugar())
	s, err := iss.GenerateAccessToken(token.Payload{UserID: "user-123", Email: "e@x.com"})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func newVerifier(cfg token.Config) *middleware.JWTVerifier {
	return middleware.NewJWTVerifier(token.NewVerifier(cfg))
}

// next-хендлер, который отдаёт субъекта из контекста
func subjectEcho() (http.Handler, *string, *string) {
	gotUser := new(string)
	gotEmail := new(string)
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := middleware.UserIDFromContext(r.Context()); ok {
			*gotUser = id
		}
		if email, ok := middleware.EmailFromContext(r.Context()); ok {
			*gotEmail = email
		}
		w.WriteHeader(http.StatusOK)
	})
	return h, gotUser, gotEmail
}

// Успех
func TestAuthMiddleware_OK(t *testing.T) {
	cfg := tokenCfg()
	v := newVerifier(cfg)

	next, gotUser, gotEmail := subjectEcho()
	handler := v.AuthMiddleware()(next)

	req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+makeAccessToken(t, cfg))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if *gotUser != "user-123" {
		t.Fatalf("expected user-123 in context, got %q", *gotUser)
	}
	if *gotEmail != "e@x.com" {
		t.Fatalf("expected email in context, got %q", *gotEmail)
	}
}

// Нет заголовка
func TestAuthMiddleware_MissingHeader(t *testing.T) {
	v := newVerifier(tokenCfg())
	next, _, _ := subjectEcho()
	handler := v.AuthMiddleware()(next)

	req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

// Просроченный токен — код EXPIRED_TOKEN в конверте
func TestAuthMiddleware_Expired(t *testing.T) {
	cfg := tokenCfg()
	cfg.AccessExpiresIn = "1s"
	tokenStr := makeAccessToken(t, cfg)

	time.Sleep(2 * time.Second)

	v := newVerifier(cfg)
	next, _, _ := subjectEcho()
	handler := v.AuthMiddleware()(next)

	req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Success {
		t.Fatal("expected success=false")
	}
	if body.Code != "EXPIRED_TOKEN" {
		t.Fatalf("expected code EXPIRED_TOKEN, got %q", body.Code)
	}
}

// Чужой ключ — INVALID_TOKEN
func TestAuthMiddleware_WrongKey(t *testing.T) {
	otherCfg := tokenCfg()
	otherCfg.SigningKey = "another-key-another-key-another-key"
	tokenStr := makeAccessToken(t, otherCfg)

	v := newVerifier(tokenCfg())
	next, _, _ := subjectEcho()
	handler := v.AuthMiddleware()(next)

	req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Code != "INVALID_TOKEN" {
		t.Fatalf("expected code INVALID_TOKEN, got %q", body.Code)
	}
}

// ExtractBearer: форматы заголовка
func TestExtractBearer(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"  Bearer   abc  ", "abc"},
		{"", ""},
		{"Basic abc", ""},
		{"Bearer", ""},
	}

	for _, c := range cases {
		if got := middleware.ExtractBearer(c.in); got != c.want {
			t.Fatalf("%q: expected %q, got %q", c.in, c.want, got)
		}
	}
}
