package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/semenovdl/tokenkeeper/internal/agent/cli"
	"github.com/semenovdl/tokenkeeper/internal/agent/config"
)

func TestNewIssueCmd_Success_SavesTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/tokens", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}

		var req struct {
			UserID string `json:"user_id"`
			Email  string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.UserID != "user-123" || req.Email != "test@example.com" {
			t.Fatalf("unexpected request: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]string{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
				"token_id":      "t-1",
			},
		})
	})

	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	tmpDir := t.TempDir()
	credsPath := filepath.Join(tmpDir, "creds.json")

	app := &cli.App{
		ServerURL: srv.URL,
		CredsPath: credsPath,
		Creds:     &config.Credentials{},
	}

	cmd := cli.NewIssueCmd(app)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--user-id", "user-123", "--email", "test@example.com"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if got := out.String(); !strings.Contains(got, "issue ok (tokens saved)") {
		t.Fatalf("unexpected output: %q", got)
	}

	loaded, err := config.Load(credsPath)
	if err != nil {
		t.Fatalf("load creds: %v", err)
	}
	if loaded.AccessToken != "access-1" || loaded.RefreshToken != "refresh-1" {
		t.Fatalf("unexpected creds: %+v", *loaded)
	}
	if loaded.TokenID != "t-1" {
		t.Fatalf("expected TokenID=t-1, got %q", loaded.TokenID)
	}
}

func TestNewIssueCmd_MissingFlags_ReturnsError(t *testing.T) {
	app := &cli.App{
		ServerURL: "https://127.0.0.1:8080",
		Creds:     &config.Credentials{},
	}

	cmd := cli.NewIssueCmd(app)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--user-id", "user-123"}) // без --email

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestNewIssueCmd_ServerError_ReturnsMessageWithCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/tokens", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "user_id and email are required",
			"code":    "BAD_REQUEST",
		})
	})

	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	app := &cli.App{
		ServerURL: srv.URL,
		CredsPath: filepath.Join(t.TempDir(), "creds.json"),
		Creds:     &config.Credentials{},
	}

	cmd := cli.NewIssueCmd(app)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--user-id", "user-123", "--email", "test@example.com"})

	err := cmd.Execute()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "BAD_REQUEST") {
		t.Fatalf("expected code in error, got %v", err)
	}
}
