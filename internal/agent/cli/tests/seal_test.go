package tests

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/semenovdl/tokenkeeper/internal/agent/cli"
	"github.com/semenovdl/tokenkeeper/internal/agent/config"
)

// подменяем интерактивное чтение пароля на фиксированное значение
func stubPassword(t *testing.T, pw string) {
	t.Helper()

	orig := cli.ReadPassword
	cli.ReadPassword = func(cmd *cobra.Command, fromStdin bool) (string, error) {
		return pw, nil
	}
	t.Cleanup(func() { cli.ReadPassword = orig })
}

func TestSealUnsealCmds_RoundTrip(t *testing.T) {
	stubPassword(t, "StrongPass123!")

	app := &cli.App{
		Creds: &config.Credentials{RefreshToken: "refresh-secret-token"},
	}

	sealCmd := cli.NewSealCmd(app)

	var sealed bytes.Buffer
	sealCmd.SetOut(&sealed)
	sealCmd.SetErr(&sealed)
	sealCmd.SetArgs([]string{})

	if err := sealCmd.Execute(); err != nil {
		t.Fatalf("seal: %v", err)
	}

	blob := strings.TrimSpace(sealed.String())
	if _, err := base64.StdEncoding.DecodeString(blob); err != nil {
		t.Fatalf("seal output is not valid base64: %v", err)
	}

	unsealCmd := cli.NewUnsealCmd(app)

	var plain bytes.Buffer
	unsealCmd.SetOut(&plain)
	unsealCmd.SetErr(&plain)
	unsealCmd.SetArgs([]string{blob})

	if err := unsealCmd.Execute(); err != nil {
		t.Fatalf("unseal: %v", err)
	}

	if got := strings.TrimSpace(plain.String()); got != "refresh-secret-token" {
		t.Fatalf("expected original token, got %q", got)
	}
}

func TestSealCmd_NoRefreshToken_ReturnsError(t *testing.T) {
	stubPassword(t, "pw")

	app := &cli.App{Creds: &config.Credentials{}}

	cmd := cli.NewSealCmd(app)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "no refresh_token in config") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnsealCmd_WrongPassword_ReturnsError(t *testing.T) {
	stubPassword(t, "right-password")

	app := &cli.App{
		Creds: &config.Credentials{RefreshToken: "refresh-secret-token"},
	}

	sealCmd := cli.NewSealCmd(app)

	var sealed bytes.Buffer
	sealCmd.SetOut(&sealed)
	sealCmd.SetErr(&sealed)
	sealCmd.SetArgs([]string{})

	if err := sealCmd.Execute(); err != nil {
		t.Fatalf("seal: %v", err)
	}

	stubPassword(t, "wrong-password")

	unsealCmd := cli.NewUnsealCmd(app)

	var out bytes.Buffer
	unsealCmd.SetOut(&out)
	unsealCmd.SetErr(&out)
	unsealCmd.SetArgs([]string{strings.TrimSpace(sealed.String())})

	if err := unsealCmd.Execute(); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestUnsealCmd_BadBase64_ReturnsError(t *testing.T) {
	stubPassword(t, "pw")

	app := &cli.App{Creds: &config.Credentials{}}

	cmd := cli.NewUnsealCmd(app)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"%%%not-base64%%%"})

	err := cmd.Execute()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "bad base64 blob") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSealCmd_PasswordStdin(t *testing.T) {
	// --password-stdin идёт через реальный readPassword, без подмены
	app := &cli.App{
		Creds: &config.Credentials{RefreshToken: "refresh-secret-token"},
	}

	cmd := cli.NewSealCmd(app)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader("StrongPass123!\n"))
	cmd.SetArgs([]string{"--password-stdin"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("seal with --password-stdin: %v", err)
	}

	blob := strings.TrimSpace(out.String())
	if _, err := base64.StdEncoding.DecodeString(blob); err != nil {
		t.Fatalf("seal output is not valid base64: %v", err)
	}
}
