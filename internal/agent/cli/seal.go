package cli

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewSealCmd создаёт CLI-команду запечатывания refresh токена.
//
// Команда шифрует сохранённый refresh токен паролем (Argon2id + AES-256-GCM)
// и выводит запечатанный blob в base64. Пароль на сервер не передаётся,
// всё происходит локально.
//
// Пример использования:
//
//	tokenctl seal
//	tokenctl seal --password-stdin < pass.txt
func NewSealCmd(app *App) *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Запечатать refresh токен паролем (Argon2id + AES-GCM)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Creds.RefreshToken == "" {
				return fmt.Errorf("no refresh_token in config, run: tokenctl issue")
			}

			pw, err := ReadPassword(cmd, fromStdin)
			if err != nil {
				return err
			}

			blob, err := SealBlob(pw, []byte(app.Creds.RefreshToken))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(blob))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read password from stdin (for scripts/CI)")

	return cmd
}

// NewUnsealCmd создаёт CLI-команду распечатывания запечатанного токена.
//
// Команда принимает base64-blob (аргументом или из stdin), спрашивает пароль
// и выводит исходный токен.
//
// Пример использования:
//
//	tokenctl unseal <base64-blob>
func NewUnsealCmd(app *App) *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "unseal <blob>",
		Short: "Распечатать запечатанный токен",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := base64.StdEncoding.DecodeString(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("bad base64 blob: %w", err)
			}

			pw, err := ReadPassword(cmd, fromStdin)
			if err != nil {
				return err
			}

			plain, err := UnsealBlob(pw, blob)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(plain))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read password from stdin (for scripts/CI)")

	return cmd
}

// readPassword читает пароль для запечатывания/распечатывания.
//
// Режимы:
//   - fromStdin=true: читает пароль из STDIN полностью (удобно для скриптов/CI);
//   - fromStdin=false: читает пароль интерактивно из терминала со скрытым вводом.
//
// Важно:
//   - если fromStdin=false, но stdin не является терминалом, функция вернёт ошибку
//     "stdin is not a terminal; use --password-stdin".
//   - пустой пароль считается ошибкой.
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		pw := bytes.TrimRight(b, "\r\n")
		if len(pw) == 0 {
			return "", errors.New("empty password on stdin")
		}
		return string(pw), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password-stdin")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pwBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	pw := strings.TrimSpace(string(pwBytes))
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}
