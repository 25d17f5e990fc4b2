package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/semenovdl/tokenkeeper/internal/server/token"
)

// NewDecodeCmd создаёт CLI-команду локального разбора токена.
//
// Команда декодирует claims токена БЕЗ проверки подписи: подходит
// для диагностики ("что вообще лежит в этом токене"), но результату
// нельзя доверять как аутентифицированному. Для настоящей проверки
// есть whoami.
//
// Токен берётся из аргумента, либо (без аргумента) из сохранённого
// access токена.
//
// Пример использования:
//
//	tokenctl decode
//	tokenctl decode eyJhbGciOi...
func NewDecodeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [token]",
		Short: "Декодировать токен локально БЕЗ проверки подписи",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenStr := ""
			if len(args) == 1 {
				tokenStr = args[0]
			} else {
				tokenStr = app.Creds.AccessToken
			}
			if tokenStr == "" {
				return fmt.Errorf("no token given and no access_token in config")
			}

			payload, ok := token.Decode(tokenStr)
			if !ok {
				return fmt.Errorf("token is malformed, cannot decode")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user_id=%s\nemail=%s\n", payload.UserID, payload.Email)
			if payload.TokenID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "token_id=%s\n", payload.TokenID)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "warning: claims are NOT verified")
			return nil
		},
	}

	return cmd
}
