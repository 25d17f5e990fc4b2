package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/semenovdl/tokenkeeper/internal/agent/config"
)

// NewRefreshCmd создаёт CLI-команду для обновления пары токенов.
//
// Команда использует сохранённый refresh токен для получения
// новой пары access/refresh токенов с сервера TokenKeeper.
// Старый refresh токен после этого одноразово использован:
// повторный refresh с ним сервер отвергнет.
//
// Команда не принимает аргументов. Перед выполнением требуется,
// чтобы refresh токен уже был сохранён (например, после команды issue).
//
// Пример использования:
//
//	tokenctl refresh
func NewRefreshCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Обновить пару токенов по refresh токену",
		Long: `Обновляет пару токенов по refresh token.

Пример:
  tokenctl refresh
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Creds.RefreshToken == "" {
				return fmt.Errorf("no refresh_token in config, run: tokenctl issue")
			}

			c := NewAPIClient(app.ServerURL)
			// сервер помечает старый refresh использованным и выдаёт новую пару
			pair, err := c.Refresh(app.Creds.RefreshToken)
			if err != nil {
				return err
			}
			// сохраняет в структуру
			app.Creds.AccessToken = pair.AccessToken
			app.Creds.RefreshToken = pair.RefreshToken
			app.Creds.TokenID = pair.TokenID
			// сохраняет локально
			if err := config.Save(app.CredsPath, app.Creds); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "refresh ok (tokens updated)")
			return nil
		},
	}

	return cmd
}
