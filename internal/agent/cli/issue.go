package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/semenovdl/tokenkeeper/internal/agent/config"
)

// NewIssueCmd создаёт CLI-команду выпуска пары токенов.
//
// Команда запрашивает у сервера TokenKeeper новую пару access/refresh
// токенов для указанного субъекта и сохраняет её в локальный
// конфигурационный файл.
//
// Для выполнения команды требуется указать обязательные флаги
// --user-id и --email.
//
// Пример использования:
//
//	tokenctl issue --user-id 42 --email test@example.com
func NewIssueCmd(app *App) *cobra.Command {
	var userID, email string

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Выпустить пару access/refresh токенов",
		Long: `Выпуск пары токенов.

Пример:
  tokenctl issue --user-id 42 --email test@example.com
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// создаём API-клиент для общения с сервером
			c := NewAPIClient(app.ServerURL)
			// запрашиваем выпуск пары
			pair, err := c.IssueTokens(userID, email)
			if err != nil {
				return err
			}

			// сохраняем полученные токены в состоянии приложения
			app.Creds.AccessToken = pair.AccessToken
			app.Creds.RefreshToken = pair.RefreshToken
			app.Creds.TokenID = pair.TokenID

			// сохраняем токены в локальный конфигурационный файл
			if err := config.Save(app.CredsPath, app.Creds); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "issue ok (tokens saved)")
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "subject user id")
	cmd.Flags().StringVar(&email, "email", "", "subject email")
	cmd.MarkFlagRequired("user-id")
	cmd.MarkFlagRequired("email")

	return cmd
}
