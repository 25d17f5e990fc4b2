package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd создаёт CLI-команду проверки access токена.
//
// Команда отправляет сохранённый access токен на сервер и выводит
// субъекта токена (user_id и email). Это серверная проверка:
// подпись и срок жизни валидируются на стороне TokenKeeper.
//
// Пример использования:
//
//	tokenctl whoami
func NewWhoamiCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Показать субъекта текущего access токена",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Creds.AccessToken == "" {
				return fmt.Errorf("no access_token in config, run: tokenctl issue")
			}

			c := NewAPIClient(app.ServerURL)
			who, err := c.WhoamiRequest(app.Creds.AccessToken)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user_id=%s\nemail=%s\n", who.UserID, who.Email)
			return nil
		},
	}

	return cmd
}
