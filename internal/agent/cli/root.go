// Package cli реализует командный интерфейс (CLI) клиента TokenKeeper.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку локальных учётных данных (access/refresh токены) из конфигурационного файла;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/semenovdl/tokenkeeper/internal/agent/config"
)

// App содержит состояние CLI-приложения, разделяемое между командами.
//
// В структуре хранятся параметры подключения к серверу и загруженные учётные данные.
// Экземпляр App создаётся при построении root-команды и передаётся в подкоманды.
type App struct {
	// ServerURL — базовый URL сервера TokenKeeper (например, "http://127.0.0.1:8080").
	ServerURL string

	// CredsPath — путь к файлу с сохранёнными учётными данными (access/refresh токены).
	CredsPath string
	// Creds — загруженные учётные данные из файла конфигурации.
	// Может быть nil, если загрузка не выполнялась или завершилась ошибкой.
	Creds *config.Credentials
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются для вывода информации о сборке (команда version).
// В PersistentPreRunE выполняется инициализация состояния приложения:
// определяется путь к файлу учётных данных и загружаются сохранённые токены.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{
		ServerURL: "http://127.0.0.1:8080",
	}

	cmd := &cobra.Command{
		Use:   "tokenctl",
		Short: "TokenKeeper CLI — управление JWT access/refresh токенами",
		Long: `TokenKeeper CLI.

Команды:
  issue     Выпустить пару access/refresh токенов
  refresh   Обновить пару по refresh токену (старый становится одноразовым)
  whoami    Показать субъекта текущего access токена
  decode    Декодировать токен локально БЕЗ проверки подписи
  seal      Запечатать refresh токен паролем (Argon2id + AES-GCM)
  unseal    Распечатать запечатанный токен
  version   Версия и дата сборки

Примеры:

Выпуск:
  tokenctl issue --user-id 42 --email test@example.com
  (сохраняет access и refresh токены в локальном конфиге)

Refresh:
  tokenctl refresh
  (обновляет пару используя refresh_token из локального конфига)

Проверка токена:
  tokenctl whoami
`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			app.CredsPath = p

			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return err
			}
			app.Creds = creds
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", "http://127.0.0.1:8080", "server base URL")

	cmd.AddCommand(NewIssueCmd(app))
	cmd.AddCommand(NewRefreshCmd(app))
	cmd.AddCommand(NewWhoamiCmd(app))
	cmd.AddCommand(NewDecodeCmd(app))
	cmd.AddCommand(NewSealCmd(app))
	cmd.AddCommand(NewUnsealCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке выполнения команды сообщение выводится в stderr, после чего процесс
// завершается с кодом 1 (os.Exit(1)).
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
