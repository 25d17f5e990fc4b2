// Инициализация подключения к PostgreSQL (через драйвер pgx),
// проверка доступности базы (Ping) и запуск миграций (golang-migrate)
// при старте сервера.
//
// Примечание: пакет использует глобальную переменную DB. Инициализация должна
// выполняться один раз при запуске сервера.
package config

import (
	"database/sql"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"
)

// DB — глобальный экземпляр подключения к базе данных.
//
// Инициализируется функцией InitDB и используется другими пакетами через GetDB.
var DB *sql.DB

// InitDB открывает подключение к базе данных по DSN из конфига, проверяет его
// доступность, настраивает пул соединений и применяет миграции.
//
// Миграции запускаются из каталога cfg.Migrations.Path (обычно
// file://migrations/postgres). Если миграции уже применены, ошибка
// migrate.ErrNoChange не считается ошибкой.
func InitDB(cfg *Config, log *zap.SugaredLogger) error {
	var err error
	DB, err = sql.Open("pgx", cfg.DB.DSN)

	if err != nil {
		log.Errorf("error to connect db: %v", err)
		return err
	}

	if cfg.DB.MaxOpenConns > 0 {
		DB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		DB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		DB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	if err = DB.Ping(); err != nil {
		log.Errorf("error check db connection: %v", err)
		return err
	}

	if !cfg.Migrations.Enabled {
		log.Info("migrations disabled, skipping")
		return nil
	}

	// Запуск миграций
	driver, err := postgres.WithInstance(DB, &postgres.Config{})
	if err != nil {
		log.Errorf("error creating migration driver: %v", err)
		return err
	}

	// создаём миграции с выбранным драйвером
	m, err := migrate.NewWithDatabaseInstance(cfg.Migrations.Path, "postgres", driver)
	if err != nil {
		log.Errorf("error creating migrations: %v", err)
		return err
	}

	// запускаем создание миграций
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Errorf("error applying migrations: %v", err)
		return err
	}

	log.Info("migrations applied successfully")
	return nil
}

// GetDB возвращает текущий глобальный экземпляр *sql.DB.
//
// Возвращаемое значение может быть nil, если InitDB ещё не вызывался
// или завершился ошибкой.
func GetDB() *sql.DB {
	return DB
}
