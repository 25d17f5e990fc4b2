// @title           TokenKeeper API
// @version         1.0
// @description     Authentication token service.
// @description     Issues, refreshes and verifies JWT access/refresh token pairs.

// @contact.name   Dmitry Semenov
// @contact.url    https://github.com/semenovdl

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа сервера TokenKeeper.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера из файла ./configs/server.yaml;
//   - инициализацию подключения к базе данных и управление его жизненным циклом;
//   - создание репозиториев, сервисов, middleware и HTTP-обработчиков;
//   - запуск фоновой чистки истёкших session-записей;
//   - настройку и запуск HTTP(S)-сервера с заданными таймаутами;
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
// HTTP API сервера реализовано в пакете internal/server/api и документируется с помощью OpenAPI (Swagger).
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/semenovdl/tokenkeeper/internal/server/api"
	"github.com/semenovdl/tokenkeeper/internal/server/config"
	"github.com/semenovdl/tokenkeeper/internal/server/middleware"
	h "github.com/semenovdl/tokenkeeper/internal/server/net/http"
	"github.com/semenovdl/tokenkeeper/internal/server/repository"
	"github.com/semenovdl/tokenkeeper/internal/server/service"
	"github.com/semenovdl/tokenkeeper/internal/server/token"
	"github.com/semenovdl/tokenkeeper/internal/shared/logger"

	_ "github.com/semenovdl/tokenkeeper/swagger/docs"
)

func main() {
	httpLogger := logger.NewHTTPLogger()
	sugar := httpLogger.Logger.Sugar()

	if err := godotenv.Load(); err != nil {
		sugar.Warnf("no .env file loaded, error: %v", err)
	}

	cfg, err := config.Load("./configs/server.yaml")
	if err != nil {
		sugar.Fatal(err)
	}
	cfg.ApplyEnvOverrides()

	// подключаем базу данных
	if err := config.InitDB(cfg, sugar); err != nil {
		sugar.Fatal(err)
	}

	// возвращаем указатель на db
	db := config.GetDB()
	// делаем отложенное закрытие бд
	defer func() {
		if db != nil {
			db.Close()
		}
	}()

	// создаём контекст и errgroup
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// создаём репы
	sessionsRepo := repository.NewSessionsRepository(db)
	// фоновая чистка истёкших session-записей
	sessionsRepo.StartSweeper(ctx, cfg.Auth.Sessions.SweepInterval, sugar)

	// складываем в репозиторий
	repos := service.Repositories{
		Sessions: sessionsRepo,
	}
	// создаём сервис
	svc := service.NewServices(repos, cfg, sugar)
	// создаём jwt-проверку для middleware
	verifier := middleware.NewJWTVerifier(token.NewVerifier(token.Config{
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		SigningKey: cfg.Auth.JWT.SigningKey,
	}))
	// создаём хандлер
	handler := api.NewHandler(svc, httpLogger, verifier, cfg.Env)
	// создаём роутер
	router := h.NewRouter(handler)
	// создаём сервер
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		sugar.Infof("server started on %s (env=%s)", addr, cfg.Env)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единая обработка ошибок
	if err := g.Wait(); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
	sugar.Info("server gracefully stopped")
}
