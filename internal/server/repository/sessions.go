// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"go.uber.org/zap"

	"github.com/semenovdl/tokenkeeper/internal/server/models"
	serr "github.com/semenovdl/tokenkeeper/internal/shared/errors"
)

// SessionsRepository отвечает за хранение session-записей refresh-токенов.
//
// Используется для:
//   - регистрации выпущенных refresh-токенов (по jti)
//   - single-use дисциплины (MarkUsed при ротации)
//   - автоматического вычищения записей с прошедшим expires_at
//
// Записи с прошедшим expires_at невидимы для чтения ещё до того,
// как их удалит sweeper: стор сам отвечает за истечение, ядро
// никогда не удаляет записи явно.
type SessionsRepository struct {
	db *sql.DB
}

// NewSessionsRepository создает новый SessionsRepository.
func NewSessionsRepository(db *sql.DB) *SessionsRepository {
	return &SessionsRepository{db: db}
}

// Create создает новую session-запись refresh-токена.
//
// Сохраняет:
//   - userID
//   - tokenID (jti, уникален на уровне БД)
//   - userAgent клиента
//   - срок действия
//
// is_used всегда false на создание.
//
// Возвращает:
//   - id созданной записи
//   - ErrConflict при нарушении уникальности token_id или ErrInternal при других ошибках БД
func (r *SessionsRepository) Create(ctx context.Context, userID string, tokenID uuid.UUID, userAgent string, expiresAt time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO sessions (user_id, token_id, user_agent, expires_at)
		 VALUES ($1,$2,$3,$4)
		 RETURNING id`,
		userID, tokenID, userAgent, expiresAt,
	).Scan(&id)

	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return uuid.Nil, serr.ErrConflict
		}
		return uuid.Nil, serr.ErrInternal
	}
	return id, nil
}

// GetByTokenID возвращает живую session-запись по jti refresh-токена.
//
// Запись с прошедшим expires_at не возвращается, даже если sweeper
// до неё ещё не добрался.
//
// Ошибки:
//   - ErrNotFound если записи нет или она истекла, ErrInternal при ошибке БД
func (r *SessionsRepository) GetByTokenID(ctx context.Context, tokenID uuid.UUID) (models.Session, error) {
	var s models.Session

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_id, user_agent, is_used, expires_at, created_at, updated_at
		   FROM sessions
		  WHERE token_id = $1
		    AND expires_at > now()`,
		tokenID,
	).Scan(&s.ID, &s.UserID, &s.TokenID, &s.UserAgent, &s.IsUsed, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return models.Session{}, serr.ErrNotFound
		}
		return models.Session{}, serr.ErrInternal
	}
	return s, nil
}

// MarkUsed помечает refresh-токен использованным (single-use).
//
// Атомарно на уровне одной записи: второй вызов по тому же jti
// не найдёт строку с is_used=false и вернёт ErrNotFound — на этом
// строится защита от повторного использования refresh при ротации.
func (r *SessionsRepository) MarkUsed(ctx context.Context, tokenID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions
		    SET is_used = true,
		        updated_at = now()
		  WHERE token_id = $1
		    AND is_used = false
		    AND expires_at > now()`,
		tokenID,
	)
	if err != nil {
		return serr.ErrInternal
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return serr.ErrInternal
	}
	if affected == 0 {
		return serr.ErrNotFound
	}
	return nil
}

// DeleteExpired удаляет записи с прошедшим expires_at.
//
// Возвращает количество удалённых строк.
func (r *SessionsRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= now()`,
	)
	if err != nil {
		return 0, serr.ErrInternal
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, serr.ErrInternal
	}
	return deleted, nil
}

// StartSweeper запускает фоновое вычищение истёкших записей.
//
// Это наш аналог TTL-индекса: у Postgres его нет, поэтому стор сам
// периодически зовёт DeleteExpired, пока ctx не отменён. Ошибки
// одного прохода только логируются — следующий тик попробует снова.
func (r *SessionsRepository) StartSweeper(ctx context.Context, every time.Duration, log *zap.SugaredLogger) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := r.DeleteExpired(ctx)
				if err != nil {
					log.Errorw("session sweep failed", "error", err)
					continue
				}
				if deleted > 0 {
					log.Infow("session sweep", "deleted", deleted)
				}
			}
		}
	}()
}
