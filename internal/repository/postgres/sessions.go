// Package postgres backs the session repository with a PostgreSQL table, so
// sessions survive restarts and are shared between instances.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/models"
)

// DBTX is satisfied by pgxpool.Pool and pgx.Tx alike
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type SessionRepo struct {
	DB  DBTX
	TTL time.Duration
}

func NewSessionRepo(db DBTX, ttl time.Duration) *SessionRepo {
	if ttl <= 0 {
		ttl = models.DefaultSessionTTL
	}
	return &SessionRepo{DB: db, TTL: ttl}
}

const createSession = `-- name: CreateSession
INSERT INTO sessions (id, access_token, refresh_token, token_expires_at, created_at, last_seen_at)
VALUES ($1, $2, $3, $4, now(), now())
RETURNING id, access_token, refresh_token, token_expires_at, created_at, last_seen_at
`

func (r *SessionRepo) Create(ctx context.Context, session models.Session) (models.Session, error) {
	rows, _ := r.DB.Query(ctx, createSession, session.ID, session.Token.AccessToken, session.Token.RefreshToken, tokenExpiry(session.Token))
	created, err := pgx.CollectOneRow(rows, rowToSession)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return created, fmt.Errorf("repo error: %w", apperrors.ErrSessionExists)
		}

		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getSession = `-- name: GetSession
SELECT id, access_token, refresh_token, token_expires_at, created_at, last_seen_at
FROM sessions
WHERE id = $1
`

func (r *SessionRepo) Get(ctx context.Context, sessionID string) (models.Session, error) {
	rows, _ := r.DB.Query(ctx, getSession, sessionID)
	session, err := pgx.CollectOneRow(rows, rowToSession)

	switch {
	case err == nil && session.ExpiredAt(time.Now(), r.TTL):
		return models.Session{}, fmt.Errorf("repo error: %w", apperrors.ErrSessionExpired)
	case err == nil:
		return session, nil
	case errors.Is(err, pgx.ErrNoRows):
		return session, fmt.Errorf("repo error: %w", apperrors.ErrSessionNotFound)
	default:
		return session, fmt.Errorf("db error: %w", err)
	}
}

const updateSessionToken = `-- name: UpdateSessionToken
UPDATE sessions
SET access_token = $2, refresh_token = $3, token_expires_at = $4,
    last_seen_at = GREATEST(last_seen_at, now())
WHERE id = $1
`

func (r *SessionRepo) UpdateToken(ctx context.Context, sessionID string, token models.Token) error {
	tag, err := r.DB.Exec(ctx, updateSessionToken, sessionID, token.AccessToken, token.RefreshToken, tokenExpiry(token))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrSessionNotFound)
	}

	return nil
}

const touchSession = `-- name: TouchSession
UPDATE sessions
SET last_seen_at = GREATEST(last_seen_at, $2)
WHERE id = $1
`

func (r *SessionRepo) Touch(ctx context.Context, sessionID string, at time.Time) error {
	tag, err := r.DB.Exec(ctx, touchSession, sessionID, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrSessionNotFound)
	}

	return nil
}

const deleteSession = `-- name: DeleteSession
DELETE FROM sessions
WHERE id = $1
`

func (r *SessionRepo) Delete(ctx context.Context, sessionID string) error {
	tag, err := r.DB.Exec(ctx, deleteSession, sessionID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrSessionNotFound)
	}

	return nil
}

const deleteExpiredSessions = `-- name: DeleteExpiredSessions
DELETE FROM sessions
WHERE last_seen_at < $1
`

func (r *SessionRepo) DeleteExpired(ctx context.Context, lastSeenBefore time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteExpiredSessions, lastSeenBefore)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return tag.RowsAffected(), nil
}

const countSessions = `-- name: CountSessions
SELECT count(*) FROM sessions
`

func (r *SessionRepo) Count(ctx context.Context) (int64, error) {
	rows, _ := r.DB.Query(ctx, countSessions)
	count, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

func rowToSession(row pgx.CollectableRow) (models.Session, error) {
	var s models.Session
	var expiresAt *time.Time

	err := row.Scan(&s.ID, &s.Token.AccessToken, &s.Token.RefreshToken, &expiresAt, &s.CreatedAt, &s.LastSeenAt)
	if expiresAt != nil {
		s.Token.ExpiresAt = *expiresAt
	}
	return s, err
}

func tokenExpiry(token models.Token) *time.Time {
	if token.ExpiresAt.IsZero() {
		return nil
	}
	return &token.ExpiresAt
}
