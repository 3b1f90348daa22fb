package repository

import (
	"context"
	"time"

	"stravamcp/internal/models"
)

// Session repository interface
type SessionRepo interface {
	// Create session
	// If a session with the same id exists already has to return apperrors.ErrSessionExists
	Create(ctx context.Context, session models.Session) (models.Session, error)

	// Get session by id
	// If the session is absent must return apperrors.ErrSessionNotFound
	// If the session outlived its TTL must return apperrors.ErrSessionExpired
	Get(ctx context.Context, sessionID string) (models.Session, error)

	// Replace the session's token pair and bump its last seen time
	UpdateToken(ctx context.Context, sessionID string, token models.Token) error

	// Bump the session's last seen time, extending its TTL window
	Touch(ctx context.Context, sessionID string, at time.Time) error

	// Delete session by id
	// Deleting an absent session must return apperrors.ErrSessionNotFound
	Delete(ctx context.Context, sessionID string) error

	// Remove sessions not seen since the cutoff, returns how many went away
	DeleteExpired(ctx context.Context, lastSeenBefore time.Time) (int64, error)

	// Count stored sessions, expired ones included until swept
	Count(ctx context.Context) (int64, error)
}
