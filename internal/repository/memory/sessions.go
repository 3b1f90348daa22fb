// Package memory keeps sessions in process memory. Suited for a single
// instance deployment: sessions do not survive a restart and are not shared
// between instances.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/models"
)

type SessionRepo struct {
	ttl time.Duration

	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewSessionRepo(ttl time.Duration) *SessionRepo {
	if ttl <= 0 {
		ttl = models.DefaultSessionTTL
	}
	return &SessionRepo{
		ttl:      ttl,
		sessions: make(map[string]models.Session),
	}
}

func (r *SessionRepo) Create(_ context.Context, session models.Session) (models.Session, error) {
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.LastSeenAt.IsZero() {
		session.LastSeenAt = session.CreatedAt
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; ok {
		return models.Session{}, fmt.Errorf("repo error: %w", apperrors.ErrSessionExists)
	}
	r.sessions[session.ID] = session

	return session, nil
}

func (r *SessionRepo) Get(_ context.Context, sessionID string) (models.Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	switch {
	case !ok:
		return models.Session{}, fmt.Errorf("repo error: %w", apperrors.ErrSessionNotFound)
	case session.ExpiredAt(time.Now(), r.ttl):
		return models.Session{}, fmt.Errorf("repo error: %w", apperrors.ErrSessionExpired)
	default:
		return session, nil
	}
}

func (r *SessionRepo) UpdateToken(_ context.Context, sessionID string, token models.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return fmt.Errorf("repo error: %w", apperrors.ErrSessionNotFound)
	}
	session.Token = token
	if now := time.Now(); now.After(session.LastSeenAt) {
		session.LastSeenAt = now
	}
	r.sessions[sessionID] = session

	return nil
}

func (r *SessionRepo) Touch(_ context.Context, sessionID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return fmt.Errorf("repo error: %w", apperrors.ErrSessionNotFound)
	}
	if at.After(session.LastSeenAt) {
		session.LastSeenAt = at
		r.sessions[sessionID] = session
	}

	return nil
}

func (r *SessionRepo) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return fmt.Errorf("repo error: %w", apperrors.ErrSessionNotFound)
	}
	delete(r.sessions, sessionID)

	return nil
}

func (r *SessionRepo) DeleteExpired(_ context.Context, lastSeenBefore time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, session := range r.sessions {
		if session.LastSeenAt.Before(lastSeenBefore) {
			delete(r.sessions, id)
			removed++
		}
	}

	return removed, nil
}

func (r *SessionRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.sessions)), nil
}
