package credentials

import (
	"context"

	"stravamcp/internal/logger"
	"stravamcp/internal/models"
)

// SessionStore is the slice of the session repository the token sources need
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (models.Session, error)
	UpdateToken(ctx context.Context, sessionID string, token models.Token) error
}

// SessionManager builds per session token sources over a shared store. One
// manager serves all sessions, so concurrent refreshes for the same session
// from different requests collapse into one upstream exchange.
type SessionManager struct {
	store        SessionStore
	refresher    Refresher
	clientID     string
	clientSecret string
	group        *refreshGroup
	logger       logger.Logger
}

func NewSessionManager(store SessionStore, refresher Refresher, clientID, clientSecret string, log logger.Logger) *SessionManager {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &SessionManager{
		store:        store,
		refresher:    refresher,
		clientID:     clientID,
		clientSecret: clientSecret,
		group:        newRefreshGroup(),
		logger:       log,
	}
}

// Source returns the token source bound to one session
func (m *SessionManager) Source(sessionID string) *SessionSource {
	return &SessionSource{manager: m, sessionID: sessionID}
}

type SessionSource struct {
	manager   *SessionManager
	sessionID string
}

func (s *SessionSource) Token(ctx context.Context) (models.Token, error) {
	session, err := s.manager.store.Get(ctx, s.sessionID)
	if err != nil {
		return models.Token{}, err
	}
	return session.Token, nil
}

// Refresh rotates the session's token pair. Concurrent callers for the same
// session share one upstream exchange, and a caller whose stale token was
// already rotated gets the stored one back without any upstream call.
func (s *SessionSource) Refresh(ctx context.Context, stale models.Token) (models.Token, error) {
	m := s.manager

	return m.group.do(ctx, s.sessionID, func() (models.Token, error) {
		session, err := m.store.Get(ctx, s.sessionID)
		if err != nil {
			return models.Token{}, err
		}
		if session.Token.AccessToken != stale.AccessToken {
			return session.Token, nil
		}

		token, err := m.refresher.Refresh(ctx, m.clientID, m.clientSecret, session.Token.RefreshToken)
		if err != nil {
			return models.Token{}, err
		}

		if err := m.store.UpdateToken(ctx, s.sessionID, token); err != nil {
			return models.Token{}, err
		}

		m.logger.Info("Refreshed session tokens", "session_id", s.sessionID)
		return token, nil
	})
}
