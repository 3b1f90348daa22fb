// Package session manages multi user sessions: creation from an OAuth
// authorization code, resolution from a signed bearer and periodic sweeping
// of expired ones.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stravamcp/internal/logger"
	"stravamcp/internal/metrics"
	"stravamcp/internal/models"
	"stravamcp/internal/repository"
	"stravamcp/internal/service/session/tokenmanager"
)

const defaultSweepInterval = time.Hour

// Exchanger trades a one-time authorization code for a token pair
type Exchanger interface {
	Exchange(ctx context.Context, clientID, clientSecret, code string) (models.Token, error)
}

type Service struct {
	repo      repository.SessionRepo
	tokens    *tokenmanager.TokenManager
	exchanger Exchanger
	metrics   *metrics.Metrics
	logger    logger.Logger

	clientID     string
	clientSecret string
	ttl          time.Duration
}

type Opts struct {
	Repo      repository.SessionRepo
	Tokens    *tokenmanager.TokenManager
	Exchanger Exchanger
	Metrics   *metrics.Metrics
	Logger    logger.Logger

	ClientID     string
	ClientSecret string
	TTL          time.Duration
}

func NewService(opts Opts) *Service {
	if opts.TTL <= 0 {
		opts.TTL = models.DefaultSessionTTL
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOp()
	}

	return &Service{
		repo:         opts.Repo,
		tokens:       opts.Tokens,
		exchanger:    opts.Exchanger,
		metrics:      opts.Metrics,
		logger:       log,
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		ttl:          opts.TTL,
	}
}

type CreatedSession struct {
	Session models.Session
	Bearer  string

	// When the bearer stops being accepted
	ExpiresAt time.Time
}

// Create exchanges the authorization code, stores the session and issues a
// signed bearer the caller presents on subsequent requests.
func (s *Service) Create(ctx context.Context, code string) (CreatedSession, error) {
	token, err := s.exchanger.Exchange(ctx, s.clientID, s.clientSecret, code)
	if err != nil {
		return CreatedSession{}, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	session, err := s.repo.Create(ctx, models.Session{
		ID:    uuid.NewString(),
		Token: token,
	})
	if err != nil {
		return CreatedSession{}, fmt.Errorf("failed to store session: %w", err)
	}

	bearer, expiresAt, err := s.tokens.IssueBearer(session.ID)
	if err != nil {
		return CreatedSession{}, err
	}

	s.logger.Info("Session created", "session_id", session.ID)
	return CreatedSession{Session: session, Bearer: bearer, ExpiresAt: expiresAt}, nil
}

// Resolve maps a bearer to its stored session and marks it as seen
func (s *Service) Resolve(ctx context.Context, bearer string) (models.Session, error) {
	sessionID, err := s.tokens.ParseBearer(bearer)
	if err != nil {
		return models.Session{}, err
	}

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return models.Session{}, err
	}

	if err := s.repo.Touch(ctx, sessionID, time.Now()); err != nil {
		s.logger.Warn("Failed to touch session", "session_id", sessionID, "error", err)
	}

	return session, nil
}

// Revoke deletes the session behind the bearer
func (s *Service) Revoke(ctx context.Context, bearer string) error {
	sessionID, err := s.tokens.ParseBearer(bearer)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return err
	}

	s.logger.Info("Session revoked", "session_id", sessionID)
	return nil
}

// Sweep removes sessions past their TTL and refreshes the active gauge
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteExpired(ctx, time.Now().Add(-s.ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}

	if count, err := s.repo.Count(ctx); err == nil {
		s.metrics.SetActiveSessions(int(count))
	}

	return removed, nil
}

// RunSweeper sweeps on the interval until the context is cancelled
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error("Session sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				s.logger.Info("Swept expired sessions", "removed", removed)
			}
		}
	}
}
