package credentials

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/logger"
	"stravamcp/internal/models"
)

const (
	keyClientID     = "STRAVA_CLIENT_ID"
	keyClientSecret = "STRAVA_CLIENT_SECRET"
	keyAccessToken  = "STRAVA_ACCESS_TOKEN"
	keyRefreshToken = "STRAVA_REFRESH_TOKEN"
	keyExpiresAt    = "STRAVA_TOKEN_EXPIRES_AT"
)

// FileSource reads tokens from a dotenv credentials file and writes refreshed
// ones back. The file is the single source of truth: every read hits disk, so
// tokens rotated by another process are picked up.
type FileSource struct {
	path      string
	refresher Refresher
	logger    logger.Logger

	mu sync.Mutex
}

func NewFileSource(path string, refresher Refresher, log logger.Logger) *FileSource {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &FileSource{
		path:      path,
		refresher: refresher,
		logger:    log,
	}
}

func (s *FileSource) Token(_ context.Context) (models.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, token, err := s.read()
	return token, err
}

// Refresh exchanges the refresh token and persists the new pair. Callers that
// lost the race to refresh get the already rotated token without an upstream
// call: the token on disk no longer matches the stale one they brought.
func (s *FileSource) Refresh(ctx context.Context, stale models.Token) (models.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, current, err := s.read()
	if err != nil {
		return models.Token{}, err
	}
	if current.AccessToken != stale.AccessToken {
		return current, nil
	}

	token, err := s.refresher.Refresh(ctx, env[keyClientID], env[keyClientSecret], current.RefreshToken)
	if err != nil {
		return models.Token{}, err
	}

	if err := s.write(env, token); err != nil {
		return models.Token{}, err
	}

	s.logger.Info("Refreshed credentials file tokens", "path", s.path)
	return token, nil
}

func (s *FileSource) read() (map[string]string, models.Token, error) {
	env, err := godotenv.Read(s.path)
	if err != nil {
		return nil, models.Token{}, fmt.Errorf("failed to read credentials file %s: %w", s.path, err)
	}

	for _, key := range []string{keyClientID, keyClientSecret, keyAccessToken, keyRefreshToken} {
		if env[key] == "" {
			return nil, models.Token{}, &apperrors.Error{
				Kind:    apperrors.ErrAuthentication,
				Message: fmt.Sprintf("credentials file is missing %s", key),
				Hint:    "run the authorization flow to populate the credentials file",
			}
		}
	}

	token := models.Token{
		AccessToken:  env[keyAccessToken],
		RefreshToken: env[keyRefreshToken],
	}
	if raw := env[keyExpiresAt]; raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			token.ExpiresAt = time.Unix(unix, 0)
		}
	}

	return env, token, nil
}

// write rewrites the credentials file atomically, preserving keys it does not
// manage.
func (s *FileSource) write(env map[string]string, token models.Token) error {
	updated := make(map[string]string, len(env))
	for k, v := range env {
		updated[k] = v
	}
	updated[keyAccessToken] = token.AccessToken
	updated[keyRefreshToken] = token.RefreshToken
	if !token.ExpiresAt.IsZero() {
		updated[keyExpiresAt] = strconv.FormatInt(token.ExpiresAt.Unix(), 10)
	}

	content, err := godotenv.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("failed to create temp credentials file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content + "\n"); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp credentials file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp credentials file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace credentials file: %w", err)
	}
	return nil
}
