package credentials

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/models"
)

type fakeRefresher struct {
	token models.Token
	err   error
	calls int

	lastClientID     string
	lastClientSecret string
	lastRefreshToken string
}

func (f *fakeRefresher) Refresh(_ context.Context, clientID, clientSecret, refreshToken string) (models.Token, error) {
	f.calls++
	f.lastClientID = clientID
	f.lastClientSecret = clientSecret
	f.lastRefreshToken = refreshToken
	if f.err != nil {
		return models.Token{}, f.err
	}
	return f.token, nil
}

func writeCredentialsFile(t *testing.T, extra map[string]string) string {
	t.Helper()

	env := map[string]string{
		"STRAVA_CLIENT_ID":     "client-1",
		"STRAVA_CLIENT_SECRET": "secret-1",
		"STRAVA_ACCESS_TOKEN":  "access-old",
		"STRAVA_REFRESH_TOKEN": "refresh-old",
	}
	for k, v := range extra {
		env[k] = v
	}

	path := filepath.Join(t.TempDir(), ".credentials")
	require.NoError(t, godotenv.Write(env, path))
	return path
}

func TestFileSourceToken(t *testing.T) {
	t.Run("reads token pair", func(t *testing.T) {
		path := writeCredentialsFile(t, nil)
		source := NewFileSource(path, &fakeRefresher{}, nil)

		token, err := source.Token(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "access-old", token.AccessToken)
		assert.Equal(t, "refresh-old", token.RefreshToken)
	})

	t.Run("missing key reported as authentication error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".credentials")
		require.NoError(t, godotenv.Write(map[string]string{"STRAVA_CLIENT_ID": "client-1"}, path))
		source := NewFileSource(path, &fakeRefresher{}, nil)

		_, err := source.Token(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrAuthentication)
		assert.Contains(t, apperrors.HintOf(err), "authorization flow")
	})

	t.Run("missing file", func(t *testing.T) {
		source := NewFileSource(filepath.Join(t.TempDir(), "nope"), &fakeRefresher{}, nil)

		_, err := source.Token(context.Background())

		require.Error(t, err)
	})
}

func TestFileSourceRefresh(t *testing.T) {
	t.Run("persists rotated pair and preserves other keys", func(t *testing.T) {
		path := writeCredentialsFile(t, map[string]string{"UNRELATED_KEY": "keep-me"})
		refresher := &fakeRefresher{token: models.Token{AccessToken: "access-new", RefreshToken: "refresh-new"}}
		source := NewFileSource(path, refresher, nil)

		token, err := source.Refresh(context.Background(), models.Token{AccessToken: "access-old"})

		require.NoError(t, err)
		assert.Equal(t, "access-new", token.AccessToken)
		assert.Equal(t, "client-1", refresher.lastClientID)
		assert.Equal(t, "secret-1", refresher.lastClientSecret)
		assert.Equal(t, "refresh-old", refresher.lastRefreshToken)

		env, err := godotenv.Read(path)
		require.NoError(t, err)
		assert.Equal(t, "access-new", env["STRAVA_ACCESS_TOKEN"])
		assert.Equal(t, "refresh-new", env["STRAVA_REFRESH_TOKEN"])
		assert.Equal(t, "keep-me", env["UNRELATED_KEY"])
	})

	t.Run("already rotated token returned without upstream call", func(t *testing.T) {
		path := writeCredentialsFile(t, nil)
		refresher := &fakeRefresher{}
		source := NewFileSource(path, refresher, nil)

		// The caller brings a stale token that no longer matches the
		// file: someone else rotated it already.
		token, err := source.Refresh(context.Background(), models.Token{AccessToken: "even-older"})

		require.NoError(t, err)
		assert.Equal(t, "access-old", token.AccessToken)
		assert.Zero(t, refresher.calls)
	})

	t.Run("upstream failure leaves file untouched", func(t *testing.T) {
		path := writeCredentialsFile(t, nil)
		refresher := &fakeRefresher{err: apperrors.New(apperrors.ErrAuthentication, "refresh token revoked")}
		source := NewFileSource(path, refresher, nil)

		_, err := source.Refresh(context.Background(), models.Token{AccessToken: "access-old"})

		require.Error(t, err)
		env, readErr := godotenv.Read(path)
		require.NoError(t, readErr)
		assert.Equal(t, "access-old", env["STRAVA_ACCESS_TOKEN"])
	})

	t.Run("no leftover temp files", func(t *testing.T) {
		path := writeCredentialsFile(t, nil)
		refresher := &fakeRefresher{token: models.Token{AccessToken: "access-new", RefreshToken: "refresh-new"}}
		source := NewFileSource(path, refresher, nil)

		_, err := source.Refresh(context.Background(), models.Token{AccessToken: "access-old"})
		require.NoError(t, err)

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, filepath.Base(path), entries[0].Name())
	})
}
