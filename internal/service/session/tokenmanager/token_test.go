package tokenmanager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("requires secret key", func(t *testing.T) {
		_, err := New(Config{})

		require.Error(t, err)
	})

	t.Run("defaults applied", func(t *testing.T) {
		m, err := New(Config{SecretKey: "secret"})

		require.NoError(t, err)
		assert.Equal(t, "HS256", m.alg.Alg())
		assert.Equal(t, 12*time.Hour, m.bearerTTL)
	})
}

func TestIssueAndParseBearer(t *testing.T) {
	m, err := New(Config{SecretKey: "secret"})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		bearer, expiresAt, err := m.IssueBearer("session-1")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(12*time.Hour), expiresAt, time.Minute)

		sessionID, err := m.ParseBearer(bearer)

		require.NoError(t, err)
		assert.Equal(t, "session-1", sessionID)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		other, err := New(Config{SecretKey: "other-secret"})
		require.NoError(t, err)
		bearer, _, err := other.IssueBearer("session-1")
		require.NoError(t, err)

		_, err = m.ParseBearer(bearer)

		require.Error(t, err)
	})

	t.Run("expired bearer rejected", func(t *testing.T) {
		short, err := New(Config{SecretKey: "secret", BearerTTL: -time.Hour})
		require.NoError(t, err)
		bearer, _, err := short.IssueBearer("session-1")
		require.NoError(t, err)

		_, err = short.ParseBearer(bearer)

		require.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := m.ParseBearer("not-a-jwt")

		require.Error(t, err)
	})
}
