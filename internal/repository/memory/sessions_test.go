package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/models"
)

func newSession(id string) models.Session {
	return models.Session{
		ID: id,
		Token: models.Token{
			AccessToken:  "access-" + id,
			RefreshToken: "refresh-" + id,
		},
	}
}

func Test_SessionRepo(t *testing.T) {
	t.Run("create and get", func(t *testing.T) {
		repo := NewSessionRepo(0)

		created, err := repo.Create(t.Context(), newSession("s-1"))
		require.NoError(t, err)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Equal(t, created.CreatedAt, created.LastSeenAt)

		got, err := repo.Get(t.Context(), "s-1")
		require.NoError(t, err)
		assert.Equal(t, "access-s-1", got.Token.AccessToken)
	})

	t.Run("create duplicate", func(t *testing.T) {
		repo := NewSessionRepo(0)
		_, err := repo.Create(t.Context(), newSession("s-1"))
		require.NoError(t, err)

		_, err = repo.Create(t.Context(), newSession("s-1"))

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrSessionExists)
	})

	t.Run("get absent", func(t *testing.T) {
		repo := NewSessionRepo(0)

		_, err := repo.Get(t.Context(), "missing")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})

	t.Run("get expired", func(t *testing.T) {
		repo := NewSessionRepo(12 * time.Hour)
		session := newSession("s-1")
		session.CreatedAt = time.Now().Add(-13 * time.Hour)
		session.LastSeenAt = session.CreatedAt
		_, err := repo.Create(t.Context(), session)
		require.NoError(t, err)

		_, err = repo.Get(t.Context(), "s-1")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
	})

	t.Run("touch extends ttl window", func(t *testing.T) {
		repo := NewSessionRepo(12 * time.Hour)
		session := newSession("s-1")
		session.CreatedAt = time.Now().Add(-13 * time.Hour)
		session.LastSeenAt = session.CreatedAt
		_, err := repo.Create(t.Context(), session)
		require.NoError(t, err)

		require.NoError(t, repo.Touch(t.Context(), "s-1", time.Now()))

		_, err = repo.Get(t.Context(), "s-1")
		require.NoError(t, err)
	})

	t.Run("touch never moves last seen backwards", func(t *testing.T) {
		repo := NewSessionRepo(0)
		_, err := repo.Create(t.Context(), newSession("s-1"))
		require.NoError(t, err)
		before, err := repo.Get(t.Context(), "s-1")
		require.NoError(t, err)

		require.NoError(t, repo.Touch(t.Context(), "s-1", before.LastSeenAt.Add(-time.Hour)))

		after, err := repo.Get(t.Context(), "s-1")
		require.NoError(t, err)
		assert.Equal(t, before.LastSeenAt, after.LastSeenAt)
	})

	t.Run("update token", func(t *testing.T) {
		repo := NewSessionRepo(0)
		_, err := repo.Create(t.Context(), newSession("s-1"))
		require.NoError(t, err)

		err = repo.UpdateToken(t.Context(), "s-1", models.Token{AccessToken: "rotated", RefreshToken: "rotated-r"})

		require.NoError(t, err)
		got, err := repo.Get(t.Context(), "s-1")
		require.NoError(t, err)
		assert.Equal(t, "rotated", got.Token.AccessToken)
	})

	t.Run("update token bumps last seen", func(t *testing.T) {
		repo := NewSessionRepo(0)
		session := newSession("s-1")
		session.LastSeenAt = time.Now().Add(-time.Hour)
		_, err := repo.Create(t.Context(), session)
		require.NoError(t, err)

		err = repo.UpdateToken(t.Context(), "s-1", models.Token{AccessToken: "rotated"})

		require.NoError(t, err)
		got, err := repo.Get(t.Context(), "s-1")
		require.NoError(t, err)
		assert.True(t, got.LastSeenAt.After(session.LastSeenAt))
	})

	t.Run("update token absent session", func(t *testing.T) {
		repo := NewSessionRepo(0)

		err := repo.UpdateToken(t.Context(), "missing", models.Token{AccessToken: "x"})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo := NewSessionRepo(0)
		_, err := repo.Create(t.Context(), newSession("s-1"))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(t.Context(), "s-1"))

		_, err = repo.Get(t.Context(), "s-1")
		assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

		err = repo.Delete(t.Context(), "s-1")
		assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})

	t.Run("delete expired sweeps stale sessions only", func(t *testing.T) {
		repo := NewSessionRepo(0)
		stale := newSession("stale")
		stale.CreatedAt = time.Now().Add(-24 * time.Hour)
		stale.LastSeenAt = stale.CreatedAt
		_, err := repo.Create(t.Context(), stale)
		require.NoError(t, err)
		_, err = repo.Create(t.Context(), newSession("fresh"))
		require.NoError(t, err)

		removed, err := repo.DeleteExpired(t.Context(), time.Now().Add(-12*time.Hour))

		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		count, err := repo.Count(t.Context())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("concurrent access", func(t *testing.T) {
		repo := NewSessionRepo(0)

		var wg sync.WaitGroup
		for range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id := uuid.NewString()
				_, err := repo.Create(t.Context(), newSession(id))
				assert.NoError(t, err)
				_, err = repo.Get(t.Context(), id)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		count, err := repo.Count(t.Context())
		require.NoError(t, err)
		assert.Equal(t, int64(32), count)
	})
}
