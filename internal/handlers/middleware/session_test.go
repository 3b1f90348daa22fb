package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/handlers/sessionctx"
	"stravamcp/internal/models"
)

type fakeResolver struct {
	session models.Session
	err     error
	bearer  string
}

func (f *fakeResolver) Resolve(_ context.Context, bearer string) (models.Session, error) {
	f.bearer = bearer
	if f.err != nil {
		return models.Session{}, f.err
	}
	return f.session, nil
}

func TestSessionMiddleware(t *testing.T) {
	echoSession := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionctx.FromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(session.ID))
	})

	t.Run("valid bearer passes session through", func(t *testing.T) {
		resolver := &fakeResolver{session: models.Session{ID: "s-1"}}
		handler := SessionMiddleware(resolver)(echoSession)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer the-bearer")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "s-1", rec.Body.String())
		assert.Equal(t, "the-bearer", resolver.bearer)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		handler := SessionMiddleware(&fakeResolver{})(echoSession)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong scheme rejected", func(t *testing.T) {
		handler := SessionMiddleware(&fakeResolver{})(echoSession)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwd2Q=")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired session rejected", func(t *testing.T) {
		resolver := &fakeResolver{err: apperrors.New(apperrors.ErrSessionExpired, "session expired")}
		handler := SessionMiddleware(resolver)(echoSession)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
