package strava

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/models"
)

// fakeTokens is a TokenSource with a scripted refresh outcome
type fakeTokens struct {
	mu       sync.Mutex
	token    models.Token
	refresh  models.Token
	failWith error
	refreshN int
}

func (f *fakeTokens) Token(context.Context) (models.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, nil
}

func (f *fakeTokens) Refresh(_ context.Context, _ models.Token) (models.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshN++
	if f.failWith != nil {
		return models.Token{}, f.failWith
	}
	f.token = f.refresh
	return f.refresh, nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Opts{
		BaseURL: server.URL,
		Tokens:  tokens,
		Limiter: rate.NewLimiter(rate.Inf, 1),
	})
}

func TestClientGetActivity(t *testing.T) {
	tokens := &fakeTokens{token: models.Token{AccessToken: "good"}}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activities/42", r.URL.Path)
		assert.Equal(t, "Bearer good", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 42, "name": "Morning Run", "type": "Run", "distance": 5012.5}`))
	}, tokens)

	activity, err := client.GetActivity(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, int64(42), activity.ID)
	assert.Equal(t, "Morning Run", activity.Name)
	assert.InDelta(t, 5012.5, activity.Distance, 0.001)
}

func TestClientRefreshesOnceOn401(t *testing.T) {
	tokens := &fakeTokens{
		token:   models.Token{AccessToken: "stale"},
		refresh: models.Token{AccessToken: "fresh"},
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id": 1, "name": "Ride"}]`))
	}, tokens)

	activities, err := client.ListActivities(context.Background(), 1, 10)

	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, 1, tokens.refreshN)
}

func TestClient401AfterRefresh(t *testing.T) {
	tokens := &fakeTokens{
		token:   models.Token{AccessToken: "stale"},
		refresh: models.Token{AccessToken: "still-bad"},
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, tokens)

	_, err := client.GetAthlete(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAuthentication)
	assert.Equal(t, 1, tokens.refreshN)
}

func TestClientRefreshFailure(t *testing.T) {
	tokens := &fakeTokens{
		token:    models.Token{AccessToken: "stale"},
		failWith: apperrors.New(apperrors.ErrAuthentication, "refresh token revoked"),
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, tokens)

	_, err := client.GetAthlete(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAuthentication)
}

func TestClientErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		header     http.Header
		wantErr    error
	}{
		{name: "payment required", statusCode: http.StatusPaymentRequired, wantErr: apperrors.ErrSubscriptionRequired},
		{name: "not found", statusCode: http.StatusNotFound, wantErr: apperrors.ErrNotFound},
		{name: "rate limited", statusCode: http.StatusTooManyRequests, wantErr: apperrors.ErrRateLimited},
		{name: "server error", statusCode: http.StatusInternalServerError, wantErr: apperrors.ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &fakeTokens{token: models.Token{AccessToken: "good"}}
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}, tokens)

			_, err := client.GetActivity(context.Background(), 1)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClientRetryAfterHint(t *testing.T) {
	tokens := &fakeTokens{token: models.Token{AccessToken: "good"}}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}, tokens)

	_, err := client.GetActivity(context.Background(), 1)

	require.ErrorIs(t, err, apperrors.ErrRateLimited)
	assert.Equal(t, 120*time.Second, apperrors.RetryAfterOf(err))
}

func TestClientSchemaError(t *testing.T) {
	tokens := &fakeTokens{token: models.Token{AccessToken: "good"}}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}, tokens)

	_, err := client.GetActivity(context.Background(), 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSchema)
}

func TestOAuthClientRefresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
			assert.Equal(t, "old-refresh", r.FormValue("refresh_token"))
			assert.Equal(t, "client-1", r.FormValue("client_id"))

			_, _ = w.Write([]byte(`{"access_token":"new-access","refresh_token":"new-refresh","expires_at":1756684800}`))
		}))
		t.Cleanup(server.Close)

		client := NewOAuthClient(server.URL, nil)
		token, err := client.Refresh(context.Background(), "client-1", "secret", "old-refresh")

		require.NoError(t, err)
		assert.Equal(t, "new-access", token.AccessToken)
		assert.Equal(t, "new-refresh", token.RefreshToken)
		assert.Equal(t, time.Unix(1756684800, 0), token.ExpiresAt)
	})

	t.Run("rejected grant", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		t.Cleanup(server.Close)

		client := NewOAuthClient(server.URL, nil)
		_, err := client.Refresh(context.Background(), "client-1", "secret", "revoked")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrAuthentication)
		assert.Contains(t, apperrors.HintOf(err), "reauthorize")
	})
}
