package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/metrics"
	"stravamcp/internal/models"
)

const DefaultTokenURL = "https://www.strava.com/oauth/token"

// OAuthClient exchanges authorization codes and refresh tokens at the
// upstream token endpoint.
type OAuthClient struct {
	tokenURL string
	client   *http.Client
	metrics  *metrics.Metrics
}

func NewOAuthClient(tokenURL string, m *metrics.Metrics) *OAuthClient {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &OAuthClient{
		tokenURL: tokenURL,
		client:   &http.Client{},
		metrics:  m,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Refresh trades a refresh token for a fresh token pair
func (c *OAuthClient) Refresh(ctx context.Context, clientID, clientSecret, refreshToken string) (models.Token, error) {
	form := url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	token, err := c.exchange(ctx, form)
	c.metrics.ObserveTokenRefresh(err == nil)
	return token, err
}

// Exchange trades a one-time authorization code for a token pair
func (c *OAuthClient) Exchange(ctx context.Context, clientID, clientSecret, code string) (models.Token, error) {
	form := url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"grant_type":    {"authorization_code"},
		"code":          {code},
	}

	return c.exchange(ctx, form)
}

func (c *OAuthClient) exchange(ctx context.Context, form url.Values) (models.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return models.Token{}, apperrors.Wrap(apperrors.ErrTransport, "failed to create token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Token{}, apperrors.Wrap(apperrors.ErrTransport, "failed to send token request", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
		var tr tokenResponse
		if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
			return models.Token{}, apperrors.Wrap(apperrors.ErrSchema, "failed to decode token response", err)
		}
		if tr.AccessToken == "" || tr.RefreshToken == "" {
			return models.Token{}, apperrors.New(apperrors.ErrSchema, "token response is missing token fields")
		}
		return models.Token{
			AccessToken:  tr.AccessToken,
			RefreshToken: tr.RefreshToken,
			ExpiresAt:    time.Unix(tr.ExpiresAt, 0),
		}, nil
	case http.StatusBadRequest, http.StatusUnauthorized:
		return models.Token{}, &apperrors.Error{
			Kind:    apperrors.ErrAuthentication,
			Message: fmt.Sprintf("token endpoint rejected the grant with status %d", resp.StatusCode),
			Hint:    "reauthorize the application to obtain fresh credentials",
		}
	case http.StatusTooManyRequests:
		return models.Token{}, &apperrors.Error{
			Kind:       apperrors.ErrRateLimited,
			Message:    "token endpoint rate limit exceeded",
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	default:
		return models.Token{}, apperrors.New(apperrors.ErrTransport, fmt.Sprintf("unexpected token endpoint status %d", resp.StatusCode))
	}
}
