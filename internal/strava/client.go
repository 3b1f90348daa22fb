package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/logger"
	"stravamcp/internal/metrics"
	"stravamcp/internal/models"
)

const (
	DefaultBaseURL = "https://www.strava.com/api/v3"

	requestTimeout    = 10 * time.Second
	defaultRetryAfter = 60 * time.Second
)

// TokenSource supplies the access token for upstream calls. Refresh is
// invoked at most once per request, with the token that just got rejected.
type TokenSource interface {
	Token(ctx context.Context) (models.Token, error)
	Refresh(ctx context.Context, stale models.Token) (models.Token, error)
}

type Client struct {
	baseURL string
	tokens  TokenSource

	client  *http.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  logger.Logger
}

type Opts struct {
	BaseURL string
	Tokens  TokenSource
	Limiter *rate.Limiter
	Metrics *metrics.Metrics
	Logger  logger.Logger
}

func NewClient(opts Opts) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limiter := opts.Limiter
	if limiter == nil {
		// Strava allows 100 requests per 15 minutes for most apps.
		limiter = rate.NewLimiter(rate.Every(9*time.Second), 10)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOp()
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  opts.Tokens,
		client:  &http.Client{},
		limiter: limiter,
		metrics: opts.Metrics,
		logger:  log,
	}
}

// getJSON performs an authenticated GET of path and decodes the body into
// dst. On 401 it refreshes the token once and retries the request; a second
// 401 is reported as an authentication failure.
func (c *Client) getJSON(ctx context.Context, endpoint string, path string, query url.Values, dst any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain access token: %w", err)
	}

	resp, err := c.do(ctx, endpoint, path, query, token.AccessToken)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)

		c.logger.Debug("Access token rejected, refreshing", "endpoint", endpoint)
		token, err = c.tokens.Refresh(ctx, token)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrAuthentication, "token refresh failed", err)
		}

		resp, err = c.do(ctx, endpoint, path, query, token.AccessToken)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close() // nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			c.logger.Warn("Failed to decode upstream response", "endpoint", endpoint, "error", err)
			return apperrors.Wrap(apperrors.ErrSchema, "failed to decode upstream response", err)
		}
		return nil
	case http.StatusUnauthorized:
		return apperrors.New(apperrors.ErrAuthentication, "access token rejected after refresh")
	case http.StatusPaymentRequired:
		return &apperrors.Error{
			Kind:    apperrors.ErrSubscriptionRequired,
			Message: "this resource requires a subscription",
			Hint:    "the feature is available to subscribed athletes only",
		}
	case http.StatusNotFound:
		return apperrors.New(apperrors.ErrNotFound, fmt.Sprintf("resource not found: %s", path))
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		c.logger.Warn("Upstream throttled", "endpoint", endpoint, "retry_after", retryAfter)
		return &apperrors.Error{
			Kind:       apperrors.ErrRateLimited,
			Message:    "upstream rate limit exceeded",
			Hint:       "wait before retrying",
			RetryAfter: retryAfter,
		}
	default:
		c.logger.Warn("Unexpected upstream status", "endpoint", endpoint, "status_code", resp.StatusCode)
		return apperrors.New(apperrors.ErrTransport, fmt.Sprintf("unexpected upstream status %d", resp.StatusCode))
	}
}

func (c *Client) do(ctx context.Context, endpoint string, path string, query url.Values, accessToken string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrTransport, "rate limiter wait interrupted", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrTransport, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.ObserveUpstreamRequest(endpoint, 0, time.Since(start))
		return nil, apperrors.Wrap(apperrors.ErrTransport, "failed to send request", err)
	}
	c.metrics.ObserveUpstreamRequest(endpoint, resp.StatusCode, time.Since(start))

	return resp, nil
}

func parseRetryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds < 0 {
		return defaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
