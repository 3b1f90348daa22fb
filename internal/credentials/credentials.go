// Package credentials supplies Strava token pairs to the API client and
// keeps them fresh. Two backings exist: a local dotenv file for single user
// mode and the session store for multi user mode. Both serialize refreshes
// so a burst of expired requests results in exactly one upstream exchange.
package credentials

import (
	"context"
	"sync"

	"stravamcp/internal/models"
)

// Refresher exchanges a refresh token at the upstream token endpoint
type Refresher interface {
	Refresh(ctx context.Context, clientID, clientSecret, refreshToken string) (models.Token, error)
}

// refreshGroup collapses concurrent refreshes for the same key into one
// upstream call. Later callers wait for the first one and share its result.
type refreshGroup struct {
	mu    sync.Mutex
	calls map[string]*refreshCall
}

type refreshCall struct {
	done  chan struct{}
	token models.Token
	err   error
}

func newRefreshGroup() *refreshGroup {
	return &refreshGroup{calls: make(map[string]*refreshCall)}
}

func (g *refreshGroup) do(ctx context.Context, key string, fn func() (models.Token, error)) (models.Token, error) {
	g.mu.Lock()
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		select {
		case <-c.done:
			return c.token, c.err
		case <-ctx.Done():
			return models.Token{}, ctx.Err()
		}
	}

	c := &refreshCall{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	c.token, c.err = fn()
	close(c.done)

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()

	return c.token, c.err
}
