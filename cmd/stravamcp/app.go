package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/credentials"
	"stravamcp/internal/handlers"
	"stravamcp/internal/handlers/sessionctx"
	"stravamcp/internal/logger"
	"stravamcp/internal/metrics"
	"stravamcp/internal/query"
	"stravamcp/internal/repository"
	"stravamcp/internal/repository/memory"
	"stravamcp/internal/repository/postgres"
	"stravamcp/internal/service/session"
	"stravamcp/internal/service/session/tokenmanager"
	"stravamcp/internal/strava"
)

const sessionSweepInterval = time.Hour

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	// Background session sweeper, multi user mode only
	sweep func(ctx context.Context)
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(c.LogFormat, c.LogLevel)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	oauthClient := strava.NewOAuthClient(c.UpstreamTokenURL, m)

	// One limiter for all upstream traffic regardless of mode
	limiter := rate.NewLimiter(rate.Every(9*time.Second), 10)

	newClient := func(tokens strava.TokenSource) *strava.Client {
		return strava.NewClient(strava.Opts{
			BaseURL: c.UpstreamBaseURL,
			Tokens:  tokens,
			Limiter: limiter,
			Metrics: m,
			Logger:  log,
		})
	}

	app := &ServerApp{ListenAddr: c.ListenAddr}

	switch c.Mode {
	case ModeSingle:
		source := credentials.NewFileSource(c.CredentialsFile, oauthClient, log)
		queries := query.NewService(newClient(source), log)

		app.Handler = handlers.NewRouter(handlers.RouterOpts{
			Queries: func(context.Context) (*query.Service, error) {
				return queries, nil
			},
			Gatherer: registry,
			Logger:   log,
		})

	case ModeMulti:
		var repo repository.SessionRepo
		switch c.Store {
		case StorePostgres:
			pool, err := repository.ConnectAndMigrate(ctx, c.DatabaseDSN)
			if err != nil {
				return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
			}
			repo = postgres.NewSessionRepo(pool, c.SessionTTL)
		default:
			repo = memory.NewSessionRepo(c.SessionTTL)
		}

		tokens, err := tokenmanager.New(tokenmanager.Config{
			SecretKey: c.SecretKey,
			BearerTTL: c.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
		}

		sessions := session.NewService(session.Opts{
			Repo:         repo,
			Tokens:       tokens,
			Exchanger:    oauthClient,
			Metrics:      m,
			Logger:       log,
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			TTL:          c.SessionTTL,
		})

		manager := credentials.NewSessionManager(repo, oauthClient, c.ClientID, c.ClientSecret, log)

		app.Handler = handlers.NewRouter(handlers.RouterOpts{
			Queries: func(ctx context.Context) (*query.Service, error) {
				s, ok := sessionctx.FromContext(ctx)
				if !ok {
					return nil, apperrors.New(apperrors.ErrAuthentication, "no session bound to request")
				}
				return query.NewService(newClient(manager.Source(s.ID)), log), nil
			},
			Sessions: sessions,
			Resolver: sessions,
			Gatherer: registry,
			Logger:   log,
		})
		app.sweep = func(ctx context.Context) {
			sessions.RunSweeper(ctx, sessionSweepInterval)
		}
	}

	return app, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	if s.sweep != nil {
		go s.sweep(srvCtx)
	}

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
