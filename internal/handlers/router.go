package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"stravamcp/internal/handlers/middleware"
	"stravamcp/internal/logger"
	"stravamcp/internal/metrics"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type RouterOpts struct {
	Queries QueryProvider

	// Session endpoints and auth are mounted only in multi user mode
	Sessions sessionService
	Resolver middleware.SessionResolver

	Gatherer prometheus.Gatherer
	Logger   logger.Logger
}

func NewRouter(opts RouterOpts) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOp()
	}

	withAuth := func(h http.Handler) http.Handler { return h }
	if opts.Resolver != nil {
		authMiddleware := middleware.SessionMiddleware(opts.Resolver)
		withAuth = func(h http.Handler) http.Handler {
			return authMiddleware(h)
		}
	}

	api := http.NewServeMux()

	if opts.Sessions != nil {
		api.Handle("POST /sessions", handleCreateSession(opts.Sessions, log))
		api.Handle("DELETE /sessions", handleRevokeSession(opts.Sessions, log))
	}

	api.Handle("POST /query/activities", withAuth(handleQueryActivities(opts.Queries, log)))
	api.Handle("POST /query/segments", withAuth(handleQuerySegments(opts.Queries, log)))
	api.Handle("POST /query/routes", withAuth(handleQueryRoutes(opts.Queries, log)))
	api.Handle("POST /query/athlete", withAuth(handleQueryAthlete(opts.Queries, log)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	if opts.Gatherer != nil {
		root.Handle("GET /metrics", metrics.Handler(opts.Gatherer))
	}

	return chain(root,
		middleware.LoggerMiddleware(log),
	)
}
