package handlers

import (
	"context"
	"net/http"

	"stravamcp/internal/handlers/render"
	"stravamcp/internal/logger"
	"stravamcp/internal/query"
)

// QueryProvider yields the query service for one request. Single user mode
// always returns the same service; multi user mode builds one around the
// session found in the context.
type QueryProvider func(ctx context.Context) (*query.Service, error)

func handleQueryActivities(queries QueryProvider, log logger.Logger) http.Handler {
	return queryHandler(queries, log, func(ctx context.Context, svc *query.Service, params query.ActivitiesParams) (any, error) {
		return svc.Activities(ctx, params)
	})
}

func handleQuerySegments(queries QueryProvider, log logger.Logger) http.Handler {
	return queryHandler(queries, log, func(ctx context.Context, svc *query.Service, params query.SegmentsParams) (any, error) {
		return svc.Segments(ctx, params)
	})
}

func handleQueryRoutes(queries QueryProvider, log logger.Logger) http.Handler {
	return queryHandler(queries, log, func(ctx context.Context, svc *query.Service, params query.RoutesParams) (any, error) {
		return svc.Routes(ctx, params)
	})
}

func handleQueryAthlete(queries QueryProvider, log logger.Logger) http.Handler {
	return queryHandler(queries, log, func(ctx context.Context, svc *query.Service, params query.AthleteParams) (any, error) {
		return svc.Athlete(ctx, params)
	})
}

func queryHandler[P render.Struct](
	queries QueryProvider,
	log logger.Logger,
	run func(ctx context.Context, svc *query.Service, params P) (any, error),
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params, err := render.BindAndValidate[P](w, r)
		if err != nil {
			return
		}

		svc, err := queries(r.Context())
		if err != nil {
			log.Warn("Failed to resolve query service", "error", err)
			render.AppError(w, err)
			return
		}

		result, err := run(r.Context(), svc, params)
		if err != nil {
			log.Warn("Query failed", "uri", r.RequestURI, "error", err)
			render.AppError(w, err)
			return
		}

		render.JSON(w, result)
	})
}
