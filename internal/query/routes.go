package query

import (
	"context"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/filter"
	"stravamcp/internal/models"
	"stravamcp/internal/pagination"
)

const defaultRouteLimit = 50

type RoutesParams struct {
	// Single route lookup
	RouteID *int64 `json:"route_id"`

	// Substring match on the route name, case-insensitive
	TitleContains string `json:"title_contains"`

	Limit  int    `json:"limit" validate:"omitempty,min=1,max=200"`
	Cursor string `json:"cursor"`
}

type RoutesResult struct {
	Route      *models.Route  `json:"route,omitempty"`
	Routes     []models.Route `json:"routes,omitempty"`
	HasMore    bool           `json:"has_more"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// Routes answers the routes query: a single lookup when an id is given,
// otherwise the athlete's own routes.
func (s *Service) Routes(ctx context.Context, params RoutesParams) (RoutesResult, error) {
	if err := validateParams(params); err != nil {
		return RoutesResult{}, err
	}

	if params.RouteID != nil {
		route, err := s.api.GetRoute(ctx, *params.RouteID)
		if err != nil {
			return RoutesResult{}, err
		}
		return RoutesResult{Route: &route}, nil
	}

	filters, err := filter.New("", params.TitleContains, nil)
	if err != nil {
		return RoutesResult{}, apperrors.Wrap(apperrors.ErrInvalidFilter, "failed to parse route filters", err)
	}

	pageIndex, err := pagination.ResolvePage(params.Cursor, filters)
	if err != nil {
		return RoutesResult{}, err
	}

	// Listing routes is scoped by athlete id upstream
	athlete, err := s.api.GetAthlete(ctx)
	if err != nil {
		return RoutesResult{}, err
	}

	limit := params.Limit
	if limit == 0 {
		limit = defaultRouteLimit
	}

	page, err := pagination.Collect(ctx, pagination.Request{
		PageIndex: pageIndex,
		PageSize:  limit,
		Filters:   filters,
	}, func(ctx context.Context, p, perPage int) ([]models.Route, error) {
		return s.api.ListRoutes(ctx, athlete.ID, p, perPage)
	}, func(r models.Route) bool {
		return filters.MatchesTitle(r.Name)
	})
	if err != nil {
		return RoutesResult{}, err
	}

	return RoutesResult{
		Routes:     page.Items,
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
	}, nil
}
