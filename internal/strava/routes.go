package strava

import (
	"context"
	"net/url"
	"strconv"

	"stravamcp/internal/models"
)

func (c *Client) ListRoutes(ctx context.Context, athleteID int64, page int, perPage int) ([]models.Route, error) {
	query := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}

	var routes []models.Route
	if err := c.getJSON(ctx, "list_routes", "/athletes/"+strconv.FormatInt(athleteID, 10)+"/routes", query, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

func (c *Client) GetRoute(ctx context.Context, routeID int64) (models.Route, error) {
	var route models.Route
	err := c.getJSON(ctx, "get_route", "/routes/"+strconv.FormatInt(routeID, 10), nil, &route)
	return route, err
}
