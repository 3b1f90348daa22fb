package strava

import (
	"context"
	"strconv"

	"stravamcp/internal/models"
)

func (c *Client) GetAthlete(ctx context.Context) (models.Athlete, error) {
	var athlete models.Athlete
	err := c.getJSON(ctx, "get_athlete", "/athlete", nil, &athlete)
	return athlete, err
}

func (c *Client) GetAthleteStats(ctx context.Context, athleteID int64) (models.AthleteStats, error) {
	var stats models.AthleteStats
	err := c.getJSON(ctx, "get_athlete_stats", "/athletes/"+strconv.FormatInt(athleteID, 10)+"/stats", nil, &stats)
	return stats, err
}

// GetAthleteZones requires a subscription for power zones. Heart rate zones
// are returned for any athlete.
func (c *Client) GetAthleteZones(ctx context.Context) (models.Zones, error) {
	var zones models.Zones
	err := c.getJSON(ctx, "get_athlete_zones", "/athlete/zones", nil, &zones)
	return zones, err
}
