package strava

import (
	"context"
	"net/url"
	"strconv"

	"stravamcp/internal/models"
)

// ListActivities returns one page of the athlete's activities, newest first.
// Pages are 1-indexed.
func (c *Client) ListActivities(ctx context.Context, page int, perPage int) ([]models.SummaryActivity, error) {
	query := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}

	var activities []models.SummaryActivity
	if err := c.getJSON(ctx, "list_activities", "/athlete/activities", query, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (c *Client) GetActivity(ctx context.Context, activityID int64) (models.DetailedActivity, error) {
	var activity models.DetailedActivity
	err := c.getJSON(ctx, "get_activity", "/activities/"+strconv.FormatInt(activityID, 10), nil, &activity)
	return activity, err
}

func (c *Client) GetActivityLaps(ctx context.Context, activityID int64) ([]models.Lap, error) {
	var laps []models.Lap
	err := c.getJSON(ctx, "get_activity_laps", "/activities/"+strconv.FormatInt(activityID, 10)+"/laps", nil, &laps)
	if err != nil {
		return nil, err
	}
	return laps, nil
}

func (c *Client) GetActivityZones(ctx context.Context, activityID int64) ([]models.ActivityZone, error) {
	var zones []models.ActivityZone
	err := c.getJSON(ctx, "get_activity_zones", "/activities/"+strconv.FormatInt(activityID, 10)+"/zones", nil, &zones)
	if err != nil {
		return nil, err
	}
	return zones, nil
}
