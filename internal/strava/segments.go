package strava

import (
	"context"
	"net/url"
	"strconv"

	"stravamcp/internal/models"
)

func (c *Client) ListStarredSegments(ctx context.Context, page int, perPage int) ([]models.SummarySegment, error) {
	query := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}

	var segments []models.SummarySegment
	if err := c.getJSON(ctx, "list_starred_segments", "/segments/starred", query, &segments); err != nil {
		return nil, err
	}
	return segments, nil
}

func (c *Client) GetSegment(ctx context.Context, segmentID int64) (models.DetailedSegment, error) {
	var segment models.DetailedSegment
	err := c.getJSON(ctx, "get_segment", "/segments/"+strconv.FormatInt(segmentID, 10), nil, &segment)
	return segment, err
}

// ListSegmentEfforts requires a subscription
func (c *Client) ListSegmentEfforts(ctx context.Context, segmentID int64, page int, perPage int) ([]models.SegmentEffort, error) {
	query := url.Values{
		"segment_id": {strconv.FormatInt(segmentID, 10)},
		"page":       {strconv.Itoa(page)},
		"per_page":   {strconv.Itoa(perPage)},
	}

	var efforts []models.SegmentEffort
	if err := c.getJSON(ctx, "list_segment_efforts", "/segment_efforts", query, &efforts); err != nil {
		return nil, err
	}
	return efforts, nil
}

func (c *Client) GetSegmentLeaderboard(ctx context.Context, segmentID int64, perPage int) (models.SegmentLeaderboard, error) {
	query := url.Values{
		"per_page": {strconv.Itoa(perPage)},
	}

	var leaderboard models.SegmentLeaderboard
	err := c.getJSON(ctx, "get_segment_leaderboard", "/segments/"+strconv.FormatInt(segmentID, 10)+"/leaderboard", query, &leaderboard)
	return leaderboard, err
}
