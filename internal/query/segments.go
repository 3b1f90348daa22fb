package query

import (
	"context"

	"stravamcp/internal/filter"
	"stravamcp/internal/models"
	"stravamcp/internal/pagination"
)

const defaultSegmentLimit = 50

type SegmentsParams struct {
	// Single segment lookup
	SegmentID *int64 `json:"segment_id"`

	// Include recent efforts on the segment, requires a subscription
	IncludeEfforts bool `json:"include_efforts"`

	// Include the segment leaderboard
	IncludeLeaderboard bool `json:"include_leaderboard"`

	Limit  int    `json:"limit" validate:"omitempty,min=1,max=200"`
	Cursor string `json:"cursor"`
}

type SegmentDetail struct {
	models.DetailedSegment
	Efforts     []models.SegmentEffort     `json:"efforts,omitempty"`
	Leaderboard *models.SegmentLeaderboard `json:"leaderboard,omitempty"`
}

type SegmentsResult struct {
	// Set for single segment lookups
	Segment *SegmentDetail `json:"segment,omitempty"`

	// The athlete's starred segments otherwise
	Segments   []models.SummarySegment `json:"segments,omitempty"`
	HasMore    bool                    `json:"has_more"`
	NextCursor string                  `json:"next_cursor,omitempty"`
}

// Segments answers the segments query: a single lookup when an id is given,
// otherwise the athlete's starred segments.
func (s *Service) Segments(ctx context.Context, params SegmentsParams) (SegmentsResult, error) {
	if err := validateParams(params); err != nil {
		return SegmentsResult{}, err
	}

	limit := params.Limit
	if limit == 0 {
		limit = defaultSegmentLimit
	}

	if params.SegmentID == nil {
		return s.listStarredSegments(ctx, params.Cursor, limit)
	}

	segment, err := s.api.GetSegment(ctx, *params.SegmentID)
	if err != nil {
		return SegmentsResult{}, err
	}

	detail := SegmentDetail{DetailedSegment: segment}
	if params.IncludeEfforts {
		if detail.Efforts, err = s.api.ListSegmentEfforts(ctx, *params.SegmentID, 1, limit); err != nil {
			return SegmentsResult{}, err
		}
	}
	if params.IncludeLeaderboard {
		leaderboard, err := s.api.GetSegmentLeaderboard(ctx, *params.SegmentID, limit)
		if err != nil {
			return SegmentsResult{}, err
		}
		detail.Leaderboard = &leaderboard
	}

	return SegmentsResult{Segment: &detail}, nil
}

func (s *Service) listStarredSegments(ctx context.Context, cursor string, limit int) (SegmentsResult, error) {
	pageIndex, err := pagination.ResolvePage(cursor, filter.Spec{})
	if err != nil {
		return SegmentsResult{}, err
	}

	page, err := pagination.Collect(ctx, pagination.Request{
		PageIndex: pageIndex,
		PageSize:  limit,
	}, s.api.ListStarredSegments, func(models.SummarySegment) bool { return true })
	if err != nil {
		return SegmentsResult{}, err
	}

	return SegmentsResult{
		Segments:   page.Items,
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
	}, nil
}
