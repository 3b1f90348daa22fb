package query

import (
	"context"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/filter"
	"stravamcp/internal/models"
	"stravamcp/internal/pagination"
)

const (
	defaultActivityLimit         = 10
	defaultDetailedActivityLimit = 5
)

type ActivitiesParams struct {
	// Single activity lookup, everything below except the include flags is
	// ignored when set
	ActivityID *int64 `json:"activity_id"`

	// Distance filter: a value with unit ("5km"), a named race ("marathon")
	// or an explicit range ("5km:10km")
	Distance      string `json:"distance"`
	TitleContains string `json:"title_contains"`
	IsRace        *bool  `json:"is_race"`

	// Exact activity type ("Run", "Ride"). Matched verbatim against the
	// upstream type field; not part of the cursor filter set, so changing
	// it between pages does not invalidate a cursor.
	ActivityType string `json:"activity_type"`

	Limit  int    `json:"limit" validate:"omitempty,min=1,max=50"`
	Cursor string `json:"cursor"`

	// Fetch the detailed record for every listed activity. Expensive: one
	// upstream call per activity, so the default limit drops.
	IncludeDetails bool `json:"include_details"`

	IncludeLaps  bool `json:"include_laps"`
	IncludeZones bool `json:"include_zones"`
}

type ActivityDetail struct {
	models.DetailedActivity
	Laps  []models.Lap          `json:"laps,omitempty"`
	Zones []models.ActivityZone `json:"zones,omitempty"`
}

type ActivitiesResult struct {
	// Set for single activity lookups
	Activity *ActivityDetail `json:"activity,omitempty"`

	// Set for list queries
	Activities []models.SummaryActivity `json:"activities,omitempty"`
	Details    []ActivityDetail         `json:"details,omitempty"`
	HasMore    bool                     `json:"has_more"`
	NextCursor string                   `json:"next_cursor,omitempty"`
}

// Activities answers the activities query: a single lookup when an id is
// given, otherwise a filtered paginated listing.
func (s *Service) Activities(ctx context.Context, params ActivitiesParams) (ActivitiesResult, error) {
	if err := validateParams(params); err != nil {
		return ActivitiesResult{}, err
	}

	if params.ActivityID != nil {
		return s.getActivity(ctx, *params.ActivityID, params.IncludeLaps, params.IncludeZones)
	}
	return s.listActivities(ctx, params)
}

func (s *Service) getActivity(ctx context.Context, activityID int64, includeLaps, includeZones bool) (ActivitiesResult, error) {
	activity, err := s.api.GetActivity(ctx, activityID)
	if err != nil {
		return ActivitiesResult{}, err
	}

	detail := ActivityDetail{DetailedActivity: activity}
	if includeLaps {
		if detail.Laps, err = s.api.GetActivityLaps(ctx, activityID); err != nil {
			return ActivitiesResult{}, err
		}
	}
	if includeZones {
		if detail.Zones, err = s.api.GetActivityZones(ctx, activityID); err != nil {
			return ActivitiesResult{}, err
		}
	}

	return ActivitiesResult{Activity: &detail}, nil
}

func (s *Service) listActivities(ctx context.Context, params ActivitiesParams) (ActivitiesResult, error) {
	filters, err := filter.New(params.Distance, params.TitleContains, params.IsRace)
	if err != nil {
		return ActivitiesResult{}, apperrors.Wrap(apperrors.ErrInvalidFilter, "failed to parse activity filters", err)
	}

	pageIndex, err := pagination.ResolvePage(params.Cursor, filters)
	if err != nil {
		return ActivitiesResult{}, err
	}

	limit := params.Limit
	if limit == 0 {
		limit = defaultActivityLimit
		if params.IncludeDetails {
			limit = defaultDetailedActivityLimit
		}
	}

	match := filters.Matches
	if params.ActivityType != "" {
		match = func(a models.SummaryActivity) bool {
			return a.Type == params.ActivityType && filters.Matches(a)
		}
	}

	page, err := pagination.Collect(ctx, pagination.Request{
		PageIndex: pageIndex,
		PageSize:  limit,
		Filters:   filters,
		Filtered:  params.ActivityType != "",
	}, s.api.ListActivities, match)
	if err != nil {
		return ActivitiesResult{}, err
	}

	result := ActivitiesResult{
		Activities: page.Items,
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
	}

	if params.IncludeDetails {
		result.Details = make([]ActivityDetail, 0, len(page.Items))
		for _, summary := range page.Items {
			detail, err := s.getActivity(ctx, summary.ID, params.IncludeLaps, params.IncludeZones)
			if err != nil {
				return ActivitiesResult{}, err
			}
			result.Details = append(result.Details, *detail.Activity)
		}
	}

	return result, nil
}
