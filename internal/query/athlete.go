package query

import (
	"context"

	"stravamcp/internal/models"
)

type AthleteParams struct {
	// Include lifetime and year-to-date totals
	IncludeStats bool `json:"include_stats"`

	// Include heart rate and power zones, power requires a subscription
	IncludeZones bool `json:"include_zones"`
}

type AthleteResult struct {
	Athlete models.Athlete       `json:"athlete"`
	Stats   *models.AthleteStats `json:"stats,omitempty"`
	Zones   *models.Zones        `json:"zones,omitempty"`
}

// Athlete answers the athlete query: the authenticated athlete's profile,
// optionally with totals and training zones.
func (s *Service) Athlete(ctx context.Context, params AthleteParams) (AthleteResult, error) {
	if err := validateParams(params); err != nil {
		return AthleteResult{}, err
	}

	athlete, err := s.api.GetAthlete(ctx)
	if err != nil {
		return AthleteResult{}, err
	}

	result := AthleteResult{Athlete: athlete}

	if params.IncludeStats {
		stats, err := s.api.GetAthleteStats(ctx, athlete.ID)
		if err != nil {
			return AthleteResult{}, err
		}
		result.Stats = &stats
	}

	if params.IncludeZones {
		zones, err := s.api.GetAthleteZones(ctx)
		if err != nil {
			return AthleteResult{}, err
		}
		result.Zones = &zones
	}

	return result, nil
}
