package models

import "time"

type SummarySegment struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	ActivityType  string  `json:"activity_type"`
	Distance      float64 `json:"distance"`
	AverageGrade  float64 `json:"average_grade"`
	MaximumGrade  float64 `json:"maximum_grade"`
	ElevationHigh float64 `json:"elevation_high"`
	ElevationLow  float64 `json:"elevation_low"`
	ClimbCategory int     `json:"climb_category"`
	City          string  `json:"city,omitempty"`
	State         string  `json:"state,omitempty"`
	Country       string  `json:"country,omitempty"`
	Private       bool    `json:"private"`
	Hazardous     bool    `json:"hazardous,omitempty"`
	Starred       bool    `json:"starred,omitempty"`
}

type DetailedSegment struct {
	SummarySegment

	TotalElevationGain float64   `json:"total_elevation_gain,omitempty"`
	EffortCount        int       `json:"effort_count,omitempty"`
	AthleteCount       int       `json:"athlete_count,omitempty"`
	StarCount          int       `json:"star_count,omitempty"`
	CreatedAt          time.Time `json:"created_at,omitzero"`
	UpdatedAt          time.Time `json:"updated_at,omitzero"`
}

type SegmentEffort struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	ElapsedTime      int             `json:"elapsed_time"`
	MovingTime       int             `json:"moving_time"`
	StartDate        time.Time       `json:"start_date"`
	StartDateLocal   time.Time       `json:"start_date_local"`
	Distance         float64         `json:"distance"`
	AverageHeartrate float64         `json:"average_heartrate,omitempty"`
	MaxHeartrate     float64         `json:"max_heartrate,omitempty"`
	AverageWatts     float64         `json:"average_watts,omitempty"`
	KomRank          *int            `json:"kom_rank"`
	PRRank           *int            `json:"pr_rank"`
	Segment          *SummarySegment `json:"segment,omitempty"`
}

type LeaderboardEntry struct {
	AthleteName string    `json:"athlete_name"`
	ElapsedTime int       `json:"elapsed_time"`
	MovingTime  int       `json:"moving_time"`
	StartDate   time.Time `json:"start_date"`
	Rank        int       `json:"rank"`
}

// SegmentLeaderboard is the only paged upstream payload that is an object
// rather than a bare array
type SegmentLeaderboard struct {
	EntryCount int                `json:"entry_count"`
	Entries    []LeaderboardEntry `json:"entries"`
}
