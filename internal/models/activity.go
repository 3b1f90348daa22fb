package models

import "time"

// SummaryActivity is one item of the upstream activity list endpoint.
// Distance is meters, times are seconds. WorkoutType is nil when the athlete
// never tagged the activity; the race markers live in the filter package.
type SummaryActivity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type,omitempty"`
	WorkoutType        *int      `json:"workout_type"`
	Distance           float64   `json:"distance"`
	MovingTime         int       `json:"moving_time"`
	ElapsedTime        int       `json:"elapsed_time"`
	TotalElevationGain float64   `json:"total_elevation_gain"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     time.Time `json:"start_date_local"`
	Timezone           string    `json:"timezone,omitempty"`
	AverageSpeed       float64   `json:"average_speed,omitempty"`
	MaxSpeed           float64   `json:"max_speed,omitempty"`
	AverageHeartrate   float64   `json:"average_heartrate,omitempty"`
	MaxHeartrate       float64   `json:"max_heartrate,omitempty"`
	KudosCount         int       `json:"kudos_count,omitempty"`
	AchievementCount   int       `json:"achievement_count,omitempty"`
	Trainer            bool      `json:"trainer,omitempty"`
	Commute            bool      `json:"commute,omitempty"`
	Manual             bool      `json:"manual,omitempty"`
	Private            bool      `json:"private,omitempty"`
	GearID             string    `json:"gear_id,omitempty"`
}

// DetailedActivity is the single-activity endpoint payload
type DetailedActivity struct {
	SummaryActivity

	Description          string  `json:"description,omitempty"`
	Calories             float64 `json:"calories,omitempty"`
	DeviceName           string  `json:"device_name,omitempty"`
	AverageWatts         float64 `json:"average_watts,omitempty"`
	WeightedAverageWatts int     `json:"weighted_average_watts,omitempty"`
	Kilojoules           float64 `json:"kilojoules,omitempty"`
	MaxWatts             int     `json:"max_watts,omitempty"`
	ElevHigh             float64 `json:"elev_high,omitempty"`
	ElevLow              float64 `json:"elev_low,omitempty"`
	HasKudoed            bool    `json:"has_kudoed,omitempty"`
}

type Lap struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name,omitempty"`
	LapIndex         int       `json:"lap_index,omitempty"`
	ElapsedTime      int       `json:"elapsed_time"`
	MovingTime       int       `json:"moving_time"`
	StartDate        time.Time `json:"start_date"`
	Distance         float64   `json:"distance"`
	AverageSpeed     float64   `json:"average_speed,omitempty"`
	MaxSpeed         float64   `json:"max_speed,omitempty"`
	AverageHeartrate float64   `json:"average_heartrate,omitempty"`
	MaxHeartrate     float64   `json:"max_heartrate,omitempty"`
	AverageWatts     float64   `json:"average_watts,omitempty"`
}

type TimedZoneRange struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Time int `json:"time,omitempty"`
}

// ActivityZone is heart rate or power distribution for one activity
type ActivityZone struct {
	Type                string           `json:"type"`
	Score               int              `json:"score,omitempty"`
	SensorBased         bool             `json:"sensor_based,omitempty"`
	Points              int              `json:"points,omitempty"`
	CustomZones         bool             `json:"custom_zones,omitempty"`
	DistributionBuckets []TimedZoneRange `json:"distribution_buckets,omitempty"`
}
