package models

import "time"

type Athlete struct {
	ID                    int64     `json:"id"`
	Username              string    `json:"username,omitempty"`
	Firstname             string    `json:"firstname,omitempty"`
	Lastname              string    `json:"lastname,omitempty"`
	City                  string    `json:"city,omitempty"`
	State                 string    `json:"state,omitempty"`
	Country               string    `json:"country,omitempty"`
	Sex                   string    `json:"sex,omitempty"`
	Premium               bool      `json:"premium,omitempty"`
	Summit                bool      `json:"summit,omitempty"`
	Weight                float64   `json:"weight,omitempty"`
	FTP                   int       `json:"ftp,omitempty"`
	MeasurementPreference string    `json:"measurement_preference,omitempty"`
	CreatedAt             time.Time `json:"created_at,omitzero"`
	UpdatedAt             time.Time `json:"updated_at,omitzero"`
}

// ActivityTotals aggregates one activity type over one period
type ActivityTotals struct {
	Count         int     `json:"count"`
	Distance      float64 `json:"distance"`
	MovingTime    int     `json:"moving_time"`
	ElapsedTime   int     `json:"elapsed_time"`
	ElevationGain float64 `json:"elevation_gain"`
}

type AthleteStats struct {
	BiggestRideDistance       float64        `json:"biggest_ride_distance,omitempty"`
	BiggestClimbElevationGain float64        `json:"biggest_climb_elevation_gain,omitempty"`
	RecentRideTotals          ActivityTotals `json:"recent_ride_totals"`
	RecentRunTotals           ActivityTotals `json:"recent_run_totals"`
	RecentSwimTotals          ActivityTotals `json:"recent_swim_totals"`
	YTDRideTotals             ActivityTotals `json:"ytd_ride_totals"`
	YTDRunTotals              ActivityTotals `json:"ytd_run_totals"`
	YTDSwimTotals             ActivityTotals `json:"ytd_swim_totals"`
	AllRideTotals             ActivityTotals `json:"all_ride_totals"`
	AllRunTotals              ActivityTotals `json:"all_run_totals"`
	AllSwimTotals             ActivityTotals `json:"all_swim_totals"`
}

type ZoneRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type HeartRateZones struct {
	CustomZones bool        `json:"custom_zones"`
	Zones       []ZoneRange `json:"zones"`
}

type PowerZones struct {
	Zones []ZoneRange `json:"zones"`
}

// Zones is the athlete training zones endpoint payload
type Zones struct {
	HeartRate *HeartRateZones `json:"heart_rate,omitempty"`
	Power     *PowerZones     `json:"power,omitempty"`
}
