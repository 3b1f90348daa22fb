package models

import "time"

type Route struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	Distance            float64   `json:"distance"`
	ElevationGain       float64   `json:"elevation_gain"`
	Type                int       `json:"type,omitempty"`
	SubType             int       `json:"sub_type,omitempty"`
	Private             bool      `json:"private,omitempty"`
	Starred             bool      `json:"starred,omitempty"`
	EstimatedMovingTime int       `json:"estimated_moving_time,omitempty"`
	CreatedAt           time.Time `json:"created_at,omitzero"`
	UpdatedAt           time.Time `json:"updated_at,omitzero"`
}
