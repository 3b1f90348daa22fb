// Package filter evaluates query predicates the upstream API cannot express.
// Specs are applied client side, after fetching, record by record.
package filter

import (
	"strings"

	"stravamcp/internal/models"
)

// Race markers in the upstream workout type taxonomy. Activity types not
// listed here are never races.
var raceWorkoutTypes = map[string]int{
	"Run":  1,
	"Ride": 11,
}

// Spec is an immutable set of client-side predicates. A nil field imposes no
// constraint. Field order matters: it fixes the serialized form used inside
// pagination cursors.
type Spec struct {
	DistanceMin   *int    `json:"distance_min"`
	DistanceMax   *int    `json:"distance_max"`
	TitleContains *string `json:"title_contains"`
	IsRace        *bool   `json:"is_race"`
}

// New builds a Spec from raw tool arguments. distance uses the full grammar
// (named race distances, value+unit with tolerance, explicit "A:B" ranges);
// empty strings and nil leave the predicate unset.
func New(distance string, titleContains string, isRace *bool) (Spec, error) {
	var s Spec

	if distance != "" {
		r, err := ParseDistance(distance)
		if err != nil {
			return Spec{}, err
		}
		s.DistanceMin = r.Min
		s.DistanceMax = r.Max
	}

	if titleContains != "" {
		s.TitleContains = &titleContains
	}

	s.IsRace = isRace

	return s, nil
}

// IsZero reports whether no predicate is set
func (s Spec) IsZero() bool {
	return s.DistanceMin == nil && s.DistanceMax == nil && s.TitleContains == nil && s.IsRace == nil
}

// Equal is structural equality over predicate values
func (s Spec) Equal(other Spec) bool {
	return eqInt(s.DistanceMin, other.DistanceMin) &&
		eqInt(s.DistanceMax, other.DistanceMax) &&
		eqString(s.TitleContains, other.TitleContains) &&
		eqBool(s.IsRace, other.IsRace)
}

// Matches applies all predicates with AND logic. Pure, no side effects.
func (s Spec) Matches(a models.SummaryActivity) bool {
	if s.DistanceMin != nil && a.Distance < float64(*s.DistanceMin) {
		return false
	}
	if s.DistanceMax != nil && a.Distance > float64(*s.DistanceMax) {
		return false
	}

	if !s.MatchesTitle(a.Name) {
		return false
	}

	if s.IsRace != nil && IsRace(a) != *s.IsRace {
		return false
	}

	return true
}

// MatchesTitle applies the title predicate alone, for records that carry a
// name but no distance or race semantics
func (s Spec) MatchesTitle(name string) bool {
	if s.TitleContains == nil {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(*s.TitleContains))
}

// IsRace reports whether the activity is tagged as a race. Only activity
// types with a defined race marker can ever be races.
func IsRace(a models.SummaryActivity) bool {
	marker, ok := raceWorkoutTypes[a.Type]
	if !ok {
		return false
	}
	return a.WorkoutType != nil && *a.WorkoutType == marker
}

func eqInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqBool(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
