package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Named race distances resolve to a fixed band (center distance with a 10%
// tolerance on each side, precomputed). "ultra" is open-ended upwards.
var raceDistances = map[string]Range{
	"5k":            {Min: intPtr(4500), Max: intPtr(5500)},
	"10k":           {Min: intPtr(9000), Max: intPtr(11000)},
	"15k":           {Min: intPtr(13500), Max: intPtr(16500)},
	"half-marathon": {Min: intPtr(20000), Max: intPtr(22000)},
	"half marathon": {Min: intPtr(20000), Max: intPtr(22000)},
	"half":          {Min: intPtr(20000), Max: intPtr(22000)},
	"marathon":      {Min: intPtr(41000), Max: intPtr(43000)},
	"ultra":         {Min: intPtr(43000), Max: nil},
	"50k":           {Min: intPtr(45000), Max: intPtr(55000)},
	"100k":          {Min: intPtr(90000), Max: intPtr(110000)},
}

// Unit factors to meters. Decimal keeps mile conversions exact: 3.1mi must
// come out as 4989m, not whatever 3.1*1609.34 happens to be in a float64.
var distanceUnits = map[string]decimal.Decimal{
	"km":         decimal.NewFromInt(1000),
	"kilometer":  decimal.NewFromInt(1000),
	"kilometers": decimal.NewFromInt(1000),
	"mi":         decimal.RequireFromString("1609.34"),
	"mile":       decimal.RequireFromString("1609.34"),
	"miles":      decimal.RequireFromString("1609.34"),
	"m":          decimal.NewFromInt(1),
	"meter":      decimal.NewFromInt(1),
	"meters":     decimal.NewFromInt(1),
}

// Range is a distance band in meters, both bounds inclusive, nil = unbounded
type Range struct {
	Min *int
	Max *int
}

var distancePattern = regexp.MustCompile(`^(-?[\d.]+)\s*([a-zA-Z]*)$`)

// ParseDistanceMeters parses a single distance value with an optional unit
// suffix (km, mi, m and their long forms, case-insensitive) into meters,
// rounded to the nearest meter. A bare number means meters.
func ParseDistanceMeters(value string) (int, error) {
	m := distancePattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, fmt.Errorf("invalid distance format: %q, expected a number with optional unit (e.g. '10km', '5mi', '10000')", value)
	}

	number, unit := m[1], strings.ToLower(m[2])

	d, err := decimal.NewFromString(number)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %q", number)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("distance cannot be negative: %s", number)
	}

	if unit == "" {
		return int(d.Round(0).IntPart()), nil
	}

	factor, ok := distanceUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unknown unit: %q, supported units: km, mi, m", unit)
	}

	return int(d.Mul(factor).Round(0).IntPart()), nil
}

// ParseDistance resolves the distance grammar into a Range:
//   - named race distance ("10k", "marathon", "ultra"): fixed band, checked
//     before unit parsing so "5k" is never read as five of unit "k"
//   - explicit range "A:B" with either side omissible: taken literally
//   - single value with optional unit: a 10% band on each side, the buffer
//     being the truncated tenth of the meter value
func ParseDistance(value string) (Range, error) {
	lowered := strings.ToLower(strings.TrimSpace(value))

	if r, ok := raceDistances[lowered]; ok {
		return r, nil
	}

	if strings.Contains(value, ":") {
		return parseExplicitRange(value)
	}

	meters, err := ParseDistanceMeters(value)
	if err != nil {
		return Range{}, err
	}

	buffer := meters / 10
	return Range{Min: intPtr(meters - buffer), Max: intPtr(meters + buffer)}, nil
}

func parseExplicitRange(value string) (Range, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("invalid range format: %q, use 'min:max' (e.g. '5km:10km', '10000:15000')", value)
	}

	var r Range
	if s := strings.TrimSpace(parts[0]); s != "" {
		min, err := ParseDistanceMeters(s)
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q: %w", value, err)
		}
		r.Min = &min
	}
	if s := strings.TrimSpace(parts[1]); s != "" {
		max, err := ParseDistanceMeters(s)
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q: %w", value, err)
		}
		r.Max = &max
	}

	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return Range{}, fmt.Errorf("minimum distance (%dm) cannot be greater than maximum (%dm)", *r.Min, *r.Max)
	}

	return r, nil
}

func intPtr(v int) *int {
	return &v
}
