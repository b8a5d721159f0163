package models

import (
	"slices"
	"strings"
	"time"
)

type DisasterType string

const (
	DisasterTypeDrought            DisasterType = "Drought"
	DisasterTypeEarthquake         DisasterType = "Earthquake"
	DisasterTypeExtremeTemperature DisasterType = "Extreme temperature"
	DisasterTypeFlood              DisasterType = "Flood"
	DisasterTypeMassMovement       DisasterType = "Mass movement"
	DisasterTypeStorm              DisasterType = "Storm"
	DisasterTypeVolcanicActivity   DisasterType = "Volcanic activity"
	DisasterTypeWildfire           DisasterType = "Wildfire"
)

var disasterTypes = []DisasterType{
	DisasterTypeDrought,
	DisasterTypeEarthquake,
	DisasterTypeExtremeTemperature,
	DisasterTypeFlood,
	DisasterTypeMassMovement,
	DisasterTypeStorm,
	DisasterTypeVolcanicActivity,
	DisasterTypeWildfire,
}

// AllDisasterTypes returns the closed set of known categories in alphabetical order.
func AllDisasterTypes() []DisasterType {
	out := make([]DisasterType, len(disasterTypes))
	copy(out, disasterTypes)
	return out
}

// ParseDisasterType matches s case-insensitively against the known categories.
func ParseDisasterType(s string) (DisasterType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range disasterTypes {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return DisasterType(s), false
}

// Known reports whether t is exactly one of the enumerated categories.
func (t DisasterType) Known() bool {
	return slices.Contains(disasterTypes, t)
}

func (t DisasterType) String() string {
	return string(t)
}

// Record is one historical disaster event. Nil pointers are missing values.
type Record struct {
	ID            string       `json:"id"`
	Country       string       `json:"country"`
	Region        string       `json:"region"`
	Subregion     string       `json:"subregion"`
	Type          DisasterType `json:"type"`
	Year          int          `json:"year"`
	Month         *int         `json:"month,omitempty"`
	TotalDeaths   *int64       `json:"total_deaths,omitempty"`
	TotalAffected *int64       `json:"total_affected,omitempty"`
	TotalDamage   *float64     `json:"total_damage,omitempty"`
	LastUpdate    *time.Time   `json:"last_update,omitempty"`
}

func (r *Record) Deaths() int64 {
	if r.TotalDeaths == nil {
		return 0
	}
	return *r.TotalDeaths
}

func (r *Record) Affected() int64 {
	if r.TotalAffected == nil {
		return 0
	}
	return *r.TotalAffected
}

func (r *Record) Damage() float64 {
	if r.TotalDamage == nil {
		return 0
	}
	return *r.TotalDamage
}

// Geography is the continent/subregion pair a country belongs to.
type Geography struct {
	Region    string `json:"region"`
	Subregion string `json:"subregion"`
}

func (r *Record) Geography() Geography {
	return Geography{
		Region:    r.Region,
		Subregion: r.Subregion,
	}
}

func Int(v int) *int { return &v }

func Int64(v int64) *int64 { return &v }

func Float64(v float64) *float64 { return &v }

func Time(v time.Time) *time.Time { return &v }
