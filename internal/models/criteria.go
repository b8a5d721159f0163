package models

import "slices"

// Dataset years shown by the year slider when nothing else is chosen.
const (
	DefaultFirstYear = 2000
	DefaultLastYear  = 2024
)

// YearRange is inclusive on both ends.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (y YearRange) Contains(year int) bool {
	return year >= y.From && year <= y.To
}

func (y YearRange) Single() bool {
	return y.From == y.To
}

// Criteria is the active combination of filter selections.
// An empty field places no restriction on its dimension.
type Criteria struct {
	Continents    []string       `json:"continents"`
	Subregions    []string       `json:"subregions"`
	Countries     []string       `json:"countries"`
	YearRange     *YearRange     `json:"year_range,omitempty"`
	Months        []int          `json:"months"`
	DisasterTypes []DisasterType `json:"disaster_types"`
}

// DefaultCriteria is the reset state: the default year window clamped to the
// dataset bounds and every known disaster type selected explicitly, so records
// of a type outside the enumeration stay hidden.
func DefaultCriteria(bounds YearRange) Criteria {
	yr := YearRange{From: DefaultFirstYear, To: DefaultLastYear}
	if bounds.From != 0 || bounds.To != 0 {
		yr.From = max(yr.From, bounds.From)
		yr.To = min(yr.To, bounds.To)
		if yr.From > yr.To {
			yr = bounds
		}
	}
	return Criteria{
		YearRange:     &yr,
		DisasterTypes: AllDisasterTypes(),
	}
}

func (c Criteria) Clone() Criteria {
	out := Criteria{
		Continents:    slices.Clone(c.Continents),
		Subregions:    slices.Clone(c.Subregions),
		Countries:     slices.Clone(c.Countries),
		Months:        slices.Clone(c.Months),
		DisasterTypes: slices.Clone(c.DisasterTypes),
	}
	if c.YearRange != nil {
		yr := *c.YearRange
		out.YearRange = &yr
	}
	return out
}

// TypeNames returns the selected disaster types as plain strings.
func (c Criteria) TypeNames() []string {
	names := make([]string, len(c.DisasterTypes))
	for i, t := range c.DisasterTypes {
		names[i] = string(t)
	}
	return names
}
