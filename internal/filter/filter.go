// Package filter selects the records matching a set of criteria and derives
// the cascading geography options that depend on upstream selections.
package filter

import (
	"slices"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

// Apply returns the records satisfying every non-empty criterion. Values
// within a dimension are OR-combined; dimensions are AND-combined. The result
// is a new slice in input order; records are never modified.
func Apply(records []models.Record, c models.Criteria) []models.Record {
	m := newMatcher(c)
	out := make([]models.Record, 0, len(records))
	for i := range records {
		if m.match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// Matches reports whether a single record passes c.
func Matches(r *models.Record, c models.Criteria) bool {
	return newMatcher(c).match(r)
}

type matcher struct {
	continents map[string]struct{}
	subregions map[string]struct{}
	countries  map[string]struct{}
	months     map[int]struct{}
	types      map[models.DisasterType]struct{}
	years      *models.YearRange
}

func newMatcher(c models.Criteria) matcher {
	return matcher{
		continents: toSet(c.Continents),
		subregions: toSet(c.Subregions),
		countries:  toSet(c.Countries),
		months:     toSet(c.Months),
		types:      toSet(c.DisasterTypes),
		years:      c.YearRange,
	}
}

func (m matcher) match(r *models.Record) bool {
	if !in(m.continents, r.Region) {
		return false
	}
	if !in(m.subregions, r.Subregion) {
		return false
	}
	if !in(m.countries, r.Country) {
		return false
	}
	if m.years != nil && !m.years.Contains(r.Year) {
		return false
	}
	if m.months != nil {
		if r.Month == nil {
			return false
		}
		if _, ok := m.months[*r.Month]; !ok {
			return false
		}
	}
	return in(m.types, r.Type)
}

// SubregionsFor lists the distinct subregions of records on the given
// continents, or of all records when continents is empty. Sorted ascending.
func SubregionsFor(records []models.Record, continents []string) []string {
	allowed := toSet(continents)
	seen := make(map[string]struct{})
	for i := range records {
		r := &records[i]
		if in(allowed, r.Region) && r.Subregion != "" {
			seen[r.Subregion] = struct{}{}
		}
	}
	return sortedStrings(seen)
}

// CountriesFor lists the distinct countries of records passing both the
// continent and the subregion selections. Sorted ascending.
func CountriesFor(records []models.Record, continents, subregions []string) []string {
	allowedContinents := toSet(continents)
	allowedSubregions := toSet(subregions)
	seen := make(map[string]struct{})
	for i := range records {
		r := &records[i]
		if in(allowedContinents, r.Region) && in(allowedSubregions, r.Subregion) && r.Country != "" {
			seen[r.Country] = struct{}{}
		}
	}
	return sortedStrings(seen)
}

// toSet returns nil for an empty selection so that in() treats it as
// unrestricted.
func toSet[T comparable](values []T) map[T]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func in[T comparable](set map[T]struct{}, v T) bool {
	if set == nil {
		return true
	}
	_, ok := set[v]
	return ok
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
