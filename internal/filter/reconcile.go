package filter

import (
	"slices"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

// Fields reported in an Adjustment.
const (
	FieldSubregions = "subregions"
	FieldCountries  = "countries"
)

// Adjustment records a selection dropped because an upstream choice made it invalid.
type Adjustment struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Reconcile clears subregion and country selections that are no longer
// offered given the continents (and, for countries, the surviving subregions).
// The returned adjustments list each value that was removed, in selection order.
func Reconcile(records []models.Record, c models.Criteria) (models.Criteria, []Adjustment) {
	out := c.Clone()
	var adjustments []Adjustment

	if len(out.Subregions) > 0 {
		valid := SubregionsFor(records, out.Continents)
		out.Subregions, adjustments = keepValid(out.Subregions, valid, FieldSubregions, adjustments)
	}
	if len(out.Countries) > 0 {
		valid := CountriesFor(records, out.Continents, out.Subregions)
		out.Countries, adjustments = keepValid(out.Countries, valid, FieldCountries, adjustments)
	}

	return out, adjustments
}

func keepValid(selected, valid []string, field string, adjustments []Adjustment) ([]string, []Adjustment) {
	kept := selected[:0:0]
	for _, v := range selected {
		if _, found := slices.BinarySearch(valid, v); found {
			kept = append(kept, v)
			continue
		}
		adjustments = append(adjustments, Adjustment{Field: field, Value: v})
	}
	if len(kept) == 0 {
		return nil, adjustments
	}
	return kept, adjustments
}
