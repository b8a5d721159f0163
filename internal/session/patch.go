package session

import (
	"fmt"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

// Patch is one UI event: every non-nil field replaces that dimension of the
// current criteria. An empty list clears the dimension.
type Patch struct {
	Continents    *[]string         `json:"continents"`
	Subregions    *[]string         `json:"subregions"`
	Countries     *[]string         `json:"countries"`
	YearRange     *models.YearRange `json:"year_range"`
	Months        *[]int            `json:"months" binding:"omitempty,dive,min=1,max=12"`
	DisasterTypes *[]string         `json:"disaster_types"`
}

// Validate checks the fields the binding tags cannot express.
func (p Patch) Validate() error {
	if p.YearRange != nil && p.YearRange.From > p.YearRange.To {
		return fmt.Errorf("year_range: from %d is after to %d", p.YearRange.From, p.YearRange.To)
	}
	if p.Months != nil {
		for _, m := range *p.Months {
			if m < 1 || m > 12 {
				return fmt.Errorf("months: %d is not a month", m)
			}
		}
	}
	if p.DisasterTypes != nil {
		for _, t := range *p.DisasterTypes {
			if _, ok := models.ParseDisasterType(t); !ok {
				return fmt.Errorf("disaster_types: unknown type %q", t)
			}
		}
	}
	return nil
}

// Apply returns c with the patch applied. c is not modified.
func (p Patch) Apply(c models.Criteria) models.Criteria {
	out := c.Clone()
	if p.Continents != nil {
		out.Continents = nonEmpty(*p.Continents)
	}
	if p.Subregions != nil {
		out.Subregions = nonEmpty(*p.Subregions)
	}
	if p.Countries != nil {
		out.Countries = nonEmpty(*p.Countries)
	}
	if p.YearRange != nil {
		yr := *p.YearRange
		out.YearRange = &yr
	}
	if p.Months != nil {
		out.Months = nonEmpty(*p.Months)
	}
	if p.DisasterTypes != nil {
		types := make([]models.DisasterType, 0, len(*p.DisasterTypes))
		for _, name := range *p.DisasterTypes {
			t, _ := models.ParseDisasterType(name)
			types = append(types, t)
		}
		out.DisasterTypes = types
	}
	return out
}

func nonEmpty[T any](values []T) []T {
	if len(values) == 0 {
		return nil
	}
	out := make([]T, len(values))
	copy(out, values)
	return out
}
