package store

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

// Lister is the part of the repository the store needs to load itself.
type Lister interface {
	ListRecords(ctx context.Context) ([]models.Record, error)
}

// Options are the dataset-wide dropdown values.
type Options struct {
	Continents    []string              `json:"continents"`
	Subregions    []string              `json:"subregions"`
	Countries     []string              `json:"countries"`
	Years         []int                 `json:"years"`
	Months        []int                 `json:"months"`
	DisasterTypes []models.DisasterType `json:"disaster_types"`
}

// Store holds the full dataset. It is read-only after New returns and safe
// for concurrent use without locking.
type Store struct {
	records   []models.Record
	geography map[string]models.Geography
	options   Options
	years     models.YearRange
}

func New(records []models.Record) *Store {
	s := &Store{
		records:   slices.Clone(records),
		geography: make(map[string]models.Geography),
	}
	s.index()
	return s
}

// Load reads every record from l and builds a Store.
func Load(ctx context.Context, l Lister) (*Store, error) {
	records, err := l.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}
	return New(records), nil
}

func (s *Store) index() {
	continents := make(map[string]struct{})
	subregions := make(map[string]struct{})
	countries := make(map[string]struct{})
	years := make(map[int]struct{})
	months := make(map[int]struct{})
	types := make(map[models.DisasterType]struct{})

	for i := range s.records {
		r := &s.records[i]
		addNonEmpty(continents, r.Region)
		addNonEmpty(subregions, r.Subregion)
		addNonEmpty(countries, r.Country)
		years[r.Year] = struct{}{}
		if r.Month != nil {
			months[*r.Month] = struct{}{}
		}
		if r.Type != "" {
			types[r.Type] = struct{}{}
		}

		if r.Country == "" {
			continue
		}
		geo := r.Geography()
		if existing, ok := s.geography[r.Country]; ok {
			if existing != geo {
				slog.Warn("conflicting geography for country",
					"country", r.Country,
					"kept_region", existing.Region,
					"kept_subregion", existing.Subregion,
					"record_id", r.ID,
					"region", geo.Region,
					"subregion", geo.Subregion,
				)
			}
			continue
		}
		s.geography[r.Country] = geo
	}

	s.options = Options{
		Continents:    sortedKeys(continents),
		Subregions:    sortedKeys(subregions),
		Countries:     sortedKeys(countries),
		Years:         sortedKeys(years),
		Months:        sortedKeys(months),
		DisasterTypes: sortedKeys(types),
	}
	if n := len(s.options.Years); n > 0 {
		s.years = models.YearRange{From: s.options.Years[0], To: s.options.Years[n-1]}
	}
}

// All returns a copy of every record.
func (s *Store) All() []models.Record {
	return slices.Clone(s.records)
}

// View returns the backing slice. Callers must treat it as read-only.
func (s *Store) View() []models.Record {
	return s.records
}

func (s *Store) Len() int {
	return len(s.records)
}

// Options returns a copy of the dataset-wide option lists.
func (s *Store) Options() Options {
	return Options{
		Continents:    slices.Clone(s.options.Continents),
		Subregions:    slices.Clone(s.options.Subregions),
		Countries:     slices.Clone(s.options.Countries),
		Years:         slices.Clone(s.options.Years),
		Months:        slices.Clone(s.options.Months),
		DisasterTypes: slices.Clone(s.options.DisasterTypes),
	}
}

// YearBounds is the min and max year in the dataset, zero when empty.
func (s *Store) YearBounds() models.YearRange {
	return s.years
}

// GeographyOf returns the continent and subregion recorded for country.
func (s *Store) GeographyOf(country string) (models.Geography, bool) {
	g, ok := s.geography[country]
	return g, ok
}

func (s *Store) DefaultCriteria() models.Criteria {
	return models.DefaultCriteria(s.years)
}

func addNonEmpty(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys[K cmp.Ordered](set map[K]struct{}) []K {
	out := make([]K, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
