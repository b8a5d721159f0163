// Package aggregate computes summary statistics and grouped series over a
// record subset. Every function is pure and accepts an empty subset.
package aggregate

import (
	"cmp"
	"slices"
	"time"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

// NotAvailable is returned where an aggregate is undefined for an empty subset.
const NotAvailable = "N/A"

// Field selects the statistic summed by country.
type Field int

const (
	FieldDeaths Field = iota
	FieldAffected
	FieldDamage
)

func (f Field) String() string {
	switch f {
	case FieldDeaths:
		return "total_deaths"
	case FieldAffected:
		return "total_affected"
	case FieldDamage:
		return "total_damage"
	default:
		return "unknown"
	}
}

func (f Field) value(r *models.Record) float64 {
	switch f {
	case FieldDeaths:
		return float64(r.Deaths())
	case FieldAffected:
		return float64(r.Affected())
	case FieldDamage:
		return r.Damage()
	default:
		return 0
	}
}

type Totals struct {
	Deaths   int64   `json:"deaths"`
	Affected int64   `json:"affected"`
	Damage   float64 `json:"damage"`
}

func ComputeTotals(subset []models.Record) Totals {
	var t Totals
	for i := range subset {
		t.Deaths += subset[i].Deaths()
		t.Affected += subset[i].Affected()
		t.Damage += subset[i].Damage()
	}
	return t
}

// ArgmaxCountry returns the country whose summed field is largest. Ties go to
// the alphabetically first country. An empty subset yields NotAvailable.
func ArgmaxCountry(subset []models.Record, field Field) string {
	sums := SumByCountry(subset, field)
	if len(sums) == 0 {
		return NotAvailable
	}

	countries := make([]string, 0, len(sums))
	for c := range sums {
		countries = append(countries, c)
	}
	slices.Sort(countries)

	best := countries[0]
	for _, c := range countries[1:] {
		if sums[c] > sums[best] {
			best = c
		}
	}
	return best
}

// SumByCountry sums field per country. Records without a country are skipped.
func SumByCountry(subset []models.Record, field Field) map[string]float64 {
	out := make(map[string]float64)
	for i := range subset {
		r := &subset[i]
		if r.Country == "" {
			continue
		}
		out[r.Country] += field.value(r)
	}
	return out
}

// CountByCountry counts records per country. Records without a country are skipped.
func CountByCountry(subset []models.Record) map[string]float64 {
	out := make(map[string]float64)
	for i := range subset {
		if c := subset[i].Country; c != "" {
			out[c]++
		}
	}
	return out
}

type TypeYearCount struct {
	Year  int                 `json:"year"`
	Type  models.DisasterType `json:"type"`
	Count int                 `json:"count"`
}

// CountByTypeAndYear returns one row per (year, type) pair present in subset,
// ordered by year then type. Absent pairs produce no row.
func CountByTypeAndYear(subset []models.Record) []TypeYearCount {
	type key struct {
		year int
		typ  models.DisasterType
	}
	counts := make(map[key]int)
	for i := range subset {
		r := &subset[i]
		if r.Type == "" {
			continue
		}
		counts[key{r.Year, r.Type}]++
	}

	out := make([]TypeYearCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, TypeYearCount{Year: k.year, Type: k.typ, Count: n})
	}
	slices.SortFunc(out, func(a, b TypeYearCount) int {
		return cmp.Or(
			cmp.Compare(a.Year, b.Year),
			cmp.Compare(a.Type, b.Type),
		)
	})
	return out
}

type YearDeaths struct {
	Year   int   `json:"year"`
	Deaths int64 `json:"deaths"`
}

// DeathTrend is the per-year death series and its mean across the years present.
type DeathTrend struct {
	Points []YearDeaths `json:"points"`
	Mean   float64      `json:"mean"`
}

func DeathsByYear(subset []models.Record) DeathTrend {
	sums := make(map[int]int64)
	for i := range subset {
		sums[subset[i].Year] += subset[i].Deaths()
	}

	trend := DeathTrend{Points: make([]YearDeaths, 0, len(sums))}
	var total int64
	for y, d := range sums {
		trend.Points = append(trend.Points, YearDeaths{Year: y, Deaths: d})
		total += d
	}
	slices.SortFunc(trend.Points, func(a, b YearDeaths) int {
		return cmp.Compare(a.Year, b.Year)
	})
	if len(sums) > 0 {
		trend.Mean = float64(total) / float64(len(sums))
	}
	return trend
}

// LatestUpdate returns the most recent last-update date in subset.
func LatestUpdate(subset []models.Record) (time.Time, bool) {
	var (
		latest time.Time
		found  bool
	)
	for i := range subset {
		u := subset[i].LastUpdate
		if u == nil {
			continue
		}
		if !found || u.After(latest) {
			latest = *u
			found = true
		}
	}
	return latest, found
}

// MostRecentUpdate formats LatestUpdate as YYYY-MM-DD, or NotAvailable.
func MostRecentUpdate(subset []models.Record) string {
	t, ok := LatestUpdate(subset)
	if !ok {
		return NotAvailable
	}
	return t.Format(time.DateOnly)
}
