package dashboard

import (
	"github.com/mr1hm/go-disaster-dashboard/internal/aggregate"
	"github.com/mr1hm/go-disaster-dashboard/internal/binning"
	"github.com/mr1hm/go-disaster-dashboard/internal/filter"
	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

// View is everything the charting client needs to redraw the dashboard for
// one set of criteria. It replaces any previous view wholesale.
type View struct {
	Criteria    models.Criteria        `json:"criteria"`
	Adjustments []filter.Adjustment    `json:"adjustments,omitempty"`
	RecordCount int                    `json:"record_count"`
	Cards       Cards                  `json:"cards"`
	Headers     Headers                `json:"headers"`
	DamageMap   binning.Classification `json:"damage_map"`
	CountMap    binning.Classification `json:"count_map"`
	TypeYear    TypeYearSeries         `json:"type_year"`
	Trend       Trend                  `json:"trend"`
	Options     Options                `json:"options"`
}

// Stat is a card value shown abbreviated with the exact figure alongside.
type Stat struct {
	Value float64 `json:"value"`
	Short string  `json:"short"`
	Exact string  `json:"exact"`
}

type Cards struct {
	TotalDeaths         Stat   `json:"total_deaths"`
	TotalAffected       Stat   `json:"total_affected"`
	TotalDamage         Stat   `json:"total_damage"`
	MostDeathsCountry   string `json:"most_deaths_country"`
	MostAffectedCountry string `json:"most_affected_country"`
	MostDamagedCountry  string `json:"most_damaged_country"`
	LastUpdated         string `json:"last_updated"`
}

type Headers struct {
	DamageMap string `json:"damage_map"`
	CountMap  string `json:"count_map"`
	TypeBar   string `json:"type_bar"`
	DeathLine string `json:"death_line"`
}

type TypeYearSeries struct {
	Rows   []aggregate.TypeYearCount      `json:"rows"`
	Colors map[models.DisasterType]string `json:"colors"`
}

type Trend struct {
	aggregate.DeathTrend
	MeanLabel string `json:"mean_label"`
}

// Options are the dropdown contents valid for the current criteria.
type Options struct {
	Continents    []string              `json:"continents"`
	Subregions    []string              `json:"subregions"`
	Countries     []string              `json:"countries"`
	Years         models.YearRange      `json:"years"`
	Months        []int                 `json:"months"`
	DisasterTypes []models.DisasterType `json:"disaster_types"`
}
