package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-disaster-dashboard/internal/filter"
	"github.com/mr1hm/go-disaster-dashboard/internal/models"
	"github.com/mr1hm/go-disaster-dashboard/internal/observability"
	"github.com/mr1hm/go-disaster-dashboard/internal/store"
)

func testStore() *store.Store {
	return store.New([]models.Record{
		{ID: "1", Country: "Japan", Region: "Asia", Subregion: "Eastern Asia", Type: models.DisasterTypeEarthquake,
			Year: 2011, Month: models.Int(3), TotalDeaths: models.Int64(19846), TotalAffected: models.Int64(368820),
			TotalDamage: models.Float64(210e9), LastUpdate: models.Time(time.Date(2023, 9, 15, 0, 0, 0, 0, time.UTC))},
		{ID: "2", Country: "China", Region: "Asia", Subregion: "Eastern Asia", Type: models.DisasterTypeFlood,
			Year: 2010, Month: models.Int(5), TotalDeaths: models.Int64(1691), TotalAffected: models.Int64(134000000),
			TotalDamage: models.Float64(18e9)},
		{ID: "3", Country: "Pakistan", Region: "Asia", Subregion: "Southern Asia", Type: models.DisasterTypeFlood,
			Year: 2010, Month: models.Int(7), TotalDeaths: models.Int64(1985), TotalAffected: models.Int64(20359496),
			TotalDamage: models.Float64(9.5e9)},
		{ID: "4", Country: "Haiti", Region: "Americas", Subregion: "Caribbean", Type: models.DisasterTypeEarthquake,
			Year: 2010, Month: models.Int(1), TotalDeaths: models.Int64(222570), TotalAffected: models.Int64(3700000),
			TotalDamage: models.Float64(8e9)},
		{ID: "5", Country: "Chile", Region: "Americas", Subregion: "South America", Type: models.DisasterType("Meteor"),
			Year: 2013},
	})
}

func TestCompute_DefaultCriteria(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	p := NewPipeline(testStore(), metrics)

	v, err := p.Compute(context.Background(), p.DefaultCriteria())
	require.NoError(t, err)

	// The record of an unknown type is hidden under the default criteria.
	assert.Equal(t, 4, v.RecordCount)
	assert.Equal(t, Stat{Value: 246092, Short: "246.1K", Exact: "246,092"}, v.Cards.TotalDeaths)
	assert.Equal(t, "245.5B", v.Cards.TotalDamage.Short)
	assert.Equal(t, "Haiti", v.Cards.MostDeathsCountry)
	assert.Equal(t, "China", v.Cards.MostAffectedCountry)
	assert.Equal(t, "Japan", v.Cards.MostDamagedCountry)
	assert.Equal(t, "Data last update: 2023-09-15", v.Cards.LastUpdated)

	assert.Equal(t, "Total damage (in US$) inflicted by disasters, 2010 to 2013", v.Headers.DamageMap)
	assert.Equal(t, "Trends of disasters, 2010 to 2013", v.Headers.TypeBar)

	assert.Equal(t, "damage_coarse", v.DamageMap.Table)
	assert.Equal(t, "count_fine", v.CountMap.Table)
	assert.Len(t, v.CountMap.Assignments, 4)

	assert.Equal(t, []int{2010, 2011}, []int{v.Trend.Points[0].Year, v.Trend.Points[1].Year})
	assert.Equal(t, "Period mean:123.0K", v.Trend.MeanLabel)
	assert.Len(t, v.TypeYear.Colors, 8)

	assert.Equal(t, models.YearRange{From: 2010, To: 2013}, v.Options.Years)
	assert.Equal(t, []string{"Chile", "China", "Haiti", "Japan", "Pakistan"}, v.Options.Countries)

	assert.Equal(t, 1, testutil.CollectAndCount(metrics.PipelineDuration))
}

func TestCompute_EmptySubset(t *testing.T) {
	p := NewPipeline(testStore(), nil)

	v, err := p.Compute(context.Background(), models.Criteria{
		YearRange: &models.YearRange{From: 1990, To: 1995},
	})
	require.NoError(t, err)

	assert.Zero(t, v.RecordCount)
	assert.Equal(t, "N/A", v.Cards.MostDeathsCountry)
	assert.Equal(t, "Last update: N/A", v.Cards.LastUpdated)
	assert.Equal(t, "0", v.Cards.TotalDamage.Short)
	assert.Equal(t, []string{"0"}, v.DamageMap.Labels)
	assert.Equal(t, "Period mean:0", v.Trend.MeanLabel)
	assert.Equal(t, "Number of deaths by time from disasters, 1990 to 1995", v.Headers.DeathLine)
	assert.Empty(t, v.TypeYear.Rows)
}

func TestCompute_ReconcilesBeforeFiltering(t *testing.T) {
	p := NewPipeline(testStore(), nil)

	v, err := p.Compute(context.Background(), models.Criteria{
		Continents: []string{"Americas"},
		Countries:  []string{"Japan"},
		Months:     []int{1},
	})
	require.NoError(t, err)

	assert.Equal(t, []filter.Adjustment{{Field: filter.FieldCountries, Value: "Japan"}}, v.Adjustments)
	assert.Nil(t, v.Criteria.Countries)
	assert.Equal(t, 1, v.RecordCount)
	assert.Equal(t, []string{"Caribbean", "South America"}, v.Options.Subregions)
	assert.Equal(t, "Total number of disasters in January", v.Headers.CountMap)
}

func TestCompute_Cancelled(t *testing.T) {
	p := NewPipeline(testStore(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := p.Compute(ctx, p.DefaultCriteria())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, v)
}

func TestOptions_Cascade(t *testing.T) {
	p := NewPipeline(testStore(), nil)

	opts := p.Options([]string{"Asia"}, []string{"Eastern Asia"})
	assert.Equal(t, []string{"Americas", "Asia"}, opts.Continents)
	assert.Equal(t, []string{"Eastern Asia", "Southern Asia"}, opts.Subregions)
	assert.Equal(t, []string{"China", "Japan"}, opts.Countries)
}

func TestSubset(t *testing.T) {
	p := NewPipeline(testStore(), nil)

	subset := p.Subset(models.Criteria{
		Continents:    []string{"Asia"},
		Countries:     []string{"Haiti"},
		DisasterTypes: []models.DisasterType{models.DisasterTypeFlood},
	})
	require.Len(t, subset, 2)
	assert.Equal(t, "2", subset[0].ID)
	assert.Equal(t, "3", subset[1].ID)
}

func TestTypeColors_Stable(t *testing.T) {
	colors := TypeColors()
	assert.Equal(t, "#4C230A", colors[models.DisasterTypeDrought])
	assert.Equal(t, "orange", colors[models.DisasterTypeWildfire])
}

func TestCompute_ColorsUnknownTypes(t *testing.T) {
	p := NewPipeline(testStore(), nil)

	// No type filter, so the Meteor record is counted.
	v, err := p.Compute(context.Background(), models.Criteria{Countries: []string{"Chile"}})
	require.NoError(t, err)

	require.Len(t, v.TypeYear.Rows, 1)
	assert.Equal(t, models.DisasterType("Meteor"), v.TypeYear.Rows[0].Type)
	assert.Equal(t, "#9DCBBA", v.TypeYear.Colors["Meteor"])
	assert.Len(t, v.TypeYear.Colors, 9)
}

func TestTypeColors_UnknownTypesFollowKnownOnes(t *testing.T) {
	colors := TypeColors("Meteor", "Asteroid", models.DisasterTypeFlood, "Meteor")
	assert.Len(t, colors, 10)
	assert.Equal(t, "#9DCBBA", colors["Asteroid"])
	assert.Equal(t, "#5E8C61", colors["Meteor"])
	assert.Equal(t, "#568EA3", colors[models.DisasterTypeFlood])
}
