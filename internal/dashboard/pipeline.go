package dashboard

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mr1hm/go-disaster-dashboard/internal/aggregate"
	"github.com/mr1hm/go-disaster-dashboard/internal/binning"
	"github.com/mr1hm/go-disaster-dashboard/internal/filter"
	"github.com/mr1hm/go-disaster-dashboard/internal/format"
	"github.com/mr1hm/go-disaster-dashboard/internal/models"
	"github.com/mr1hm/go-disaster-dashboard/internal/observability"
	"github.com/mr1hm/go-disaster-dashboard/internal/store"
)

// Pipeline turns criteria into a View over a shared, read-only store.
// It holds no per-call state and may be used from many goroutines.
type Pipeline struct {
	store   *store.Store
	metrics *observability.Metrics
}

func NewPipeline(s *store.Store, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		store:   s,
		metrics: metrics,
	}
}

func (p *Pipeline) Store() *store.Store {
	return p.store
}

// DefaultCriteria is the reset state for the loaded dataset.
func (p *Pipeline) DefaultCriteria() models.Criteria {
	return p.store.DefaultCriteria()
}

// Compute runs one full recomputation. ctx is checked between stages; a
// cancelled computation returns ctx.Err() and no view.
func (p *Pipeline) Compute(ctx context.Context, c models.Criteria) (*View, error) {
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
		}
	}()

	records := p.store.View()

	criteria, adjustments := filter.Reconcile(records, c)
	subset := filter.Apply(records, criteria)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v := &View{
		Criteria:    criteria,
		Adjustments: adjustments,
		RecordCount: len(subset),
		Cards:       buildCards(subset),
		Headers:     buildHeaders(criteria),
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v.DamageMap = binning.Classify(binning.Damage, aggregate.SumByCountry(subset, aggregate.FieldDamage))
	v.CountMap = binning.Classify(binning.Counts, aggregate.CountByCountry(subset))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := aggregate.CountByTypeAndYear(subset)
	v.TypeYear = TypeYearSeries{
		Rows:   rows,
		Colors: TypeColors(rowTypes(rows)...),
	}
	trend := aggregate.DeathsByYear(subset)
	v.Trend = Trend{
		DeathTrend: trend,
		MeanLabel:  "Period mean:" + format.Abbreviate(trend.Mean),
	}
	v.Options = p.options(records, criteria)

	return v, nil
}

// Subset returns the records matching c once stale selections are dropped.
func (p *Pipeline) Subset(c models.Criteria) []models.Record {
	records := p.store.View()
	criteria, _ := filter.Reconcile(records, c)
	return filter.Apply(records, criteria)
}

// Options returns the cascading option lists for the given selections
// without running the rest of the pipeline.
func (p *Pipeline) Options(continents, subregions []string) Options {
	return p.options(p.store.View(), models.Criteria{
		Continents: continents,
		Subregions: subregions,
	})
}

func (p *Pipeline) options(records []models.Record, c models.Criteria) Options {
	all := p.store.Options()
	return Options{
		Continents:    all.Continents,
		Subregions:    filter.SubregionsFor(records, c.Continents),
		Countries:     filter.CountriesFor(records, c.Continents, c.Subregions),
		Years:         p.store.YearBounds(),
		Months:        all.Months,
		DisasterTypes: models.AllDisasterTypes(),
	}
}

func buildCards(subset []models.Record) Cards {
	totals := aggregate.ComputeTotals(subset)

	lastUpdated := "Last update: " + format.NotAvailable
	if t, ok := aggregate.LatestUpdate(subset); ok {
		lastUpdated = "Data last update: " + t.Format(time.DateOnly)
	}

	return Cards{
		TotalDeaths: Stat{
			Value: float64(totals.Deaths),
			Short: format.Abbreviate(float64(totals.Deaths)),
			Exact: humanize.Comma(totals.Deaths),
		},
		TotalAffected: Stat{
			Value: float64(totals.Affected),
			Short: format.Abbreviate(float64(totals.Affected)),
			Exact: humanize.Comma(totals.Affected),
		},
		TotalDamage: Stat{
			Value: totals.Damage,
			Short: format.Abbreviate(totals.Damage),
			Exact: humanize.Commaf(totals.Damage),
		},
		MostDeathsCountry:   aggregate.ArgmaxCountry(subset, aggregate.FieldDeaths),
		MostAffectedCountry: aggregate.ArgmaxCountry(subset, aggregate.FieldAffected),
		MostDamagedCountry:  aggregate.ArgmaxCountry(subset, aggregate.FieldDamage),
		LastUpdated:         lastUpdated,
	}
}

func buildHeaders(c models.Criteria) Headers {
	types := c.TypeNames()
	return Headers{
		DamageMap: format.DescribeSelection(format.DamageMapHeader, types, c.YearRange, c.Months),
		CountMap:  format.DescribeSelection(format.CountMapHeader, types, c.YearRange, c.Months),
		TypeBar:   format.DescribeSelection(format.TypeBarHeader, types, c.YearRange, c.Months),
		DeathLine: format.DescribeSelection(format.DeathLineHeader, types, c.YearRange, c.Months),
	}
}
