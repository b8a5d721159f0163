package binning

import "math"

// Table is an ordered set of bins. Bin i covers [Bounds[i], Bounds[i+1]);
// the last bin has no upper bound and the first also takes anything below
// its lower bound.
type Table struct {
	Name   string
	Bounds []float64
	Labels []string
}

// Index returns the position of the bin containing v.
func (t Table) Index(v float64) int {
	idx := 0
	for i, lower := range t.Bounds {
		if v >= lower {
			idx = i
		}
	}
	return idx
}

// Upper is the exclusive upper bound of bin i, +Inf for the last bin.
func (t Table) Upper(i int) float64 {
	if i+1 < len(t.Bounds) {
		return t.Bounds[i+1]
	}
	return math.Inf(1)
}

var (
	DamageFine = Table{
		Name:   "damage_fine",
		Bounds: []float64{0, 1_000, 10_000, 100_000, 1_000_000},
		Labels: []string{"0 - 1K", "1K - 10K", "10K - 100K", "100K - 1M", "> 1M"},
	}
	DamageMid = Table{
		Name:   "damage_mid",
		Bounds: []float64{0, 1_000_000, 10_000_000, 100_000_000, 1_000_000_000},
		Labels: []string{"0 - 1M", "1M - 10M", "10M - 100M", "100M - 1B", "> 1B"},
	}
	DamageCoarse = Table{
		Name:   "damage_coarse",
		Bounds: []float64{0, 1_000_000_000, 10_000_000_000, 100_000_000_000},
		Labels: []string{"0 - 1B", "1B - 10B", "10B - 100B", "> 100B"},
	}

	CountFine = Table{
		Name:   "count_fine",
		Bounds: []float64{0, 10, 20, 30, 40},
		Labels: []string{"0 - 10", "10 - 20", "20 - 30", "30 - 40", "> 40"},
	}
	CountMid = Table{
		Name:   "count_mid",
		Bounds: []float64{0, 15, 25, 50, 100},
		Labels: []string{"0 - 15", "15 - 25", "25 - 50", "50 - 100", "> 100"},
	}
	CountCoarse = Table{
		Name:   "count_coarse",
		Bounds: []float64{0, 50, 100, 200, 300},
		Labels: []string{"0 - 50", "50 - 100", "100 - 200", "200 - 300", "> 300"},
	}

	// EmptyTable is used when there are no values to take a median of.
	EmptyTable = Table{
		Name:   "empty",
		Bounds: []float64{0},
		Labels: []string{"0"},
	}
)

// Median thresholds selecting between the tables of each domain.
const (
	DamageMidThreshold    = 1_000_000
	DamageCoarseThreshold = 1_000_000_000
	CountFineMax          = 20
	CountMidMax           = 50
)

// MapPalette colors bins by position.
var MapPalette = []string{"#96BBBB", "#FEDC85", "#FEB945", "#C44802", "#712805"}

// Domain picks the boundary table for a median.
type Domain struct {
	Name   string
	Select func(median float64) Table
}

var (
	Damage = Domain{
		Name: "damage",
		Select: func(median float64) Table {
			switch {
			case median < DamageMidThreshold:
				return DamageFine
			case median < DamageCoarseThreshold:
				return DamageMid
			default:
				return DamageCoarse
			}
		},
	}

	Counts = Domain{
		Name: "counts",
		Select: func(median float64) Table {
			switch {
			case median <= CountFineMax:
				return CountFine
			case median <= CountMidMax:
				return CountMid
			default:
				return CountCoarse
			}
		},
	}
)
