package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

func TestReconcile_DropsStaleSelections(t *testing.T) {
	records := fiveRecords()
	c := models.Criteria{
		Continents: []string{"Asia"},
		Subregions: []string{"Caribbean", "Southern Asia"},
		Countries:  []string{"Haiti", "Pakistan", "China"},
	}

	got, adjustments := Reconcile(records, c)

	assert.Equal(t, []string{"Southern Asia"}, got.Subregions)
	assert.Equal(t, []string{"Pakistan"}, got.Countries)
	assert.Equal(t, []Adjustment{
		{Field: FieldSubregions, Value: "Caribbean"},
		{Field: FieldCountries, Value: "Haiti"},
		{Field: FieldCountries, Value: "China"},
	}, adjustments)

	// Input criteria are left alone.
	assert.Len(t, c.Countries, 3)
}

func TestReconcile_ClearsDimensionWhenNothingSurvives(t *testing.T) {
	got, adjustments := Reconcile(fiveRecords(), models.Criteria{
		Continents: []string{"Europe"},
		Countries:  []string{"Haiti"},
	})

	assert.Nil(t, got.Countries)
	assert.Len(t, adjustments, 1)

	// With the country cleared the subset is Europe, not empty.
	assert.Equal(t, []string{"e"}, ids(Apply(fiveRecords(), got)))
}

func TestReconcile_NoChanges(t *testing.T) {
	c := models.Criteria{
		Continents: []string{"Americas"},
		Countries:  []string{"Haiti"},
	}
	got, adjustments := Reconcile(fiveRecords(), c)

	assert.Empty(t, adjustments)
	assert.Equal(t, c, got)
}
