package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

type fakeLister struct {
	records []models.Record
	err     error
}

func (f fakeLister) ListRecords(ctx context.Context) ([]models.Record, error) {
	return f.records, f.err
}

func fixture() []models.Record {
	return []models.Record{
		{ID: "1", Country: "Japan", Region: "Asia", Subregion: "Eastern Asia", Type: models.DisasterTypeEarthquake, Year: 2011, Month: models.Int(3)},
		{ID: "2", Country: "Chile", Region: "Americas", Subregion: "South America", Type: models.DisasterTypeEarthquake, Year: 2010, Month: models.Int(2)},
		{ID: "3", Country: "Japan", Region: "Asia", Subregion: "Eastern Asia", Type: models.DisasterTypeStorm, Year: 2019},
		{ID: "4", Country: "", Region: "Oceania", Subregion: "", Type: models.DisasterTypeWildfire, Year: 2020, Month: models.Int(1)},
	}
}

func TestNew_Options(t *testing.T) {
	s := New(fixture())

	opts := s.Options()
	assert.Equal(t, []string{"Americas", "Asia", "Oceania"}, opts.Continents)
	assert.Equal(t, []string{"Eastern Asia", "South America"}, opts.Subregions)
	assert.Equal(t, []string{"Chile", "Japan"}, opts.Countries)
	assert.Equal(t, []int{2010, 2011, 2019, 2020}, opts.Years)
	assert.Equal(t, []int{1, 2, 3}, opts.Months)
	assert.Equal(t, []models.DisasterType{
		models.DisasterTypeEarthquake,
		models.DisasterTypeStorm,
		models.DisasterTypeWildfire,
	}, opts.DisasterTypes)

	assert.Equal(t, models.YearRange{From: 2010, To: 2020}, s.YearBounds())
	assert.Equal(t, 4, s.Len())
}

func TestNew_CopiesInput(t *testing.T) {
	records := fixture()
	s := New(records)

	records[0].Country = "Changed"
	assert.Equal(t, "Japan", s.View()[0].Country)

	all := s.All()
	all[1].Country = "Changed"
	assert.Equal(t, "Chile", s.View()[1].Country)

	opts := s.Options()
	opts.Countries[0] = "Changed"
	assert.Equal(t, "Chile", s.Options().Countries[0])
}

func TestGeographyOf_FirstOccurrenceWins(t *testing.T) {
	records := append(fixture(), models.Record{
		ID: "5", Country: "Japan", Region: "Oceania", Subregion: "Polynesia", Year: 2012,
	})
	s := New(records)

	geo, ok := s.GeographyOf("Japan")
	require.True(t, ok)
	assert.Equal(t, models.Geography{Region: "Asia", Subregion: "Eastern Asia"}, geo)

	// The conflicting record itself is untouched.
	assert.Equal(t, "Oceania", s.View()[4].Region)

	_, ok = s.GeographyOf("Atlantis")
	assert.False(t, ok)
}

func TestDefaultCriteria_ClampsToDataset(t *testing.T) {
	c := New(fixture()).DefaultCriteria()
	require.NotNil(t, c.YearRange)
	assert.Equal(t, models.YearRange{From: 2010, To: 2020}, *c.YearRange)
	assert.Len(t, c.DisasterTypes, 8)
}

func TestEmptyStore(t *testing.T) {
	s := New(nil)
	assert.Zero(t, s.Len())
	assert.Equal(t, models.YearRange{}, s.YearBounds())
	assert.Empty(t, s.Options().Countries)
}

func TestLoad(t *testing.T) {
	s, err := Load(context.Background(), fakeLister{records: fixture()})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())

	_, err = Load(context.Background(), fakeLister{err: errors.New("locked")})
	assert.Error(t, err)
}
