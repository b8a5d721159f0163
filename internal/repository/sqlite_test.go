package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	return db
}

func TestSQLiteDB_AddAndGetRecord(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	record := &models.Record{
		ID:            "2010-0070-CHL",
		Country:       "Chile",
		Region:        "Americas",
		Subregion:     "South America",
		Type:          models.DisasterTypeEarthquake,
		Year:          2010,
		Month:         models.Int(2),
		TotalDeaths:   models.Int64(525),
		TotalAffected: models.Int64(2671556),
		TotalDamage:   models.Float64(3e10),
		LastUpdate:    models.Time(time.Date(2023, 9, 15, 0, 0, 0, 0, time.UTC)),
	}

	err := db.Add(ctx, record)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := db.GetByID(ctx, "2010-0070-CHL")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record, got)
}

func TestSQLiteDB_NullableColumns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.Add(ctx, &models.Record{
		ID:      "sparse",
		Country: "Peru",
		Type:    models.DisasterTypeFlood,
		Year:    2017,
	}))

	got, err := db.GetByID(ctx, "sparse")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Month)
	assert.Nil(t, got.TotalDeaths)
	assert.Nil(t, got.TotalAffected)
	assert.Nil(t, got.TotalDamage)
	assert.Nil(t, got.LastUpdate)
}

func TestSQLiteDB_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	got, err := db.GetByID(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteDB_Exists(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	exists, err := db.Exists(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected false for nonexistent ID")
	}

	db.Add(ctx, &models.Record{ID: "exists_test", Country: "Japan", Type: models.DisasterTypeFlood, Year: 2020})

	exists, err = db.Exists(ctx, "exists_test")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected true for existing ID")
	}
}

func TestSQLiteDB_DuplicateAdd(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	r := &models.Record{ID: "dup", Country: "Japan", Type: models.DisasterTypeStorm, Year: 2019}

	require.NoError(t, db.Add(ctx, r))
	assert.Error(t, db.Add(ctx, r))

	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteDB_ListRecordsOrdered(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	for _, r := range []*models.Record{
		{ID: "c", Country: "India", Type: models.DisasterTypeFlood, Year: 2005},
		{ID: "b", Country: "Japan", Type: models.DisasterTypeEarthquake, Year: 2011},
		{ID: "a", Country: "China", Type: models.DisasterTypeFlood, Year: 2011},
	} {
		require.NoError(t, db.Add(ctx, r))
	}

	records, err := db.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	ids := []string{records[0].ID, records[1].ID, records[2].ID}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestSQLiteDB_ListRecordsEmpty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	records, err := db.ListRecords(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	n, err := db.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
