package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// Each connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			country TEXT NOT NULL,
			region TEXT NOT NULL,
			subregion TEXT NOT NULL,
			type TEXT NOT NULL,
			year INTEGER NOT NULL,
			month INTEGER,
			total_deaths INTEGER,
			total_affected INTEGER,
			total_damage REAL,
			last_update TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_records_year ON records(year);
		CREATE INDEX IF NOT EXISTS idx_records_country ON records(country);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Add(ctx context.Context, r *models.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (id, country, region, subregion, type, year, month,
			total_deaths, total_affected, total_damage, last_update)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Country, r.Region, r.Subregion, string(r.Type), r.Year,
		nullInt(r.Month), nullInt64(r.TotalDeaths), nullInt64(r.TotalAffected),
		nullFloat64(r.TotalDamage), nullDate(r.LastUpdate),
	)
	if err != nil {
		return fmt.Errorf("error inserting record %s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.Record, error) {
	row := s.db.QueryRowContext(ctx, selectRecords+` WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting record %s: %w", id, err)
	}
	return r, nil
}

func (s *SQLiteDB) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM records WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking record %s: %w", id, err)
	}
	return exists, nil
}

// ListRecords returns every record ordered by year, then id.
func (s *SQLiteDB) ListRecords(ctx context.Context) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecords+` ORDER BY year, id`)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning record: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return out, nil
}

func (s *SQLiteDB) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting records: %w", err)
	}
	return n, nil
}

const selectRecords = `
	SELECT id, country, region, subregion, type, year, month,
		total_deaths, total_affected, total_damage, last_update
	FROM records`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*models.Record, error) {
	var (
		r        models.Record
		typ      string
		month    sql.NullInt64
		deaths   sql.NullInt64
		affected sql.NullInt64
		damage   sql.NullFloat64
		updated  sql.NullString
	)
	err := sc.Scan(&r.ID, &r.Country, &r.Region, &r.Subregion, &typ, &r.Year,
		&month, &deaths, &affected, &damage, &updated)
	if err != nil {
		return nil, err
	}

	r.Type = models.DisasterType(typ)
	if month.Valid {
		r.Month = models.Int(int(month.Int64))
	}
	if deaths.Valid {
		r.TotalDeaths = models.Int64(deaths.Int64)
	}
	if affected.Valid {
		r.TotalAffected = models.Int64(affected.Int64)
	}
	if damage.Valid {
		r.TotalDamage = models.Float64(damage.Float64)
	}
	if updated.Valid {
		if t, err := time.Parse(time.DateOnly, updated.String); err == nil {
			r.LastUpdate = models.Time(t)
		}
	}
	return &r, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullFloat64(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullDate(v *time.Time) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: v.Format(time.DateOnly), Valid: true}
}
