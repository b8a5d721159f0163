package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/mr1hm/go-disaster-dashboard/internal/config"
	"github.com/mr1hm/go-disaster-dashboard/internal/models"
	"github.com/mr1hm/go-disaster-dashboard/internal/observability"
	"github.com/mr1hm/go-disaster-dashboard/internal/repository"
	"github.com/mr1hm/go-disaster-dashboard/internal/worker"
)

// Result counts what happened to each data row of an import.
type Result struct {
	Added      int64 `json:"added"`
	Duplicates int64 `json:"duplicates"`
	Skipped    int64 `json:"skipped"`
	Failed     int64 `json:"failed"`
}

type Manager struct {
	cfg     *config.Config
	repo    repository.RecordRepository
	metrics *observability.Metrics
}

func NewManager(cfg *config.Config, repo repository.RecordRepository, metrics *observability.Metrics) *Manager {
	return &Manager{
		cfg:     cfg,
		repo:    repo,
		metrics: metrics,
	}
}

// Import reads path and stores every new record. sheet selects a workbook
// sheet; empty means the first.
func (m *Manager) Import(ctx context.Context, path, sheet string) (Result, error) {
	rows, err := ReadRows(path, sheet)
	if err != nil {
		return Result{}, err
	}
	records, skipped, err := ParseRows(rows)
	if err != nil {
		return Result{}, fmt.Errorf("error parsing %s: %w", path, err)
	}

	res, err := m.Store(ctx, records)
	res.Skipped += int64(skipped)
	m.count("skipped", skipped)

	slog.Info("import complete",
		"file", path,
		"added", res.Added,
		"duplicates", res.Duplicates,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)
	return res, err
}

// Store writes records through the worker pool, skipping ids that already
// exist in the repository or appear earlier in records.
func (m *Manager) Store(ctx context.Context, records []*models.Record) (Result, error) {
	var added, duplicates, failed atomic.Int64

	processor := func(ctx context.Context, r *models.Record) error {
		exists, err := m.repo.Exists(ctx, r.ID)
		if err != nil {
			failed.Add(1)
			slog.Error("error checking existence", "id", r.ID, "error", err)
			return err
		}
		if exists {
			duplicates.Add(1)
			return nil
		}

		if err := m.repo.Add(ctx, r); err != nil {
			failed.Add(1)
			slog.Error("error adding record", "id", r.ID, "error", err)
			return err
		}
		added.Add(1)
		slog.Debug("added record", "id", r.ID, "country", r.Country, "type", r.Type)
		return nil
	}

	pool := worker.NewPool(m.cfg.Worker.Count, m.cfg.Worker.BufferSize, processor)
	pool.Start(ctx)

	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			duplicates.Add(1)
			continue
		}
		seen[r.ID] = struct{}{}
		if !pool.Submit(ctx, r) {
			break
		}
	}
	pool.Stop()

	res := Result{
		Added:      added.Load(),
		Duplicates: duplicates.Load(),
		Failed:     failed.Load(),
	}
	m.count("added", int(res.Added))
	m.count("duplicate", int(res.Duplicates))
	m.count("error", int(res.Failed))

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("import interrupted: %w", err)
	}
	return res, nil
}

func (m *Manager) count(outcome string, n int) {
	if m.metrics != nil && n > 0 {
		m.metrics.ImportRows.WithLabelValues(outcome).Add(float64(n))
	}
}
