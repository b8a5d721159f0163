package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-disaster-dashboard/internal/dashboard"
	"github.com/mr1hm/go-disaster-dashboard/internal/models"
	"github.com/mr1hm/go-disaster-dashboard/internal/observability"
)

var (
	ErrNotFound   = errors.New("session not found")
	ErrSuperseded = errors.New("superseded by a newer criteria change")
)

// live tracks the computation currently in flight for one session.
type live struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Pipeline computes views; *dashboard.Pipeline satisfies it.
type Pipeline interface {
	Compute(ctx context.Context, c models.Criteria) (*dashboard.View, error)
	Subset(c models.Criteria) []models.Record
	DefaultCriteria() models.Criteria
}

// Manager owns per-session criteria and runs the pipeline for them.
// Sessions share the pipeline's store; each has its own criteria.
type Manager struct {
	pipeline    Pipeline
	store       CriteriaStore
	broadcaster *Broadcaster
	metrics     *observability.Metrics
	clock       clockwork.Clock
	ttl         time.Duration

	mu   sync.Mutex
	live map[string]*live
}

type Options struct {
	TTL     time.Duration
	Clock   clockwork.Clock
	Metrics *observability.Metrics
}

func NewManager(p Pipeline, store CriteriaStore, b *Broadcaster, opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	return &Manager{
		pipeline:    p,
		store:       store,
		broadcaster: b,
		metrics:     opts.Metrics,
		clock:       opts.Clock,
		ttl:         opts.TTL,
		live:        make(map[string]*live),
	}
}

// Create starts a session with the default criteria.
func (m *Manager) Create(ctx context.Context) (string, *dashboard.View, error) {
	id := uuid.NewString()
	criteria := m.pipeline.DefaultCriteria()

	if err := m.store.Save(ctx, id, criteria, m.ttl); err != nil {
		return "", nil, err
	}
	m.liveFor(id)

	v, err := m.pipeline.Compute(ctx, criteria)
	if err != nil {
		return "", nil, fmt.Errorf("error computing initial view: %w", err)
	}

	slog.Debug("session created", "session_id", id)
	return id, v, nil
}

// View recomputes the view for the session's stored criteria and extends its TTL.
func (m *Manager) View(ctx context.Context, id string) (*dashboard.View, error) {
	criteria, err := m.load(ctx, id)
	if err != nil {
		m.forgetMissing(id, err)
		return nil, err
	}
	if err := m.store.Save(ctx, id, criteria, m.ttl); err != nil {
		return nil, err
	}
	return m.pipeline.Compute(ctx, criteria)
}

// Update applies p to the session's criteria and recomputes. A later Update
// or Reset for the same session cancels this one, which then returns
// ErrSuperseded.
func (m *Manager) Update(ctx context.Context, id string, p Patch) (*dashboard.View, error) {
	return m.recompute(ctx, id, p.Apply)
}

// Reset restores the default criteria.
func (m *Manager) Reset(ctx context.Context, id string) (*dashboard.View, error) {
	return m.recompute(ctx, id, func(models.Criteria) models.Criteria {
		return m.pipeline.DefaultCriteria()
	})
}

func (m *Manager) recompute(ctx context.Context, id string, change func(models.Criteria) models.Criteria) (*dashboard.View, error) {
	l := m.liveFor(id)

	l.mu.Lock()
	current, err := m.load(ctx, id)
	if err != nil {
		l.mu.Unlock()
		if errors.Is(err, ErrNotFound) {
			m.forget(id)
		} else {
			m.dropIdle(id, l)
		}
		return nil, err
	}
	next := change(current)
	if err := m.store.Save(ctx, id, next, m.ttl); err != nil {
		l.mu.Unlock()
		return nil, err
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	v, err := m.pipeline.Compute(runCtx, next)
	cancel()

	// Held through the final save and publish: a newer change must not
	// finish in between.
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.gen != gen {
		if m.metrics != nil {
			m.metrics.PipelineSuperseded.Inc()
		}
		slog.Debug("computation superseded", "session_id", id, "generation", gen)
		return nil, ErrSuperseded
	}
	l.cancel = nil
	if err != nil {
		return nil, fmt.Errorf("error computing view: %w", err)
	}

	// Persist the reconciled criteria so cleared selections stay cleared.
	if len(v.Adjustments) > 0 {
		if err := m.store.Save(ctx, id, v.Criteria, m.ttl); err != nil {
			return nil, err
		}
	}

	m.broadcaster.Publish(id, v)
	return v, nil
}

// Records returns the filtered subset for the session's current criteria.
func (m *Manager) Records(ctx context.Context, id string) ([]models.Record, error) {
	criteria, err := m.load(ctx, id)
	if err != nil {
		m.forgetMissing(id, err)
		return nil, err
	}
	return m.pipeline.Subset(criteria), nil
}

// Delete ends the session and closes its streams.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if _, err := m.load(ctx, id); err != nil {
		m.forgetMissing(id, err)
		return err
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.forget(id)
	return nil
}

func (m *Manager) Subscribe(id string) (uint64, <-chan *dashboard.View) {
	return m.broadcaster.Subscribe(id)
}

func (m *Manager) Unsubscribe(subID uint64) {
	m.broadcaster.Unsubscribe(subID)
}

// Run expires idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			for _, id := range m.expired(ctx) {
				m.forget(id)
				slog.Debug("session expired", "session_id", id)
			}
		}
	}
}

func (m *Manager) expired(ctx context.Context) []string {
	if s, ok := m.store.(interface{ Sweep() []string }); ok {
		return s.Sweep()
	}

	m.mu.Lock()
	ids := make([]string, 0, len(m.live))
	for id := range m.live {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var gone []string
	for _, id := range ids {
		_, ok, err := m.store.Load(ctx, id)
		if err != nil {
			slog.Warn("session expiry check failed", "session_id", id, "error", err)
			continue
		}
		if !ok {
			gone = append(gone, id)
		}
	}
	return gone
}

func (m *Manager) load(ctx context.Context, id string) (models.Criteria, error) {
	c, ok, err := m.store.Load(ctx, id)
	if err != nil {
		return models.Criteria{}, err
	}
	if !ok {
		return models.Criteria{}, ErrNotFound
	}
	return c, nil
}

func (m *Manager) forgetMissing(id string, err error) {
	if errors.Is(err, ErrNotFound) {
		m.forget(id)
	}
}

func (m *Manager) liveFor(id string) *live {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.live[id]
	if !ok {
		l = &live{}
		m.live[id] = l
		m.updateGauge()
	}
	return l
}

// dropIdle removes l if it is still registered for id and has never run a
// computation. It undoes liveFor when the session could not be read.
func (m *Manager) dropIdle(id string, l *live) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.live[id] != l {
		return
	}
	l.mu.Lock()
	idle := l.gen == 0
	l.mu.Unlock()
	if idle {
		delete(m.live, id)
		m.updateGauge()
	}
}

func (m *Manager) forget(id string) {
	m.mu.Lock()
	if l, ok := m.live[id]; ok {
		l.mu.Lock()
		if l.cancel != nil {
			l.cancel()
		}
		l.mu.Unlock()
		delete(m.live, id)
		m.updateGauge()
	}
	m.mu.Unlock()

	m.broadcaster.CloseSession(id)
}

// updateGauge must be called with m.mu held.
func (m *Manager) updateGauge() {
	if m.metrics != nil {
		m.metrics.ActiveSessions.Set(float64(len(m.live)))
	}
}
