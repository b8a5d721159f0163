package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

// CriteriaStore keeps each session's current criteria. Entries expire after
// the TTL given on the last Save.
type CriteriaStore interface {
	Load(ctx context.Context, id string) (models.Criteria, bool, error)
	Save(ctx context.Context, id string, c models.Criteria, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	criteria  models.Criteria
	expiresAt time.Time
}

// MemoryStore is a process-local CriteriaStore.
type MemoryStore struct {
	clock   clockwork.Clock
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		clock:   clock,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (models.Criteria, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return models.Criteria{}, false, nil
	}
	if !m.clock.Now().Before(e.expiresAt) {
		delete(m.entries, id)
		return models.Criteria{}, false, nil
	}
	return e.criteria.Clone(), true, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, c models.Criteria, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[id] = memoryEntry{
		criteria:  c.Clone(),
		expiresAt: m.clock.Now().Add(ttl),
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Sweep drops expired entries and returns their ids.
func (m *MemoryStore) Sweep() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	var expired []string
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			expired = append(expired, id)
			delete(m.entries, id)
		}
	}
	return expired
}

// RedisStore shares session criteria between dashboard instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "dashboard:session:",
	}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Load(ctx context.Context, id string) (models.Criteria, bool, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Criteria{}, false, nil
	}
	if err != nil {
		return models.Criteria{}, false, fmt.Errorf("error reading session %s: %w", id, err)
	}

	var c models.Criteria
	if err := json.Unmarshal(data, &c); err != nil {
		return models.Criteria{}, false, fmt.Errorf("error decoding session %s: %w", id, err)
	}
	return c, true, nil
}

func (r *RedisStore) Save(ctx context.Context, id string, c models.Criteria, ttl time.Duration) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("error encoding session %s: %w", id, err)
	}
	if err := r.client.Set(ctx, r.key(id), data, ttl).Err(); err != nil {
		return fmt.Errorf("error writing session %s: %w", id, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("error deleting session %s: %w", id, err)
	}
	return nil
}
