package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hamed0406/pagegrader/internal/domain"
	"github.com/hamed0406/pagegrader/internal/repo"
)

const defaultMaxRuns = 500

// Store holds the most recent runs in memory; the oldest are dropped once
// the cap is reached.
type Store struct {
	mu    sync.RWMutex
	max   int
	order []domain.RunID // oldest first
	runs  map[domain.RunID]*domain.Run
}

func New(maxRuns int) *Store {
	if maxRuns <= 0 {
		maxRuns = defaultMaxRuns
	}
	return &Store{
		max:  maxRuns,
		runs: make(map[domain.RunID]*domain.Run),
	}
}

func (m *Store) Add(ctx context.Context, r *domain.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = domain.RunID(uuid.NewString())
	}
	if r.CheckedAt.IsZero() {
		r.CheckedAt = time.Now().UTC()
	}
	if _, ok := m.runs[r.ID]; !ok {
		m.order = append(m.order, r.ID)
	}
	m.runs[r.ID] = r

	for len(m.order) > m.max {
		delete(m.runs, m.order[0])
		m.order = m.order[1:]
	}
	return nil
}

func (m *Store) Get(ctx context.Context, id domain.RunID) (*domain.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *Store) List(ctx context.Context) ([]domain.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Run, 0, len(m.order))
	for _, id := range slices.Backward(m.order) {
		out = append(out, *m.runs[id])
	}
	return out, nil
}
