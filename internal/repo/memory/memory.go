package memory

import (
	"context"
	"sync"

	"github.com/hamed0406/connprobe/internal/domain"
	"github.com/hamed0406/connprobe/internal/repo"
)

type Store struct {
	mu     sync.RWMutex
	states map[domain.Backend]repo.StateRecord
}

func New() *Store {
	return &Store{states: make(map[domain.Backend]repo.StateRecord)}
}

func (m *Store) Get(ctx context.Context, b domain.Backend) (*repo.StateRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.states[b]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Store) Set(ctx context.Context, rec repo.StateRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.LastSentAt != nil {
		ts := *rec.LastSentAt
		rec.LastSentAt = &ts
	}
	m.states[rec.Backend] = rec
	return nil
}
