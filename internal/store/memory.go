package store

import (
	"context"
	"sync"

	"github.com/edgegate/edgegate/internal/core"
)

// DefaultCapacity bounds the in-memory decision history.
const DefaultCapacity = 512

var _ core.DecisionStore = (*InMemoryDecisionStore)(nil)

// InMemoryDecisionStore keeps the most recent decisions for the admin API.
// Oldest records are dropped once the capacity is reached.
type InMemoryDecisionStore struct {
	mu       sync.RWMutex
	capacity int
	records  []core.DecisionRecord
}

func NewInMemoryDecisionStore(capacity int) *InMemoryDecisionStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryDecisionStore{
		capacity: capacity,
		records:  make([]core.DecisionRecord, 0, capacity),
	}
}

func (s *InMemoryDecisionStore) Save(_ context.Context, rec core.DecisionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	if len(s.records) > s.capacity {
		s.records = s.records[len(s.records)-s.capacity:]
	}
	return nil
}

func (s *InMemoryDecisionStore) ListRecent(_ context.Context, limit int) ([]core.DecisionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	start := len(s.records) - limit
	out := make([]core.DecisionRecord, limit)
	copy(out, s.records[start:])

	return out, nil
}
