package repository

import (
	"context"
	"sync"

	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/types"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[types.Source][]model.Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[types.Source][]model.Record)}
}

func (s *MemoryStore) ListMatches(_ context.Context, source types.Source) ([]model.Record, error) {
	if err := checkSource(source); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Record(nil), s.recs[source]...), nil
}

func (s *MemoryStore) ListMatchesForTeam(ctx context.Context, team int, source types.Source) ([]model.Record, error) {
	all, err := s.ListMatches(ctx, source)
	if err != nil {
		return nil, err
	}
	return filterTeam(all, team), nil
}

func (s *MemoryStore) Append(_ context.Context, source types.Source, recs ...model.Record) error {
	if err := checkSource(source); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[source] = append(s.recs[source], recs...)
	return nil
}

func (s *MemoryStore) Replace(_ context.Context, source types.Source, recs []model.Record) error {
	if err := checkSource(source); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[source] = append([]model.Record(nil), recs...)
	return nil
}

func (s *MemoryStore) Count(_ context.Context, source types.Source) (int, error) {
	if err := checkSource(source); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs[source]), nil
}
