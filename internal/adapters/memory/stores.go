package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// SetStore is the in-memory counterpart of the Redis per-user item set.
type SetStore struct {
	mu   sync.Mutex
	sets map[uuid.UUID]map[uuid.UUID]bool
}

func NewSetStore() *SetStore {
	return &SetStore{sets: map[uuid.UUID]map[uuid.UUID]bool{}}
}

func (s *SetStore) Add(_ context.Context, userID uuid.UUID, itemIDs ...uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[userID]
	if !ok {
		set = map[uuid.UUID]bool{}
		s.sets[userID] = set
	}
	for _, id := range itemIDs {
		set[id] = true
	}
	return nil
}

func (s *SetStore) Remove(_ context.Context, userID uuid.UUID, itemIDs ...uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[userID]
	if !ok {
		return nil
	}
	for _, id := range itemIDs {
		delete(set, id)
	}
	return nil
}

func (s *SetStore) Contains(_ context.Context, userID, itemID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets[userID][itemID], nil
}

func (s *SetStore) Members(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.sets[userID]
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out, nil
}
