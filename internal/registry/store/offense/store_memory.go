package offense

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"warden/internal/registry/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	offenses map[id.OffenseID]*models.Offense
}

// New constructs an empty in-memory offense store.
func New() *InMemoryStore {
	return &InMemoryStore{offenses: make(map[id.OffenseID]*models.Offense)}
}

func (s *InMemoryStore) Create(_ context.Context, o *models.Offense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *o
	s.offenses[o.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, offenseID id.OffenseID) (*models.Offense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if o, ok := s.offenses[offenseID]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, fmt.Errorf("offense not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Offense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Offense, 0, len(s.offenses))
	for _, o := range s.offenses {
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
