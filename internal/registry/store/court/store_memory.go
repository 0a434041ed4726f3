package court

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
	mu     sync.RWMutex
	courts map[id.CourtID]*models.Court
}

// New constructs an empty in-memory court store.
func New() *InMemoryStore {
	return &InMemoryStore{courts: make(map[id.CourtID]*models.Court)}
}

func (s *InMemoryStore) Create(_ context.Context, c *models.Court) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.courts[c.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, courtID id.CourtID) (*models.Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.courts[courtID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, fmt.Errorf("court not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Court, 0, len(s.courts))
	for _, c := range s.courts {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
