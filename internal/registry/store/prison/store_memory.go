package prison

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"warden/internal/registry/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested facility does not exist
// - Return ErrAlreadyUsed when the facility code is taken
// - Return nil for successful operations
type InMemoryStore struct {
	mu      sync.RWMutex
	prisons map[id.PrisonID]*models.Prison
}

// New constructs an empty in-memory prison store.
func New() *InMemoryStore {
	return &InMemoryStore{prisons: make(map[id.PrisonID]*models.Prison)}
}

// CreateIfCodeAvailable inserts the facility only when no existing facility
// carries the same code. The code check is case-insensitive.
func (s *InMemoryStore) CreateIfCodeAvailable(_ context.Context, p *models.Prison) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := strings.ToLower(p.Code)
	for _, existing := range s.prisons {
		if strings.ToLower(existing.Code) == code {
			return fmt.Errorf("prison code %s: %w", p.Code, sentinel.ErrAlreadyUsed)
		}
	}
	cp := *p
	s.prisons[p.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, prisonID id.PrisonID) (*models.Prison, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.prisons[prisonID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, fmt.Errorf("prison not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindByCode(_ context.Context, code string) (*models.Prison, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	code = strings.ToLower(code)
	for _, p := range s.prisons {
		if strings.ToLower(p.Code) == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("prison not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Prison, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Prison, 0, len(s.prisons))
	for _, p := range s.prisons {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, p *models.Prison) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prisons[p.ID]; !ok {
		return fmt.Errorf("prison not found: %w", sentinel.ErrNotFound)
	}
	cp := *p
	s.prisons[p.ID] = &cp
	return nil
}
