package officer

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

type InMemoryStore struct {
	mu       sync.RWMutex
	officers map[id.OfficerID]*models.Officer
}

// New constructs an empty in-memory officer store.
func New() *InMemoryStore {
	return &InMemoryStore{officers: make(map[id.OfficerID]*models.Officer)}
}

// CreateIfBadgeAvailable inserts the officer only when no existing officer
// carries the same badge number.
func (s *InMemoryStore) CreateIfBadgeAvailable(_ context.Context, o *models.Officer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	badge := strings.ToLower(o.BadgeNumber)
	for _, existing := range s.officers {
		if strings.ToLower(existing.BadgeNumber) == badge {
			return fmt.Errorf("badge number %s: %w", o.BadgeNumber, sentinel.ErrAlreadyUsed)
		}
	}
	cp := *o
	s.officers[o.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, officerID id.OfficerID) (*models.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if o, ok := s.officers[officerID]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, fmt.Errorf("officer not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindByBadge(_ context.Context, badgeNumber string) (*models.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	badge := strings.ToLower(badgeNumber)
	for _, o := range s.officers {
		if strings.ToLower(o.BadgeNumber) == badge {
			cp := *o
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("officer not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) ListByPrison(_ context.Context, prisonID id.PrisonID) ([]*models.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Officer
	for _, o := range s.officers {
		if o.PrisonID == prisonID {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BadgeNumber < out[j].BadgeNumber })
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, o *models.Officer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.officers[o.ID]; !ok {
		return fmt.Errorf("officer not found: %w", sentinel.ErrNotFound)
	}
	cp := *o
	s.officers[o.ID] = &cp
	return nil
}
