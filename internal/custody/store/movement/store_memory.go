package movement

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"warden/internal/custody/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	movements map[id.MovementID]*models.Movement
}

// New constructs an empty in-memory movement store.
func New() *InMemoryStore {
	return &InMemoryStore{movements: make(map[id.MovementID]*models.Movement)}
}

func (s *InMemoryStore) Create(_ context.Context, m *models.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.movements[m.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, movementID id.MovementID) (*models.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if m, ok := s.movements[movementID]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, fmt.Errorf("movement not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) ListByInmate(_ context.Context, inmateID id.InmateID) ([]*models.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Movement
	for _, m := range s.movements {
		if m.InmateID == inmateID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sortByDeparture(out)
	return out, nil
}

// ListOpen returns movements with no return date recorded.
func (s *InMemoryStore) ListOpen(_ context.Context) ([]*models.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Movement
	for _, m := range s.movements {
		if m.IsOpen() {
			cp := *m
			out = append(out, &cp)
		}
	}
	sortByDeparture(out)
	return out, nil
}

func (s *InMemoryStore) ListByType(_ context.Context, movementType id.MovementType) ([]*models.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Movement
	for _, m := range s.movements {
		if m.MovementType == movementType {
			cp := *m
			out = append(out, &cp)
		}
	}
	sortByDeparture(out)
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, m *models.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movements[m.ID]; !ok {
		return fmt.Errorf("movement not found: %w", sentinel.ErrNotFound)
	}
	cp := *m
	s.movements[m.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, movementID id.MovementID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movements[movementID]; !ok {
		return fmt.Errorf("movement not found: %w", sentinel.ErrNotFound)
	}
	delete(s.movements, movementID)
	return nil
}

func sortByDeparture(movements []*models.Movement) {
	sort.Slice(movements, func(i, j int) bool {
		if movements[i].DepartureDate != movements[j].DepartureDate {
			return movements[i].DepartureDate < movements[j].DepartureDate
		}
		return movements[i].CreatedAt.Before(movements[j].CreatedAt)
	})
}
