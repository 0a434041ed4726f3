package visit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"warden/internal/visits/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	visits map[id.VisitID]*models.Visit
}

// New constructs an empty in-memory visit store.
func New() *InMemoryStore {
	return &InMemoryStore{visits: make(map[id.VisitID]*models.Visit)}
}

func (s *InMemoryStore) Create(_ context.Context, v *models.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *v
	s.visits[v.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, visitID id.VisitID) (*models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.visits[visitID]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, fmt.Errorf("visit not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) ListByInmate(_ context.Context, inmateID id.InmateID) ([]*models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Visit
	for _, v := range s.visits {
		if v.InmateID == inmateID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sortBySchedule(out)
	return out, nil
}

func (s *InMemoryStore) ListByPrison(_ context.Context, prisonID id.PrisonID) ([]*models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Visit
	for _, v := range s.visits {
		if v.PrisonID == prisonID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sortBySchedule(out)
	return out, nil
}

func (s *InMemoryStore) ListByStatus(_ context.Context, status id.VisitStatus) ([]*models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Visit
	for _, v := range s.visits {
		if v.Status == status {
			cp := *v
			out = append(out, &cp)
		}
	}
	sortBySchedule(out)
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, v *models.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.visits[v.ID]; !ok {
		return fmt.Errorf("visit not found: %w", sentinel.ErrNotFound)
	}
	cp := *v
	s.visits[v.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, visitID id.VisitID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.visits[visitID]; !ok {
		return fmt.Errorf("visit not found: %w", sentinel.ErrNotFound)
	}
	delete(s.visits, visitID)
	return nil
}

func sortBySchedule(visits []*models.Visit) {
	sort.Slice(visits, func(i, j int) bool {
		if visits[i].ScheduledDate != visits[j].ScheduledDate {
			return visits[i].ScheduledDate < visits[j].ScheduledDate
		}
		return visits[i].CreatedAt.Before(visits[j].CreatedAt)
	})
}
