package appearance

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
	mu          sync.RWMutex
	appearances map[id.AppearanceID]*models.Appearance
}

// New constructs an empty in-memory appearance store.
func New() *InMemoryStore {
	return &InMemoryStore{appearances: make(map[id.AppearanceID]*models.Appearance)}
}

func (s *InMemoryStore) Create(_ context.Context, a *models.Appearance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *a
	s.appearances[a.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, appearanceID id.AppearanceID) (*models.Appearance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.appearances[appearanceID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, fmt.Errorf("appearance not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) ListByInmate(_ context.Context, inmateID id.InmateID) ([]*models.Appearance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Appearance
	for _, a := range s.appearances {
		if a.InmateID == inmateID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sortByScheduledDate(out)
	return out, nil
}

// ListUpcoming returns appearances scheduled on or after fromDate. Dates are
// ISO strings, so lexical comparison orders them correctly.
func (s *InMemoryStore) ListUpcoming(_ context.Context, fromDate string) ([]*models.Appearance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Appearance
	for _, a := range s.appearances {
		if a.ScheduledDate >= fromDate {
			cp := *a
			out = append(out, &cp)
		}
	}
	sortByScheduledDate(out)
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, a *models.Appearance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appearances[a.ID]; !ok {
		return fmt.Errorf("appearance not found: %w", sentinel.ErrNotFound)
	}
	cp := *a
	s.appearances[a.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, appearanceID id.AppearanceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appearances[appearanceID]; !ok {
		return fmt.Errorf("appearance not found: %w", sentinel.ErrNotFound)
	}
	delete(s.appearances, appearanceID)
	return nil
}

func sortByScheduledDate(appearances []*models.Appearance) {
	sort.Slice(appearances, func(i, j int) bool {
		if appearances[i].ScheduledDate != appearances[j].ScheduledDate {
			return appearances[i].ScheduledDate < appearances[j].ScheduledDate
		}
		return appearances[i].CreatedAt.Before(appearances[j].CreatedAt)
	})
}
