package inmate

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"warden/internal/custody/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested inmate does not exist
// - Return ErrAlreadyUsed when the prison number is taken
// - Return nil for successful operations
type InMemoryStore struct {
	mu      sync.RWMutex
	inmates map[id.InmateID]*models.Inmate
}

// New constructs an empty in-memory inmate store.
func New() *InMemoryStore {
	return &InMemoryStore{inmates: make(map[id.InmateID]*models.Inmate)}
}

// CreateIfNumberAvailable inserts the inmate only when no existing record
// carries the same prison number. The check and insert run under one lock,
// so concurrent registrations with the same number cannot both succeed.
func (s *InMemoryStore) CreateIfNumberAvailable(_ context.Context, i *models.Inmate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	number := strings.ToLower(i.PrisonNumber)
	for _, existing := range s.inmates {
		if strings.ToLower(existing.PrisonNumber) == number {
			return fmt.Errorf("prison number %s: %w", i.PrisonNumber, sentinel.ErrAlreadyUsed)
		}
	}
	cp := *i
	s.inmates[i.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, inmateID id.InmateID) (*models.Inmate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.inmates[inmateID]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, fmt.Errorf("inmate not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindByPrisonNumber(_ context.Context, prisonNumber string) (*models.Inmate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	number := strings.ToLower(prisonNumber)
	for _, i := range s.inmates {
		if strings.ToLower(i.PrisonNumber) == number {
			cp := *i
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("inmate not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) ListByPrison(_ context.Context, prisonID id.PrisonID) ([]*models.Inmate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Inmate
	for _, i := range s.inmates {
		if i.PrisonID == prisonID {
			cp := *i
			out = append(out, &cp)
		}
	}
	sortByPrisonNumber(out)
	return out, nil
}

func (s *InMemoryStore) ListByStatus(_ context.Context, status id.InmateStatus) ([]*models.Inmate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Inmate
	for _, i := range s.inmates {
		if i.Status == status {
			cp := *i
			out = append(out, &cp)
		}
	}
	sortByPrisonNumber(out)
	return out, nil
}

// CountByStatus returns the number of inmates per status within one facility.
func (s *InMemoryStore) CountByStatus(_ context.Context, prisonID id.PrisonID) (map[id.InmateStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[id.InmateStatus]int)
	for _, i := range s.inmates {
		if i.PrisonID == prisonID {
			counts[i.Status]++
		}
	}
	return counts, nil
}

func (s *InMemoryStore) Update(_ context.Context, i *models.Inmate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inmates[i.ID]; !ok {
		return fmt.Errorf("inmate not found: %w", sentinel.ErrNotFound)
	}
	cp := *i
	s.inmates[i.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, inmateID id.InmateID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inmates[inmateID]; !ok {
		return fmt.Errorf("inmate not found: %w", sentinel.ErrNotFound)
	}
	delete(s.inmates, inmateID)
	return nil
}

func sortByPrisonNumber(inmates []*models.Inmate) {
	sort.Slice(inmates, func(i, j int) bool {
		return inmates[i].PrisonNumber < inmates[j].PrisonNumber
	})
}
