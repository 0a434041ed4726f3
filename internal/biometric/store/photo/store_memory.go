package photo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"warden/internal/biometric/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	photos map[id.PhotoID]*models.Photo
}

// New constructs an empty in-memory photo store.
func New() *InMemoryStore {
	return &InMemoryStore{photos: make(map[id.PhotoID]*models.Photo)}
}

func (s *InMemoryStore) Create(_ context.Context, p *models.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.photos[p.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, photoID id.PhotoID) (*models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.photos[photoID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, fmt.Errorf("photo not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subject id.Subject) ([]*models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Photo
	for _, p := range s.photos {
		if p.Subject.Equal(subject) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortByCreation(out)
	return out, nil
}

// ListUnconfirmed returns photos awaiting review, oldest first.
func (s *InMemoryStore) ListUnconfirmed(_ context.Context) ([]*models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Photo
	for _, p := range s.photos {
		if !p.IsConfirmed {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortByCreation(out)
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, p *models.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.photos[p.ID]; !ok {
		return fmt.Errorf("photo not found: %w", sentinel.ErrNotFound)
	}
	cp := *p
	s.photos[p.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, photoID id.PhotoID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.photos[photoID]; !ok {
		return fmt.Errorf("photo not found: %w", sentinel.ErrNotFound)
	}
	delete(s.photos, photoID)
	return nil
}

// sortByCreation keeps listings in insertion order so "primary else first"
// lookups are deterministic.
func sortByCreation(photos []*models.Photo) {
	sort.Slice(photos, func(i, j int) bool {
		if !photos[i].CreatedAt.Equal(photos[j].CreatedAt) {
			return photos[i].CreatedAt.Before(photos[j].CreatedAt)
		}
		return photos[i].ID.String() < photos[j].ID.String()
	})
}
