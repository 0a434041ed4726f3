package fingerprint

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"warden/internal/biometric/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

// slotKey identifies the (subject, finger) pair a record occupies.
type slotKey struct {
	subject string
	finger  id.Finger
}

type InMemoryStore struct {
	mu    sync.RWMutex
	byID  map[id.FingerprintID]*models.Fingerprint
	slots map[slotKey]id.FingerprintID
}

// New constructs an empty in-memory fingerprint store.
func New() *InMemoryStore {
	return &InMemoryStore{
		byID:  make(map[id.FingerprintID]*models.Fingerprint),
		slots: make(map[slotKey]id.FingerprintID),
	}
}

func keyFor(f *models.Fingerprint) slotKey {
	return slotKey{subject: f.Subject.Key(), finger: f.Finger}
}

// Create inserts a record for a slot that must be vacant. Occupied slots
// return sentinel.ErrAlreadyUsed; the service resolves occupancy into an
// in-place replacement instead.
func (s *InMemoryStore) Create(_ context.Context, f *models.Fingerprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyFor(f)
	if _, taken := s.slots[key]; taken {
		return fmt.Errorf("fingerprint slot taken: %w", sentinel.ErrAlreadyUsed)
	}
	cp := *f
	s.byID[f.ID] = &cp
	s.slots[key] = f.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, fingerprintID id.FingerprintID) (*models.Fingerprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if f, ok := s.byID[fingerprintID]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, fmt.Errorf("fingerprint not found: %w", sentinel.ErrNotFound)
}

// FindBySlot returns the record occupying the (subject, finger) slot.
func (s *InMemoryStore) FindBySlot(_ context.Context, subject id.Subject, finger id.Finger) (*models.Fingerprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := slotKey{subject: subject.Key(), finger: finger}
	if fpID, ok := s.slots[key]; ok {
		cp := *s.byID[fpID]
		return &cp, nil
	}
	return nil, fmt.Errorf("fingerprint not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subject id.Subject) ([]*models.Fingerprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Fingerprint
	for _, f := range s.byID {
		if f.Subject.Equal(subject) {
			cp := *f
			out = append(out, &cp)
		}
	}
	sortByFinger(out)
	return out, nil
}

// ListUnconfirmed returns fingerprints awaiting review.
func (s *InMemoryStore) ListUnconfirmed(_ context.Context) ([]*models.Fingerprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Fingerprint
	for _, f := range s.byID {
		if !f.IsConfirmed {
			cp := *f
			out = append(out, &cp)
		}
	}
	sortByFinger(out)
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, f *models.Fingerprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[f.ID]; !ok {
		return fmt.Errorf("fingerprint not found: %w", sentinel.ErrNotFound)
	}
	cp := *f
	s.byID[f.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, fingerprintID id.FingerprintID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.byID[fingerprintID]
	if !ok {
		return fmt.Errorf("fingerprint not found: %w", sentinel.ErrNotFound)
	}
	delete(s.slots, keyFor(f))
	delete(s.byID, fingerprintID)
	return nil
}

// fingerOrder indexes the stable slot ordering for listings.
var fingerOrder = func() map[id.Finger]int {
	order := make(map[id.Finger]int, 10)
	for i, f := range id.Fingers() {
		order[f] = i
	}
	return order
}()

func sortByFinger(fingerprints []*models.Fingerprint) {
	sort.Slice(fingerprints, func(i, j int) bool {
		if fingerprints[i].Subject.Key() != fingerprints[j].Subject.Key() {
			return fingerprints[i].Subject.Key() < fingerprints[j].Subject.Key()
		}
		return fingerOrder[fingerprints[i].Finger] < fingerOrder[fingerprints[j].Finger]
	})
}
