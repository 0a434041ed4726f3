package blob

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

// InMemoryStore tracks references without holding bytes. Suitable for tests
// and single-node development.
type InMemoryStore struct {
	mu   sync.RWMutex
	refs map[id.StorageRef]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{refs: make(map[id.StorageRef]bool)}
}

func (s *InMemoryStore) GenerateUploadURL(_ context.Context) (string, id.StorageRef, error) {
	ref := id.StorageRef(uuid.NewString())

	s.mu.Lock()
	s.refs[ref] = true
	s.mu.Unlock()

	return fmt.Sprintf("mem://upload/%s", ref), ref, nil
}

func (s *InMemoryStore) Delete(_ context.Context, ref id.StorageRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.refs[ref] {
		return sentinel.ErrNotFound
	}
	delete(s.refs, ref)
	return nil
}

// Exists reports whether ref is still held. Test helper.
func (s *InMemoryStore) Exists(ref id.StorageRef) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refs[ref]
}

// Len reports the number of live references. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.refs)
}
