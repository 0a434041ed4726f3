package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"warden/internal/stats/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

type entry struct {
	stats     models.PrisonStats
	expiresAt time.Time
}

// InMemoryCache is a process-local Cache for tests and single-instance
// deployments without Redis.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[id.PrisonID]entry

	clock func() time.Time
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[id.PrisonID]entry),
		clock:   time.Now,
	}
}

func (c *InMemoryCache) Get(_ context.Context, prisonID id.PrisonID) (*models.PrisonStats, error) {
	c.mu.RLock()
	e, ok := c.entries[prisonID]
	c.mu.RUnlock()

	if !ok || c.clock().After(e.expiresAt) {
		return nil, fmt.Errorf("stats for prison %s: %w", prisonID, sentinel.ErrNotFound)
	}
	stats := e.stats
	stats.ByStatus = copyCounts(e.stats.ByStatus)
	return &stats, nil
}

func (c *InMemoryCache) Set(_ context.Context, prisonID id.PrisonID, stats *models.PrisonStats, ttl time.Duration) error {
	stored := *stats
	stored.ByStatus = copyCounts(stats.ByStatus)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[prisonID] = entry{stats: stored, expiresAt: c.clock().Add(ttl)}
	return nil
}

func (c *InMemoryCache) Invalidate(_ context.Context, prisonID id.PrisonID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, prisonID)
	return nil
}

// Len reports the number of live entries. Test helper.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func copyCounts(in map[id.InmateStatus]int) map[id.InmateStatus]int {
	out := make(map[id.InmateStatus]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
