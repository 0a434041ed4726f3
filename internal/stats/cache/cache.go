// Package cache holds dashboard snapshots keyed by facility. A miss is
// reported via sentinel.ErrNotFound so the service can fall through to a
// fresh count.
package cache

import (
	"context"
	"time"

	"warden/internal/stats/models"
	id "warden/pkg/domain"
)

// Cache stores computed PrisonStats snapshots with a bounded lifetime.
type Cache interface {
	Get(ctx context.Context, prisonID id.PrisonID) (*models.PrisonStats, error)
	Set(ctx context.Context, prisonID id.PrisonID, stats *models.PrisonStats, ttl time.Duration) error
	Invalidate(ctx context.Context, prisonID id.PrisonID) error
}
