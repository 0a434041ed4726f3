package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warden/internal/stats/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

func TestInMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	prisonID := id.NewPrisonID()

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	c := NewInMemoryCache()
	c.clock = func() time.Time { return now }

	stats := &models.PrisonStats{
		PrisonID: prisonID,
		Total:    10,
		ByStatus: map[id.InmateStatus]int{id.StatusRemand: 10},
	}
	require.NoError(t, c.Set(ctx, prisonID, stats, 30*time.Second))

	got, err := c.Get(ctx, prisonID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Total)

	now = now.Add(31 * time.Second)
	_, err = c.Get(ctx, prisonID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryCacheIsolation(t *testing.T) {
	ctx := context.Background()
	prisonID := id.NewPrisonID()

	c := NewInMemoryCache()
	stats := &models.PrisonStats{
		PrisonID: prisonID,
		Total:    4,
		ByStatus: map[id.InmateStatus]int{id.StatusConvict: 4},
	}
	require.NoError(t, c.Set(ctx, prisonID, stats, time.Minute))

	// Mutating the caller's map must not reach the stored snapshot.
	stats.ByStatus[id.StatusConvict] = 99

	got, err := c.Get(ctx, prisonID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.ByStatus[id.StatusConvict])

	// Nor must mutating a returned snapshot.
	got.ByStatus[id.StatusConvict] = 77
	again, err := c.Get(ctx, prisonID)
	require.NoError(t, err)
	assert.Equal(t, 4, again.ByStatus[id.StatusConvict])
}

func TestInMemoryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	prisonID := id.NewPrisonID()

	c := NewInMemoryCache()
	require.NoError(t, c.Set(ctx, prisonID, &models.PrisonStats{PrisonID: prisonID}, time.Minute))
	require.Equal(t, 1, c.Len())

	require.NoError(t, c.Invalidate(ctx, prisonID))
	require.Equal(t, 0, c.Len())

	_, err := c.Get(ctx, prisonID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
