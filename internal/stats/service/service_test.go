package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"warden/internal/stats/cache"
	"warden/internal/stats/models"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

type StatsServiceSuite struct {
	suite.Suite
	counter  *stubCounter
	cache    *cache.InMemoryCache
	service  *Service
	prisonID id.PrisonID
}

func TestStatsServiceSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceSuite))
}

func (s *StatsServiceSuite) SetupTest() {
	s.prisonID = id.NewPrisonID()
	s.counter = &stubCounter{counts: map[id.InmateStatus]int{
		id.StatusRemand:  12,
		id.StatusConvict: 30,
		id.StatusAtCourt: 3,
	}}
	s.cache = cache.NewInMemoryCache()
	s.service = New(s.counter, s.cache, time.Minute)
}

func (s *StatsServiceSuite) TestPrisonStats() {
	ctx := context.Background()

	s.Run("counts the facility roll", func() {
		stats, err := s.service.PrisonStats(ctx, s.prisonID)
		s.Require().NoError(err)
		s.Equal(s.prisonID, stats.PrisonID)
		s.Equal(45, stats.Total)
		s.Equal(45, stats.InCustody())
		s.Equal(12, stats.ByStatus[id.StatusRemand])
		s.NotEmpty(stats.ComputedAt)
	})

	s.Run("released inmates stay off the custody count", func() {
		s.counter.counts[id.StatusReleased] = 7
		s.service.Invalidate(ctx, s.prisonID)

		stats, err := s.service.PrisonStats(ctx, s.prisonID)
		s.Require().NoError(err)
		s.Equal(52, stats.Total)
		s.Equal(45, stats.InCustody())
	})

	s.Run("nil prison id rejected", func() {
		_, err := s.service.PrisonStats(ctx, id.PrisonID{})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("counter failure surfaces as internal", func() {
		s.counter.err = errors.New("connection reset")
		_, err := s.service.PrisonStats(ctx, id.NewPrisonID())
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *StatsServiceSuite) TestCaching() {
	ctx := context.Background()

	s.Run("second read is served from the cache", func() {
		_, err := s.service.PrisonStats(ctx, s.prisonID)
		s.Require().NoError(err)
		_, err = s.service.PrisonStats(ctx, s.prisonID)
		s.Require().NoError(err)
		s.Equal(1, s.counter.calls)
	})

	s.Run("invalidation forces a recount", func() {
		_, err := s.service.PrisonStats(ctx, s.prisonID)
		s.Require().NoError(err)

		s.counter.counts[id.StatusRemand] = 13
		s.service.Invalidate(ctx, s.prisonID)

		stats, err := s.service.PrisonStats(ctx, s.prisonID)
		s.Require().NoError(err)
		s.Equal(13, stats.ByStatus[id.StatusRemand])
		s.Equal(2, s.counter.calls)
	})

	s.Run("snapshots are scoped per facility", func() {
		otherPrison := id.NewPrisonID()
		_, err := s.service.PrisonStats(ctx, s.prisonID)
		s.Require().NoError(err)
		_, err = s.service.PrisonStats(ctx, otherPrison)
		s.Require().NoError(err)

		s.service.Invalidate(ctx, otherPrison)
		_, err = s.service.PrisonStats(ctx, s.prisonID)
		s.Require().NoError(err)
		s.Equal(3, s.counter.calls)
	})

	s.Run("broken cache degrades to a fresh count", func() {
		counter := &stubCounter{counts: map[id.InmateStatus]int{id.StatusRemand: 5}}
		svc := New(counter, failingCache{}, time.Minute)

		stats, err := svc.PrisonStats(ctx, s.prisonID)
		s.Require().NoError(err)
		s.Equal(5, stats.ByStatus[id.StatusRemand])

		_, err = svc.PrisonStats(ctx, s.prisonID)
		s.Require().NoError(err)
		s.Equal(2, counter.calls)
	})

	s.Run("invalidating a nil prison id is a no-op", func() {
		s.service.Invalidate(ctx, id.PrisonID{})
	})
}

type stubCounter struct {
	counts map[id.InmateStatus]int
	calls  int
	err    error
}

func (c *stubCounter) CountByStatus(_ context.Context, _ id.PrisonID) (map[id.InmateStatus]int, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	out := make(map[id.InmateStatus]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out, nil
}

type failingCache struct{}

func (failingCache) Get(context.Context, id.PrisonID) (*models.PrisonStats, error) {
	return nil, errors.New("redis unavailable")
}

func (failingCache) Set(context.Context, id.PrisonID, *models.PrisonStats, time.Duration) error {
	return errors.New("redis unavailable")
}

func (failingCache) Invalidate(context.Context, id.PrisonID) error {
	return errors.New("redis unavailable")
}
