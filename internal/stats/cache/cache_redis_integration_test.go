//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"warden/internal/stats/cache"
	"warden/internal/stats/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
	"warden/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	rc    *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.rc = containers.NewRedisContainer(s.T())
	s.cache = cache.NewRedisCache(s.rc.Client)
}

func (s *RedisCacheSuite) TearDownSuite() {
	_ = s.rc.Terminate(context.Background())
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.rc.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestSetAndGet() {
	ctx := context.Background()
	prisonID := id.NewPrisonID()
	stats := &models.PrisonStats{
		PrisonID: prisonID,
		Total:    45,
		ByStatus: map[id.InmateStatus]int{
			id.StatusRemand:  12,
			id.StatusConvict: 30,
			id.StatusAtCourt: 3,
		},
		ComputedAt: "2026-03-02T10:00:00Z",
	}

	s.Require().NoError(s.cache.Set(ctx, prisonID, stats, time.Minute))

	got, err := s.cache.Get(ctx, prisonID)
	s.Require().NoError(err)
	s.Equal(stats.Total, got.Total)
	s.Equal(stats.ByStatus, got.ByStatus)
	s.Equal(stats.ComputedAt, got.ComputedAt)
	s.Equal(45, got.InCustody())
}

func (s *RedisCacheSuite) TestMissReportsNotFound() {
	_, err := s.cache.Get(context.Background(), id.NewPrisonID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCacheSuite) TestEntryExpires() {
	ctx := context.Background()
	prisonID := id.NewPrisonID()
	stats := &models.PrisonStats{PrisonID: prisonID, Total: 1}

	s.Require().NoError(s.cache.Set(ctx, prisonID, stats, 500*time.Millisecond))

	_, err := s.cache.Get(ctx, prisonID)
	s.Require().NoError(err)

	time.Sleep(time.Second)

	_, err = s.cache.Get(ctx, prisonID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCacheSuite) TestInvalidateScopedToFacility() {
	ctx := context.Background()
	first := id.NewPrisonID()
	second := id.NewPrisonID()

	s.Require().NoError(s.cache.Set(ctx, first, &models.PrisonStats{PrisonID: first, Total: 2}, time.Minute))
	s.Require().NoError(s.cache.Set(ctx, second, &models.PrisonStats{PrisonID: second, Total: 7}, time.Minute))

	s.Require().NoError(s.cache.Invalidate(ctx, first))

	_, err := s.cache.Get(ctx, first)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	got, err := s.cache.Get(ctx, second)
	s.Require().NoError(err)
	s.Equal(7, got.Total)
}
