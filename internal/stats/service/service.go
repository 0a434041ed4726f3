// Package service computes per-facility custody dashboards. Counts come from
// the inmate store; each snapshot is cached with a bounded TTL and dropped
// whenever a custody write touches the facility, so readers see at most
// TTL-stale numbers and usually fresher.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"warden/internal/stats/cache"
	statsmetrics "warden/internal/stats/metrics"
	"warden/internal/stats/models"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/sentinel"
	"warden/pkg/requestcontext"
)

// InmateCounter is the slice of the custody service the dashboard needs.
type InmateCounter interface {
	CountByStatus(ctx context.Context, prisonID id.PrisonID) (map[id.InmateStatus]int, error)
}

// Service serves and invalidates cached facility dashboards.
type Service struct {
	counts  InmateCounter
	cache   cache.Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *statsmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *statsmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service. ttl bounds the staleness of a cached snapshot.
func New(counts InmateCounter, c cache.Cache, ttl time.Duration, opts ...Option) *Service {
	s := &Service{counts: counts, cache: c, ttl: ttl}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PrisonStats returns the custody dashboard for one facility, serving a
// cached snapshot when one is live and counting afresh otherwise.
func (s *Service) PrisonStats(ctx context.Context, prisonID id.PrisonID) (*models.PrisonStats, error) {
	if prisonID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "prison id is required")
	}

	cached, err := s.cache.Get(ctx, prisonID)
	switch {
	case err == nil:
		s.metrics.IncrementCacheLookup("hit")
		return cached, nil
	case errors.Is(err, sentinel.ErrNotFound):
		s.metrics.IncrementCacheLookup("miss")
	default:
		// A broken cache degrades to a fresh count, never to an error.
		s.metrics.IncrementCacheLookup("error")
		if s.logger != nil {
			s.logger.WarnContext(ctx, "stats cache read failed",
				"prison_id", prisonID.String(),
				"error", err,
			)
		}
	}

	stats, err := s.compute(ctx, prisonID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, prisonID, stats, s.ttl); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "stats cache write failed",
			"prison_id", prisonID.String(),
			"error", err,
		)
	}
	return stats, nil
}

// Invalidate drops the cached snapshot for a facility. Called by the custody
// service after any write that changes the facility's counts; failures are
// logged and swallowed because the TTL still bounds staleness.
func (s *Service) Invalidate(ctx context.Context, prisonID id.PrisonID) {
	if prisonID.IsNil() {
		return
	}
	if err := s.cache.Invalidate(ctx, prisonID); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "stats cache invalidation failed",
				"prison_id", prisonID.String(),
				"error", err,
			)
		}
		return
	}
	s.metrics.IncrementInvalidation()
}

func (s *Service) compute(ctx context.Context, prisonID id.PrisonID) (*models.PrisonStats, error) {
	counts, err := s.counts.CountByStatus(ctx, prisonID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "count inmates")
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	s.metrics.IncrementComputation()
	return &models.PrisonStats{
		PrisonID:   prisonID,
		Total:      total,
		ByStatus:   counts,
		ComputedAt: requestcontext.Now(ctx).UTC().Format(time.RFC3339),
	}, nil
}
