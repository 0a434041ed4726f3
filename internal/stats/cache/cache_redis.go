package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"warden/internal/stats/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

// Redis key prefix for cached facility dashboards.
const prisonStatsKeyPrefix = "stats:prison:"

// RedisCache is the shared Cache for multi-instance deployments. Snapshots
// are stored as JSON under a per-facility key; expiry is left to Redis.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, prisonID id.PrisonID) (*models.PrisonStats, error) {
	raw, err := c.client.Get(ctx, prisonStatsKey(prisonID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("stats for prison %s: %w", prisonID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var stats models.PrisonStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decode cached stats: %w", err)
	}
	return &stats, nil
}

func (c *RedisCache) Set(ctx context.Context, prisonID id.PrisonID, stats *models.PrisonStats, ttl time.Duration) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := c.client.Set(ctx, prisonStatsKey(prisonID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, prisonID id.PrisonID) error {
	if err := c.client.Del(ctx, prisonStatsKey(prisonID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func prisonStatsKey(prisonID id.PrisonID) string {
	return prisonStatsKeyPrefix + prisonID.String()
}
