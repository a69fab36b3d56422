package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"quitcoach/models"
	"quitcoach/utils"
)

// WeekCache stores materialized week grids. Get misses are never errors; a cache
// that cannot be reached behaves like an empty one.
type WeekCache interface {
	Get(ctx context.Context, coachID string, weekStart models.Date) (*models.WeekGrid, bool)
	Set(ctx context.Context, coachID string, weekStart models.Date, grid *models.WeekGrid) error
	// Invalidate drops every cached week of the coach.
	Invalidate(ctx context.Context, coachID string) error
}

// NoopWeekCache never stores anything.
type NoopWeekCache struct{}

func (NoopWeekCache) Get(context.Context, string, models.Date) (*models.WeekGrid, bool) {
	return nil, false
}
func (NoopWeekCache) Set(context.Context, string, models.Date, *models.WeekGrid) error { return nil }
func (NoopWeekCache) Invalidate(context.Context, string) error                       { return nil }

const weekCacheKeyPrefix = "schedule:week:"

// RedisWeekCache keys each grid by the coach's current version counter.
// Invalidate bumps the counter, which orphans every older entry until its TTL
// expires, so no key scan is needed.
type RedisWeekCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisWeekCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisWeekCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisWeekCache{client: client, ttl: ttl, logger: logger}
}

func versionKey(coachID string) string {
	return fmt.Sprintf("%sver:%s", weekCacheKeyPrefix, coachID)
}

func gridKey(coachID string, version int64, weekStart models.Date) string {
	return fmt.Sprintf("%s%s:%d:%s", weekCacheKeyPrefix, coachID, version, weekStart)
}

func (c *RedisWeekCache) version(ctx context.Context, coachID string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(coachID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisWeekCache) Get(ctx context.Context, coachID string, weekStart models.Date) (*models.WeekGrid, bool) {
	v, err := c.version(ctx, coachID)
	if err != nil {
		utils.WeekCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("Week cache version lookup failed", zap.String("coachID", coachID), zap.Error(err))
		return nil, false
	}
	data, err := c.client.Get(ctx, gridKey(coachID, v, weekStart)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.WeekCacheLookups.WithLabelValues("error").Inc()
			c.logger.Warn("Week cache read failed", zap.String("coachID", coachID), zap.Error(err))
			return nil, false
		}
		utils.WeekCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	var grid models.WeekGrid
	if err := json.Unmarshal(data, &grid); err != nil {
		utils.WeekCacheLookups.WithLabelValues("error").Inc()
		return nil, false
	}
	utils.WeekCacheLookups.WithLabelValues("hit").Inc()
	return &grid, true
}

func (c *RedisWeekCache) Set(ctx context.Context, coachID string, weekStart models.Date, grid *models.WeekGrid) error {
	v, err := c.version(ctx, coachID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(grid)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, gridKey(coachID, v, weekStart), data, c.ttl).Err()
}

func (c *RedisWeekCache) Invalidate(ctx context.Context, coachID string) error {
	return c.client.Incr(ctx, versionKey(coachID)).Err()
}
