// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"dbmonitor/internal/feature/results/domain/entity"
	"dbmonitor/internal/feature/results/usecase"
)

// CachingSampleRepository decorates a SampleRepository with Redis caching.
// Samples of a stored run never change, so entries only expire by TTL.
type CachingSampleRepository struct {
	inner     usecase.SampleRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.SampleRepository = (*CachingSampleRepository)(nil)

// NewCachingSampleRepository decorates a SampleRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "monitors".
func NewCachingSampleRepository(rdb *redis.Client, ttl time.Duration, inner usecase.SampleRepository, namespace string) *CachingSampleRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "monitors"
	}
	return &CachingSampleRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FindByRun returns the samples of a run, reading them from Redis when present.
// Only non-empty results are cached: a run without samples may still be in
// progress or may not exist, and must not be pinned for the TTL.
func (c *CachingSampleRepository) FindByRun(ctx context.Context, run uint) ([]entity.MonitorSample, error) {
	if c.rdb == nil {
		return c.inner.FindByRun(ctx, run)
	}

	key := c.cacheKey(run)
	if samples, ok := c.lookup(ctx, key); ok {
		return samples, nil
	}

	samples, err := c.inner.FindByRun(ctx, run)
	if err != nil {
		return nil, err
	}
	if len(samples) > 0 {
		c.store(ctx, key, samples)
	}
	return samples, nil
}

// lookup reads cached samples. Entries that cannot be decoded are removed.
func (c *CachingSampleRepository) lookup(ctx context.Context, key string) ([]entity.MonitorSample, bool) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("sample cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var samples []entity.MonitorSample
	if err := json.Unmarshal(b, &samples); err != nil || len(samples) == 0 {
		slog.Warn("dropping unreadable sample cache entry", "key", key)
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false
	}
	return samples, true
}

func (c *CachingSampleRepository) store(ctx context.Context, key string, samples []entity.MonitorSample) {
	b, err := json.Marshal(samples)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		slog.Warn("sample cache write failed", "key", key, "error", err)
	}
}

// ListGraphs is served by the underlying repository; the layout query is cheap.
func (c *CachingSampleRepository) ListGraphs(ctx context.Context, run uint) ([]entity.Graph, error) {
	return c.inner.ListGraphs(ctx, run)
}

// cacheKey generates a cache key for the samples of a run.
func (c *CachingSampleRepository) cacheKey(run uint) string {
	return fmt.Sprintf("%s:run:%d", c.namespace, run)
}
