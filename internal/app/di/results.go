// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"dbmonitor/internal/feature/results/adapters"
	"dbmonitor/internal/feature/results/usecase"
	"dbmonitor/internal/platform/cache"
)

// NewSampleRepository creates a SampleRepository implementation.
// If Redis is available, the gorm repository is wrapped with a Redis cache.
// Otherwise, samples are always read from the database.
func NewSampleRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) usecase.SampleRepository {
	repo := adapters.NewSampleRepository(db)
	if rdb != nil {
		return cache.NewCachingSampleRepository(rdb, ttl, repo, "monitors")
	}
	return repo
}

// NewResultsUsecase wires the results usecase against the result database.
func NewResultsUsecase(rdb *redis.Client, db *gorm.DB, ttl time.Duration) *usecase.ResultsUsecase {
	return usecase.NewResultsUsecase(adapters.NewRunRepository(db), NewSampleRepository(rdb, db, ttl))
}
