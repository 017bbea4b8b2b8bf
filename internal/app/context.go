package app

import (
	"log/slog"
	"math/rand"

	"gorm.io/gorm"

	"github.com/amora-app/discovery/internal/cache"
)

// AppContext holds shared dependencies (DB, Redis, Logger, randomness).
// Lifecycle is owned by the process entry point; components receive it at
// construction time and never initialize global state themselves.
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger

	// Rand feeds the discovery tie-breaker. Injected so ranking order is
	// reproducible in tests with a fixed seed.
	Rand *rand.Rand
}

// New creates a new AppContext
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, rnd *rand.Rand) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Rand:       rnd,
	}
}
