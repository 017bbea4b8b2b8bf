package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/amora-app/discovery/internal/app"
	"github.com/amora-app/discovery/internal/cache"
	"github.com/amora-app/discovery/internal/config"
	"github.com/amora-app/discovery/internal/db"
	"github.com/amora-app/discovery/internal/logger"
	"github.com/amora-app/discovery/internal/server"
	"github.com/amora-app/discovery/internal/service/auth"
	"github.com/amora-app/discovery/internal/service/discovery"
	"github.com/amora-app/discovery/internal/service/notifications"
	"github.com/amora-app/discovery/internal/service/profile"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	// Shared dependencies, including the ranking tie-breaker source
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	appCtx := app.New(database, redisCache, log, rnd)

	registrars := []server.Registrar{
		auth.NewRegistrar(appCtx, cfg.JWT.Secret, cfg.JWT.TTL),
		profile.NewRegistrar(appCtx, cfg.JWT.Secret),
		discovery.NewRegistrar(appCtx, cfg.JWT.Secret),
		notifications.NewRegistrar(appCtx, cfg.JWT.Secret),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("http server exited", "err", err)
	}
}
