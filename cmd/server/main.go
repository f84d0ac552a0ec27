package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"surana-backend/internal/config"
	"surana-backend/internal/database"
	"surana-backend/internal/handler"
	"surana-backend/internal/kvstore"
	"surana-backend/internal/logging"
	"surana-backend/internal/model"
	"surana-backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if !cfg.EnvFileLoaded {
		log.Info("no .env file found, using process environment")
	}

	health := handler.NewHealthHandler()
	backing, closeStore, err := openStore(cfg, health, log)
	if err != nil {
		log.Fatal("store initialization failed", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer closeStore()

	store := kvstore.NewCached(backing)
	if cfg.Store.Warm {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := store.Warm(ctx, model.KeyNames()...); err != nil {
			log.Warn("cache warm-up failed", zap.Error(err))
		}
		cancel()
	}

	srv := server.New(cfg, store, server.Vendors{}, health, log)
	srv.SetupMiddleware()
	srv.SetupRoutes()

	if err := srv.Start(); err != nil {
		log.Fatal("server failed to start", zap.Error(err))
	}
}

// openStore connects the configured backend and registers its health check
func openStore(cfg *config.Config, health *handler.HealthHandler, log *zap.Logger) (kvstore.Store, func(), error) {
	switch cfg.Store.Backend {
	case "memory":
		log.Warn("using in-memory store, data is lost on restart")
		return kvstore.NewMemoryStore(), func() {}, nil

	case "redis":
		rs, err := kvstore.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		health.Register("redis", rs.Health, true)
		log.Info("redis store connected", zap.String("addr", cfg.Redis.Addr))
		return rs, func() { _ = rs.Close() }, nil

	default:
		db, err := database.ConnectDB(cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, nil, err
		}
		health.Register("database", func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}, true)
		logVersion(db, cfg.Database.Driver, log)
		return kvstore.NewDBStore(db), func() { _ = database.Close(db) }, nil
	}
}

func logVersion(db *gorm.DB, driver string, log *zap.Logger) {
	query := "SELECT version()"
	if driver == "sqlite" {
		query = "SELECT sqlite_version()"
	}
	var version string
	if err := db.Raw(query).Scan(&version).Error; err != nil {
		return
	}
	log.Info("database connected", zap.String("driver", driver), zap.String("version", version))
}
