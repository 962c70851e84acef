package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cliplink/cliplink/internal/cache"
	"github.com/cliplink/cliplink/internal/cache/memory"
	rediscache "github.com/cliplink/cliplink/internal/cache/redis"
	"github.com/cliplink/cliplink/internal/config"
	"github.com/cliplink/cliplink/internal/ratelimit"
	transport "github.com/cliplink/cliplink/internal/transport/http"
)

// newLogger builds the process logger from the logging configuration
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = level
	return zapCfg.Build()
}

// newStore builds the configured cache backend
func newStore(cfg config.CacheConfig, log *zap.Logger) (cache.KeyValueStore, error) {
	switch cfg.Backend {
	case "redis":
		return rediscache.New(rediscache.Config{
			URL:      cfg.RedisURL,
			PoolSize: cfg.PoolSize,
		}, log)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}

// newLimiter builds the configured limiter, or nil when limiting is disabled
func newLimiter(cfg config.RateLimitConfig, store cache.KeyValueStore, log *zap.Logger) ratelimit.Limiter {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Mode == "fixed" {
		window := time.Duration(cfg.WindowSeconds) * time.Second
		return ratelimit.NewFixedWindow(store, log, int64(cfg.Requests), window)
	}
	return ratelimit.NewTiered(store, log, nil)
}

// dependencyChecks builds the health probes shared by the backing services
func dependencyChecks(db *gorm.DB, store cache.KeyValueStore) map[string]transport.DependencyCheck {
	return map[string]transport.DependencyCheck{
		"database": func(ctx context.Context) bool {
			sqlDB, err := db.DB()
			if err != nil {
				return false
			}
			return sqlDB.PingContext(ctx) == nil
		},
		"cache": func(ctx context.Context) bool {
			return store.HealthCheck(ctx)
		},
	}
}

// runServer serves until an interrupt or termination signal arrives, then
// drains in-flight requests
func runServer(srv *transport.Server, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
