package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cliplink/cliplink/internal/cache"
	"github.com/cliplink/cliplink/internal/config"
	"github.com/cliplink/cliplink/internal/events"
	"github.com/cliplink/cliplink/internal/repository/gormdb"
	"github.com/cliplink/cliplink/internal/service"
	"github.com/cliplink/cliplink/internal/shortcode"
	transport "github.com/cliplink/cliplink/internal/transport/http"
)

const shutdownTimeout = 15 * time.Second

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the public API gateway",
	RunE:  runGateway,
}

var shortenerCmd = &cobra.Command{
	Use:   "shortener",
	Short: "Start the URL management service",
	RunE:  runShortener,
}

var redirectorCmd = &cobra.Command{
	Use:   "redirector",
	Short: "Start the redirect-serving service",
	RunE:  runRedirector,
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Start the analytics service and click consumer",
	RunE:  runAnalytics,
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := newStore(cfg.Cache, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	gateway, err := transport.NewGateway(transport.GatewayUpstreams{
		Shortener:  cfg.Gateway.ShortenerURL,
		Redirector: cfg.Gateway.RedirectorURL,
		Analytics:  cfg.Gateway.AnalyticsURL,
	}, log)
	if err != nil {
		return err
	}

	limiter := newLimiter(cfg.RateLimit, store, log)
	router := transport.NewGatewayRouter(gateway, limiter, log)
	return runServer(transport.NewServer(cfg.Server.Port, router, log), log)
}

func runShortener(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := gormdb.Open(gormdb.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN()})
	if err != nil {
		return err
	}
	defer func() { _ = gormdb.Close(db) }()

	store, err := newStore(cfg.Cache, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	repo := gormdb.NewURLStore(db)
	urlCache := cache.NewURLCache(store, log, cfg.Cache.LookupTTL, cfg.Cache.RedirectTTL)
	svc := service.NewShortener(repo, urlCache, shortcode.NewRandomGenerator(), log)

	handler := transport.NewShortenerHandler(svc, cfg.Server.BaseURL, log)
	limiter := newLimiter(cfg.RateLimit, store, log)
	router := transport.NewShortenerRouter(handler, limiter, dependencyChecks(db, store), log)
	return runServer(transport.NewServer(cfg.Server.Port, router, log), log)
}

func runRedirector(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := gormdb.Open(gormdb.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN()})
	if err != nil {
		return err
	}
	defer func() { _ = gormdb.Close(db) }()

	store, err := newStore(cfg.Cache, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var publisher events.ClickPublisher
	if cfg.Kafka.Enabled {
		publisher, err = events.NewKafkaClickPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return err
		}
		defer func() { _ = publisher.Close() }()
	}

	repo := gormdb.NewURLStore(db)
	urlCache := cache.NewURLCache(store, log, cfg.Cache.LookupTTL, cfg.Cache.RedirectTTL)
	svc := service.NewRedirector(repo, urlCache, store, publisher, cfg.Server.IPSalt, log)

	handler := transport.NewRedirectorHandler(svc, log)
	limiter := newLimiter(cfg.RateLimit, store, log)
	router := transport.NewRedirectorRouter(handler, limiter, dependencyChecks(db, store), log)
	return runServer(transport.NewServer(cfg.Server.Port, router, log), log)
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := gormdb.Open(gormdb.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN()})
	if err != nil {
		return err
	}
	defer func() { _ = gormdb.Close(db) }()

	store, err := newStore(cfg.Cache, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	urls := gormdb.NewURLStore(db)
	clicks := gormdb.NewClickStore(db)
	svc := service.NewAnalytics(urls, clicks, store, log)

	// The click consumer runs alongside the reporting API and stops with it.
	consumerCtx, cancelConsumer := context.WithCancel(cmd.Context())
	defer cancelConsumer()
	if cfg.Kafka.Enabled {
		consumer, err := events.NewClickConsumer(events.ConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}, log)
		if err != nil {
			return err
		}
		defer func() { _ = consumer.Close() }()

		go func() {
			if err := consumer.Run(consumerCtx, svc.ProcessClick); err != nil {
				log.Error("click consumer stopped", zap.Error(err))
			}
		}()
	}

	handler := transport.NewAnalyticsHandler(svc, log)
	limiter := newLimiter(cfg.RateLimit, store, log)
	router := transport.NewAnalyticsRouter(handler, limiter, dependencyChecks(db, store), log)
	return runServer(transport.NewServer(cfg.Server.Port, router, log), log)
}
