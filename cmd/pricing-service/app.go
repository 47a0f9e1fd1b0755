package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/Cheertaboi/promo-pricing-service/internal/cache"
	"github.com/Cheertaboi/promo-pricing-service/internal/config"
	"github.com/Cheertaboi/promo-pricing-service/internal/events"
	"github.com/Cheertaboi/promo-pricing-service/internal/metrics"
	"github.com/Cheertaboi/promo-pricing-service/internal/pricing"
	"github.com/Cheertaboi/promo-pricing-service/internal/repository"
	"github.com/Cheertaboi/promo-pricing-service/internal/service"
	"github.com/Cheertaboi/promo-pricing-service/pkg/db"
)

// app owns every long-lived resource so main can release them in one place.
type app struct {
	registry *prometheus.Registry
	offers   *service.OfferService
	pricing  *service.PricingService

	closers []func() error
	logger  *slog.Logger
}

func buildApp(ctx context.Context, cfg *config.Config, lg *slog.Logger) (*app, error) {
	a := &app{registry: prometheus.NewRegistry(), logger: lg}
	ready := false
	defer func() {
		if !ready {
			a.Close()
		}
	}()

	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewPricingMetrics(a.registry)

	offerRepo, catalog, err := a.buildStorage(cfg)
	if err != nil {
		return nil, err
	}

	snapshots, err := a.buildCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled() {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OfferTopic)
		a.closers = append(a.closers, kp.Close)
		publisher = kp

		sub := events.NewSubscriber(cfg.Kafka.Brokers, cfg.Kafka.OfferTopic, snapshots, lg)
		a.closers = append(a.closers, sub.Close)
		go sub.Run(ctx)
	}

	a.offers = service.NewOfferService(offerRepo, snapshots, publisher, m, lg)

	resolver := pricing.NewResolver(lg.With("component", "resolver"), m)
	projector := pricing.NewProjector(resolver,
		pricing.WithWorkers(cfg.Pricing.Workers),
		pricing.WithParallelThreshold(cfg.Pricing.ParallelThreshold),
	)
	a.pricing = service.NewPricingService(catalog, a.offers, projector, m, lg)
	ready = true
	return a, nil
}

func (a *app) buildStorage(cfg *config.Config) (service.OfferRepository, service.CatalogRepository, error) {
	if cfg.Storage.Driver == config.StoragePostgres {
		conn, err := db.NewPostgresConnection(cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		a.closers = append(a.closers, conn.Close)
		if err := db.RunMigrations(conn, cfg.Storage.MigrationsPath); err != nil {
			return nil, nil, err
		}
		return repository.NewOfferRepo(conn), repository.NewProductRepo(conn), nil
	}

	catalog := repository.NewMemoryCatalog(nil)
	if cfg.Storage.CatalogSeedPath != "" {
		seeded, err := repository.LoadCatalogFile(cfg.Storage.CatalogSeedPath)
		if err != nil {
			return nil, nil, err
		}
		catalog = seeded
	}
	return repository.NewMemoryOfferRepo(), catalog, nil
}

func (a *app) buildCache(ctx context.Context, cfg *config.Config) (cache.SnapshotCache, error) {
	switch cfg.Cache.Driver {
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return cache.NewRedisCache(client, cfg.Cache.TTL), nil
	case config.CacheNone:
		return cache.Nop{}, nil
	default:
		return cache.NewMemoryCache(cfg.Cache.TTL), nil
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close resource", "error", err)
		}
	}
	a.closers = nil
}

