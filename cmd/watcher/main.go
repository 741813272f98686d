package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/hyperwatch/internal/api"
	"github.com/rickgao/hyperwatch/internal/config"
	"github.com/rickgao/hyperwatch/internal/database"
	"github.com/rickgao/hyperwatch/internal/dedup"
	"github.com/rickgao/hyperwatch/internal/httpapi"
	"github.com/rickgao/hyperwatch/internal/market"
	"github.com/rickgao/hyperwatch/internal/metrics"
	"github.com/rickgao/hyperwatch/internal/model"
	"github.com/rickgao/hyperwatch/internal/notify"
	"github.com/rickgao/hyperwatch/internal/poller"
	"github.com/rickgao/hyperwatch/internal/storage"
	"github.com/rickgao/hyperwatch/internal/storage/memory"
	"github.com/rickgao/hyperwatch/internal/storage/postgres"
	"github.com/rickgao/hyperwatch/internal/storage/redisstore"
	"github.com/rickgao/hyperwatch/internal/twap"
	"github.com/rickgao/hyperwatch/internal/version"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file (optional; defaults and environment apply without one)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting watcher",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.URL,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("watcher failed", "error", err)
		os.Exit(1)
	}
	logger.Info("watcher stopped")
}

func run(cfg *config.WatcherConfig, logger *slog.Logger) error {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	checks := make(map[string]storage.Pinger)

	// Storage
	var pool *pgxpool.Pool
	if cfg.Storage.Backend == config.BackendPostgres {
		db := cfg.Database.Postgres
		logger.Info("connecting to database", "host", db.Host, "port", db.Port, "database", db.Name)

		var err error
		pool, err = database.Connect(ctx, db)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		logger.Info("database connected")
	}

	subs, err := newSubscriptionStore(cfg, pool, checks)
	if err != nil {
		return err
	}

	processed, closeProcessed, err := newProcessedEventStore(cfg, pool, checks)
	if err != nil {
		return err
	}
	defer closeProcessed()

	sender, closeSender := newSender(cfg, logger)
	defer closeSender()

	// Upstream
	apiClient := api.NewClient(
		cfg.API.URL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
	)
	source := api.NewSource(apiClient, logger)

	// Core
	dispatcher := notify.NewDispatcher(notify.Config{
		LargeStakeThreshold: decimal.NewFromFloat(cfg.Alerts.LargeStakeThreshold),
		BroadcastBatchSize:  cfg.Alerts.BroadcastBatchSize,
		BroadcastBatchDelay: cfg.Alerts.BroadcastBatchDelay,
		MaxParallelSends:    cfg.Alerts.MaxParallelSends,
	}, subs, sender, logger, m)

	walletPoller := poller.New(poller.Config{
		Interval:       cfg.Poller.Interval,
		Lookback:       cfg.Poller.Lookback,
		Concurrency:    cfg.Poller.Concurrency,
		RequestTimeout: cfg.Poller.RequestTimeout,
		PruneAfter:     cfg.Poller.PruneAfter,
	},
		source,
		subs,
		dedup.NewGuard(processed, logger, m),
		twap.NewTracker(logger, m),
		dispatcher,
		logger,
		m,
	)

	var detector *market.Detector
	if !cfg.Listings.Disabled {
		onListings := market.ListingHandlerFunc(func(ctx context.Context, l model.Listings) error {
			_, err := dispatcher.Broadcast(ctx, model.NewListingNotification(l))
			return err
		})
		detector = market.NewDetector(market.Config{Interval: cfg.Listings.Interval},
			market.APISource{Client: apiClient}, onListings, logger, m)
	}

	// HTTP
	engine, srv := httpapi.NewServer(cfg.HTTP.Addr, checks, reg)
	httpapi.NewSubscriptionController(subs, cfg.Subscriptions.MaxWallets, logger).RegisterRoutes(engine.Group(""))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runService(gctx, walletPoller)
	})
	if detector != nil {
		g.Go(func() error {
			return runService(gctx, detector)
		})
	}
	g.Go(func() error {
		return httpapi.Serve(gctx, srv, logger)
	})

	logger.Info("watcher running",
		"instance_id", cfg.Instance.ID,
		"http_addr", cfg.HTTP.Addr,
		"storage", cfg.Storage.Backend,
		"dedup", cfg.Storage.DedupBackend,
		"notifier", cfg.Notifier.Backend,
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

type service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// runService starts svc and stops it once ctx is done.
func runService(ctx context.Context, svc service) error {
	if err := svc.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return svc.Stop(shutdownCtx)
}

func newSubscriptionStore(cfg *config.WatcherConfig, pool *pgxpool.Pool, checks map[string]storage.Pinger) (storage.SubscriptionStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		store := postgres.NewSubscriptionStore(pool)
		checks["postgres"] = store
		return store, nil
	case config.BackendMemory:
		return memory.NewSubscriptionStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func newProcessedEventStore(cfg *config.WatcherConfig, pool *pgxpool.Pool, checks map[string]storage.Pinger) (storage.ProcessedEventStore, func(), error) {
	switch cfg.Storage.DedupBackend {
	case config.BackendPostgres:
		return postgres.NewProcessedEventStore(pool), func() {}, nil
	case config.BackendRedis:
		client := redisstore.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		store := redisstore.NewProcessedEventStore(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL)
		checks["redis"] = store
		return store, func() { _ = client.Close() }, nil
	case config.BackendMemory:
		return memory.NewProcessedEventStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown dedup backend %q", cfg.Storage.DedupBackend)
	}
}

func newSender(cfg *config.WatcherConfig, logger *slog.Logger) (notify.Sender, func()) {
	if cfg.Notifier.Backend == config.NotifierKafka {
		ks := notify.NewKafkaSender(cfg.Notifier.Kafka.Brokers, cfg.Notifier.Kafka.Topic)
		return ks, func() {
			if err := ks.Close(); err != nil {
				logger.Warn("error closing kafka writer", "error", err)
			}
		}
	}
	return notify.NewLogSender(logger), func() {}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.Format) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
