package cmd

import (
	"context"
	"fmt"
	"time"

	"booking-sync/core/booking"
	"booking-sync/core/cache"
	"booking-sync/core/config"
	"booking-sync/core/database"
	"booking-sync/core/feed"
	"booking-sync/core/logger"
	"booking-sync/core/notify"
	"booking-sync/core/pricing"
	"booking-sync/core/reservations"
	"booking-sync/core/storage"
	"booking-sync/core/store"
	"booking-sync/core/telemetry"
	"booking-sync/feature/calendar"
	"booking-sync/feature/feedsync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds every component built from the configuration. Commands share
// it so that the CLI and the server run the same wiring.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	loc    *time.Location

	db        *gorm.DB
	redis     *redis.Client
	storage   storage.Client
	archiver  *storage.Archiver
	publisher notify.Publisher

	calc      *pricing.Calculator
	calendar  *calendar.Service
	syncer    *feedsync.Syncer
	scheduler *feedsync.Scheduler

	stopTelemetry telemetry.Shutdown
}

// loadRuntime loads configuration and a logger, then builds the runtime.
func loadRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	return newRuntime(ctx, cfg, logg)
}

func newRuntime(ctx context.Context, cfg *config.Config, logg *zap.Logger) (*runtime, error) {
	rt := &runtime{cfg: cfg, logger: logg}

	loc, err := cfg.Engine.Location()
	if err != nil {
		return nil, err
	}
	rt.loc = loc

	rt.stopTelemetry, err = telemetry.Init(ctx, cfg.Telemetry, version)
	if err != nil {
		logg.Warn("Tracing disabled", zap.Error(err))
		rt.stopTelemetry = func(context.Context) error { return nil }
	}

	// Database holds the engine tables and is required.
	rt.db, err = database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.Migrate(rt.db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	feeds := cfg.Sync.Feeds()

	var external store.ExternalStore = store.NewGormExternalStore(rt.db)
	if cfg.Redis.Enabled {
		rt.redis, err = store.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		platforms := make([]booking.Channel, 0, len(feeds))
		for _, f := range feeds {
			platforms = append(platforms, f.Platform)
		}
		external = store.NewRedisExternalStore(rt.redis, cfg.Redis.KeyPrefix, platforms)
		logg.Info("Using redis for external bookings", zap.String("addr", cfg.Redis.Addr))
	}

	if cfg.Storage.Enabled {
		rt.storage, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		rt.archiver = storage.NewArchiver(rt.storage, cfg.Storage.Bucket, cfg.Storage.ArchivePrefix, cfg.Storage.Retention, logg)
		if err := rt.archiver.EnsureBucket(ctx); err != nil {
			logg.Warn("Snapshot bucket unavailable", zap.Error(err))
		}
	}

	rt.publisher, err = notify.New(cfg.Broker, logg)
	if err != nil {
		logg.Warn("Event publishing disabled", zap.Error(err))
		rt.publisher = notify.Nop{}
	}

	rt.calc = pricing.NewCalculator(cfg.Pricing.Rates())
	rt.calendar = calendar.NewService(
		reservations.NewClient(cfg.Reservations, logg),
		external,
		store.NewMarkStore(rt.db),
		rt.calc,
		loc,
		logg,
		cache.WithValidity(cfg.Engine.CacheValidity()),
	)

	rt.syncer = feedsync.NewSyncer(
		feeds,
		feed.NewHTTPSource(cfg.Sync.FeedTimeout()),
		feed.NewParser(loc, logg),
		external,
		rt.archiver,
		cfg.Sync.FeedTimeout(),
		logg,
	)

	schedule, err := feedsync.NewSchedule(cfg.Sync.FirstHour, cfg.Sync.SecondHour, loc)
	if err != nil {
		return nil, err
	}
	rt.scheduler = feedsync.NewScheduler(rt.syncer, feedsync.SchedulerOptions{
		Schedule:   schedule,
		State:      store.NewSyncStateStore(rt.db),
		Cache:      rt.calendar.Cache(),
		Publisher:  rt.publisher,
		RunOnStart: cfg.Sync.RunOnStart,
		Logger:     logg,
	})

	return rt, nil
}

// Close releases connections. Errors are logged.
func (rt *runtime) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rt.stopTelemetry(ctx); err != nil {
		rt.logger.Warn("Failed to flush traces", zap.Error(err))
	}
	if err := rt.publisher.Close(); err != nil {
		rt.logger.Warn("Failed to close publisher", zap.Error(err))
	}
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if sqlDB, err := rt.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = rt.logger.Sync()
}
