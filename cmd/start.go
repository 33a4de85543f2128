package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"booking-sync/core/loader"
	"booking-sync/core/logger"
	"booking-sync/core/middleware/auth"
	"booking-sync/core/middleware/rayid"
	"booking-sync/feature/calendar"
	"booking-sync/feature/feedsync"
	"booking-sync/feature/health"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "booking-sync/docs/swagger"
)

// @title Booking Sync API
// @version 1.0
// @description Deduplicated reservations, availability and calendar feed sync.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the booking sync server",
	Long:  `Starts the HTTP server, the feed sync scheduler and all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// 1. Configuration, logger and components
		rt, err := loadRuntime(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer rt.Close()
		logg := rt.logger
		cfg := rt.cfg

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			ReadTimeout:           cfg.Server.ReadTimeout(),
			WriteTimeout:          cfg.Server.WriteTimeout(),
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
		})

		// 3. Initialize Feature Loader
		mgr := loader.NewManager(logg)
		mgr.Register(health.NewFeature(rt.storage, rt.archiver, rt.db, rt.syncer.Feeds(), logg))
		mgr.Register(calendar.NewFeature(rt.calendar))
		mgr.Register(feedsync.NewFeature(rt.scheduler, rt.archiver, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API). Liveness stays public for probes.
		if !cfg.Server.AuthEnabled() {
			logg.Warn("API key not set, authentication disabled")
		}
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, SkipPrefixes: []string{"/health/live"}}))

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Feed sync scheduler
		if len(rt.syncer.Feeds()) > 0 {
			go func() {
				if err := rt.scheduler.Start(ctx); err != nil {
					logg.Error("Feed sync scheduler stopped", zap.Error(err))
				}
			}()
		} else {
			logg.Warn("No calendar feeds configured, feed sync disabled")
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("addr", cfg.Server.Addr()), zap.String("version", version))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		cancel()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
