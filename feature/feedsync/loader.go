package feedsync

import (
	"booking-sync/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	scheduler *Scheduler
	handler   *Handler
}

// NewFeature creates the feed sync feature.
func NewFeature(scheduler *Scheduler, archiver *storage.Archiver, logger *zap.Logger) *Feature {
	return &Feature{scheduler: scheduler, handler: NewHandler(scheduler, archiver, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "feedsync"
}

// IsEnabled reports whether any feed is configured.
func (f *Feature) IsEnabled() bool {
	return f.scheduler != nil && len(f.scheduler.syncer.Feeds()) > 0
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
