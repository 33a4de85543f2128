package feedsync

import (
	"errors"

	"booking-sync/core/booking"
	"booking-sync/core/logger"
	"booking-sync/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for feed synchronization.
type Handler struct {
	scheduler *Scheduler
	archiver  *storage.Archiver
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler. archiver may be nil.
func NewHandler(scheduler *Scheduler, archiver *storage.Archiver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{scheduler: scheduler, archiver: archiver, logger: logger}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/", h.HandleSync)
	group.Get("/last", h.HandleLast)
	group.Get("/archive/:platform", h.HandleArchive)
}

// HandleSync runs a feed sync.
// @Summary Sync Calendar Feeds
// @Description Fetches every configured calendar feed and replaces the stored external stays. With async=true the run is queued and the call returns immediately.
// @Tags sync
// @Produce json
// @Param async query boolean false "Queue the run instead of waiting"
// @Success 200 {object} feedsync.Report
// @Success 202 {object} map[string]string "Queued"
// @Router /sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	if c.QueryBool("async") {
		h.scheduler.Trigger()
		l.Info("Feed sync queued")
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "queued"})
	}

	l.Info("Running feed sync")
	report := h.scheduler.RunNow(c.UserContext())
	return c.JSON(fiber.Map{
		"ok":          report.OK(),
		"message":     report.Message(),
		"started_at":  report.StartedAt,
		"finished_at": report.FinishedAt,
		"sources":     report.Sources,
	})
}

// HandleLast returns the most recent sync report.
// @Summary Last Sync Report
// @Tags sync
// @Produce json
// @Success 200 {object} feedsync.Report
// @Failure 404 {object} map[string]string "No sync has run yet"
// @Router /sync/last [get]
func (h *Handler) HandleLast(c *fiber.Ctx) error {
	report, ok := h.scheduler.Last()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No sync has run yet"})
	}
	return c.JSON(fiber.Map{
		"ok":          report.OK(),
		"message":     report.Message(),
		"started_at":  report.StartedAt,
		"finished_at": report.FinishedAt,
		"sources":     report.Sources,
		"next_run":    h.scheduler.Next(),
	})
}

// HandleArchive returns the newest archived feed document of a platform.
// @Summary Latest Feed Snapshot
// @Tags sync
// @Produce plain
// @Param platform path string true "Platform (airbnb, booking_com)"
// @Success 200 {string} string "iCalendar document"
// @Failure 404 {object} map[string]string "No snapshot"
// @Failure 503 {object} map[string]string "Archiving disabled"
// @Router /sync/archive/{platform} [get]
func (h *Handler) HandleArchive(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	if h.archiver == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Feed archiving is disabled"})
	}
	platform := booking.ParseChannel(c.Params("platform"))
	if !platform.IsExternal() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown platform"})
	}

	snap, body, err := h.archiver.Latest(c.UserContext(), platform)
	if errors.Is(err, storage.ErrNoSnapshot) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Failed to read snapshot", zap.String("platform", string(platform)), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("X-Snapshot-Key", snap.Key)
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	return c.SendString(body)
}
