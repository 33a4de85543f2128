package calendar

import (
	"errors"
	"time"

	"booking-sync/core/availability"
	"booking-sync/core/booking"
	"booking-sync/core/cache"
	"booking-sync/core/logger"
	"booking-sync/core/reservations"
	"booking-sync/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reservations and availability.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the calendar routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	res := app.Group("/reservations")
	res.Get("/", h.HandleReservations)
	res.Get("/external", h.HandleExternal)
	res.Get("/all", h.HandleAll)
	res.Get("/:id/balance", h.HandleBalance)
	res.Post("/:id/accept", h.HandleAccept)
	res.Post("/:id/decline", h.HandleDecline)

	av := app.Group("/availability")
	av.Put("/", h.HandleUpdateMarks)
	av.Get("/date/:date", h.HandleClassify)
	av.Get("/:month", h.HandleMonth)
	av.Post("/:month/preload", h.HandlePreload)

	app.Post("/refresh", h.HandleRefresh)
	app.Delete("/cache", h.HandleClearCache)
}

// stayResult is the envelope of a cached stay list.
type stayResult struct {
	Data      []booking.Stay `json:"data"`
	FetchedAt time.Time      `json:"fetched_at"`
	Cached    bool           `json:"cached"`
	Stale     bool           `json:"stale"`
	Error     string         `json:"error,omitempty"`
}

// monthResult is the envelope of a cached month grid.
type monthResult struct {
	Month     string                    `json:"month"`
	Days      []booking.CalendarDay     `json:"days"`
	Counts    map[booking.DayStatus]int `json:"counts"`
	FetchedAt time.Time                 `json:"fetched_at"`
	Cached    bool                      `json:"cached"`
	Stale     bool                      `json:"stale"`
	Error     string                    `json:"error,omitempty"`
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func newStayResult(r cache.Result[[]booking.Stay]) stayResult {
	return stayResult{Data: r.Data, FetchedAt: r.FetchedAt, Cached: r.Cached, Stale: r.Stale, Error: errString(r.Err)}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, reservations.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, booking.ErrInvalidMonth), errors.Is(err, booking.ErrInvalidDate),
		errors.Is(err, store.ErrInvalidRange):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNoBalance):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, cache.ErrNoData):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

// HandleReservations lists direct reservations.
// @Summary List Reservations
// @Description Returns the cached direct reservations. Stale data is returned with stale=true when the last refresh failed.
// @Tags reservations
// @Produce json
// @Param force query boolean false "Bypass the cache"
// @Success 200 {object} calendar.stayResult
// @Failure 502 {object} map[string]string "Upstream unavailable"
// @Router /reservations [get]
func (h *Handler) HandleReservations(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	r, err := h.service.GetReservations(c.UserContext(), c.QueryBool("force"))
	if err != nil {
		l.Error("Failed to get reservations", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(newStayResult(r))
}

// HandleExternal lists stays synthesized from calendar feeds.
// @Summary List External Bookings
// @Description Returns the stays imported from Airbnb and Booking.com calendar feeds.
// @Tags reservations
// @Produce json
// @Param force query boolean false "Bypass the cache"
// @Success 200 {object} calendar.stayResult
// @Failure 502 {object} map[string]string "Store unavailable"
// @Router /reservations/external [get]
func (h *Handler) HandleExternal(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	r, err := h.service.GetExternalBookings(c.UserContext(), c.QueryBool("force"))
	if err != nil {
		l.Error("Failed to get external bookings", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(newStayResult(r))
}

// HandleAll returns the deduplicated union of direct and external stays.
// @Summary List All Stays
// @Description Merges direct and external stays, dropping platform echoes and cross-platform duplicates.
// @Tags reservations
// @Produce json
// @Param force query boolean false "Bypass the cache"
// @Success 200 {object} calendar.Combined
// @Failure 502 {object} map[string]string "Upstream unavailable"
// @Router /reservations/all [get]
func (h *Handler) HandleAll(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	all, err := h.service.GetAllReservations(c.UserContext(), c.QueryBool("force"))
	if err != nil {
		l.Error("Failed to combine reservations", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(all)
}

// HandleBalance prices a reservation against its payment.
// @Summary Reservation Balance
// @Description Computes the expected price of a reservation and compares it with the paid amount.
// @Tags reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} pricing.PendingBalance
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 422 {object} map[string]string "No balance information"
// @Router /reservations/{id}/balance [get]
func (h *Handler) HandleBalance(c *fiber.Ctx) error {
	balance, err := h.service.ReconcileBalance(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(balance)
}

// HandleAccept approves a reservation.
// @Summary Accept Reservation
// @Tags reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Not Found"
// @Router /reservations/{id}/accept [post]
func (h *Handler) HandleAccept(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := c.Params("id")

	if err := h.service.Accept(c.UserContext(), id); err != nil {
		l.Error("Failed to accept reservation", zap.String("id", id), zap.Error(err))
		return fail(c, err)
	}
	l.Info("Reservation accepted", zap.String("id", id))
	return c.JSON(fiber.Map{"status": "accepted", "id": id})
}

// HandleDecline rejects a reservation.
// @Summary Decline Reservation
// @Tags reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Not Found"
// @Router /reservations/{id}/decline [post]
func (h *Handler) HandleDecline(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := c.Params("id")

	if err := h.service.Decline(c.UserContext(), id); err != nil {
		l.Error("Failed to decline reservation", zap.String("id", id), zap.Error(err))
		return fail(c, err)
	}
	l.Info("Reservation declined", zap.String("id", id))
	return c.JSON(fiber.Map{"status": "declined", "id": id})
}

// HandleMonth returns the availability grid of a month.
// @Summary Month Availability
// @Description Returns one entry per day with status open, direct_booked, external_booked or admin_blocked.
// @Tags availability
// @Produce json
// @Param month path string true "Month (YYYY-MM)"
// @Param force query boolean false "Bypass the cache"
// @Success 200 {object} calendar.monthResult
// @Failure 400 {object} map[string]string "Invalid month"
// @Router /availability/{month} [get]
func (h *Handler) HandleMonth(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	m, err := booking.ParseMonth(c.Params("month"))
	if err != nil {
		return fail(c, err)
	}

	r, err := h.service.GetAvailability(c.UserContext(), m, c.QueryBool("force"))
	if err != nil {
		l.Error("Failed to get availability", zap.Stringer("month", m), zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(monthResult{
		Month:     m.String(),
		Days:      r.Data,
		Counts:    availability.Counts(r.Data),
		FetchedAt: r.FetchedAt,
		Cached:    r.Cached,
		Stale:     r.Stale,
		Error:     errString(r.Err),
	})
}

// HandlePreload warms the given month and its neighbours.
// @Summary Preload Adjacent Months
// @Tags availability
// @Produce json
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid month"
// @Router /availability/{month}/preload [post]
func (h *Handler) HandlePreload(c *fiber.Ctx) error {
	m, err := booking.ParseMonth(c.Params("month"))
	if err != nil {
		return fail(c, err)
	}
	months := h.service.PreloadAdjacentMonths(c.UserContext(), m)
	names := make([]string, len(months))
	for i, pm := range months {
		names[i] = pm.String()
	}
	return c.JSON(fiber.Map{"status": "preloaded", "months": names})
}

// HandleClassify returns the status of one date.
// @Summary Classify Date
// @Tags availability
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} booking.CalendarDay
// @Failure 400 {object} map[string]string "Invalid date"
// @Router /availability/date/{date} [get]
func (h *Handler) HandleClassify(c *fiber.Ctx) error {
	d, err := booking.ParseDate(c.Params("date"))
	if err != nil {
		return fail(c, err)
	}
	day, err := h.service.Classify(c.UserContext(), d)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(day)
}

// HandleUpdateMarks sets admin availability marks.
// @Summary Update Availability Marks
// @Description Sets the admin mark of every date in [from, to], both ends included.
// @Tags availability
// @Accept json
// @Produce json
// @Param body body calendar.MarkUpdate true "Mark update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /availability [put]
func (h *Handler) HandleUpdateMarks(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req MarkUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.From.IsZero() || req.To.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from and to are required"})
	}
	switch req.Status {
	case booking.MarkOpen, booking.MarkClosed, booking.MarkBooked:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status must be open, closed or booked"})
	}

	months, err := h.service.UpdateMarks(c.UserContext(), req)
	if err != nil {
		l.Error("Failed to update marks", zap.Error(err))
		return fail(c, err)
	}
	names := make([]string, len(months))
	for i, m := range months {
		names[i] = m.String()
	}
	return c.JSON(fiber.Map{"status": "updated", "months": names})
}

// HandleRefresh force-refreshes every cached slice.
// @Summary Refresh All
// @Description Refetches reservations, external bookings and every loaded month. Per-slice failures are reported, not raised.
// @Tags cache
// @Produce json
// @Success 200 {object} calendar.RefreshReport
// @Router /refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering full refresh")

	return c.JSON(h.service.RefreshAll(c.UserContext()))
}

// HandleClearCache drops all cached data.
// @Summary Clear Cache
// @Tags cache
// @Produce json
// @Success 200 {object} map[string]string
// @Router /cache [delete]
func (h *Handler) HandleClearCache(c *fiber.Ctx) error {
	h.service.ClearCache()
	return c.JSON(fiber.Map{"status": "cleared"})
}
