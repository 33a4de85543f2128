package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"booking-sync/core/availability"
	"booking-sync/core/booking"
	"booking-sync/core/cache"
	"booking-sync/core/pricing"
	"booking-sync/core/reconcile"
	"booking-sync/core/store"
	"booking-sync/core/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoBalance is returned when a stay lacks the inputs needed for pricing.
var ErrNoBalance = errors.New("no balance information")

// ReservationSource is the authoritative reservation API.
type ReservationSource interface {
	FetchAll(ctx context.Context, status *booking.StayStatus, checkIn *booking.Date) ([]booking.Stay, error)
	FetchByID(ctx context.Context, id string) (booking.Stay, error)
	Accept(ctx context.Context, id string) error
	Decline(ctx context.Context, id string) error
}

// MarkSource stores admin availability marks.
type MarkSource interface {
	FetchRange(ctx context.Context, from, to booking.Date) ([]booking.AvailabilityMark, error)
	Update(ctx context.Context, from, to booking.Date, status booking.MarkStatus, source string, roomID *string) ([]booking.Month, error)
}

// Combined is the deduplicated view over direct and external stays.
type Combined struct {
	Stays   []booking.Stay        `json:"data"`
	Summary reconcile.PlanSummary `json:"summary"`
	Actions []reconcile.Action    `json:"actions"`
	Stale   bool                  `json:"stale"`
}

// RefreshReport lists the outcome of every slice refreshed by RefreshAll.
// Failed maps slice names to their error message.
type RefreshReport struct {
	Refreshed []string          `json:"refreshed"`
	Failed    map[string]string `json:"failed"`
}

// MarkUpdate is a request to set admin marks over [From, To].
type MarkUpdate struct {
	From   booking.Date       `json:"from"`
	To     booking.Date       `json:"to"`
	Status booking.MarkStatus `json:"status"`
	RoomID *string            `json:"room_id,omitempty"`
}

// Service is the read/write surface over the cached booking data.
type Service struct {
	reservations ReservationSource
	external     store.ExternalStore
	marks        MarkSource
	engine       *reconcile.Engine
	calc         *pricing.Calculator
	cache        *cache.Store
	loc          *time.Location
	logger       *zap.Logger
}

// NewService wires the sources into a cache store.
func NewService(reservations ReservationSource, external store.ExternalStore, marks MarkSource, calc *pricing.Calculator, loc *time.Location, logger *zap.Logger, opts ...cache.Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	if calc == nil {
		calc = pricing.NewCalculator(pricing.DefaultRates())
	}
	s := &Service{
		reservations: reservations,
		external:     external,
		marks:        marks,
		engine:       reconcile.NewEngine(logger),
		calc:         calc,
		loc:          loc,
		logger:       logger,
	}
	opts = append([]cache.Option{cache.WithLogger(logger)}, opts...)
	s.cache = cache.NewStore(s.fetchReservations, s.fetchExternal, s.fetchMonth, opts...)
	return s
}

// Cache exposes the underlying cache store.
func (s *Service) Cache() *cache.Store { return s.cache }

// Location returns the reference time zone.
func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) fetchReservations(ctx context.Context) ([]booking.Stay, error) {
	return s.reservations.FetchAll(ctx, nil, nil)
}

func (s *Service) fetchExternal(ctx context.Context) ([]booking.Stay, error) {
	return s.external.List(ctx)
}

func (s *Service) fetchMonth(ctx context.Context, m booking.Month) ([]booking.CalendarDay, error) {
	all, err := s.GetAllReservations(ctx, false)
	if err != nil {
		return nil, err
	}
	marks, err := s.marks.FetchRange(ctx, m.First(), m.End())
	if err != nil {
		return nil, fmt.Errorf("fetch marks for %s: %w", m, err)
	}
	return availability.NewIndex(all.Stays, marks).Month(m), nil
}

// GetReservations returns the direct reservations.
func (s *Service) GetReservations(ctx context.Context, force bool) (cache.Result[[]booking.Stay], error) {
	return s.cache.Reservations.Get(ctx, force)
}

// GetExternalBookings returns the stays synthesized from calendar feeds.
func (s *Service) GetExternalBookings(ctx context.Context, force bool) (cache.Result[[]booking.Stay], error) {
	return s.cache.External.Get(ctx, force)
}

// GetAllReservations fetches both stay slices concurrently and deduplicates
// them. Either slice failing without cached data fails the call.
func (s *Service) GetAllReservations(ctx context.Context, force bool) (*Combined, error) {
	ctx, span := telemetry.Start(ctx, "calendar.GetAllReservations", attribute.Bool("force", force))

	var direct, external cache.Result[[]booking.Stay]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		direct, err = s.cache.Reservations.Get(gctx, force)
		return err
	})
	g.Go(func() (err error) {
		external, err = s.cache.External.Get(gctx, force)
		return err
	})
	if err := g.Wait(); err != nil {
		telemetry.End(span, err)
		return nil, err
	}

	stays := make([]booking.Stay, 0, len(direct.Data)+len(external.Data))
	stays = append(stays, direct.Data...)
	stays = append(stays, external.Data...)
	plan := s.engine.Deduplicate(stays)
	span.SetAttributes(attribute.Int("stays.survivors", plan.Summary.Survivors))
	telemetry.End(span, nil)

	return &Combined{
		Stays:   plan.Stays,
		Summary: plan.Summary,
		Actions: plan.Actions,
		Stale:   direct.Stale || external.Stale,
	}, nil
}

// GetAvailability returns the day grid for m.
func (s *Service) GetAvailability(ctx context.Context, m booking.Month, force bool) (cache.Result[[]booking.CalendarDay], error) {
	return s.cache.Month(m).Get(ctx, force)
}

// PreloadAdjacentMonths warms the previous, current and next month in
// parallel. Failures are logged and do not fail the call.
func (s *Service) PreloadAdjacentMonths(ctx context.Context, m booking.Month) []booking.Month {
	months := []booking.Month{m.Prev(), m, m.Next()}
	var g errgroup.Group
	for _, adj := range months {
		g.Go(func() error {
			if _, err := s.cache.Month(adj).Get(ctx, false); err != nil {
				s.logger.Warn("Failed to preload month", zap.Stringer("month", adj), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
	return months
}

// Classify returns the status of a single date.
func (s *Service) Classify(ctx context.Context, d booking.Date) (booking.CalendarDay, error) {
	all, err := s.GetAllReservations(ctx, false)
	if err != nil {
		return booking.CalendarDay{}, err
	}
	marks, err := s.marks.FetchRange(ctx, d, d.AddDays(1))
	if err != nil {
		return booking.CalendarDay{}, fmt.Errorf("fetch marks for %s: %w", d, err)
	}
	return availability.Classify(d, all.Stays, marks), nil
}

// RefreshAll force-refreshes the stay slices and then every known month.
// Each task records its own failure so siblings always run to completion.
func (s *Service) RefreshAll(ctx context.Context) RefreshReport {
	ctx, span := telemetry.Start(ctx, "calendar.RefreshAll")
	defer span.End()

	report := RefreshReport{Failed: make(map[string]string)}
	var mu sync.Mutex
	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			report.Failed[name] = err.Error()
			return
		}
		report.Refreshed = append(report.Refreshed, name)
	}

	var g errgroup.Group
	g.Go(func() error {
		r, err := s.cache.Reservations.Get(ctx, true)
		record(cache.SliceReservations, staleErr(r, err))
		return nil
	})
	g.Go(func() error {
		r, err := s.cache.External.Get(ctx, true)
		record(cache.SliceExternal, staleErr(r, err))
		return nil
	})
	_ = g.Wait()

	for _, m := range s.cache.Months() {
		g.Go(func() error {
			r, err := s.cache.Month(m).Get(ctx, true)
			record("availability:"+m.String(), staleErr(r, err))
			return nil
		})
	}
	_ = g.Wait()

	span.SetAttributes(attribute.Int("refresh.failed", len(report.Failed)))
	if len(report.Failed) > 0 {
		s.logger.Warn("Refresh completed with failures", zap.Any("failed", report.Failed))
	} else {
		s.logger.Info("Refresh completed", zap.Int("slices", len(report.Refreshed)))
	}
	return report
}

// staleErr treats a stale result as a failed refresh.
func staleErr[T any](r cache.Result[T], err error) error {
	if err == nil && r.Stale {
		return r.Err
	}
	return err
}

// ClearCache resets every slice to empty.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.logger.Info("Cache cleared")
}

// ReconcileBalance prices the stay with the given ID against its payment.
func (s *Service) ReconcileBalance(ctx context.Context, id string) (*pricing.PendingBalance, error) {
	stay, err := s.reservations.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	balance := s.calc.Reconcile(stay)
	if balance == nil {
		return nil, fmt.Errorf("%w: stay %s", ErrNoBalance, id)
	}
	return balance, nil
}

// Accept approves a pending reservation.
func (s *Service) Accept(ctx context.Context, id string) error {
	if err := s.reservations.Accept(ctx, id); err != nil {
		return err
	}
	s.invalidateReservations()
	return nil
}

// Decline rejects a pending reservation.
func (s *Service) Decline(ctx context.Context, id string) error {
	if err := s.reservations.Decline(ctx, id); err != nil {
		return err
	}
	s.invalidateReservations()
	return nil
}

// invalidateReservations drops the reservation slice and every month derived
// from it.
func (s *Service) invalidateReservations() {
	s.cache.Reservations.Clear()
	s.cache.InvalidateAvailability()
}

// UpdateMarks writes admin marks and invalidates the affected months.
func (s *Service) UpdateMarks(ctx context.Context, u MarkUpdate) ([]booking.Month, error) {
	months, err := s.marks.Update(ctx, u.From, u.To, u.Status, booking.AdminSource, u.RoomID)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateMonths(months...)
	s.logger.Info("Availability marks updated",
		zap.Stringer("from", u.From),
		zap.Stringer("to", u.To),
		zap.String("status", string(u.Status)))
	return months, nil
}
