package cache

import (
	"context"
	"slices"
	"sync"

	"booking-sync/core/booking"
)

// MonthFetcher loads the availability grid for one month.
type MonthFetcher func(ctx context.Context, m booking.Month) ([]booking.CalendarDay, error)

// Slice names used in transitions and logs.
const (
	SliceReservations = "reservations"
	SliceExternal     = "external"
	slicePrefixMonth  = "availability:"
)

// Store groups the engine's cached slices.
type Store struct {
	Reservations *Slice[[]booking.Stay]
	External     *Slice[[]booking.Stay]

	fetchMonth MonthFetcher
	opts       []Option
	hub        *hub

	mu     sync.Mutex
	months map[booking.Month]*Slice[[]booking.CalendarDay]
}

// NewStore creates a store with empty slices. Month slices are created on
// first access.
func NewStore(reservations, external Fetcher[[]booking.Stay], months MonthFetcher, opts ...Option) *Store {
	h := newHub()
	opts = append(opts, withHub(h))

	return &Store{
		Reservations: NewSlice(SliceReservations, reservations, booking.CloneStays, opts...),
		External:     NewSlice(SliceExternal, external, booking.CloneStays, opts...),
		fetchMonth:   months,
		opts:         opts,
		hub:          h,
		months:       make(map[booking.Month]*Slice[[]booking.CalendarDay]),
	}
}

// Month returns the availability slice for m.
func (s *Store) Month(m booking.Month) *Slice[[]booking.CalendarDay] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slice, ok := s.months[m]; ok {
		return slice
	}
	slice := NewSlice(slicePrefixMonth+m.String(), func(ctx context.Context) ([]booking.CalendarDay, error) {
		return s.fetchMonth(ctx, m)
	}, cloneDays, s.opts...)
	s.months[m] = slice
	return slice
}

// Months returns the months that currently have a slice.
func (s *Store) Months() []booking.Month {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]booking.Month, 0, len(s.months))
	for m := range s.months {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b booking.Month) int {
		return b.First().DaysUntil(a.First())
	})
	return out
}

// InvalidateMonths resets the availability slices of the given months.
func (s *Store) InvalidateMonths(months ...booking.Month) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range months {
		if slice, ok := s.months[m]; ok {
			slice.Clear()
		}
	}
}

// InvalidateAvailability resets every availability slice.
func (s *Store) InvalidateAvailability() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slice := range s.months {
		slice.Clear()
	}
}

// Clear resets every slice to Empty.
func (s *Store) Clear() {
	s.Reservations.Clear()
	s.External.Clear()
	s.InvalidateAvailability()
}

// Subscribe streams transitions of every slice in the store.
func (s *Store) Subscribe() (<-chan Transition, func()) {
	return s.hub.subscribe()
}

func cloneDays(days []booking.CalendarDay) []booking.CalendarDay {
	return slices.Clone(days)
}
